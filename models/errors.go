package models

import "github.com/pkg/errors"

// Ошибки уровня предметной области. Сравниваются через errors.Is,
// контроллер отображает их в HTTP статусы.
var (
	ErrNotFound        = errors.New("кандидат не найден")
	ErrConflict        = errors.New("кандидат с таким email уже существует")
	ErrVersionConflict = errors.New("запись изменена другим пользователем, обновите данные и повторите")
	ErrTransition      = errors.New("недопустимый переход по этапам подбора")
)
