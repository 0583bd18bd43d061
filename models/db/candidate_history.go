package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

type CandidateHistory struct {
	BaseTenantModel
	CandidateID string           `gorm:"type:varchar(36);index"`
	ActionType  ActionType       `gorm:"type:varchar(255)"`
	Status      string           `gorm:"type:varchar(50)"`
	Stage       string           `gorm:"type:varchar(50)"`
	Changes     CandidateChanges `gorm:"type:jsonb"`
}

func (j CandidateChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *CandidateChanges) Scan(value interface{}) error {
	return jsonScan(value, j)
}

type CandidateChanges struct {
	Description string            `json:"description"` // Комментарий
	Data        []CandidateChange `json:"data"`        // Список изменений
}

type CandidateChange struct {
	Field    string      `json:"field"`     // Измененное поле
	OldValue interface{} `json:"old_value"` // Старое значение
	NewValue interface{} `json:"new_value"` // Новое значение
}

type ActionType string

const (
	HistoryTypeAdded       ActionType = "added"           // Кандидат добавлен
	HistoryTypeUpdate      ActionType = "update"          // Кандидат обновлен
	HistoryTypeStageChange ActionType = "stage_change"    // Кандидат переведен на другой этап
	HistoryTypeResume      ActionType = "resume_uploaded" // Загружено и разобрано резюме
	HistoryTypeDeleted     ActionType = "deleted"         // Кандидат удален
)
