package candidateapimodels

import (
	"time"

	apimodels "talent-backend/models/api"
	dbmodels "talent-backend/models/db"
)

type HistoryFilter struct {
	apimodels.Pagination
	ActionType dbmodels.ActionType `json:"action_type"` // Фильтр по типу действия
}

type HistoryView struct {
	ID          string                    `json:"id"`           // Идентификатор записи
	CandidateID string                    `json:"candidate_id"` // Идентификатор кандидата
	ActionType  dbmodels.ActionType       `json:"action_type"`  // Тип действия
	Status      string                    `json:"status"`       // Статус кандидата на момент действия
	Stage       string                    `json:"stage"`        // Этап кандидата на момент действия
	Changes     dbmodels.CandidateChanges `json:"changes"`      // Изменения
	CreatedAt   string                    `json:"created_at"`   // Время действия
}

func HistoryConvert(rec dbmodels.CandidateHistory) HistoryView {
	return HistoryView{
		ID:          rec.ID,
		CandidateID: rec.CandidateID,
		ActionType:  rec.ActionType,
		Status:      rec.Status,
		Stage:       rec.Stage,
		Changes:     rec.Changes,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}
