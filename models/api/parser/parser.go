package parserapimodels

import dbmodels "talent-backend/models/db"

const (
	StatusOk       = "ok"
	StatusFallback = "fallback"
)

// ParseResult - результат обращения к сервису разбора резюме.
// Вызывающий всегда получает корректное значение: при недоступности
// сервиса возвращается детерминированная заглушка, а не ошибка.
type ParseResult struct {
	Status      string              `json:"status"`
	Message     string              `json:"message,omitempty"`
	CandidateID string              `json:"candidate_id"`
	Data        dbmodels.ResumeData `json:"data,omitempty"`
}

func NewFallback(candidateID string) ParseResult {
	return ParseResult{
		Status:      StatusFallback,
		Message:     "manual review required",
		CandidateID: candidateID,
	}
}

func (r ParseResult) IsFallback() bool {
	return r.Status == StatusFallback
}

// ToResumeData - содержимое для поля resume_data кандидата.
// Для заглушки сохраняем признак, что резюме ждет ручного разбора.
func (r ParseResult) ToResumeData() dbmodels.ResumeData {
	if r.IsFallback() {
		return dbmodels.ResumeData{
			"status":       r.Status,
			"message":      r.Message,
			"candidate_id": r.CandidateID,
		}
	}
	return r.Data
}
