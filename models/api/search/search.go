package searchapimodels

import (
	"time"

	"talent-backend/models"
	apimodels "talent-backend/models/api"
	dbmodels "talent-backend/models/db"
)

// CandidateDocument - денормализованная проекция кандидата в поисковом индексе.
// Не является источником истины: полностью выводится из записи кандидата,
// поэтому индекс всегда можно перестроить заново (см. lib/search Resync).
type CandidateDocument struct {
	ID                     string   `json:"id"`
	TenantID               string   `json:"tenant_id"`
	FirstName              string   `json:"first_name"`
	LastName               string   `json:"last_name"`
	Email                  string   `json:"email"`
	Phone                  string   `json:"phone,omitempty"`
	Location               string   `json:"location,omitempty"`
	City                   string   `json:"city,omitempty"`
	Country                string   `json:"country,omitempty"`
	Status                 string   `json:"status"`
	PipelineStage          string   `json:"pipeline_stage,omitempty"`
	Summary                string   `json:"summary,omitempty"`
	YearsOfExperience      int      `json:"years_of_experience"`
	CurrentCompany         string   `json:"current_company,omitempty"`
	CurrentPosition        string   `json:"current_position,omitempty"`
	Skills                 []string `json:"skills,omitempty"`
	Certifications         []string `json:"certifications,omitempty"`
	Languages              []string `json:"languages,omitempty"`
	Source                 string   `json:"source,omitempty"`
	ExpectedSalary         float64  `json:"expected_salary"`
	SalaryCurrency         string   `json:"salary_currency,omitempty"`
	IsAvailable            bool     `json:"is_available"`
	IsRemoteInterested     bool     `json:"is_remote_interested"`
	IsRelocationInterested bool     `json:"is_relocation_interested"`
	Rating                 float64  `json:"rating"`
	CreatedAt              string   `json:"created_at,omitempty"`
	UpdatedAt              string   `json:"updated_at,omitempty"`
}

type SearchCriteria struct {
	Keywords           string                 `json:"keywords"`             // Поиск по ФИО/описанию/должности
	Skills             []string               `json:"skills"`               // Требуемые навыки
	Location           string                 `json:"location"`             // Локация
	MinExperience      *int                   `json:"min_experience"`       // Опыт от, лет
	MaxExperience      *int                   `json:"max_experience"`       // Опыт до, лет
	MinSalary          *float64               `json:"min_salary"`           // Ожидаемая ЗП от
	MaxSalary          *float64               `json:"max_salary"`           // Ожидаемая ЗП до
	IsRemoteInterested *bool                  `json:"is_remote_interested"` // Только готовые к удаленке
	Status             models.CandidateStatus `json:"status"`               // Фильтр по статусу
	PipelineStage      models.PipelineStage   `json:"pipeline_stage"`       // Фильтр по этапу
}

type SearchRequest struct {
	SearchCriteria
	apimodels.Pagination
}

func DocumentConvert(rec dbmodels.Candidate) CandidateDocument {
	return CandidateDocument{
		ID:                     rec.ID,
		TenantID:               rec.TenantID,
		FirstName:              rec.FirstName,
		LastName:               rec.LastName,
		Email:                  rec.Email,
		Phone:                  rec.Phone,
		Location:               rec.Location,
		City:                   rec.City,
		Country:                rec.Country,
		Status:                 string(rec.Status),
		PipelineStage:          string(rec.PipelineStage),
		Summary:                rec.Summary,
		YearsOfExperience:      rec.YearsOfExperience,
		CurrentCompany:         rec.CurrentCompany,
		CurrentPosition:        rec.CurrentPosition,
		Skills:                 rec.Skills,
		Certifications:         rec.Certifications,
		Languages:              rec.Languages,
		Source:                 string(rec.Source),
		ExpectedSalary:         rec.ExpectedSalary,
		SalaryCurrency:         rec.SalaryCurrency,
		IsAvailable:            rec.IsAvailable,
		IsRemoteInterested:     rec.IsRemoteInterested,
		IsRelocationInterested: rec.IsRelocationInterested,
		Rating:                 rec.Rating,
		CreatedAt:              rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              rec.UpdatedAt.Format(time.RFC3339),
	}
}
