package candidateapimodels

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"talent-backend/models"
	apimodels "talent-backend/models/api"
	dbmodels "talent-backend/models/db"
)

type CandidateData struct {
	FirstName         string                 `json:"first_name"`          // Имя
	LastName          string                 `json:"last_name"`           // Фамилия
	Email             string                 `json:"email"`               // Емайл, уникален в рамках тенанта
	Phone             string                 `json:"phone"`               // Телефон
	Location          string                 `json:"location"`            // Локация
	City              string                 `json:"city"`                // Город
	Country           string                 `json:"country"`             // Страна
	Source            models.CandidateSource `json:"source"`              // Источник кандидата
	ReferredBy        string                 `json:"referred_by"`         // Кто порекомендовал
	Summary           string                 `json:"summary"`             // Краткое описание
	YearsOfExperience int                    `json:"years_of_experience"` // Опыт работы в годах
	CurrentCompany    string                 `json:"current_company"`     // Текущая компания
	CurrentPosition   string                 `json:"current_position"`    // Текущая должность
	ExpectedSalary    float64                `json:"expected_salary"`     // Ожидаемая ЗП
	SalaryCurrency    string                 `json:"salary_currency"`     // Валюта ЗП
	NoticePeriodDays  int                    `json:"notice_period_days"`  // Срок выхода в днях

	Skills         []string                 `json:"skills"`          // Навыки
	Education      map[string]interface{}   `json:"education"`       // Образование
	WorkExperience []map[string]interface{} `json:"work_experience"` // Опыт работы
	Certifications []string                 `json:"certifications"`  // Сертификаты
	Languages      []string                 `json:"languages"`       // Языки
	CustomFields   map[string]interface{}   `json:"custom_fields"`   // Дополнительные поля

	LinkedinURL  string `json:"linkedin_url"`
	GithubURL    string `json:"github_url"`
	PortfolioURL string `json:"portfolio_url"`

	IsAvailable            bool `json:"is_available"`             // Доступен для предложений
	IsRemoteInterested     bool `json:"is_remote_interested"`     // Готов к удаленной работе
	IsRelocationInterested bool `json:"is_relocation_interested"` // Готов к переезду
}

func (c CandidateData) Validate() error {
	if c.FirstName == "" {
		return errors.New("не указано имя кандидата")
	}
	if c.LastName == "" {
		return errors.New("не указана фамилия кандидата")
	}
	if c.Email == "" {
		return errors.New("не указан email кандидата")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("некорректный email кандидата")
	}
	return nil
}

// ToDBModel - новая запись кандидата в начальном состоянии воронки
func (c CandidateData) ToDBModel(tenantID string) dbmodels.Candidate {
	return dbmodels.Candidate{
		BaseTenantModel: dbmodels.BaseTenantModel{
			TenantID: tenantID,
		},
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		Location:          c.Location,
		City:              c.City,
		Country:           c.Country,
		Status:            models.CandidateStatusNew,
		PipelineStage:     models.PipelineStageApplied,
		Source:            c.Source,
		ReferredBy:        c.ReferredBy,
		Summary:           c.Summary,
		YearsOfExperience: c.YearsOfExperience,
		CurrentCompany:    c.CurrentCompany,
		CurrentPosition:   c.CurrentPosition,
		ExpectedSalary:    c.ExpectedSalary,
		SalaryCurrency:    c.SalaryCurrency,
		NoticePeriodDays:  c.NoticePeriodDays,
		Skills:            c.Skills,
		Education:         c.Education,
		WorkExperience:    c.WorkExperience,
		Certifications:    c.Certifications,
		Languages:         c.Languages,
		CustomFields:      c.CustomFields,
		LinkedinURL:       c.LinkedinURL,
		GithubURL:         c.GithubURL,
		PortfolioURL:      c.PortfolioURL,

		IsAvailable:            c.IsAvailable,
		IsRemoteInterested:     c.IsRemoteInterested,
		IsRelocationInterested: c.IsRelocationInterested,
		Version:                0,
	}
}

// UpdateData - изменяемые поля кандидата, nil - поле не меняется
type UpdateData struct {
	Phone             *string  `json:"phone"`
	Location          *string  `json:"location"`
	City              *string  `json:"city"`
	Country           *string  `json:"country"`
	Summary           *string  `json:"summary"`
	YearsOfExperience *int     `json:"years_of_experience"`
	CurrentCompany    *string  `json:"current_company"`
	CurrentPosition   *string  `json:"current_position"`
	ExpectedSalary    *float64 `json:"expected_salary"`
	NoticePeriodDays  *int     `json:"notice_period_days"`
	IsAvailable       *bool    `json:"is_available"`
	Rating            *float64 `json:"rating"`
}

func (u UpdateData) ToUpdMap() map[string]interface{} {
	updMap := map[string]interface{}{}
	if u.Phone != nil {
		updMap["phone"] = *u.Phone
	}
	if u.Location != nil {
		updMap["location"] = *u.Location
	}
	if u.City != nil {
		updMap["city"] = *u.City
	}
	if u.Country != nil {
		updMap["country"] = *u.Country
	}
	if u.Summary != nil {
		updMap["summary"] = *u.Summary
	}
	if u.YearsOfExperience != nil {
		updMap["years_of_experience"] = *u.YearsOfExperience
	}
	if u.CurrentCompany != nil {
		updMap["current_company"] = *u.CurrentCompany
	}
	if u.CurrentPosition != nil {
		updMap["current_position"] = *u.CurrentPosition
	}
	if u.ExpectedSalary != nil {
		updMap["expected_salary"] = *u.ExpectedSalary
	}
	if u.NoticePeriodDays != nil {
		updMap["notice_period_days"] = *u.NoticePeriodDays
	}
	if u.IsAvailable != nil {
		updMap["is_available"] = *u.IsAvailable
	}
	if u.Rating != nil {
		updMap["rating"] = *u.Rating
	}
	return updMap
}

type CandidateView struct {
	CandidateData
	ID                string                 `json:"id"`                   // Идентификатор кандидата
	TenantID          string                 `json:"tenant_id"`            // Идентификатор тенанта
	Status            models.CandidateStatus `json:"status"`               // Статус кандидата
	PipelineStage     models.PipelineStage   `json:"pipeline_stage"`       // Этап подбора
	ResumeData        map[string]interface{} `json:"resume_data"`          // Результат разбора резюме
	ResumeURL         string                 `json:"resume_url"`           // Ссылка на файл резюме
	Rating            float64                `json:"rating"`               // Оценка кандидата
	Version           int64                  `json:"version"`              // Версия записи для оптимистичной блокировки
	LastStageChangeAt string                 `json:"last_stage_change_at"` // Время последней смены этапа
	CreatedAt         string                 `json:"created_at"`           // Дата добавления
	UpdatedAt         string                 `json:"updated_at"`           // Дата обновления
}

type ListFilter struct {
	dbmodels.CandidateFilter
	apimodels.Pagination
}

type ChangeStageRequest struct {
	Stage models.PipelineStage `json:"stage"` // Этап, на который переводится кандидат
}

func (r ChangeStageRequest) Validate() error {
	if r.Stage == "" {
		return errors.New("не указан этап подбора")
	}
	if !r.Stage.IsValid() {
		return errors.New("неизвестный этап подбора")
	}
	return nil
}

func Convert(rec dbmodels.Candidate) CandidateView {
	result := CandidateView{
		CandidateData: CandidateData{
			FirstName:         rec.FirstName,
			LastName:          rec.LastName,
			Email:             rec.Email,
			Phone:             rec.Phone,
			Location:          rec.Location,
			City:              rec.City,
			Country:           rec.Country,
			Source:            rec.Source,
			ReferredBy:        rec.ReferredBy,
			Summary:           rec.Summary,
			YearsOfExperience: rec.YearsOfExperience,
			CurrentCompany:    rec.CurrentCompany,
			CurrentPosition:   rec.CurrentPosition,
			ExpectedSalary:    rec.ExpectedSalary,
			SalaryCurrency:    rec.SalaryCurrency,
			NoticePeriodDays:  rec.NoticePeriodDays,
			Skills:            rec.Skills,
			Education:         rec.Education,
			WorkExperience:    rec.WorkExperience,
			Certifications:    rec.Certifications,
			Languages:         rec.Languages,
			CustomFields:      rec.CustomFields,
			LinkedinURL:       rec.LinkedinURL,
			GithubURL:         rec.GithubURL,
			PortfolioURL:      rec.PortfolioURL,

			IsAvailable:            rec.IsAvailable,
			IsRemoteInterested:     rec.IsRemoteInterested,
			IsRelocationInterested: rec.IsRelocationInterested,
		},
		ID:            rec.ID,
		TenantID:      rec.TenantID,
		Status:        rec.Status,
		PipelineStage: rec.PipelineStage,
		ResumeData:    rec.ResumeData,
		ResumeURL:     rec.ResumeURL,
		Rating:        rec.Rating,
		Version:       rec.Version,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.Format(time.RFC3339),
	}
	if rec.LastStageChangeAt != nil {
		result.LastStageChangeAt = rec.LastStageChangeAt.Format(time.RFC3339)
	}
	return result
}
