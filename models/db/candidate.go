package dbmodels

import (
	"fmt"
	"time"

	"talent-backend/models"
)

type Candidate struct {
	BaseTenantModel
	FirstName         string                 `gorm:"type:varchar(100)"`
	LastName          string                 `gorm:"type:varchar(100)"`
	Email             string                 `gorm:"type:varchar(255);index"` // уникальность в рамках тенанта, см. db/migration.go
	Phone             string                 `gorm:"type:varchar(20)"`
	Location          string                 `gorm:"type:varchar(255)"`
	City              string                 `gorm:"type:varchar(100)"`
	Country           string                 `gorm:"type:varchar(100)"`
	Status            models.CandidateStatus `gorm:"type:varchar(50);index:idx_candidate_tenant_status"`
	PipelineStage     models.PipelineStage   `gorm:"type:varchar(50)"`
	Source            models.CandidateSource `gorm:"type:varchar(100);index"`
	ReferredBy        string                 `gorm:"type:varchar(36)"`
	Summary           string
	YearsOfExperience int
	CurrentCompany    string `gorm:"type:varchar(255)"`
	CurrentPosition   string `gorm:"type:varchar(255)"`
	ExpectedSalary    float64
	SalaryCurrency    string `gorm:"type:varchar(3)"`
	NoticePeriodDays  int

	ResumeData     ResumeData   `gorm:"type:jsonb"` // сырой результат разбора резюме
	Skills         StringSlice  `gorm:"type:jsonb"`
	Education      JSONMap      `gorm:"type:jsonb"`
	WorkExperience JSONMapSlice `gorm:"type:jsonb"`
	Certifications StringSlice  `gorm:"type:jsonb"`
	Languages      StringSlice  `gorm:"type:jsonb"`
	CustomFields   JSONMap      `gorm:"type:jsonb"`

	ResumeURL    string `gorm:"type:varchar(500)"`
	LinkedinURL  string `gorm:"type:varchar(500)"`
	GithubURL    string `gorm:"type:varchar(500)"`
	PortfolioURL string `gorm:"type:varchar(500)"`

	IsAvailable            bool
	IsRemoteInterested     bool
	IsRelocationInterested bool
	Rating                 float64 // шкала 1-5

	LastContactedAt   *time.Time
	LastStageChangeAt *time.Time

	// Version - счетчик оптимистичной блокировки, строго растет
	// при каждой зафиксированной мутации записи
	Version int64 `gorm:"not null;default:0"`
}

func (c Candidate) GetFullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// IsActive - кандидат еще в работе
func (c Candidate) IsActive() bool {
	return !c.Status.IsTerminal()
}

type CandidateFilter struct {
	Status models.CandidateStatus `json:"status"` // Фильтр по статусу
	Stage  models.PipelineStage   `json:"stage"`  // Фильтр по этапу подбора
	Source models.CandidateSource `json:"source"` // Фильтр по источнику
	Search string                 `json:"search"` // Поиск по ФИО/email
}
