package dbmodels

type FileStorage struct {
	BaseTenantModel
	Name        string
	CandidateID string `gorm:"type:varchar(36);index"`
	Type        FileType
	ContentType string
}

type FileType string

const (
	CandidateResume FileType = "candidate_resume"
	CandidateDoc    FileType = "candidate_doc"
)
