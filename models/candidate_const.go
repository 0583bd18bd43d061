package models

type CandidateStatus string

const (
	CandidateStatusNew           CandidateStatus = "NEW"            // Новый кандидат
	CandidateStatusScreening     CandidateStatus = "SCREENING"      // На скрининге
	CandidateStatusQualified     CandidateStatus = "QUALIFIED"      // Прошел скрининг
	CandidateStatusInterviewing  CandidateStatus = "INTERVIEWING"   // На интервью
	CandidateStatusShortlisted   CandidateStatus = "SHORTLISTED"    // В шорт-листе
	CandidateStatusOfferExtended CandidateStatus = "OFFER_EXTENDED" // Направлен оффер
	CandidateStatusHired         CandidateStatus = "HIRED"          // Нанят
	CandidateStatusRejected      CandidateStatus = "REJECTED"       // Отклонен
	CandidateStatusWithdrawn     CandidateStatus = "WITHDRAWN"      // Отозвал кандидатуру
	CandidateStatusOnHold        CandidateStatus = "ON_HOLD"        // На паузе
	CandidateStatusArchived      CandidateStatus = "ARCHIVED"       // В архиве
)

// IsTerminal - кандидат выбыл из воронки подбора
func (s CandidateStatus) IsTerminal() bool {
	return s == CandidateStatusRejected ||
		s == CandidateStatusWithdrawn ||
		s == CandidateStatusArchived
}

func (s CandidateStatus) IsValid() bool {
	switch s {
	case CandidateStatusNew, CandidateStatusScreening, CandidateStatusQualified,
		CandidateStatusInterviewing, CandidateStatusShortlisted, CandidateStatusOfferExtended,
		CandidateStatusHired, CandidateStatusRejected, CandidateStatusWithdrawn,
		CandidateStatusOnHold, CandidateStatusArchived:
		return true
	}
	return false
}

type PipelineStage string

const (
	PipelineStageApplied            PipelineStage = "APPLIED"             // Подал заявку
	PipelineStageScreening          PipelineStage = "SCREENING"           // Скрининг резюме
	PipelineStagePhoneScreen        PipelineStage = "PHONE_SCREEN"        // Телефонное интервью
	PipelineStageInterviewScheduled PipelineStage = "INTERVIEW_SCHEDULED" // Интервью назначено
	PipelineStageInterviewCompleted PipelineStage = "INTERVIEW_COMPLETED" // Интервью проведено
	PipelineStageOfferExtended      PipelineStage = "OFFER_EXTENDED"      // Оффер направлен
	PipelineStageOfferAccepted      PipelineStage = "OFFER_ACCEPTED"      // Оффер принят
	PipelineStageRejected           PipelineStage = "REJECTED"            // Отказ
	PipelineStageWithdrawn          PipelineStage = "WITHDRAWN"           // Кандидат отказался
)

func (s PipelineStage) IsValid() bool {
	switch s {
	case PipelineStageApplied, PipelineStageScreening, PipelineStagePhoneScreen,
		PipelineStageInterviewScheduled, PipelineStageInterviewCompleted,
		PipelineStageOfferExtended, PipelineStageOfferAccepted,
		PipelineStageRejected, PipelineStageWithdrawn:
		return true
	}
	return false
}

type CandidateSource string

const (
	SourceLinkedin          CandidateSource = "LINKEDIN"
	SourceReferral          CandidateSource = "REFERRAL"
	SourceCareerSite        CandidateSource = "CAREER_SITE"
	SourceDirectApplication CandidateSource = "DIRECT_APPLICATION"
)
