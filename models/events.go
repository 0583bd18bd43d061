package models

// CandidateEventTopic - топик внутренней шины событий по кандидатам
var CandidateEventTopic = "CandidateEvent"

type EventType string

const (
	EventCandidateCreated      EventType = "candidate.created"
	EventCandidateUpdated      EventType = "candidate.updated"
	EventCandidateStageChanged EventType = "candidate.stage.changed"
	EventCandidateResumeParsed EventType = "candidate.resume.parsed"
	EventCandidateDeleted      EventType = "candidate.deleted"
)

// CandidateEvent - событие по кандидату для внутренней шины.
// Во внешний поток события уходят через lib/event-stream в плоском виде.
type CandidateEvent struct {
	Type        EventType
	TenantID    string
	CandidateID string
	Status      CandidateStatus
	Stage       PipelineStage
	Description string
}
