package candidatehistoryhandler

import (
	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"talent-backend/db"
	candidatehistorystore "talent-backend/lib/candidate-history/store"
	"talent-backend/models"
	candidateapimodels "talent-backend/models/api/candidate"
	dbmodels "talent-backend/models/db"
)

type Provider interface {
	List(tenantID, candidateID string, filter candidateapimodels.HistoryFilter) ([]candidateapimodels.HistoryView, int64, error)
	Save(tenantID, candidateID string, action dbmodels.ActionType, status models.CandidateStatus, stage models.PipelineStage, changes dbmodels.CandidateChanges)
}

var Instance Provider

// NewHandler подписывает историю на внутреннюю шину событий,
// записи истории появляются без явных вызовов из оркестратора
func NewHandler(bus EventBus.Bus) {
	inst := impl{
		store: candidatehistorystore.NewInstance(db.DB),
	}
	if err := bus.Subscribe(models.CandidateEventTopic, inst.onCandidateEvent); err != nil {
		log.WithError(err).Error("ошибка подписки истории на события кандидатов")
	}
	Instance = inst
}

type impl struct {
	store candidatehistorystore.Provider
}

func (i impl) onCandidateEvent(event models.CandidateEvent) {
	i.Save(event.TenantID, event.CandidateID, actionByEvent(event.Type), event.Status, event.Stage,
		dbmodels.CandidateChanges{Description: event.Description})
}

func actionByEvent(eventType models.EventType) dbmodels.ActionType {
	switch eventType {
	case models.EventCandidateCreated:
		return dbmodels.HistoryTypeAdded
	case models.EventCandidateStageChanged:
		return dbmodels.HistoryTypeStageChange
	case models.EventCandidateResumeParsed:
		return dbmodels.HistoryTypeResume
	case models.EventCandidateDeleted:
		return dbmodels.HistoryTypeDeleted
	default:
		return dbmodels.HistoryTypeUpdate
	}
}

func (i impl) List(tenantID, candidateID string, filter candidateapimodels.HistoryFilter) ([]candidateapimodels.HistoryView, int64, error) {
	rowCount, err := i.store.ListCount(tenantID, candidateID, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []candidateapimodels.HistoryView{}, rowCount, nil
	}

	list, err := i.store.List(tenantID, candidateID, filter)
	if err != nil {
		log.WithError(err).Error("ошибка получения истории действий по кандидату")
		return nil, 0, errors.New("ошибка получения истории действий по кандидату")
	}
	result := make([]candidateapimodels.HistoryView, 0, len(list))
	for _, rec := range list {
		result = append(result, candidateapimodels.HistoryConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Save(tenantID, candidateID string, action dbmodels.ActionType, status models.CandidateStatus, stage models.PipelineStage, changes dbmodels.CandidateChanges) {
	logger := log.WithField("tenant_id", tenantID).
		WithField("candidate_id", candidateID).
		WithField("action", action)
	rec := dbmodels.CandidateHistory{
		BaseTenantModel: dbmodels.BaseTenantModel{
			TenantID: tenantID,
		},
		CandidateID: candidateID,
		ActionType:  action,
		Status:      string(status),
		Stage:       string(stage),
		Changes:     changes,
	}
	_, err := i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения истории действий по кандидату")
	}
}
