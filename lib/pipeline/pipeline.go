package pipeline

import (
	"github.com/pkg/errors"
	"talent-backend/models"
)

// stageStatus - фиксированная таблица соответствия этапа подбора и статуса
// кандидата. Этап вне таблицы статус не меняет.
var stageStatus = map[models.PipelineStage]models.CandidateStatus{
	models.PipelineStageScreening:          models.CandidateStatusScreening,
	models.PipelineStagePhoneScreen:        models.CandidateStatusScreening,
	models.PipelineStageInterviewScheduled: models.CandidateStatusInterviewing,
	models.PipelineStageInterviewCompleted: models.CandidateStatusInterviewing,
	models.PipelineStageOfferExtended:      models.CandidateStatusOfferExtended,
	models.PipelineStageOfferAccepted:      models.CandidateStatusHired,
	models.PipelineStageRejected:           models.CandidateStatusRejected,
	models.PipelineStageWithdrawn:          models.CandidateStatusWithdrawn,
}

// transitions - граф допустимых переходов для строгого режима,
// ребра только вперед по воронке, отказ и самоотвод доступны с любого этапа
var transitions = map[models.PipelineStage][]models.PipelineStage{
	models.PipelineStageApplied:            {models.PipelineStageScreening, models.PipelineStagePhoneScreen},
	models.PipelineStageScreening:          {models.PipelineStagePhoneScreen, models.PipelineStageInterviewScheduled},
	models.PipelineStagePhoneScreen:        {models.PipelineStageInterviewScheduled},
	models.PipelineStageInterviewScheduled: {models.PipelineStageInterviewCompleted},
	models.PipelineStageInterviewCompleted: {models.PipelineStageInterviewScheduled, models.PipelineStageOfferExtended},
	models.PipelineStageOfferExtended:      {models.PipelineStageOfferAccepted},
}

type Provider interface {
	Advance(status models.CandidateStatus, stage, requested models.PipelineStage) (models.CandidateStatus, models.PipelineStage, error)
}

var Instance Provider

func NewHandler(strict bool) {
	Instance = impl{strict: strict}
}

type impl struct {
	strict bool
}

// Advance - чистая детерминированная функция перехода: по запрошенному этапу
// возвращает новый статус и этап либо ошибку структурно недопустимого перехода.
// Повторов нет, ошибки здесь не временные.
func (i impl) Advance(status models.CandidateStatus, stage, requested models.PipelineStage) (models.CandidateStatus, models.PipelineStage, error) {
	if !requested.IsValid() {
		return "", "", errors.Wrapf(models.ErrTransition, "неизвестный этап %v", requested)
	}
	if i.strict {
		if status.IsTerminal() {
			return "", "", errors.Wrapf(models.ErrTransition, "кандидат выбыл из подбора, статус %v", status)
		}
		if !i.isReachable(stage, requested) {
			return "", "", errors.Wrapf(models.ErrTransition, "переход %v -> %v недоступен", stage, requested)
		}
	}
	newStatus, ok := stageStatus[requested]
	if !ok {
		newStatus = status
	}
	return newStatus, requested, nil
}

func (i impl) isReachable(from, to models.PipelineStage) bool {
	// отказ и самоотвод допустимы с любого этапа
	if to == models.PipelineStageRejected || to == models.PipelineStageWithdrawn {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
