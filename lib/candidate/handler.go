package candidatehandler

import (
	"bytes"
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"talent-backend/db"
	candidatestore "talent-backend/lib/candidate/store"
	eventstream "talent-backend/lib/event-stream"
	xlsexport "talent-backend/lib/export/xls"
	resumeparser "talent-backend/lib/external-services/resume-parser"
	filestorage "talent-backend/lib/file-storage"
	"talent-backend/lib/pipeline"
	"talent-backend/lib/search"
	"talent-backend/models"
	candidateapimodels "talent-backend/models/api/candidate"
	parserapimodels "talent-backend/models/api/parser"
	dbmodels "talent-backend/models/db"
)

// Provider - операции над кандидатами.
// Система записи - БД, все мутации проходят через оптимистичную блокировку
// по версии. Индекс и внешние события обновляются после фиксации записи
// в режиме best-effort
type Provider interface {
	Create(ctx context.Context, tenantID string, data candidateapimodels.CandidateData) (candidateapimodels.CandidateView, error)
	GetByID(tenantID, id string) (candidateapimodels.CandidateView, error)
	List(tenantID string, filter candidateapimodels.ListFilter) ([]candidateapimodels.CandidateView, int64, error)
	Update(ctx context.Context, tenantID, id string, version int64, data candidateapimodels.UpdateData) (candidateapimodels.CandidateView, error)
	ChangeStage(ctx context.Context, tenantID, id string, version int64, requested models.PipelineStage) (candidateapimodels.CandidateView, error)
	UploadResume(ctx context.Context, tenantID, id, fileName, contentType string, file []byte) (parserapimodels.ParseResult, error)
	GetResume(ctx context.Context, tenantID, id string) (rec *dbmodels.FileStorage, file []byte, err error)
	Delete(ctx context.Context, tenantID, id string) error
	Export(tenantID string, filter dbmodels.CandidateFilter) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler(bus EventBus.Bus) {
	Instance = newInstance(
		candidatestore.NewInstance(db.DB),
		pipeline.Instance,
		search.Instance,
		eventstream.Instance,
		resumeparser.Instance,
		filestorage.Instance,
		bus,
	)
}

// eventSink - внешний поток событий, выделен для подмены в тестах
type eventSink interface {
	Publish(ctx context.Context, eventType models.EventType, rec dbmodels.Candidate)
	PublishDeleted(ctx context.Context, tenantID, candidateID string)
}

// indexSink - синхронизатор поискового индекса
type indexSink interface {
	IndexCandidate(ctx context.Context, rec dbmodels.Candidate)
	DeleteFromIndex(ctx context.Context, candidateID string)
}

// resumeStorage - файловое хранилище резюме
type resumeStorage interface {
	UploadResume(ctx context.Context, tenantID, candidateID, fileName, contentType string, file []byte) (fileID string, err error)
	GetResume(ctx context.Context, tenantID, candidateID string) (rec *dbmodels.FileStorage, file []byte, err error)
	DeleteCandidateFiles(ctx context.Context, tenantID, candidateID string) error
}

// resumeParser - шлюз к сервису разбора резюме
type resumeParser interface {
	Parse(ctx context.Context, candidateID, fileName string, body []byte) parserapimodels.ParseResult
}

func newInstance(store candidatestore.Provider, pipe pipeline.Provider, index indexSink,
	events eventSink, parser resumeParser, files resumeStorage, bus EventBus.Bus) *impl {
	return &impl{
		store:  store,
		pipe:   pipe,
		index:  index,
		events: events,
		parser: parser,
		files:  files,
		bus:    bus,
	}
}

type impl struct {
	store  candidatestore.Provider
	pipe   pipeline.Provider
	index  indexSink
	events eventSink
	parser resumeParser
	files  resumeStorage
	bus    EventBus.Bus
}

func (i impl) Create(ctx context.Context, tenantID string, data candidateapimodels.CandidateData) (candidateapimodels.CandidateView, error) {
	if err := data.Validate(); err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	existed, err := i.store.GetByEmail(tenantID, data.Email)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if existed != nil {
		return candidateapimodels.CandidateView{}, errors.Wrapf(models.ErrConflict, "кандидат с email %v уже существует", data.Email)
	}
	id, err := i.store.Create(data.ToDBModel(tenantID))
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			// гонка двух создателей, уникальный индекс пропустил одного
			return candidateapimodels.CandidateView{}, errors.Wrapf(models.ErrConflict, "кандидат с email %v уже существует", data.Email)
		}
		return candidateapimodels.CandidateView{}, err
	}
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, models.ErrNotFound
	}
	i.afterCommit(ctx, *rec, models.EventCandidateCreated, "Кандидат добавлен")
	return candidateapimodels.Convert(*rec), nil
}

func (i impl) GetByID(tenantID, id string) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, models.ErrNotFound
	}
	return candidateapimodels.Convert(*rec), nil
}

func (i impl) List(tenantID string, filter candidateapimodels.ListFilter) ([]candidateapimodels.CandidateView, int64, error) {
	rowCount, err := i.store.ListCount(tenantID, filter.CandidateFilter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []candidateapimodels.CandidateView{}, rowCount, nil
	}
	list, err := i.store.List(tenantID, filter.CandidateFilter, offset, limit)
	if err != nil {
		log.WithError(err).Error("ошибка получения списка кандидатов")
		return nil, 0, errors.New("ошибка получения списка кандидатов")
	}
	result := make([]candidateapimodels.CandidateView, 0, len(list))
	for _, rec := range list {
		result = append(result, candidateapimodels.Convert(rec))
	}
	return result, rowCount, nil
}

func (i impl) Update(ctx context.Context, tenantID, id string, version int64, data candidateapimodels.UpdateData) (candidateapimodels.CandidateView, error) {
	updMap := data.ToUpdMap()
	if len(updMap) == 0 {
		return i.GetByID(tenantID, id)
	}
	if err := i.store.UpdateWithVersion(tenantID, id, version, updMap); err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, models.ErrNotFound
	}
	i.afterCommit(ctx, *rec, models.EventCandidateUpdated, "Данные кандидата обновлены")
	return candidateapimodels.Convert(*rec), nil
}

func (i impl) ChangeStage(ctx context.Context, tenantID, id string, version int64, requested models.PipelineStage) (candidateapimodels.CandidateView, error) {
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if rec == nil {
		return candidateapimodels.CandidateView{}, models.ErrNotFound
	}
	newStatus, newStage, err := i.pipe.Advance(rec.Status, rec.PipelineStage, requested)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	now := time.Now()
	updMap := map[string]interface{}{
		"pipeline_stage":       newStage,
		"status":               newStatus,
		"last_stage_change_at": now,
	}
	if err = i.store.UpdateWithVersion(tenantID, id, version, updMap); err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	updated, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return candidateapimodels.CandidateView{}, err
	}
	if updated == nil {
		return candidateapimodels.CandidateView{}, models.ErrNotFound
	}
	i.afterCommit(ctx, *updated, models.EventCandidateStageChanged,
		"Кандидат переведен с этапа "+string(rec.PipelineStage)+" на этап "+string(newStage))
	return candidateapimodels.Convert(*updated), nil
}

func (i impl) UploadResume(ctx context.Context, tenantID, id, fileName, contentType string, file []byte) (parserapimodels.ParseResult, error) {
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return parserapimodels.ParseResult{}, err
	}
	if rec == nil {
		return parserapimodels.ParseResult{}, models.ErrNotFound
	}
	fileID, err := i.files.UploadResume(ctx, tenantID, id, fileName, contentType, file)
	if err != nil {
		return parserapimodels.ParseResult{}, err
	}
	result := i.parser.Parse(ctx, id, fileName, file)
	updMap := map[string]interface{}{
		"resume_data": result.ToResumeData(),
		"resume_url":  fileID,
	}
	if !result.IsFallback() {
		mergeParsedData(*rec, result.Data, updMap)
	}
	if err = i.store.UpdateWithVersion(tenantID, id, rec.Version, updMap); err != nil {
		return parserapimodels.ParseResult{}, err
	}
	updated, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return parserapimodels.ParseResult{}, err
	}
	if updated == nil {
		return parserapimodels.ParseResult{}, models.ErrNotFound
	}
	description := "Резюме загружено и разобрано"
	if result.IsFallback() {
		description = "Резюме загружено, требуется ручной разбор"
	}
	i.afterCommit(ctx, *updated, models.EventCandidateResumeParsed, description)
	return result, nil
}

// mergeParsedData - перенос разобранных полей в карточку кандидата:
// навыки объединяются без дублей, явно заполненные поля не затираются
func mergeParsedData(rec dbmodels.Candidate, data dbmodels.ResumeData, updMap map[string]interface{}) {
	if parsed, ok := data["skills"].([]interface{}); ok && len(parsed) > 0 {
		known := map[string]bool{}
		merged := make(dbmodels.StringSlice, 0, len(rec.Skills)+len(parsed))
		for _, skill := range rec.Skills {
			known[skill] = true
			merged = append(merged, skill)
		}
		for _, raw := range parsed {
			skill, ok := raw.(string)
			if !ok || known[skill] {
				continue
			}
			known[skill] = true
			merged = append(merged, skill)
		}
		updMap["skills"] = merged
	}
	if years, ok := data["yearsOfExperience"].(float64); ok && rec.YearsOfExperience == 0 && years > 0 {
		updMap["years_of_experience"] = int(years)
	}
	if education, ok := data["education"].(map[string]interface{}); ok && len(rec.Education) == 0 && len(education) > 0 {
		updMap["education"] = dbmodels.JSONMap(education)
	}
}

func (i impl) GetResume(ctx context.Context, tenantID, id string) (*dbmodels.FileStorage, []byte, error) {
	return i.files.GetResume(ctx, tenantID, id)
}

func (i impl) Export(tenantID string, filter dbmodels.CandidateFilter) (*bytes.Buffer, error) {
	rowCount, err := i.store.ListCount(tenantID, filter)
	if err != nil {
		return nil, err
	}
	list := []dbmodels.Candidate{}
	if rowCount > 0 {
		list, err = i.store.List(tenantID, filter, 0, int(rowCount))
		if err != nil {
			return nil, err
		}
	}
	return xlsexport.Instance.ExportCandidateList(list)
}

func (i impl) Delete(ctx context.Context, tenantID, id string) error {
	rec, err := i.store.GetByID(tenantID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return models.ErrNotFound
	}
	if err = i.store.Delete(tenantID, id); err != nil {
		return err
	}
	i.index.DeleteFromIndex(ctx, id)
	i.events.PublishDeleted(ctx, tenantID, id)
	if err = i.files.DeleteCandidateFiles(ctx, tenantID, id); err != nil {
		log.WithError(err).
			WithField("candidate_id", id).
			Error("ошибка удаления файлов кандидата")
	}
	i.publishInternal(models.CandidateEvent{
		Type:        models.EventCandidateDeleted,
		TenantID:    tenantID,
		CandidateID: id,
		Status:      rec.Status,
		Stage:       rec.PipelineStage,
		Description: "Кандидат удален",
	})
	return nil
}

// afterCommit - действия после фиксации записи в БД: обновление индекса,
// публикация во внешний поток и во внутреннюю шину. Все три best-effort,
// их сбои не влияют на результат операции
func (i impl) afterCommit(ctx context.Context, rec dbmodels.Candidate, eventType models.EventType, description string) {
	i.index.IndexCandidate(ctx, rec)
	i.events.Publish(ctx, eventType, rec)
	i.publishInternal(models.CandidateEvent{
		Type:        eventType,
		TenantID:    rec.TenantID,
		CandidateID: rec.ID,
		Status:      rec.Status,
		Stage:       rec.PipelineStage,
		Description: description,
	})
}

func (i impl) publishInternal(event models.CandidateEvent) {
	if i.bus == nil {
		return
	}
	i.bus.Publish(models.CandidateEventTopic, event)
}
