package search

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"talent-backend/config"
	candidatestore "talent-backend/lib/candidate/store"
	searchclient "talent-backend/lib/search/client"
	apimodels "talent-backend/models/api"
	searchapimodels "talent-backend/models/api/search"
	dbmodels "talent-backend/models/db"
)

// Provider - синхронизация поискового индекса с системой записи.
// Запись в индекс строго best-effort: индекс вторичен и восстановим,
// недоступность индекса никогда не ломает основную операцию.
type Provider interface {
	IndexCandidate(ctx context.Context, rec dbmodels.Candidate)
	DeleteFromIndex(ctx context.Context, candidateID string)
	Search(ctx context.Context, tenantID string, criteria searchapimodels.SearchCriteria, page apimodels.Pagination) (docs []searchapimodels.CandidateDocument, total int64)
	Resync(ctx context.Context, tenantID string) (indexed int, err error)
}

var Instance Provider

func NewHandler(store candidatestore.Provider) {
	cfg := config.Conf.SearchIndex
	inst := &impl{
		client: searchclient.NewProvider(cfg.Host, cfg.Index, time.Duration(cfg.TimeoutSec)*time.Second),
		store:  store,
	}
	// проверка соединения, индекс не обязателен для старта
	if err := inst.client.Ping(context.Background()); err != nil {
		log.WithError(err).Warn("поисковый индекс недоступен, поиск будет возвращать пустые результаты")
	}
	Instance = inst
}

type impl struct {
	client searchclient.Provider
	store  candidatestore.Provider
}

func (i impl) IndexCandidate(ctx context.Context, rec dbmodels.Candidate) {
	doc := searchapimodels.DocumentConvert(rec)
	if err := i.client.UpsertDocument(ctx, rec.ID, doc); err != nil {
		// запись в БД уже зафиксирована, индекс догонит при следующей
		// мутации или переиндексации
		log.WithError(err).
			WithField("tenant_id", rec.TenantID).
			WithField("candidate_id", rec.ID).
			Error("ошибка индексации кандидата, индекс временно отстает")
	}
}

func (i impl) DeleteFromIndex(ctx context.Context, candidateID string) {
	if err := i.client.DeleteDocument(ctx, candidateID); err != nil {
		log.WithError(err).
			WithField("candidate_id", candidateID).
			Error("ошибка удаления кандидата из индекса")
	}
}

// Search - при недоступности индекса возвращает пустую страницу, не ошибку:
// для вызывающего "индекс лежит" неотличимо от "ничего не найдено"
func (i impl) Search(ctx context.Context, tenantID string, criteria searchapimodels.SearchCriteria, page apimodels.Pagination) ([]searchapimodels.CandidateDocument, int64) {
	pageNum, limit := page.GetPage()
	query := buildQuery(tenantID, criteria)
	docs, total, err := i.client.Search(ctx, query, (pageNum-1)*limit, limit)
	if err != nil {
		log.WithError(err).
			WithField("tenant_id", tenantID).
			Warn("поиск недоступен, возвращаем пустой результат")
		return []searchapimodels.CandidateDocument{}, 0
	}
	return docs, total
}

// Resync - полная переиндексация тенанта из системы записи,
// ручная операция сопровождения
func (i impl) Resync(ctx context.Context, tenantID string) (int, error) {
	list, err := i.store.ListAll(tenantID)
	if err != nil {
		return 0, err
	}
	indexed := 0
	for _, rec := range list {
		doc := searchapimodels.DocumentConvert(rec)
		if err := i.client.UpsertDocument(ctx, rec.ID, doc); err != nil {
			log.WithError(err).
				WithField("candidate_id", rec.ID).
				Error("ошибка переиндексации кандидата")
			continue
		}
		indexed++
	}
	log.WithField("tenant_id", tenantID).
		WithField("indexed", indexed).
		WithField("total", len(list)).
		Info("переиндексация завершена")
	return indexed, nil
}

func buildQuery(tenantID string, criteria searchapimodels.SearchCriteria) searchclient.Query {
	query := searchclient.Query{
		Term:   map[string]interface{}{"tenant_id": tenantID},
		Terms:  map[string][]string{},
		Match:  map[string]string{},
		Ranges: map[string]searchclient.RangeClause{},
	}
	if criteria.Keywords != "" {
		query.MultiMatch = &searchclient.MultiMatchClause{
			Query:  criteria.Keywords,
			Fields: []string{"first_name", "last_name", "summary", "current_position"},
		}
	}
	if len(criteria.Skills) > 0 {
		query.Terms["skills"] = criteria.Skills
	}
	if criteria.Location != "" {
		query.Match["location"] = criteria.Location
	}
	if criteria.Status != "" {
		query.Term["status"] = string(criteria.Status)
	}
	if criteria.PipelineStage != "" {
		query.Term["pipeline_stage"] = string(criteria.PipelineStage)
	}
	if criteria.IsRemoteInterested != nil && *criteria.IsRemoteInterested {
		query.Term["is_remote_interested"] = true
	}
	if criteria.MinExperience != nil || criteria.MaxExperience != nil {
		clause := searchclient.RangeClause{}
		if criteria.MinExperience != nil {
			clause.Gte = *criteria.MinExperience
		}
		if criteria.MaxExperience != nil {
			clause.Lte = *criteria.MaxExperience
		}
		query.Ranges["years_of_experience"] = clause
	}
	if criteria.MinSalary != nil || criteria.MaxSalary != nil {
		clause := searchclient.RangeClause{}
		if criteria.MinSalary != nil {
			clause.Gte = *criteria.MinSalary
		}
		if criteria.MaxSalary != nil {
			clause.Lte = *criteria.MaxSalary
		}
		query.Ranges["expected_salary"] = clause
	}
	return query
}
