package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	searchapimodels "talent-backend/models/api/search"
)

// Provider - клиент документного поискового индекса (Elasticsearch-совместимое API)
type Provider interface {
	Ping(ctx context.Context) error
	UpsertDocument(ctx context.Context, id string, doc searchapimodels.CandidateDocument) error
	DeleteDocument(ctx context.Context, id string) error
	Search(ctx context.Context, query Query, from, size int) (docs []searchapimodels.CandidateDocument, total int64, err error)
}

func NewProvider(host, index string, timeout time.Duration) Provider {
	return &impl{
		host:   host,
		index:  index,
		client: &http.Client{Timeout: timeout},
	}
}

type impl struct {
	host   string
	index  string
	client *http.Client
}

const (
	docPathTpl    = "%v/%v/_doc/%v"
	searchPathTpl = "%v/%v/_search"
)

// Query - булев запрос из точных и диапазонных условий
type Query struct {
	Term       map[string]interface{} // точное совпадение поля
	Terms      map[string][]string    // совпадение с любым из значений
	Match      map[string]string      // полнотекстовое совпадение
	Ranges     map[string]RangeClause // диапазоны
	MultiMatch *MultiMatchClause      // полнотекстовый поиск по нескольким полям
}

type MultiMatchClause struct {
	Query  string   `json:"query"`
	Fields []string `json:"fields"`
}

type RangeClause struct {
	Gte interface{} `json:"gte,omitempty"`
	Lte interface{} `json:"lte,omitempty"`
}

func (q Query) build() map[string]interface{} {
	must := []map[string]interface{}{}
	for field, value := range q.Term {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{field: value}})
	}
	for field, values := range q.Terms {
		must = append(must, map[string]interface{}{"terms": map[string]interface{}{field: values}})
	}
	for field, value := range q.Match {
		must = append(must, map[string]interface{}{"match": map[string]interface{}{field: value}})
	}
	for field, clause := range q.Ranges {
		must = append(must, map[string]interface{}{"range": map[string]interface{}{field: clause}})
	}
	if q.MultiMatch != nil {
		must = append(must, map[string]interface{}{"multi_match": q.MultiMatch})
	}
	return map[string]interface{}{
		"bool": map[string]interface{}{
			"must": must,
		},
	}
}

func (i impl) Ping(ctx context.Context) error {
	r, _ := http.NewRequestWithContext(ctx, "GET", i.host, nil)
	logger := log.WithField("search_request", i.host)
	return i.sendRequest(logger, r, nil)
}

func (i impl) UpsertDocument(ctx context.Context, id string, doc searchapimodels.CandidateDocument) error {
	uri := fmt.Sprintf(docPathTpl, i.host, i.index, id)
	body, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации документа")
	}
	r, _ := http.NewRequestWithContext(ctx, "PUT", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")

	logger := log.
		WithField("search_request", uri).
		WithField("document_id", id)
	return i.sendRequest(logger, r, nil)
}

func (i impl) DeleteDocument(ctx context.Context, id string) error {
	uri := fmt.Sprintf(docPathTpl, i.host, i.index, id)
	r, _ := http.NewRequestWithContext(ctx, "DELETE", uri, nil)

	logger := log.
		WithField("search_request", uri).
		WithField("document_id", id)
	return i.sendRequest(logger, r, nil)
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source searchapimodels.CandidateDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (i impl) Search(ctx context.Context, query Query, from, size int) ([]searchapimodels.CandidateDocument, int64, error) {
	uri := fmt.Sprintf(searchPathTpl, i.host, i.index)
	request := map[string]interface{}{
		"query": query.build(),
		"from":  from,
		"size":  size,
	}
	body, err := json.Marshal(request)
	if err != nil {
		return nil, 0, errors.Wrap(err, "ошибка сериализации запроса")
	}
	r, _ := http.NewRequestWithContext(ctx, "POST", uri, bytes.NewBuffer(body))
	r.Header.Add("Content-Type", "application/json")

	logger := log.
		WithField("search_request", uri).
		WithField("request_body", string(body))
	resp := searchResponse{}
	if err = i.sendRequest(logger, r, &resp); err != nil {
		return nil, 0, err
	}
	docs := make([]searchapimodels.CandidateDocument, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, resp.Hits.Total.Value, nil
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}) error {
	response, err := i.client.Do(r)
	if err != nil {
		return errors.Wrap(err, "поисковый индекс недоступен")
	}
	defer response.Body.Close()
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if resp != nil {
			responseBody, _ := io.ReadAll(response.Body)
			if err = json.Unmarshal(responseBody, resp); err != nil {
				return errors.Wrap(err, "ошибка сериализации ответа")
			}
		}
		return nil
	}
	// удаление отсутствующего документа не считаем ошибкой
	if r.Method == "DELETE" && response.StatusCode == http.StatusNotFound {
		return nil
	}
	responseBody, _ := io.ReadAll(response.Body)
	logger.
		WithField("response_body", string(responseBody)).
		WithField("status_code", response.StatusCode).
		Error("ошибка отправки запроса в поисковый индекс")
	return errors.Errorf("поисковый индекс вернул статус %v", response.StatusCode)
}
