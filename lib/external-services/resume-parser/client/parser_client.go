package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const parsePathTpl = "%v/api/v1/parse"

// Provider - клиент сервиса разбора резюме
type Provider interface {
	Parse(ctx context.Context, fileName string, body []byte) (map[string]interface{}, error)
}

func NewProvider(url string) Provider {
	return &impl{
		url:    url,
		client: &http.Client{},
	}
}

type impl struct {
	url    string
	client *http.Client
}

func (i impl) Parse(ctx context.Context, fileName string, body []byte) (map[string]interface{}, error) {
	buf := bytes.Buffer{}
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования запроса")
	}
	if _, err = part.Write(body); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования запроса")
	}
	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования запроса")
	}

	uri := fmt.Sprintf(parsePathTpl, i.url)
	r, err := http.NewRequestWithContext(ctx, "POST", uri, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования запроса")
	}
	r.Header.Add("Content-Type", w.FormDataContentType())

	logger := log.
		WithField("parser_request", uri).
		WithField("file_name", fileName)
	data := map[string]interface{}{}
	if err = i.sendRequest(logger, r, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (i impl) sendRequest(logger *log.Entry, r *http.Request, resp interface{}) error {
	response, err := i.client.Do(r)
	if err != nil {
		logger.WithError(err).Error("ошибка обращения к сервису разбора резюме")
		return errors.Wrap(err, "ошибка обращения к сервису разбора резюме")
	}
	defer response.Body.Close()
	body, err := io.ReadAll(response.Body)
	if err != nil {
		logger.WithError(err).Error("ошибка чтения ответа сервиса разбора резюме")
		return errors.Wrap(err, "ошибка чтения ответа")
	}
	logger = logger.WithField("response_code", response.StatusCode)
	if response.StatusCode != http.StatusOK {
		logger.WithField("response_body", string(body)).Error("сервис разбора резюме вернул ошибку")
		return errors.Errorf("сервис разбора резюме вернул код %v", response.StatusCode)
	}
	if resp != nil {
		if err = json.Unmarshal(body, resp); err != nil {
			logger.WithError(err).Error("ошибка декодирования ответа сервиса разбора резюме")
			return errors.Wrap(err, "ошибка декодирования ответа")
		}
	}
	return nil
}
