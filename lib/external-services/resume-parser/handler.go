package resumeparser

import (
	"context"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"talent-backend/config"
	"talent-backend/lib/external-services/resume-parser/client"
	parserapimodels "talent-backend/models/api/parser"
)

// Provider - шлюз к сервису разбора резюме.
// Parse никогда не возвращает ошибку: при недоступности сервиса,
// исчерпании повторов или разомкнутом предохранителе вызывающий
// получает детерминированную заглушку
type Provider interface {
	Parse(ctx context.Context, candidateID, fileName string, body []byte) parserapimodels.ParseResult
	State() string
}

var Instance Provider

func NewHandler() {
	cfg := config.Conf.ResumeParser
	Instance = newInstance(client.NewProvider(cfg.URL), gatewaySettings{
		attemptTimeout:   time.Duration(cfg.AttemptTimeoutSec) * time.Second,
		retryAttempts:    cfg.RetryAttempts,
		retryDelay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		failureThreshold: cfg.FailureThreshold,
		minRequests:      uint32(cfg.MinRequests),
		window:           time.Duration(cfg.WindowSec) * time.Second,
		cooldown:         time.Duration(cfg.CooldownSec) * time.Second,
		probeRequests:    uint32(cfg.ProbeRequests),
	})
}

type gatewaySettings struct {
	attemptTimeout   time.Duration
	retryAttempts    int
	retryDelay       time.Duration
	failureThreshold float64
	minRequests      uint32
	window           time.Duration
	cooldown         time.Duration
	probeRequests    uint32
}

// newInstance выделен для подмены клиента и настроек в тестах
func newInstance(parserClient client.Provider, settings gatewaySettings) *impl {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "resume-parser",
		MaxRequests: settings.probeRequests,
		Interval:    settings.window,
		Timeout:     settings.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithField("service", name).
				WithField("from", from.String()).
				WithField("to", to.String()).
				Warn("смена состояния предохранителя сервиса разбора резюме")
		},
	})
	return &impl{
		client:   parserClient,
		breaker:  breaker,
		settings: settings,
	}
}

type impl struct {
	client   client.Provider
	breaker  *gobreaker.CircuitBreaker
	settings gatewaySettings
}

func (i *impl) Parse(ctx context.Context, candidateID, fileName string, body []byte) parserapimodels.ParseResult {
	// повторы внутри Execute: серия попыток по одному вызову
	// считается предохранителем как один отказ
	data, err := i.breaker.Execute(func() (interface{}, error) {
		return i.parseWithRetries(ctx, fileName, body)
	})
	if err != nil {
		log.WithError(err).
			WithField("candidate_id", candidateID).
			WithField("file_name", fileName).
			Warn("разбор резюме недоступен, возвращаем заглушку")
		return parserapimodels.NewFallback(candidateID)
	}
	return parserapimodels.ParseResult{
		Status:      parserapimodels.StatusOk,
		CandidateID: candidateID,
		Data:        data.(map[string]interface{}),
	}
}

func (i *impl) parseWithRetries(ctx context.Context, fileName string, body []byte) (map[string]interface{}, error) {
	var data map[string]interface{}
	_, _, err := lo.AttemptWhileWithDelay(i.settings.retryAttempts, i.settings.retryDelay,
		func(attempt int, _ time.Duration) (error, bool) {
			attemptCtx, cancel := context.WithTimeout(ctx, i.settings.attemptTimeout)
			defer cancel()
			var attemptErr error
			data, attemptErr = i.client.Parse(attemptCtx, fileName, body)
			if attemptErr != nil {
				log.WithError(attemptErr).
					WithField("attempt", attempt+1).
					Warn("попытка разбора резюме не удалась")
				// не повторяем, если отменен исходный контекст
				return attemptErr, ctx.Err() == nil
			}
			return nil, false
		})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (i *impl) State() string {
	return i.breaker.State().String()
}
