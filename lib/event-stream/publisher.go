package eventstream

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"talent-backend/config"
	"talent-backend/models"
	dbmodels "talent-backend/models/db"
)

// Provider - публикация доменных событий во внешний поток.
// Публикация строго best-effort: сбой брокера логируется и не
// поднимается к вызывающему, основная операция уже зафиксирована.
type Provider interface {
	Publish(ctx context.Context, eventType models.EventType, rec dbmodels.Candidate)
	PublishDeleted(ctx context.Context, tenantID, candidateID string)
	Close() error
}

var Instance Provider

func NewHandler() {
	cfg := config.Conf.EventStream
	Instance = &impl{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(cfg.Brokers, ",")...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		},
	}
}

// kafkaWriter выделен для подмены в тестах
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type impl struct {
	writer kafkaWriter
}

type eventPayload struct {
	EventType   string `json:"event_type"`
	TenantID    string `json:"tenant_id"`
	CandidateID string `json:"candidate_id"`
	Status      string `json:"status,omitempty"`
	Stage       string `json:"stage,omitempty"`
	Timestamp   string `json:"timestamp"`
}

func (i impl) Publish(ctx context.Context, eventType models.EventType, rec dbmodels.Candidate) {
	i.send(ctx, eventPayload{
		EventType:   string(eventType),
		TenantID:    rec.TenantID,
		CandidateID: rec.ID,
		Status:      string(rec.Status),
		Stage:       string(rec.PipelineStage),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (i impl) PublishDeleted(ctx context.Context, tenantID, candidateID string) {
	i.send(ctx, eventPayload{
		EventType:   string(models.EventCandidateDeleted),
		TenantID:    tenantID,
		CandidateID: candidateID,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

func (i impl) send(ctx context.Context, payload eventPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("ошибка сериализации события кандидата")
		return
	}
	// ключ - id кандидата, события одного кандидата попадают
	// в одну партицию и сохраняют порядок
	msg := kafka.Message{
		Key:   []byte(payload.CandidateID),
		Value: body,
	}
	if err = i.writer.WriteMessages(ctx, msg); err != nil {
		log.WithError(err).
			WithField("event_type", payload.EventType).
			WithField("candidate_id", payload.CandidateID).
			Error("ошибка публикации события кандидата, событие потеряно")
	}
}

func (i impl) Close() error {
	return i.writer.Close()
}
