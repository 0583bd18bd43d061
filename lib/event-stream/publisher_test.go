package eventstream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"talent-backend/models"
	dbmodels "talent-backend/models/db"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func testCandidate() dbmodels.Candidate {
	return dbmodels.Candidate{
		BaseTenantModel: dbmodels.BaseTenantModel{
			BaseModel: dbmodels.BaseModel{ID: "cand-1"},
			TenantID:  "tenant-a",
		},
		Status:        models.CandidateStatusScreening,
		PipelineStage: models.PipelineStageScreening,
	}
}

func TestPublish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := impl{writer: writer}

	publisher.Publish(context.Background(), models.EventCandidateStageChanged, testCandidate())
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	// ключ партиционирования - id кандидата
	require.Equal(t, []byte("cand-1"), msg.Key)

	payload := eventPayload{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	require.Equal(t, string(models.EventCandidateStageChanged), payload.EventType)
	require.Equal(t, "tenant-a", payload.TenantID)
	require.Equal(t, "cand-1", payload.CandidateID)
	require.Equal(t, string(models.CandidateStatusScreening), payload.Status)
	require.Equal(t, string(models.PipelineStageScreening), payload.Stage)

	ts, err := time.Parse(time.RFC3339, payload.Timestamp)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestPublishDeleted(t *testing.T) {
	writer := &fakeWriter{}
	publisher := impl{writer: writer}

	publisher.PublishDeleted(context.Background(), "tenant-a", "cand-9")
	require.Len(t, writer.messages, 1)

	payload := eventPayload{}
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &payload))
	require.Equal(t, string(models.EventCandidateDeleted), payload.EventType)
	require.Equal(t, "cand-9", payload.CandidateID)
	require.Empty(t, payload.Status)
}

func TestPublishBrokerFailureIsSwallowed(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	publisher := impl{writer: writer}

	// сбой брокера не поднимается к вызывающему
	publisher.Publish(context.Background(), models.EventCandidateCreated, testCandidate())
	require.Empty(t, writer.messages)
}

func TestClose(t *testing.T) {
	writer := &fakeWriter{}
	publisher := impl{writer: writer}
	require.NoError(t, publisher.Close())
	require.True(t, writer.closed)
}
