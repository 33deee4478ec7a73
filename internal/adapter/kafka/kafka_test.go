package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropredict/agropredict/internal/config"
	"github.com/agropredict/agropredict/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 30, 0, 123000000, time.UTC)
	p := domain.Prediction{
		ID:         "3f1c2a9e-0000-4000-8000-000000000001",
		Crop:       "rice",
		Confidence: 0.92,
		Features:   domain.Features{N: 80, P: 55, K: 45, Temperature: 25, Humidity: 88, PH: 6.5, Rainfall: 220},
		CreatedAt:  now,
	}

	msg, err := serializeToMessage(p)
	require.NoError(t, err)

	assert.Equal(t, []byte(p.ID), msg.Key)
	assert.Contains(t, string(msg.Value), `"crop":"rice"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "crop", msg.Headers[0].Key)
	assert.Equal(t, []byte("rice"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-06-01T09:30:00.123Z"), msg.Headers[1].Value)

	var decoded domain.Prediction
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, p, decoded)
}

func TestWriter_PublishBatchEmptyIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaPredictionsTopic: "test"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, w.PublishBatch(context.Background(), nil))
}

func TestNewWriter_UsesConfiguredTopic(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"a:9092", "b:9092"}, KafkaPredictionsTopic: "crop-predictions"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "crop-predictions", w.writer.Topic)
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
}
