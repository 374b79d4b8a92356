package kafka

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("FEMA-DR-4781-TX"),
		Value:     []byte(`{"id":"FEMA-DR-4781-TX"}`),
		Topic:     "raw-disaster-declarations",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("FEMA")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("FEMA-DR-4781-TX"), raw.Key)
	assert.JSONEq(t, `{"id":"FEMA-DR-4781-TX"}`, string(raw.Value))
	assert.Equal(t, "raw-disaster-declarations", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "FEMA", raw.Headers["source"])
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, time.February, 14, 6, 0, 0, 0, time.UTC)
	rec := domain.DisasterRecord{
		ID:          "FEMA-DR-4781-TX",
		Source:      domain.SourceFEMA,
		State:       "TX",
		Status:      domain.StatusActive,
		LastUpdated: now,
	}

	msg, err := serializeToMessage(rec)
	require.NoError(t, err)

	assert.Equal(t, []byte("FEMA-DR-4781-TX"), msg.Key)
	assert.Contains(t, string(msg.Value), `"status":"active"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "source", msg.Headers[0].Key)
	assert.Equal(t, []byte("FEMA"), msg.Headers[0].Value)
	assert.Equal(t, "state", msg.Headers[1].Key)
	assert.Equal(t, []byte("TX"), msg.Headers[1].Value)
	assert.Equal(t, "compiled_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}
