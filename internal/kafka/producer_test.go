package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ms-directory/internal/logger"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestPublishWritesKeyedMessage(t *testing.T) {
	writer := new(mockWriter)
	producer := newProducer(writer, "directory", logger.NewWithWriter(io.Discard))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := NewChangeEvent("Venue", ActionCreated, 42, "The Fillmore", at)

	writer.On("WriteMessages", mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 {
			return false
		}
		var got ChangeEvent
		if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
			return false
		}
		return msgs[0].Topic == "directory.venue.created" &&
			string(msgs[0].Key) == "venue:42" &&
			got.Name == "The Fillmore" &&
			got.EntityID == 42 &&
			got.OccurredAt.Equal(at)
	})).Return(nil)

	require.NoError(t, producer.Publish(context.Background(), event))
	writer.AssertExpectations(t)
}

func TestPublishReturnsWriterError(t *testing.T) {
	writer := new(mockWriter)
	producer := newProducer(writer, "", nil)

	writer.On("WriteMessages", mock.Anything).Return(errors.New("broker down"))

	err := producer.Publish(context.Background(), NewChangeEvent("Artist", ActionDeleted, 7, "", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish artist.deleted event")
}

func TestNewChangeEvent(t *testing.T) {
	event := NewChangeEvent("Show", ActionCreated, 3, "", time.Now())
	assert.Equal(t, "show.created", event.Type)
	assert.Equal(t, "show", event.Entity)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
}

func TestDirectoryTopics(t *testing.T) {
	assert.Equal(t, []string{
		"directory.venue.created",
		"directory.venue.updated",
		"directory.venue.deleted",
		"directory.artist.created",
		"directory.artist.updated",
		"directory.artist.deleted",
		"directory.show.created",
	}, DirectoryTopics("directory"))
	assert.Equal(t, "venue.created", Topic("", "venue.created"))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ChangeEvent{}))
}
