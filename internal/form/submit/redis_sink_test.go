package submit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"NYCU-SDC/checkin-backend/internal/form/shared"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPusher struct {
	mock.Mock
}

func (m *mockPusher) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	args := m.Called(ctx, key, values)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisSink_Deliver(t *testing.T) {
	payload := shared.NewSubmissionPayload(shared.AnswerSet{
		"hydration": shared.ChoiceAnswer{Value: "yes"},
	}, "user@example.com", time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC))

	t.Run("Should push the payload as JSON", func(t *testing.T) {
		pusher := new(mockPusher)
		pusher.On("RPush", mock.Anything, "checkin:submissions", mock.Anything).
			Return(redis.NewIntResult(1, nil)).
			Run(func(args mock.Arguments) {
				values := args.Get(2).([]interface{})
				require.Len(t, values, 1)

				var body map[string]any
				require.NoError(t, json.Unmarshal(values[0].([]byte), &body))
				assert.Equal(t, payload.ID().String(), body["id"])
				assert.Equal(t, "user@example.com", body["email"])
				assert.Equal(t, map[string]any{"hydration": "yes"}, body["answers"])
			})

		sink := NewRedisSink(zap.NewNop(), pusher, "checkin:submissions")
		require.NoError(t, sink.Deliver(context.Background(), payload))
		pusher.AssertExpectations(t)
	})

	t.Run("Should return the push error", func(t *testing.T) {
		pusher := new(mockPusher)
		pusher.On("RPush", mock.Anything, "checkin:submissions", mock.Anything).
			Return(redis.NewIntResult(0, errors.New("connection refused")))

		sink := NewRedisSink(zap.NewNop(), pusher, "checkin:submissions")
		err := sink.Deliver(context.Background(), payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
