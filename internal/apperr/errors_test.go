package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesSentinelByCode(t *testing.T) {
	err := ErrSlotConflict.WithMessage("lesson %q at 10:00", "Parking")
	wrapped := fmt.Errorf("add slot: %w", err)

	assert.ErrorIs(t, wrapped, ErrSlotConflict)
	assert.NotErrorIs(t, wrapped, ErrSlotExists)
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.Contains(t, err.Error(), "SLOT_CONFLICT")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Network(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNetwork, KindOf(err))
	assert.False(t, IsKind(nil, KindNetwork))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", ErrSlotExists, "⚠️ This time is already marked as available"},
		{"server", Server(500, "database down"), "❌ Database down"},
		{"server empty message", Server(502, ""), "❌ Request failed"},
		{"network", Network(errors.New("timeout")), "📡 Could not reach the server. Check your connection and try again."},
		{"auth", fmt.Errorf("dashboard: %w", ErrAuthRequired), "🔒 Please log in first: /login"},
		{"malformed", Malformed("lessons is not a list"), "❌ The server sent an unexpected response. Please try again later."},
		{"plain", errors.New("boom"), "❌ Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestServerErrorCarriesStatus(t *testing.T) {
	err := Server(409, "duplicate")
	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "SERVER (409): duplicate", err.Error())
}
