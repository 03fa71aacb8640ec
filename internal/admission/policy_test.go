package admission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyhub/internal/admission"
	"studyhub/internal/model"
)

func TestShouldAutoAccept(t *testing.T) {
	tests := []struct {
		name          string
		eventType     model.EventType
		acceptedCount int
		limit         int
		want          bool
	}{
		{"fcfs with free spot", model.FCFS, 0, 2, true},
		{"fcfs last spot", model.FCFS, 1, 2, true},
		{"fcfs full", model.FCFS, 2, 2, false},
		{"fcfs over full", model.FCFS, 3, 2, false},
		{"confirmative empty", model.Confirmative, 0, 2, false},
		{"confirmative with free spot", model.Confirmative, 1, 5, false},
		{"confirmative full", model.Confirmative, 2, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, admission.ShouldAutoAccept(tt.eventType, tt.acceptedCount, tt.limit))
		})
	}
}

func TestHasFreeSpot(t *testing.T) {
	assert.True(t, admission.HasFreeSpot(0, 1))
	assert.True(t, admission.HasFreeSpot(4, 5))
	assert.False(t, admission.HasFreeSpot(5, 5))
	assert.False(t, admission.HasFreeSpot(6, 5))
}
