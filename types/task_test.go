package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
	}{
		{TaskPending, false},
		{TaskRunning, false},
		{TaskSucceeded, true},
		{TaskFailed, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.Terminal(), "status %s", tt.status)
	}
}

func TestSlot_Valid(t *testing.T) {
	assert.True(t, SlotA.Valid())
	assert.True(t, SlotB.Valid())
	assert.False(t, SlotSelected.Valid())
	assert.False(t, Slot("C").Valid())
	assert.False(t, Slot("").Valid())
}
