package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCallStatus(t *testing.T) {
	tests := []struct {
		in   string
		want CallStatus
	}{
		{"upcoming", CallStatusUpcoming},
		{"pending", CallStatusPending},
		{"completed", CallStatusCompleted},
		{"all", CallStatusAll},
		{"", CallStatusAll},
		{"cancelled", CallStatusAll},
		{"UPCOMING", CallStatusAll},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCallStatus(tt.in))
		})
	}
}
