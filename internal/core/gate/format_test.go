package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInstant(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-06-02T23:59:00+05:30", "2 June 2025 at 11:59 pm"},
		{"2025-06-08T10:00:00+05:30", "8 June 2025 at 10:00 am"},
		{"2025-05-28T00:00:00+05:30", "28 May 2025 at 12:00 am"},
		{"2025-06-02T18:00:00+05:30", "2 June 2025 at 06:00 pm"},
		{"2025-06-15T06:30:00Z", "15 June 2025 at 12:00 pm"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInstant(mustParse(t, tt.in)))
		})
	}
}

func TestFormatInstantIgnoresSourceZone(t *testing.T) {
	instant := mustParse(t, "2025-06-02T23:59:00+05:30")
	newYork := time.FixedZone("EDT", -4*60*60)

	assert.Equal(t, FormatInstant(instant), FormatInstant(instant.In(newYork)))
	assert.Equal(t, FormatInstant(instant), FormatInstant(instant.UTC()))
}

func TestFormatInstantStable(t *testing.T) {
	instant := mustParse(t, "2025-06-07T23:59:00+05:30")
	first := FormatInstant(instant)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, FormatInstant(instant))
	}
}

func TestEvaluate(t *testing.T) {
	target := mustParse(t, "2025-06-15T12:00:00+05:30")

	state := Evaluate(target.Add(-time.Minute), target)
	assert.True(t, state.Locked)
	assert.Equal(t, "15 June 2025 at 12:00 pm", state.DisplayText)

	state = Evaluate(target, target)
	assert.False(t, state.Locked)
	assert.Equal(t, "15 June 2025 at 12:00 pm", state.DisplayText)
}
