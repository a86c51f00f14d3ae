package status

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	var statustests = []struct {
		in  string
		out Status
	}{
		{"Accepted", Accepted},
		{"Wrong Answer", WrongAnswer},
		{"Time Limit Exceeded", TimeLimitExceeded},
		{"Memory Limit Exceeded", TimeLimitExceeded},
		{"Runtime Error", RuntimeError},
		{"Compile Error", CompileError},
		{"Compilation Error", CompileError},
		{"Something Completely New", WrongAnswer},
		{"", WrongAnswer},
	}
	for _, tt := range statustests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.out, Normalize(tt.in))
		})
	}
}

func TestValid(t *testing.T) {
	require.True(t, Accepted.Valid())
	require.True(t, TimeLimitExceeded.Valid())
	require.False(t, Status("Memory Limit Exceeded").Valid())
	require.False(t, Status("").Valid())
}
