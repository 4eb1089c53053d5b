package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		push     []int
		want     []int
	}{
		{name: "empty", capacity: 3, push: nil, want: []int{}},
		{name: "partially filled", capacity: 3, push: []int{1, 2}, want: []int{1, 2}},
		{name: "exactly full", capacity: 3, push: []int{1, 2, 3}, want: []int{1, 2, 3}},
		{name: "wrapped", capacity: 3, push: []int{1, 2, 3, 4, 5}, want: []int{3, 4, 5}},
		{name: "zero capacity keeps one", capacity: 0, push: []int{1, 2}, want: []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ring := NewRing[int](tt.capacity)
			for _, v := range tt.push {
				ring.Push(v)
			}
			assert.Equal(t, tt.want, ring.Items())
			assert.Equal(t, len(tt.want), ring.Len())
		})
	}
}

func TestLogRotatorKeepsRecentLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.log")
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)

	rotator := NewLogRotator(file, 3, path)
	for i := range 7 {
		_, err := fmt.Fprintf(rotator, "line %d\n", i)
		require.NoError(t, err)
	}

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	assert.Equal(t, []string{"line 3", "line 4", "line 5", "line 6"}, lines)
}
