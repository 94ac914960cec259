package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	workers := []string{"佐藤", "鈴木", "Tanaka"}
	tests := []struct {
		input string
		want  string
	}{
		{"tanaka", "Tanaka"},
		{"Tanakaa", "Tanaka"},
		{"佐籐", "佐藤"},
		{"Yamamoto", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, closest(tt.input, workers))
		})
	}
}

func TestUnknownNameError(t *testing.T) {
	err := unknownNameError("worker", "Tanak", []string{"Tanaka"})
	assert.EqualError(t, err, `unknown worker "Tanak" (did you mean "Tanaka"?)`)

	err = unknownNameError("worker", "Zed", nil)
	assert.EqualError(t, err, `unknown worker "Zed"`)
}
