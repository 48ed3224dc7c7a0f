package validation_test

import (
	"testing"

	domainerrors "github.com/nguyentantai21042004/meeting-digest/internal/errors"
	"github.com/nguyentantai21042004/meeting-digest/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	SectionLength int    `yaml:"section_length" validate:"gt=0"`
	Backend       string `yaml:"backend" validate:"oneof=gemini ollama command"`
}

type outer struct {
	Inner inner  `yaml:"summary"`
	ID    string `json:"transcriptId" validate:"required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()
	err := v.Validate(outer{Inner: inner{SectionLength: 500, Backend: "gemini"}, ID: "t-1"})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		in        outer
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing id",
			in:        outer{Inner: inner{SectionLength: 1, Backend: "ollama"}},
			wantField: "transcriptId",
			wantMsg:   "is required",
		},
		{
			name:      "non-positive nested length",
			in:        outer{Inner: inner{Backend: "ollama"}, ID: "x"},
			wantField: "summary.section_length",
			wantMsg:   "must be greater than 0",
		},
		{
			name:      "unknown backend",
			in:        outer{Inner: inner{SectionLength: 3, Backend: "gpt"}, ID: "x"},
			wantField: "summary.backend",
			wantMsg:   "must be one of: gemini ollama command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}
