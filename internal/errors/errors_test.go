package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := UnsupportedVariantf("variant %q is not yet available", "long")
	wrapped := fmt.Errorf("format report: %w", err)

	assert.True(t, Is(wrapped, ErrUnsupportedVariant))
	assert.False(t, Is(wrapped, ErrModelFailure))
	assert.Equal(t, `format report: variant "long" is not yet available`, wrapped.Error())
}

func TestRetriable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"model failure", Model(io.EOF, "generate"), true},
		{"upstream failure", fmt.Errorf("list: %w", Upstream(io.ErrUnexpectedEOF, "get")), true},
		{"parse anomaly", ParseAnomalyf("no speaker"), false},
		{"unsupported variant", ErrUnsupportedVariant, false},
		{"plain error", io.EOF, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetriable(tt.err))
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	err := Model(io.EOF, "generate")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "generate: EOF", err.Error())

	detailed := ErrValidation.WithDetails(map[string]string{"transcriptId": "is required"})
	assert.True(t, Is(detailed, ErrValidation))
	assert.NotNil(t, detailed.Details)
}
