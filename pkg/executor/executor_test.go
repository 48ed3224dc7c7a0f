package executor

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	out, err := New().Execute(context.Background(), "echo", "summary")
	require.NoError(t, err)
	assert.Equal(t, "summary\n", out)
}

func TestExecuteInDir(t *testing.T) {
	if _, err := exec.LookPath("pwd"); err != nil {
		t.Skip("pwd not available")
	}

	dir := t.TempDir()
	out, err := NewInDir(dir).Execute(context.Background(), "pwd")
	require.NoError(t, err)
	assert.Contains(t, out, dir[len(dir)-8:])
}

func TestExecuteMissingBinary(t *testing.T) {
	_, err := New().Execute(context.Background(), "definitely-not-a-model-binary")
	assert.Error(t, err)
}
