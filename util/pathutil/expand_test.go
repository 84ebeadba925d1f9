package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	t.Setenv("PREFLIGHT_TEST_DIR", "/var/lib/preflight")

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/logs/preflight.log", filepath.Join(home, "logs", "preflight.log")},
		{"$PREFLIGHT_TEST_DIR/preflight.log", "/var/lib/preflight/preflight.log"},
		{"${PREFLIGHT_TEST_DIR}/x", "/var/lib/preflight/x"},
		{"relative.toml", filepath.Join(cwd, "relative.toml")},
		{"~user/file", filepath.Join(cwd, "~user", "file")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
