package destinations

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadNames(t *testing.T) {
	in := "# rest homes\nAvon Lodge\n\n  Bay View Rest Home  \r\n#skip\nCedar House\n"

	names, err := ReadNames(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"Avon Lodge", "Bay View Rest Home", "Cedar House"}, names)
}

func TestTextFileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rest_homes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\nB\n"), 0o644))

	names, err := NewTextFileRepository(path).ListDestinations(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, names)

	_, err = NewTextFileRepository(filepath.Join(t.TempDir(), "missing.txt")).ListDestinations(context.Background())
	require.Error(t, err)
}
