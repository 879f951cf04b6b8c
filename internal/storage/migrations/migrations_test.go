package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/mudproxy/internal/storage/migrations"
)

func TestFS_EveryUpHasDown(t *testing.T) {
	for _, dir := range []string{"postgres", "sqlite"} {
		entries, err := fs.ReadDir(migrations.FS, dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries, dir)

		names := make(map[string]bool, len(entries))
		for _, e := range entries {
			names[e.Name()] = true
		}
		for name := range names {
			if strings.HasSuffix(name, ".up.sql") {
				down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
				assert.True(t, names[down], "%s/%s has no down migration", dir, name)
			}
		}
	}
}

func TestFS_DriversShareVersions(t *testing.T) {
	pg, err := fs.Glob(migrations.FS, "postgres/*.up.sql")
	require.NoError(t, err)
	lite, err := fs.Glob(migrations.FS, "sqlite/*.up.sql")
	require.NoError(t, err)

	trim := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = p[strings.Index(p, "/")+1:]
		}
		return out
	}
	assert.Equal(t, trim(pg), trim(lite))
}
