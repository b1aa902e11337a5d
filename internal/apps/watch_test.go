package apps

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/tests/helpers/testutil"
)

func TestWatchCatalogReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apps:\n  - names: [one]\n    target: one.exe\n"), 0o644))

	initial, err := LoadCatalog(path)
	require.NoError(t, err)
	holder := NewCatalogHolder(initial)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, WatchCatalog(ctx, path, holder, logging.NewNop()))

	// A broken document is ignored.
	require.NoError(t, os.WriteFile(path, []byte("apps: [[["), 0o644))
	time.Sleep(3 * reloadDebounce)
	assert.Equal(t, uint64(0), holder.Version())

	require.NoError(t, os.WriteFile(path, []byte("apps:\n  - names: [two]\n    target: two.exe\n"), 0o644))
	require.True(t, testutil.WaitFor(t, 5*time.Second, func() bool {
		_, ok := holder.Load().Lookup("two")
		return ok
	}))
	_, ok := holder.Load().Lookup("one")
	assert.False(t, ok)
}
