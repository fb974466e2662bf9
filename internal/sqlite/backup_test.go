package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

func TestBackupRestore(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)

	id, err := src.CreateCard(ctx, &types.Card{Machine: "M12", Set: types.SetMittelsatz, Operator: "Jan", StoneType: "PKD"})
	require.NoError(t, err)
	require.NoError(t, src.SaveLineItems(ctx, id, []types.Line{{Code: "A1", Diameter: 0.5089}, {Code: "A2", Diameter: 0.462}}))

	dir := filepath.Join(t.TempDir(), "backup")
	stats, err := src.Backup(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, BackupStats{Cards: 1, Items: 2}, stats)

	data, err := os.ReadFile(filepath.Join(dir, detailsJSONL))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"code":"A1"`)

	// A malformed line is skipped on restore.
	f, err := os.OpenFile(filepath.Join(dir, detailsJSONL), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	dst := setupBackend(t)
	stats, err = dst.Restore(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, BackupStats{Cards: 1, Items: 2}, stats)

	card, err := dst.GetCard(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jan", card.Operator)
	assert.Equal(t, "PKD", card.StoneType)
	assert.Equal(t, itemSnapshot(t, src, id), itemSnapshot(t, dst, id))

	t.Run("restore is idempotent", func(t *testing.T) {
		_, err := dst.Restore(ctx, dir)
		require.NoError(t, err)
		assert.Len(t, itemSnapshot(t, dst, id), 2)
	})

	t.Run("missing backup files", func(t *testing.T) {
		_, err := dst.Restore(ctx, t.TempDir())
		assert.Error(t, err)
	})
}
