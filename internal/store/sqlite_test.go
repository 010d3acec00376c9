package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/psgc-cli/internal/psgc"
)

func newTestSQLiteStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "psgc.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st, dbPath
}

func sampleTree() *psgc.Tree {
	return &psgc.Tree{Provinces: []psgc.Province{
		{
			Code: "012800000",
			Name: "Ilocos Norte",
			Municipalities: []psgc.Municipality{
				{Code: "012801000", Name: "Adams", Barangays: []psgc.Barangay{
					{Code: "012801001", Name: "Adams"},
				}},
				{Code: "012802000", Name: "Bacarra", Barangays: []psgc.Barangay{}},
			},
		},
		{Code: "130000000", Name: "Unknown Province", Synthetic: true, Municipalities: []psgc.Municipality{
			{Code: "130100000", Name: "Manila", Barangays: []psgc.Barangay{}},
		}},
		{Code: "014000000", Name: "Abra", Municipalities: []psgc.Municipality{}},
	}}
}

func TestSQLite_SaveAndLoadTree(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	tree := sampleTree()
	info, err := st.SaveTree(ctx, tree, BuildInfo{Source: "psgc.json"})
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 3, info.Provinces)
	assert.Equal(t, 3, info.Municipalities)
	assert.Equal(t, 1, info.Barangays)

	loaded, err := st.LoadTree(ctx)
	require.NoError(t, err)

	tree.Sort()
	assert.Equal(t, tree, loaded)
}

func TestSQLite_SaveTreeReplaces(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.SaveTree(ctx, sampleTree(), BuildInfo{})
	require.NoError(t, err)

	small := &psgc.Tree{Provinces: []psgc.Province{{Code: "014000000", Name: "Abra", Municipalities: []psgc.Municipality{}}}}
	_, err = st.SaveTree(ctx, small, BuildInfo{ID: "second"})
	require.NoError(t, err)

	loaded, err := st.LoadTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, small, loaded)
}

func TestSQLite_DuplicateMunicipalityCodes(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	tree := &psgc.Tree{Provinces: []psgc.Province{
		{Code: "A", Name: "A", Municipalities: []psgc.Municipality{{Code: "X", Name: "One", Barangays: []psgc.Barangay{}}}},
		{Code: "B", Name: "B", Municipalities: []psgc.Municipality{{Code: "X", Name: "Two", Barangays: []psgc.Barangay{}}}},
	}}
	_, err := st.SaveTree(ctx, tree, BuildInfo{})
	require.NoError(t, err)

	loaded, err := st.LoadTree(ctx)
	require.NoError(t, err)
	assert.Equal(t, tree, loaded)
}

func TestSQLite_LatestBuild(t *testing.T) {
	st, _ := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.LatestBuild(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build info not found")

	saved, err := st.SaveTree(ctx, sampleTree(), BuildInfo{ID: "build-1", Source: "psgc.xlsx"})
	require.NoError(t, err)

	info, err := st.LatestBuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build-1", info.ID)
	assert.Equal(t, "psgc.xlsx", info.Source)
	assert.Equal(t, saved.Barangays, info.Barangays)
}

func TestReadTree_SQLite(t *testing.T) {
	st, dbPath := newTestSQLiteStore(t)
	_, err := st.SaveTree(context.Background(), sampleTree(), BuildInfo{})
	require.NoError(t, err)

	tree, err := ReadTree(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, 3, tree.Counts().Provinces)
}

func TestReadTree_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	data, err := json.Marshal(map[string]any{
		"provinces": []map[string]any{
			{"code": "2", "name": "Zambales", "municipalities": []map[string]any{
				{"code": "21", "name": "Iba"},
			}},
			{"code": "1", "name": "Abra", "municipalities": []any{}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tree, err := ReadTree(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tree.Provinces, 2)
	assert.Equal(t, "Abra", tree.Provinces[0].Name)
	assert.NotNil(t, tree.Provinces[1].Municipalities[0].Barangays)
}

func TestReadTree_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadTree(context.Background(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = ReadTree(context.Background(), filepath.Join(dir, "missing.db"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadTree(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode tree")
}

func TestIsSQLitePath(t *testing.T) {
	assert.True(t, IsSQLitePath("out/psgc.db"))
	assert.True(t, IsSQLitePath("PSGC.SQLITE"))
	assert.False(t, IsSQLitePath("tree.json"))
}
