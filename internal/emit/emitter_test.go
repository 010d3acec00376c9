package emit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/psgc-cli/internal/psgc"
	"github.com/sells-group/psgc-cli/internal/store"
)

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("toml", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "toml"`)
	assert.Contains(t, err.Error(), "kotlin")
}

func TestNew_CaseInsensitive(t *testing.T) {
	e, err := New(" JSON ", Options{})
	require.NoError(t, err)
	assert.IsType(t, JSONEmitter{}, e)
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []string{"json", "kotlin", "sqlite", "xlsx", "yaml"}, Formats())
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".kt", Extension(FormatKotlin))
	assert.Equal(t, ".db", Extension(FormatSQLite))
	assert.Equal(t, ".json", Extension(FormatJSON))
	assert.Equal(t, ".xlsx", Extension(FormatXLSX))
}

func TestJSONEmitter_RoundTrip(t *testing.T) {
	tree := kotlinTree()

	var buf bytes.Buffer
	require.NoError(t, JSONEmitter{}.Emit(context.Background(), tree, &buf))
	assert.Contains(t, buf.String(), `"municipalities": []`)
	assert.NotContains(t, buf.String(), "synthetic")

	var back psgc.Tree
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *tree, back)
}

func TestYAMLEmitter(t *testing.T) {
	tree := kotlinTree()
	tree.Provinces[0].Synthetic = true

	var buf bytes.Buffer
	require.NoError(t, YAMLEmitter{}.Emit(context.Background(), tree, &buf))
	assert.Contains(t, buf.String(), "synthetic: true")

	var back psgc.Tree
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Provinces, 2)
	assert.Equal(t, `Bgy "1" $x`, back.Provinces[1].Municipalities[0].Barangays[1].Name)
}

func TestXLSXEmitter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXEmitter{}.Emit(context.Background(), kotlinTree(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetProvinces, SheetMunicipalities, SheetBarangays}, f.GetSheetList())

	provinces, err := f.GetRows(SheetProvinces)
	require.NoError(t, err)
	require.Len(t, provinces, 3)
	assert.Equal(t, []string{"Code", "Name", "Synthetic"}, provinces[0])
	assert.Equal(t, "Abra", provinces[1][1])

	municipalities, err := f.GetRows(SheetMunicipalities)
	require.NoError(t, err)
	require.Len(t, municipalities, 3)
	assert.Equal(t, []string{"012801000", "Adams", "012800000"}, municipalities[1])

	barangays, err := f.GetRows(SheetBarangays)
	require.NoError(t, err)
	require.Len(t, barangays, 3)
	assert.Equal(t, "012801000", barangays[2][2])
}

func TestSQLiteEmitter(t *testing.T) {
	var buf bytes.Buffer
	e, err := New(FormatSQLite, Options{Source: "unit-test"})
	require.NoError(t, err)
	require.NoError(t, e.Emit(context.Background(), kotlinTree(), &buf))

	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tree, err := store.ReadTree(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, psgc.Counts{Provinces: 2, Municipalities: 2, Barangays: 2}, tree.Counts())

	st, err := store.NewSQLite(path)
	require.NoError(t, err)
	defer st.Close()
	info, err := st.LatestBuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "unit-test", info.Source)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")

	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("first"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestWriteFile_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	boom := errors.New("boom")
	err := WriteFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PsgcData.kt")
	require.NoError(t, Render(context.Background(), kotlinTree(), FormatKotlin, Options{}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "object PsgcData {")

	err = Render(context.Background(), kotlinTree(), "bogus", Options{}, path)
	assert.Error(t, err)
}

func TestEmit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, format := range []string{FormatKotlin, FormatJSON, FormatYAML, FormatXLSX} {
		e, err := New(format, Options{})
		require.NoError(t, err)
		assert.Error(t, e.Emit(ctx, kotlinTree(), io.Discard), format)
	}
}
