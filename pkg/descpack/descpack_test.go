package descpack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogueforge/simcore/pkg/simerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func validPackDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "pack.meta", "schema_version=3\n")
	writeFile(t, dir, "grass.biome.cfg", "display_name=Grassland\nbase_elevation=0.4\nbase_moisture=0.5\nbase_temperature=0.6\ntile_weight.grass=10\ntile_weight.forest=2\n")
	return dir
}

func TestLoadValidPack(t *testing.T) {
	pack, err := Load(validPackDir(t), nil)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, pack.SchemaVersion)
	grass, ok := pack.Biomes["grass"]
	require.True(t, ok)
	assert.Equal(t, "Grassland", grass.DisplayName)
	assert.Equal(t, 10, grass.TileWeights["grass"])
}

func TestLoadRejectsMissingSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pack.meta", "other=1\n")
	_, err := Load(dir, nil)
	assert.ErrorIs(t, err, simerr.ErrPackParseError)
}

func TestLoadRejectsNewerUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pack.meta", "schema_version=99\n")
	_, err := Load(dir, nil)
	assert.ErrorIs(t, err, simerr.ErrSchemaUnsupported)
}

func TestLoadAppliesMigrationChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pack.meta", "schema_version=1\n")
	writeFile(t, dir, "swamp.biome.cfg", "display_name=Swamp\nbase_elevation=0.2\nbase_moisture=0.9\nbase_temperature=0.5\n")

	reg := NewMigrationRegistry()
	applied := []int{}
	reg.Register(1, func(meta map[string]string, biomes map[string]map[string]string) { applied = append(applied, 1) })
	reg.Register(2, func(meta map[string]string, biomes map[string]map[string]string) { applied = append(applied, 2) })

	pack, err := Load(dir, reg)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied, "expected both migration steps applied in order")
	assert.Equal(t, CurrentSchemaVersion, pack.SchemaVersion, "expected fully migrated pack")
}

func TestLoadRejectsEntirePackOnOneBadDescriptor(t *testing.T) {
	dir := validPackDir(t)
	writeFile(t, dir, "broken.biome.cfg", "display_name=Broken\nbase_elevation=5\nbase_moisture=0.5\nbase_temperature=0.5\n")
	_, err := Load(dir, nil)
	assert.ErrorIs(t, err, simerr.ErrValidationFailed, "expected the whole pack rejected")
}

func TestManagerHotReloadKeepsPreviousPackOnFailure(t *testing.T) {
	dir := validPackDir(t)
	mgr := NewManager(nil)
	require.NoError(t, mgr.Load(dir))
	before := mgr.Active()

	writeFile(t, dir, "pack.meta", "schema_version=99\n")
	assert.Error(t, mgr.HotReload(dir), "expected hot reload with unsupported schema to fail")
	assert.Same(t, before, mgr.Active(), "expected the previously active pack to remain untouched after a failed reload")
}

func TestWatcherTriggersHotReloadOnWrite(t *testing.T) {
	dir := validPackDir(t)
	mgr := NewManager(nil)
	require.NoError(t, mgr.Load(dir))

	w, err := NewWatcher(mgr, dir, nil)
	require.NoError(t, err)
	defer w.Close()
	go w.Run()

	writeFile(t, dir, "desert.biome.cfg", "display_name=Desert\nbase_elevation=0.3\nbase_moisture=0.1\nbase_temperature=0.9\n")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := mgr.Active().Biomes["desert"]; ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("expected watcher to hot-reload the pack after a file write")
}
