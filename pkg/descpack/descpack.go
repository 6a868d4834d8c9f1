// Package descpack implements the descriptor pack loader from spec.md
// §4.12: versioned `pack.meta` + migration chain, a bespoke `*.biome.cfg`
// key=value parser, validate-all-or-reject-entire-pack loading, and an
// atomic hot-reload swap.
package descpack

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cenkalti/backoff/v4"

	"github.com/rogueforge/simcore/pkg/simerr"
)

// CurrentSchemaVersion is the schema version this loader natively
// understands without migration.
const CurrentSchemaVersion = 3

// BiomeDescriptor is one parsed `*.biome.cfg` file's contents.
type BiomeDescriptor struct {
	ID              string
	DisplayName     string
	BaseElevation   float64
	BaseMoisture    float64
	BaseTemperature float64
	TileWeights     map[string]int
}

// Pack is a fully loaded, validated set of descriptors at
// CurrentSchemaVersion.
type Pack struct {
	SchemaVersion int
	Biomes        map[string]BiomeDescriptor
}

// MigrationFunc upgrades raw pack.meta/biome key=value data by exactly one
// schema version step.
type MigrationFunc func(meta map[string]string, biomes map[string]map[string]string)

// MigrationRegistry holds one MigrationFunc per (fromVersion -> fromVersion+1) step.
type MigrationRegistry struct {
	steps map[int]MigrationFunc
}

// NewMigrationRegistry returns an empty registry.
func NewMigrationRegistry() *MigrationRegistry {
	return &MigrationRegistry{steps: make(map[int]MigrationFunc)}
}

// Register adds the migration step from fromVersion to fromVersion+1.
func (r *MigrationRegistry) Register(fromVersion int, fn MigrationFunc) {
	r.steps[fromVersion] = fn
}

// chain returns the ordered migration steps needed to bring fromVersion up
// to CurrentSchemaVersion, failing if any intermediate step is missing.
func (r *MigrationRegistry) chain(fromVersion int) ([]MigrationFunc, error) {
	var fns []MigrationFunc
	for v := fromVersion; v < CurrentSchemaVersion; v++ {
		fn, ok := r.steps[v]
		if !ok {
			return nil, fmt.Errorf("descpack: no migration registered for version %d: %w", v, simerr.ErrSchemaUnsupported)
		}
		fns = append(fns, fn)
	}
	return fns, nil
}

func parseKV(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	kv := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("descpack: malformed line %q in %s: %w", line, path, simerr.ErrPackParseError)
		}
		kv[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return kv, nil
}

func readDirWithRetry(dir string) ([]os.DirEntry, error) {
	var entries []os.DirEntry
	op := func() error {
		var err error
		entries, err = os.ReadDir(dir)
		return err
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)); err != nil {
		return nil, fmt.Errorf("descpack: read directory %s: %w", dir, simerr.ErrIOError)
	}
	return entries, nil
}

// Load reads pack.meta and every *.biome.cfg file from dir, migrates the
// raw key=value data up to CurrentSchemaVersion if needed, and validates
// every descriptor before returning a Pack. Any single failure rejects the
// entire pack — no partial state is returned.
func Load(dir string, migrations *MigrationRegistry) (*Pack, error) {
	metaPath := filepath.Join(dir, "pack.meta")
	meta, err := parseKV(metaPath)
	if err != nil {
		return nil, fmt.Errorf("descpack: load %s: %w", dir, err)
	}
	rawVersion, ok := meta["schema_version"]
	if !ok {
		return nil, fmt.Errorf("descpack: %s missing schema_version: %w", metaPath, simerr.ErrPackParseError)
	}
	version, err := strconv.Atoi(rawVersion)
	if err != nil {
		return nil, fmt.Errorf("descpack: %s schema_version not an integer: %w", metaPath, simerr.ErrPackParseError)
	}

	entries, err := readDirWithRetry(dir)
	if err != nil {
		return nil, err
	}

	rawBiomes := make(map[string]map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".biome.cfg") {
			continue
		}
		kv, err := parseKV(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("descpack: load %s: %w", dir, err)
		}
		id := strings.TrimSuffix(e.Name(), ".biome.cfg")
		rawBiomes[id] = kv
	}

	if version > CurrentSchemaVersion {
		return nil, fmt.Errorf("descpack: %s declares schema_version %d, newer than %d: %w", metaPath, version, CurrentSchemaVersion, simerr.ErrSchemaUnsupported)
	}
	if version < CurrentSchemaVersion {
		if migrations == nil {
			return nil, fmt.Errorf("descpack: %s declares schema_version %d, no migration registry supplied: %w", metaPath, version, simerr.ErrSchemaUnsupported)
		}
		steps, err := migrations.chain(version)
		if err != nil {
			return nil, err
		}
		for _, fn := range steps {
			fn(meta, rawBiomes)
		}
	}

	pack := &Pack{SchemaVersion: CurrentSchemaVersion, Biomes: make(map[string]BiomeDescriptor, len(rawBiomes))}
	for id, kv := range rawBiomes {
		desc, err := validateBiome(id, kv)
		if err != nil {
			return nil, fmt.Errorf("descpack: load %s: %w", dir, err)
		}
		pack.Biomes[id] = desc
	}
	return pack, nil
}

func validateBiome(id string, kv map[string]string) (BiomeDescriptor, error) {
	desc := BiomeDescriptor{ID: id, DisplayName: kv["display_name"], TileWeights: make(map[string]int)}
	if desc.DisplayName == "" {
		return desc, fmt.Errorf("biome %q missing display_name: %w", id, simerr.ErrValidationFailed)
	}
	var err error
	if desc.BaseElevation, err = parseUnitFloat(kv["base_elevation"]); err != nil {
		return desc, fmt.Errorf("biome %q base_elevation: %w", id, err)
	}
	if desc.BaseMoisture, err = parseUnitFloat(kv["base_moisture"]); err != nil {
		return desc, fmt.Errorf("biome %q base_moisture: %w", id, err)
	}
	if desc.BaseTemperature, err = parseUnitFloat(kv["base_temperature"]); err != nil {
		return desc, fmt.Errorf("biome %q base_temperature: %w", id, err)
	}
	for key, value := range kv {
		tile, ok := strings.CutPrefix(key, "tile_weight.")
		if !ok {
			continue
		}
		weight, err := strconv.Atoi(value)
		if err != nil || weight < 0 {
			return desc, fmt.Errorf("biome %q tile_weight.%s invalid: %w", id, tile, simerr.ErrValidationFailed)
		}
		desc.TileWeights[tile] = weight
	}
	return desc, nil
}

func parseUnitFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing: %w", simerr.ErrValidationFailed)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not a float: %w", simerr.ErrValidationFailed)
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("out of [0,1]: %w", simerr.ErrValidationFailed)
	}
	return v, nil
}

// SortedBiomeIDs returns the pack's biome IDs in deterministic order, for
// callers that need reproducible iteration (logging, export).
func (p *Pack) SortedBiomeIDs() []string {
	ids := make([]string, 0, len(p.Biomes))
	for id := range p.Biomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Manager holds the currently active Pack and swaps it atomically on a
// successful hot-reload, per spec.md §1's "previous state discarded only
// after the new state validates".
type Manager struct {
	active     atomic.Pointer[Pack]
	migrations *MigrationRegistry
}

// NewManager builds a Manager with no active pack loaded yet.
func NewManager(migrations *MigrationRegistry) *Manager {
	return &Manager{migrations: migrations}
}

// Load performs the initial load from dir and activates it.
func (m *Manager) Load(dir string) error {
	pack, err := Load(dir, m.migrations)
	if err != nil {
		return err
	}
	m.active.Store(pack)
	return nil
}

// Active returns the currently active Pack, or nil if none has loaded yet.
func (m *Manager) Active() *Pack { return m.active.Load() }

// HotReload loads dir fresh and, only if it validates completely, swaps it
// in as the active pack. On failure the previously active pack is left
// untouched and the error is returned.
func (m *Manager) HotReload(dir string) error {
	pack, err := Load(dir, m.migrations)
	if err != nil {
		return err
	}
	m.active.Store(pack)
	return nil
}
