package export

import (
	"encoding/json"
	"os"

	"github.com/rogueforge/simcore/pkg/worldgen"
)

// ExportJSON serializes the complete world to JSON with indentation.
// Returns formatted JSON with 2-space indentation for readability.
func ExportJSON(world *worldgen.World) ([]byte, error) {
	return json.MarshalIndent(world, "", "  ")
}

// ExportJSONCompact serializes the world to JSON without indentation.
// Returns compact JSON suitable for storage or transmission.
func ExportJSONCompact(world *worldgen.World) ([]byte, error) {
	return json.Marshal(world)
}

// SaveJSONToFile exports the world to a JSON file with indentation.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONToFile(world *worldgen.World, filepath string) error {
	data, err := ExportJSON(world)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports the world to a compact JSON file.
// The file is created with 0644 permissions (readable by all, writable by owner).
func SaveJSONCompactToFile(world *worldgen.World, filepath string) error {
	data, err := ExportJSONCompact(world)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
