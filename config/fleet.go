package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/krishanu7/battleship-ai/internal/game"
	"gopkg.in/yaml.v3"
)

// LoadFleet reads an ordered ship-name → length mapping such as
//
//	Carrier: 5
//	Destroyer: 2
//
// An empty path returns the default roster.
func LoadFleet(path string) (game.Roster, error) {
	if path == "" {
		return game.DefaultRoster(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fleet file: %w", err)
	}
	return ParseFleet(data)
}

// ParseFleet decodes the YAML node tree directly so file order is kept.
func ParseFleet(data []byte) (game.Roster, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fleet: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse fleet: expected a mapping of ship name to length")
	}
	m := doc.Content[0]
	roster := make(game.Roster, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		name, val := m.Content[i], m.Content[i+1]
		length, err := strconv.Atoi(val.Value)
		if err != nil || val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse fleet: line %d: length of %s is not an integer", val.Line, name.Value)
		}
		roster = append(roster, game.ShipSpec{Name: name.Value, Length: length})
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return roster, nil
}
