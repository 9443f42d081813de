package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/krishanu7/battleship-ai/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFleetKeepsOrder(t *testing.T) {
	roster, err := ParseFleet([]byte("Destroyer: 2\nCarrier: 5\nSubmarine: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, game.Roster{
		{Name: "Destroyer", Length: 2},
		{Name: "Carrier", Length: 5},
		{Name: "Submarine", Length: 3},
	}, roster)
}

func TestParseFleetErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"not a mapping": "- Carrier\n- Destroyer\n",
		"bad length":    "Carrier: five\n",
		"nested length": "Carrier: [5]\n",
		"zero length":   "Carrier: 0\n",
		"single cell":   "Dinghy: 1\n",
		"duplicate":     "Carrier: 5\nCarrier: 4\n",
		"empty":         "",
	} {
		_, err := ParseFleet([]byte(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadFleet(t *testing.T) {
	roster, err := LoadFleet("")
	require.NoError(t, err)
	assert.Equal(t, game.DefaultRoster(), roster)

	path := filepath.Join(t.TempDir(), "fleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Cruiser: 3\n"), 0o600))
	roster, err = LoadFleet(path)
	require.NoError(t, err)
	assert.Equal(t, game.Roster{{Name: "Cruiser", Length: 3}}, roster)

	_, err = LoadFleet(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BOARD_SIZE", "8")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAX_ATTEMPTS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.BoardSize)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.MaxAttempts)
	assert.Equal(t, "parity", cfg.AIStrategy)

	t.Setenv("BOARD_SIZE", "40")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("BOARD_SIZE", "ten")
	_, err = LoadConfig()
	assert.Error(t, err)
}
