package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

type bossEntry struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	MaxHP int    `json:"max_hp"`
}

type rawConfig struct {
	BossList []bossEntry `json:"boss_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Optional gameplay overrides
	FleeCost             *int64 `json:"flee_cost"`
	SweepIntervalMinutes *int   `json:"sweep_interval_minutes"`
	// "memory" (default) keeps combat sessions in-process; "database"
	// externalizes them so any replica can serve a turn.
	SessionStore string `json:"session_store"`
}

// LoadedConfig contains bosses to seed and runtime knobs.
type LoadedConfig struct {
	Bosses               []game.Opponent
	ServerAddress        string
	FleeCost             int64
	SweepIntervalMinutes int
	SessionStore         string
}

// LoadConfig reads the configuration file at path. It requires a non-empty
// `boss_list` (snake_case keys).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.BossList) == 0 {
		return nil, fmt.Errorf("config file %s: boss_list is empty (provide 'boss_list' array)", path)
	}

	out := make([]game.Opponent, 0, len(rc.BossList))
	nameSet := make(map[string]struct{}, len(rc.BossList))
	for _, e := range rc.BossList {
		if e.Name == "" {
			return nil, fmt.Errorf("config file %s: boss entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate boss name '%s'", path, e.Name)
		}
		nameSet[ln] = struct{}{}
		if e.Level <= 0 || e.MaxHP <= 0 {
			return nil, fmt.Errorf("config file %s: boss '%s' needs positive level and max_hp", path, e.Name)
		}
		out = append(out, game.Opponent{Name: e.Name, Level: e.Level, MaxHP: e.MaxHP})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}
	fleeCost := int64(50)
	if rc.FleeCost != nil && *rc.FleeCost >= 0 {
		fleeCost = *rc.FleeCost
	}
	sweep := 10
	if rc.SweepIntervalMinutes != nil && *rc.SweepIntervalMinutes > 0 {
		sweep = *rc.SweepIntervalMinutes
	}
	store := "memory"
	if s := strings.TrimSpace(rc.SessionStore); s != "" {
		if s != "memory" && s != "database" {
			return nil, fmt.Errorf("config file %s: session_store must be 'memory' or 'database'", path)
		}
		store = s
	}

	return &LoadedConfig{
		Bosses:               out,
		ServerAddress:        addr,
		FleeCost:             fleeCost,
		SweepIntervalMinutes: sweep,
		SessionStore:         store,
	}, nil
}
