package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/Toidicodedao69/VAIT-Hackathon/internal/domain"
)

// seedFile is the on-disk shape of a channel seed, e.g.
//
//	[[channels]]
//	id = "1203991"
//	kind = "post"
//	category = "writing"
type seedFile struct {
	Channels []seedChannel `toml:"channels"`
}

type seedChannel struct {
	ID       string             `toml:"id"`
	Kind     domain.ChannelKind `toml:"kind"`
	Category string             `toml:"category"`
}

// LoadChannelSeed reads a TOML channel seed file and returns the
// channels to upsert into the registry.
func LoadChannelSeed(path string) ([]domain.Channel, error) {
	var f seedFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(f.Channels) == 0 {
		return nil, fmt.Errorf("seed file %s declares no channels", path)
	}

	out := make([]domain.Channel, 0, len(f.Channels))
	for i, sc := range f.Channels {
		if sc.ID == "" {
			return nil, fmt.Errorf("channels[%d]: id is required", i)
		}
		if sc.Category == "" {
			return nil, fmt.Errorf("channels[%d]: category is required", i)
		}
		out = append(out, domain.Channel{ID: sc.ID, Kind: sc.Kind, Category: sc.Category})
	}
	return out, nil
}
