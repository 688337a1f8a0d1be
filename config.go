package lphash

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a Config cannot be used to build a Map.
var ErrInvalidConfig = errors.New("lphash: invalid config")

// ProbeStrategy selects which slot an insertion of a new key lands in.
type ProbeStrategy uint8

const (
	// ProbeFirstEmpty inserts a new key at the first Empty slot of its probe
	// chain. Tombstones passed on the way are only reclaimed by a resize.
	ProbeFirstEmpty ProbeStrategy = iota
	// ProbeReuseTombstone inserts a new key at the first Tombstone of its
	// probe chain when the chain holds no live copy of the key.
	ProbeReuseTombstone
)

func (p ProbeStrategy) String() string {
	switch p {
	case ProbeFirstEmpty:
		return "first-empty"
	case ProbeReuseTombstone:
		return "reuse-tombstone"
	default:
		return fmt.Sprintf("ProbeStrategy(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p ProbeStrategy) MarshalText() ([]byte, error) {
	switch p {
	case ProbeFirstEmpty, ProbeReuseTombstone:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("%w: unknown probe strategy %d", ErrInvalidConfig, uint8(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *ProbeStrategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "first-empty", "":
		*p = ProbeFirstEmpty
	case "reuse-tombstone":
		*p = ProbeReuseTombstone
	default:
		return fmt.Errorf("%w: unknown probe strategy %q", ErrInvalidConfig, text)
	}
	return nil
}

// Bounds accepted by Validate. Together they keep a single resize within a
// few growth steps, far below the int range.
const (
	MinMaxLoad      = 0.01
	MaxGrowthFactor = 64
)

// Config holds the construction-time constants of a Map.
type Config struct {
	// Number of slots allocated up front.
	InitialCapacity int `toml:"initial-capacity"`
	// A Set resizes first when (live+tombstones+1)/capacity exceeds MaxLoad.
	MaxLoad float64 `toml:"max-load"`
	// Capacity is multiplied by GrowthFactor on every resize.
	GrowthFactor int           `toml:"growth-factor"`
	Probe        ProbeStrategy `toml:"probe"`
}

// DefaultConfig returns 8 slots, a 0.5 load ceiling and 3x growth.
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 8,
		MaxLoad:         0.5,
		GrowthFactor:    3,
		Probe:           ProbeFirstEmpty,
	}
}

// Validate reports whether c describes a map that can always make room for
// the next insertion by growing.
func (c Config) Validate() error {
	if c.InitialCapacity < 1 {
		return fmt.Errorf("%w: initial capacity %d must be positive", ErrInvalidConfig, c.InitialCapacity)
	}
	if !(c.MaxLoad >= MinMaxLoad && c.MaxLoad < 1) {
		return fmt.Errorf("%w: max load %v must be in [%v, 1)", ErrInvalidConfig, c.MaxLoad, MinMaxLoad)
	}
	if c.GrowthFactor < 2 || c.GrowthFactor > MaxGrowthFactor {
		return fmt.Errorf("%w: growth factor %d must be in [2, %d]", ErrInvalidConfig, c.GrowthFactor, MaxGrowthFactor)
	}
	if _, err := c.Probe.MarshalText(); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a TOML file on top of DefaultConfig. Keys missing from the
// file keep their default values.
//
//	initial-capacity = 16
//	max-load = 0.75
//	growth-factor = 2
//	probe = "reuse-tombstone"
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
