package services

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-bee/internal/parsers/bee"
	"github.com/deploymenttheory/go-bee/internal/types"
)

// Config mirrors the YAML build configuration consumed by the bee tool.
type Config struct {
	// InputBinary is the path of the plain image to be encrypted.
	InputBinary string `mapstructure:"input_binary" yaml:"input_binary"`

	// EngineSelection chooses the active engines: engine0, engine1 or
	// both.
	EngineSelection string `mapstructure:"engine_selection" yaml:"engine_selection"`

	// BaseAddress is the absolute address the image is placed at.
	BaseAddress uint32 `mapstructure:"base_address" yaml:"base_address"`

	// Engines configures the individual BEE engines.
	Engines []EngineConfig `mapstructure:"bee_engine" yaml:"bee_engine"`
}

// EngineConfig configures one BEE engine.
type EngineConfig struct {
	// UserKey is the fuse-provisioned software key as a hex string.
	UserKey string `mapstructure:"user_key" yaml:"user_key"`

	// HeaderPath optionally points to a pre-built 512-byte region
	// header to load instead of constructing a fresh one.
	HeaderPath string `mapstructure:"header_path" yaml:"header_path,omitempty"`

	// ProtectedRegions lists the address ranges this engine encrypts.
	ProtectedRegions []ProtectedRegionConfig `mapstructure:"protected_region" yaml:"protected_region"`
}

// ProtectedRegionConfig configures one FAC region.
type ProtectedRegionConfig struct {
	StartAddress   uint32 `mapstructure:"start_address" yaml:"start_address"`
	Length         uint32 `mapstructure:"length" yaml:"length"`
	ProtectedLevel uint32 `mapstructure:"protected_level" yaml:"protected_level"`
}

// ByteLoader resolves a file path to its content. The CLI passes
// os.ReadFile; tests substitute in-memory fixtures.
type ByteLoader func(path string) ([]byte, error)

// engineSelections maps the selection keyword to engine indices.
var engineSelections = map[string][]int{
	"engine0": {0},
	"engine1": {1},
	"both":    {0, 1},
}

// parseUserKey decodes a 16-byte hex key, accepting an optional 0x
// prefix.
func parseUserKey(value string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimPrefix(value, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: user key is not a hex string: %v", types.ErrKey, err)
	}
	if len(key) != types.BeeAesKeyLen {
		return nil, fmt.Errorf("%w: user key length %d, expected %d",
			types.ErrKey, len(key), types.BeeAesKeyLen)
	}
	return key, nil
}

// BuildFromConfig resolves a configuration into an orchestrator ready
// to export the encrypted image and headers.
//
// Engines selected without a header_path share one freshly generated
// default PRDB/KIB pair; each header receives its own deep copy so the
// key material and counter match across engines while the per-engine
// FAC region lists stay independent.
func BuildFromConfig(cfg *Config, load ByteLoader) (*Orchestrator, error) {
	image, err := load(cfg.InputBinary)
	if err != nil {
		return nil, fmt.Errorf("failed to load input binary %q: %w", cfg.InputBinary, err)
	}

	indices, ok := engineSelections[cfg.EngineSelection]
	if !ok {
		return nil, fmt.Errorf("%w: unknown engine selection %q",
			types.ErrConfig, cfg.EngineSelection)
	}

	defaultPrdb, err := bee.NewProtectRegionBlock(types.BeeAesModeCtr, 0, nil)
	if err != nil {
		return nil, err
	}
	defaultKib, err := bee.NewKeyInfoBlock(nil, nil)
	if err != nil {
		return nil, err
	}

	headers := make([]*bee.RegionHeader, 0, len(indices))
	headerPos := make(map[int]int, len(indices))
	for _, engineIdx := range indices {
		if engineIdx >= len(cfg.Engines) {
			return nil, fmt.Errorf("%w: engine selection %q needs engine entry %d, have %d",
				types.ErrConfig, cfg.EngineSelection, engineIdx, len(cfg.Engines))
		}
		engine := cfg.Engines[engineIdx]
		key, err := parseUserKey(engine.UserKey)
		if err != nil {
			return nil, fmt.Errorf("engine %d: %w", engineIdx, err)
		}
		var header *bee.RegionHeader
		if engine.HeaderPath != "" {
			data, err := load(engine.HeaderPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load header %q: %w", engine.HeaderPath, err)
			}
			if header, err = bee.DecodeRegionHeader(data, key); err != nil {
				return nil, fmt.Errorf("engine %d: %w", engineIdx, err)
			}
		} else {
			if header, err = bee.NewRegionHeader(defaultPrdb.Clone(), key, defaultKib.Clone()); err != nil {
				return nil, err
			}
		}
		headerPos[engineIdx] = len(headers)
		headers = append(headers, header)
	}

	orchestrator, err := NewOrchestrator(headers, image, cfg.BaseAddress)
	if err != nil {
		return nil, err
	}

	for engineIdx, engine := range cfg.Engines {
		if len(engine.ProtectedRegions) == 0 {
			continue
		}
		pos, selected := headerPos[engineIdx]
		if !selected {
			return nil, fmt.Errorf("%w: protected regions configured on unselected engine %d",
				types.ErrConfig, engineIdx)
		}
		for _, region := range engine.ProtectedRegions {
			fac, err := bee.NewFacRegion(region.StartAddress, region.Length, region.ProtectedLevel)
			if err != nil {
				return nil, fmt.Errorf("engine %d: %w", engineIdx, err)
			}
			if err := orchestrator.AddFacRegion(pos, fac); err != nil {
				return nil, fmt.Errorf("engine %d: %w", engineIdx, err)
			}
		}
	}

	return orchestrator, nil
}

// TemplateConfig returns a configuration skeleton with representative
// values, used by the template command.
func TemplateConfig() *Config {
	return &Config{
		InputBinary:     "plain_image.bin",
		EngineSelection: "engine0",
		BaseAddress:     0x60001000,
		Engines: []EngineConfig{
			{
				UserKey: "0123456789abcdeffedcba9876543210",
				ProtectedRegions: []ProtectedRegionConfig{
					{
						StartAddress:   0x60001000,
						Length:         0x4000,
						ProtectedLevel: 0,
					},
				},
			},
		},
	}
}
