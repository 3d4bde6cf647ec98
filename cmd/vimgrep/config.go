package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/coregx/vimre/meta"
)

type Config struct {
	Core   CoreConfig   `toml:"core"`
	Search SearchConfig `toml:"search"`
	Colors ColorConfig  `toml:"colors"`
	Log    LogConfig    `toml:"log"`
}

type CoreConfig struct {
	Case      string `toml:"case"`    // "sensitive", "ignore" or "smart"
	Dialect   string `toml:"dialect"` // "magic", "very-magic", "nomagic" or "very-nomagic"
	MultiLine bool   `toml:"multiline"`
	TabStop   int    `toml:"tabstop"`
	IsKeyword string `toml:"iskeyword"`
	IsIdent   string `toml:"isident"`
	IsFname   string `toml:"isfname"`
	IsPrint   string `toml:"isprint"`
}

type SearchConfig struct {
	Prefilter    bool   `toml:"prefilter"`
	MaxLookDepth int    `toml:"max_look_depth"`
	Timeout      string `toml:"timeout"`
	StripANSI    bool   `toml:"strip_ansi"`
	Normalize    bool   `toml:"normalize"` // compose input to NFC before matching
}

type ColorGroup struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
}

type ColorConfig struct {
	Mode       string     `toml:"mode"` // "auto", "always" or "never"
	Match      ColorGroup `toml:"match"`
	LineNumber ColorGroup `toml:"line_number"`
	FileName   ColorGroup `toml:"file_name"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func NewDefaultConfig() *Config {
	defaults := meta.DefaultConfig()
	return &Config{
		Core: CoreConfig{
			Case:      "sensitive",
			Dialect:   "magic",
			MultiLine: false,
			TabStop:   defaults.TabStop,
		},
		Search: SearchConfig{
			Prefilter:    defaults.EnablePrefilter,
			MaxLookDepth: defaults.MaxLookDepth,
			Timeout:      "",
			StripANSI:    false,
			Normalize:    false,
		},
		Colors: ColorConfig{
			Mode: "auto",
			Match: ColorGroup{
				Foreground: "red",
			},
			LineNumber: ColorGroup{
				Foreground: "green",
			},
			FileName: ColorGroup{
				Foreground: "magenta",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func LoadConfigFromFile(path string) (*Config, error) {
	config := NewDefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil // no config file, return defaults
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return config, nil
}

var caseModes = map[string]meta.CaseMode{
	"sensitive": meta.CaseSensitive,
	"ignore":    meta.CaseInsensitive,
	"smart":     meta.CaseSmart,
}

var dialects = map[string]meta.Dialect{
	"magic":        meta.DialectMagic,
	"very-magic":   meta.DialectVeryMagic,
	"nomagic":      meta.DialectNoMagic,
	"very-nomagic": meta.DialectVeryNoMagic,
}

// EngineConfig converts the file settings to an engine configuration that
// logs to l.
func (c *Config) EngineConfig(l *slog.Logger) (meta.Config, error) {
	ec := meta.DefaultConfig()

	mode, ok := caseModes[c.Core.Case]
	if !ok {
		return ec, fmt.Errorf("unknown case mode %q", c.Core.Case)
	}
	dialect, ok := dialects[c.Core.Dialect]
	if !ok {
		return ec, fmt.Errorf("unknown dialect %q", c.Core.Dialect)
	}

	ec.CaseMode = mode
	ec.Dialect = dialect
	ec.MultiLine = c.Core.MultiLine
	ec.TabStop = c.Core.TabStop
	ec.IsKeyword = c.Core.IsKeyword
	ec.IsIdent = c.Core.IsIdent
	ec.IsFname = c.Core.IsFname
	ec.IsPrint = c.Core.IsPrint
	ec.EnablePrefilter = c.Search.Prefilter
	ec.MaxLookDepth = c.Search.MaxLookDepth
	ec.Logger = l

	if err := ec.Validate(); err != nil {
		return ec, err
	}
	return ec, nil
}
