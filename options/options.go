// Package options handles moo.toml server configuration.
package options

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the options file.
const FileName = "moo.toml"

// Defaults applied to unset fields.
const (
	DefaultMaxListValueBytes = 64 << 20
	DefaultMaxStringConcat   = 64 << 20
	DefaultCacheSize         = 5
	DefaultMatchTimeout      = time.Second
)

// Options represents a moo.toml configuration.
type Options struct {
	Limits  Limits  `toml:"limits"`
	Pattern Pattern `toml:"pattern"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the moo.toml file (set at load time).
	Dir string `toml:"-"`
}

// Limits bounds the size of values built-in functions may produce.
// A negative size means no limit.
type Limits struct {
	MaxListValueBytes  int  `toml:"max-list-value-bytes"`
	MaxStringConcat    int  `toml:"max-string-concat"`
	MaxConcatCatchable bool `toml:"max-concat-catchable"`
}

// Pattern configures the pattern cache and matcher.
type Pattern struct {
	CacheSize    int      `toml:"cache-size"`
	MatchTimeout Duration `toml:"match-timeout"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("bad duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the options used when no moo.toml is present.
func Default() *Options {
	o := &Options{}
	o.applyDefaults()
	return o
}

// Load parses a moo.toml file from the given directory.
func Load(dir string) (*Options, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	o, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	o.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return o, nil
}

// Parse decodes options from TOML text and fills in defaults.
func Parse(data []byte) (*Options, error) {
	var o Options
	if err := toml.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	if o.Pattern.CacheSize < 0 {
		return nil, fmt.Errorf("pattern.cache-size must not be negative, got %d", o.Pattern.CacheSize)
	}
	if o.Pattern.MatchTimeout.Duration < 0 {
		return nil, fmt.Errorf("pattern.match-timeout must not be negative, got %v", o.Pattern.MatchTimeout)
	}
	o.applyDefaults()
	return &o, nil
}

// FindAndLoad walks up from startDir to find a moo.toml file, then loads
// and returns the options. Returns nil if no file is found.
func FindAndLoad(startDir string) (*Options, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

func (o *Options) applyDefaults() {
	if o.Limits.MaxListValueBytes == 0 {
		o.Limits.MaxListValueBytes = DefaultMaxListValueBytes
	}
	if o.Limits.MaxStringConcat == 0 {
		o.Limits.MaxStringConcat = DefaultMaxStringConcat
	}
	if o.Pattern.CacheSize == 0 {
		o.Pattern.CacheSize = DefaultCacheSize
	}
	if o.Pattern.MatchTimeout.Duration == 0 {
		o.Pattern.MatchTimeout.Duration = DefaultMatchTimeout
	}
}

// LogPath returns the log file path, or nil to log to stderr. A relative
// path is resolved against Dir.
func (o *Options) LogPath() *string {
	if o.Log.File == "" {
		return nil
	}
	path := o.Log.File
	if !filepath.IsAbs(path) && o.Dir != "" {
		path = filepath.Join(o.Dir, path)
	}
	return &path
}
