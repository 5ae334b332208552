// Package config loads fleetlot settings from an optional CUE file.
//
// A config file is a plain CUE struct validated against the embedded
// #Config schema. Fields not in the schema are rejected. Command-line flags
// take precedence over file values; see Merge.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

// Defaults applied by Default and Load.
const (
	DefaultLineEnding = "lf"
	DefaultLogLevel   = "info"
	DefaultHTTPAddr   = ":8080"
)

// Config holds every setting a fleetlot command can take from a file.
type Config struct {
	LineEnding string      `json:"line_ending,omitempty"`
	LogLevel   string      `json:"log_level,omitempty"`
	Journal    string      `json:"journal,omitempty"`
	HTTP       HTTPConfig  `json:"http,omitempty"`
	Lots       []LotConfig `json:"lots,omitempty"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `json:"addr,omitempty"`
}

// LotConfig is a lot created before any input is processed.
type LotConfig struct {
	Capacity int `json:"capacity"`
	Limit    int `json:"limit"`
}

// ErrorCode categorizes config errors.
type ErrorCode string

const (
	ErrCodeRead   ErrorCode = "CONFIG_READ"
	ErrCodeSyntax ErrorCode = "CONFIG_SYNTAX"
	ErrCodeSchema ErrorCode = "CONFIG_SCHEMA"
	ErrCodeDecode ErrorCode = "CONFIG_DECODE"
)

// Error is returned for any problem loading a config file.
type Error struct {
	Code    ErrorCode
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Default returns a Config with every default applied and no seed lots.
func Default() *Config {
	return &Config{
		LineEnding: DefaultLineEnding,
		LogLevel:   DefaultLogLevel,
		HTTP:       HTTPConfig{Addr: DefaultHTTPAddr},
	}
}

// Load reads and validates the CUE file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: ErrCodeRead, Message: err.Error()}
	}
	return Parse(data, path)
}

// Parse validates CUE source against the schema and decodes it.
// filename is used only for error positions.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueError(ErrCodeSyntax, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(ErrCodeSchema, err)
	}

	cfg := &Config{}
	if err := unified.Decode(cfg); err != nil {
		return nil, cueError(ErrCodeDecode, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LineEnding == "" {
		c.LineEnding = DefaultLineEnding
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = DefaultHTTPAddr
	}
}

// Overrides are values set explicitly on the command line. Empty strings
// mean "not set".
type Overrides struct {
	LineEnding string
	LogLevel   string
	Journal    string
	HTTPAddr   string
}

// Merge returns a copy of c with every non-empty override applied.
func (c *Config) Merge(o Overrides) *Config {
	out := *c
	out.Lots = append([]LotConfig(nil), c.Lots...)
	if o.LineEnding != "" {
		out.LineEnding = o.LineEnding
	}
	if o.LogLevel != "" {
		out.LogLevel = o.LogLevel
	}
	if o.Journal != "" {
		out.Journal = o.Journal
	}
	if o.HTTPAddr != "" {
		out.HTTP.Addr = o.HTTPAddr
	}
	return &out
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// cueError keeps the first CUE error and its position.
func cueError(code ErrorCode, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, Message: err.Error()}
	}

	first := errs[0]
	e := &Error{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
