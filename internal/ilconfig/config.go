package ilconfig

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of amini.toml.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Debug    DebugConfig    `toml:"debug"`
	Trace    TraceConfig    `toml:"trace"`
}

// PipelineConfig names the default pass invocations run by
// `amini pipeline run` when no --pass flags are given, in passmgr's invocation surface form
// (`id` or `id(a0, k=v)`).
type PipelineConfig struct {
	Steps []string `toml:"steps"`
}

// DebugConfig seeds the interpreter's Breakpoints registry before a
// `amini debug` session starts.
type DebugConfig struct {
	Breakpoints []string `toml:"breakpoints"`
}

// TraceConfig is the [trace] table. Format is the default for `amini
// run --trace-format`, choosing BinaryRecorder (msgpack) or Tracer
// (text). Enabled and File are validated and shown by `config show`
// but do not switch tracing on or pick its file: run writes a trace
// only when --trace-file is given.
type TraceConfig struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
	Format  string `toml:"format"`
}

// FormatText and FormatBinary are the only legal TraceConfig.Format
// values; an empty Format defaults to FormatText.
const (
	FormatText   = "text"
	FormatBinary = "binary"
)

// Load parses path into a Config and validates it. Every section is
// optional; a field absent from the file is left at its zero value
// rather than treated as an error.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Trace.Format {
	case "", FormatText, FormatBinary:
	default:
		return fmt.Errorf("trace.format must be %q or %q, got %q", FormatText, FormatBinary, c.Trace.Format)
	}
	if c.Trace.Enabled && strings.TrimSpace(c.Trace.File) == "" {
		return fmt.Errorf("trace.enabled requires trace.file")
	}
	for _, s := range c.Pipeline.Steps {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("pipeline.steps contains an empty entry")
		}
	}
	for _, b := range c.Debug.Breakpoints {
		if strings.TrimSpace(b) == "" {
			return fmt.Errorf("debug.breakpoints contains an empty entry")
		}
	}
	return nil
}

// TraceFormat returns the effective format, defaulting empty to text.
func (c Config) TraceFormat() string {
	if c.Trace.Format == "" {
		return FormatText
	}
	return c.Trace.Format
}

// Discover finds and loads amini.toml starting from startDir, walking
// up through parent directories. ok is false (with a nil error) when
// no amini.toml is found anywhere above startDir.
func Discover(startDir string) (cfg Config, path string, ok bool, err error) {
	path, ok, err = FindAminiToml(startDir)
	if err != nil || !ok {
		return Config{}, "", ok, err
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, "", true, err
	}
	return cfg, path, true, nil
}
