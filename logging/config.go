package logging

// Config is the `[logging]` table of .preflight.toml.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	// Can be overridden by the PREFLIGHT_LOG_LEVEL environment variable.
	Level string `mapstructure:"level" toml:"level,omitempty"`

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	// Can be enabled with the PREFLIGHT_LOG_CALLER=true environment variable.
	ReportCaller bool `mapstructure:"report_caller" toml:"report_caller,omitempty"`

	File   FileSinkConfig `mapstructure:"file" toml:"file,omitempty"`
	Format FormatConfig   `mapstructure:"format" toml:"format,omitempty"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled,omitempty"`
	Path    string `mapstructure:"path" toml:"path,omitempty"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset           string `mapstructure:"preset" toml:"preset,omitempty"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp" toml:"disable_timestamp,omitempty"`
	DisableComponent bool   `mapstructure:"disable_component" toml:"disable_component,omitempty"`
	// StructuredToStderr controls when structured logs are sent to stderr.
	// Can be "auto" (default), "always", or "never".
	StructuredToStderr string `mapstructure:"structured_to_stderr" toml:"structured_to_stderr,omitempty"`
}
