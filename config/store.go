package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/grovetools/preflight/errors"
	"github.com/grovetools/preflight/pkg/paths"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
)

// Source identifies where the active configuration came from.
type Source string

const (
	SourceLocal    Source = "local"
	SourceGlobal   Source = "global"
	SourceDefault  Source = "default"
	SourceExplicit Source = "file"
)

// Scope selects which file Save writes.
type Scope string

const (
	ScopeLocal  Scope = "local"
	ScopeGlobal Scope = "global"
)

// Store resolves, reads and writes preflight configuration. A local
// .preflight.toml takes precedence over the global file whenever it exists.
type Store struct {
	dir        string
	globalPath string
	explicit   string
	logger     *logrus.Entry
}

// NewStore returns a store rooted at dir (usually the working directory).
func NewStore(dir string) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return &Store{
		dir:        dir,
		globalPath: paths.GlobalConfigPath(),
		logger:     logrus.NewEntry(discard),
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func (s *Store) WithLogger(logger *logrus.Entry) *Store {
	s.logger = logger
	return s
}

// WithExplicitPath bypasses resolution and always loads path.
func (s *Store) WithExplicitPath(path string) *Store {
	s.explicit = path
	return s
}

// WithGlobalPath overrides the global configuration location.
func (s *Store) WithGlobalPath(path string) *Store {
	s.globalPath = path
	return s
}

// LocalPath is the repository-scoped configuration file.
func (s *Store) LocalPath() string {
	return paths.LocalConfigPath(s.dir)
}

// GlobalPath is the user-wide configuration file.
func (s *Store) GlobalPath() string {
	return s.globalPath
}

// PathFor returns the file written for scope.
func (s *Store) PathFor(scope Scope) string {
	if scope == ScopeGlobal {
		return s.globalPath
	}
	return s.LocalPath()
}

// SourcePath is the file behind source, empty for the built-in default.
func (s *Store) SourcePath(source Source) string {
	switch source {
	case SourceExplicit:
		return s.explicit
	case SourceLocal:
		return s.LocalPath()
	case SourceGlobal:
		return s.globalPath
	default:
		return ""
	}
}

// Load returns the active configuration and where it came from.
func (s *Store) Load() (*File, Source, error) {
	if s.explicit != "" {
		s.logger.WithField("path", s.explicit).Debug("Loading explicit configuration")
		file, err := LoadFile(s.explicit)
		return file, SourceExplicit, err
	}

	local := s.LocalPath()
	found, err := fileExists(local)
	if err != nil {
		return nil, SourceLocal, err
	}
	if found {
		s.logger.WithField("path", local).Debug("Loading local configuration")
		file, err := LoadFile(local)
		return file, SourceLocal, err
	}

	if s.globalPath != "" {
		found, err := fileExists(s.globalPath)
		if err != nil {
			return nil, SourceGlobal, err
		}
		if found {
			s.logger.WithField("path", s.globalPath).Debug("Loading global configuration")
			file, err := LoadFile(s.globalPath)
			return file, SourceGlobal, err
		}
	}

	s.logger.Debug("No configuration found, using defaults")
	return Default(), SourceDefault, nil
}

// LoadScope reads the file for scope, returning nil when it does not exist.
func (s *Store) LoadScope(scope Scope) (*File, error) {
	path := s.PathFor(scope)
	found, err := fileExists(path)
	if err != nil || !found {
		return nil, err
	}
	return LoadFile(path)
}

// Save writes file to the location for scope and returns the path written.
func (s *Store) Save(file *File, scope Scope) (string, error) {
	path := s.PathFor(scope)
	if path == "" {
		return "", errors.New(errors.ErrCodeConfigWrite, "no global configuration directory available")
	}

	data, err := Marshal(file)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to encode configuration")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to create configuration directory").
			WithDetail("path", path)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeConfigWrite, "failed to write configuration").
			WithDetail("path", path)
	}

	s.logger.WithField("path", path).Info("Configuration saved")
	return path, nil
}

// LoadFile reads and validates the configuration at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.ConfigInvalid(path, err)
	}
	return Parse(data, path)
}

// Parse decodes TOML data. path is only used in error details.
func Parse(data []byte, path string) (*File, error) {
	raw := map[string]interface{}{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build configuration schema")
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.ConfigValidation(path, err)
	}

	var file File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &file})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build configuration decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}
	if file.Preflight == nil {
		file.Preflight = ProfileSet{}
	}
	for i := range file.Preflight {
		file.Preflight[i].normalize()
	}
	return &file, nil
}

// Marshal encodes file as TOML, keeping extension tables.
func Marshal(file *File) ([]byte, error) {
	data, err := toml.Marshal(file)
	if err != nil {
		return nil, err
	}
	if len(file.Extensions) == 0 {
		return data, nil
	}

	merged := map[string]interface{}{}
	if err := toml.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, value := range file.Extensions {
		merged[key] = value
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(merged); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.ConfigInvalid(path, err)
}
