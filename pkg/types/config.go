package types

import "errors"

// Config holds driver selection and session parameters.
type Config struct {
	Driver   string `json:"driver" yaml:"driver"`
	Database string `json:"database" yaml:"database"`
}

// Supported driver names.
const (
	DriverSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrDriverEmpty   = errors.New("driver must not be empty")
	ErrDriverUnknown = errors.New("unknown driver")
	ErrDatabaseEmpty = errors.New("database must not be empty")
)

// knownDrivers lists the drivers that Validate accepts.
var knownDrivers = map[string]bool{
	DriverSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Driver == "" {
		return ErrDriverEmpty
	}
	if !knownDrivers[c.Driver] {
		return ErrDriverUnknown
	}
	if c.Database == "" {
		return ErrDatabaseEmpty
	}
	return nil
}
