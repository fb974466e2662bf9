package types

import (
	"time"
	_ "time/tzdata"
)

// Config holds the parameters for Backend.Attach.
type Config struct {
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// DefaultTimezone is the zone card timestamps are recorded in.
const DefaultTimezone = "Europe/Warsaw"

// DatabaseFile is the SQLite file name inside DataDir.
const DatabaseFile = "satzkarten.db"

// Validate checks that the Config is well-formed. An empty Timezone means the
// process local zone.
func (c Config) Validate() error {
	_, err := c.Location()
	return err
}

// Location resolves Timezone. Returns ErrTimezoneUnknown for names the tz
// database does not know.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, ErrTimezoneUnknown
	}
	return loc, nil
}
