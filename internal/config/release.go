package config

import (
	"errors"
	"fmt"
)

// ErrDevModeInRelease is returned when developer mode would ship in a release.
var ErrDevModeInRelease = errors.New("developer mode must be disabled in production")

// CheckReleaseReadiness fails when DevMode is enabled for a production
// environment or for a binary built with the production tag.
func CheckReleaseReadiness(c *Config) error {
	if !c.DevMode {
		return nil
	}
	if ProductionBuild {
		return fmt.Errorf("%w: binary built with the production tag", ErrDevModeInRelease)
	}
	if c.Environment == EnvProduction {
		return fmt.Errorf("%w: APP_ENV=%s", ErrDevModeInRelease, c.Environment)
	}
	return nil
}
