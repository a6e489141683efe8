//go:build production

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Run with: go test -tags production ./internal/config/
func TestCheckReleaseReadiness_ProductionBuild(t *testing.T) {
	assert.True(t, ProductionBuild)

	err := CheckReleaseReadiness(&Config{DevMode: true, Environment: EnvDevelopment})
	assert.ErrorIs(t, err, ErrDevModeInRelease)

	assert.NoError(t, CheckReleaseReadiness(&Config{DevMode: false, Environment: EnvDevelopment}))
}
