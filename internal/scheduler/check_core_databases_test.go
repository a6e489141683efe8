package scheduler

import (
	"testing"

	testingpkg "github.com/aetherwealth/aether/internal/testing"
	"github.com/stretchr/testify/assert"
)

func TestCheckCoreDatabasesJob_Name(t *testing.T) {
	assert.Equal(t, "check_core_databases", NewCheckCoreDatabasesJob().Name())
}

func TestCheckCoreDatabasesJob_Run(t *testing.T) {
	job := NewCheckCoreDatabasesJob(testingpkg.NewTestDB(t, "wealth"), nil)

	assert.NoError(t, job.Run())
}
