package aws

import (
	"testing"
	"time"

	"github.com/runvoy/ecstasks/internal/config"
	"github.com/runvoy/ecstasks/internal/testutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:          "INFO",
		InitTimeout:       10 * time.Second,
		PollInterval:      10 * time.Second,
		SafetyMargin:      5 * time.Second,
		FailureLogLines:   20,
		DescribeBatchSize: 100,
		MaxListPages:      100,
		Port:              56213,
	}
}

func TestNewDependencies(t *testing.T) {
	awsCfg := aws.Config{Region: "us-east-1"}

	t.Run("ledger disabled without table", func(t *testing.T) {
		deps := NewDependencies(awsCfg, testConfig(), testutil.SilentLogger())

		require.NotNil(t, deps.Cluster)
		assert.NotNil(t, deps.STS)
		assert.Nil(t, deps.Ledger)
		assert.Equal(t, "us-east-1", deps.Region)
	})

	t.Run("ledger enabled with table", func(t *testing.T) {
		cfg := testConfig()
		cfg.InvocationsTable = "ecstasks-invocations"

		deps := NewDependencies(awsCfg, cfg, testutil.SilentLogger())

		assert.NotNil(t, deps.Ledger)
	})
}

func TestNewOrchestrator(t *testing.T) {
	cfg := testConfig()
	cfg.FailureLogLines = 0
	deps := NewDependencies(aws.Config{Region: "eu-west-1"}, cfg, testutil.SilentLogger())

	orch := NewOrchestrator(deps, cfg, testutil.SilentLogger())

	assert.NotNil(t, orch)
}
