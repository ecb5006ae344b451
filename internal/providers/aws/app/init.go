// Package aws assembles the AWS-backed dependencies of the lifecycle orchestrator.
package aws

import (
	"context"
	"log/slog"

	"github.com/runvoy/ecstasks/internal/config"
	"github.com/runvoy/ecstasks/internal/database"
	"github.com/runvoy/ecstasks/internal/lifecycle"
	awsClient "github.com/runvoy/ecstasks/internal/providers/aws/client"
	dynamoRepo "github.com/runvoy/ecstasks/internal/providers/aws/database/dynamodb"
	"github.com/runvoy/ecstasks/internal/providers/aws/ecstasks"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Dependencies bundles the AWS-backed implementations used by the entry points.
// Ledger is nil when no invocations table is configured.
type Dependencies struct {
	Cluster *ecstasks.Client
	Ledger  database.InvocationRepository
	STS     awsClient.STSClient
	Region  string
}

// Initialize loads the AWS SDK configuration and builds every client once.
func Initialize(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Dependencies, error) {
	if err := cfg.LoadSDKConfig(ctx); err != nil {
		return nil, err
	}
	return NewDependencies(*cfg.AWS.SDKConfig, cfg, log), nil
}

// NewDependencies builds the SDK clients from an already loaded SDK configuration.
func NewDependencies(awsCfg aws.Config, cfg *config.Config, log *slog.Logger) *Dependencies {
	ecsClient := ecs.NewFromConfig(awsCfg)

	var logsClient awsClient.CloudWatchLogsClient
	if cfg.FailureLogLines > 0 {
		logsClient = cloudwatchlogs.NewFromConfig(awsCfg)
	}

	deps := &Dependencies{
		Cluster: ecstasks.NewClient(ecsClient, logsClient, &ecstasks.Config{
			DescribeBatchSize: cfg.DescribeBatchSize,
			MaxListPages:      cfg.MaxListPages,
		}, log),
		STS:    sts.NewFromConfig(awsCfg),
		Region: awsCfg.Region,
	}

	if cfg.LedgerEnabled() {
		deps.Ledger = dynamoRepo.NewInvocationRepository(dynamodb.NewFromConfig(awsCfg), cfg.InvocationsTable, log)
	}

	log.Debug("AWS backend configured", "context", map[string]any{
		"region":              deps.Region,
		"describe_batch_size": cfg.DescribeBatchSize,
		"max_list_pages":      cfg.MaxListPages,
		"invocations_table":   cfg.InvocationsTable,
		"log_tail_enabled":    logsClient != nil,
	})

	return deps
}

// NewOrchestrator builds the lifecycle orchestrator on top of deps.
func NewOrchestrator(deps *Dependencies, cfg *config.Config, log *slog.Logger) *lifecycle.Orchestrator {
	opts := []lifecycle.Option{}
	if cfg.FailureLogLines > 0 {
		opts = append(opts, lifecycle.WithLogTailer(deps.Cluster))
	}
	if deps.Ledger != nil {
		opts = append(opts, lifecycle.WithLedger(deps.Ledger))
	}

	return lifecycle.NewOrchestrator(deps.Cluster, &lifecycle.Config{
		PollInterval:    cfg.PollInterval,
		SafetyMargin:    cfg.SafetyMargin,
		FailureLogLines: cfg.FailureLogLines,
	}, log, opts...)
}
