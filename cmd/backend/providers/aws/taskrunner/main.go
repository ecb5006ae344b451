// Package main implements the AWS Lambda task runner for ecstasks.
// It serves CloudFormation custom resource events by running ECS task groups
// to completion and reporting the outcome to the stack.
package main

import (
	"context"
	"os"

	"github.com/runvoy/ecstasks/internal/config"
	"github.com/runvoy/ecstasks/internal/constants"
	"github.com/runvoy/ecstasks/internal/logger"
	awsApp "github.com/runvoy/ecstasks/internal/providers/aws/app"
	"github.com/runvoy/ecstasks/internal/providers/aws/lambdaapi"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg := config.MustLoadTaskRunner()
	log := logger.Initialize(constants.Production, cfg.GetLogLevel())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.InitTimeout)

	deps, err := awsApp.Initialize(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("failed to initialize task runner", "error", err)
		os.Exit(1)
	}

	orch := awsApp.NewOrchestrator(deps, cfg, log)

	log.With("version", *constants.GetVersion()).Debug("starting task runner Lambda handler")
	lambda.Start(lambdaapi.NewCustomResourceHandler(orch, log))
}
