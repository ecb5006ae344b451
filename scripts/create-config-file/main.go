// Package main writes the ecstasks CLI config file from the outputs of a deployed stack.
// Usage: go run ./scripts/create-config-file <stack-name>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/runvoy/ecstasks/internal/config"
	awsconfig "github.com/runvoy/ecstasks/internal/config/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfnTypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
)

// InvocationsTableOutput is the stack output holding the ledger table name.
const InvocationsTableOutput = "InvocationsTableName"

// StackDescriber is the slice of the CloudFormation API used by this script.
type StackDescriber interface {
	DescribeStacks(
		ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
}

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		log.Fatalf("error: usage: %s <stack-name>", os.Args[0])
	}
	stackName := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("error: failed to load AWS configuration: %v", err)
	}

	table, err := invocationsTable(ctx, cloudformation.NewFromConfig(awsCfg), stackName)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error: failed to load current config: %v", err)
	}
	cfg.InvocationsTable = table
	if cfg.AWS == nil {
		cfg.AWS = &awsconfig.Config{}
	}
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = awsCfg.Region
	}

	if err = config.Save(cfg); err != nil {
		log.Fatalf("error: failed to save config file: %v", err)
	}

	path, _ := config.GetConfigPath()
	log.Printf("config file %s updated with invocations table %s", path, table)
}

func invocationsTable(ctx context.Context, client StackDescriber, stackName string) (string, error) {
	output, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(stackName),
	})
	if err != nil {
		return "", fmt.Errorf("failed to describe stack: %w", err)
	}
	if len(output.Stacks) == 0 {
		return "", fmt.Errorf("stack %s not found", stackName)
	}

	return findOutput(output.Stacks[0].Outputs, InvocationsTableOutput, stackName)
}

func findOutput(outputs []cfnTypes.Output, key, stackName string) (string, error) {
	for _, out := range outputs {
		if aws.ToString(out.OutputKey) == key && aws.ToString(out.OutputValue) != "" {
			return aws.ToString(out.OutputValue), nil
		}
	}
	return "", fmt.Errorf("%s output not found in stack %s", key, stackName)
}
