// Package identity provides helpers for retrieving AWS identity information.
package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runvoy/ecstasks/internal/logger"
	awsClient "github.com/runvoy/ecstasks/internal/providers/aws/client"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// CallerIdentity describes the principal the SDK credentials resolve to.
type CallerIdentity struct {
	Account string
	ARN     string
	UserID  string
}

// GetCallerIdentity resolves the current principal using STS GetCallerIdentity.
func GetCallerIdentity(ctx context.Context, client awsClient.STSClient, log *slog.Logger) (*CallerIdentity, error) {
	logArgs := []any{"operation", "STS.GetCallerIdentity"}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	log.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	output, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("STS GetCallerIdentity failed: %w", err)
	}

	if output.Account == nil || *output.Account == "" {
		return nil, fmt.Errorf("STS returned empty account ID")
	}

	return &CallerIdentity{
		Account: awsStd.ToString(output.Account),
		ARN:     awsStd.ToString(output.Arn),
		UserID:  awsStd.ToString(output.UserId),
	}, nil
}
