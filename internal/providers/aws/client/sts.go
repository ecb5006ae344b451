package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// STSClient resolves the identity behind the current credentials.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

var _ STSClient = (*sts.Client)(nil)
