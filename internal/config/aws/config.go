// Package aws contains AWS-specific configuration helpers for ecstasks services.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/viper"
)

// Config contains AWS-specific configuration.
type Config struct {
	// Region overrides the region resolved from the environment.
	Region string `mapstructure:"region" yaml:"region"`
	// Profile selects a shared config profile. Only meaningful for the CLI.
	Profile string `mapstructure:"profile" yaml:"profile"`

	// AWS SDK Configuration (credentials, region, etc.)
	SDKConfig *aws.Config `mapstructure:"-" yaml:"-"`
}

// BindEnvVars binds AWS-specific environment variables to the provided Viper instance.
func BindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("aws.region", "ECSTASKS_AWS_REGION")
	_ = v.BindEnv("aws.profile", "ECSTASKS_AWS_PROFILE")
}

// LoadOptions returns the SDK load options implied by c.
func (c *Config) LoadOptions() []func(*awsConfig.LoadOptions) error {
	var opts []func(*awsConfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsConfig.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, awsConfig.WithSharedConfigProfile(c.Profile))
	}
	return opts
}

// LoadSDKConfig loads the AWS SDK configuration from the environment.
func (c *Config) LoadSDKConfig(ctx context.Context) error {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, c.LoadOptions()...)
	if err != nil {
		return fmt.Errorf("failed to load AWS SDK configuration: %w", err)
	}
	c.SDKConfig = &awsCfg
	return nil
}
