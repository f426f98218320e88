// Package awshelper provides helper functions for working with AWS credentials across the accounts of an
// organization.
package awshelper

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gruntwork-io/go-commons/version"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/pkg/log"
)

const defaultRegion = "us-east-1"

// SessionConfig is a representation of the configuration options for the base AWS config of a run.
type SessionConfig struct {
	// Region used for the STS exchanges. Remote calls override it per target.
	Region string
	// Profile is the shared config profile of the organization management account.
	Profile       string
	CredsFilename string
}

// ConfigBuilder builds the base AWS config using the builder pattern.
// Use NewConfigBuilder to create, chain With* methods for optional parameters, then call Build().
type ConfigBuilder struct {
	sessionConfig *SessionConfig
	env           map[string]string
}

// NewConfigBuilder creates a new builder for AWS config.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		env: make(map[string]string),
	}
}

// WithSessionConfig sets the AWS session configuration (region, profile, credentials file).
func (b *ConfigBuilder) WithSessionConfig(cfg *SessionConfig) *ConfigBuilder {
	b.sessionConfig = cfg
	return b
}

// WithEnv sets environment variables used for credential and region resolution.
func (b *ConfigBuilder) WithEnv(env map[string]string) *ConfigBuilder {
	b.env = env
	return b
}

// Build creates the AWS config from the builder's configuration.
func (b *ConfigBuilder) Build(ctx context.Context, l log.Logger) (aws.Config, error) {
	var configOptions []func(*config.LoadOptions) error

	configOptions = append(configOptions, config.WithAppID("stackdeploy/"+version.GetVersion()))

	envCreds := createCredentialsFromEnv(b.env)

	switch {
	case envCreds != nil:
		l.Debugf("Using AWS credentials from environment")

		configOptions = append(configOptions, config.WithCredentialsProvider(envCreds))
	case b.sessionConfig != nil && b.sessionConfig.CredsFilename != "":
		configOptions = append(configOptions, config.WithSharedConfigFiles([]string{b.sessionConfig.CredsFilename}))
	}

	// Prioritize configured region over environment variables
	var region string
	if b.sessionConfig != nil && b.sessionConfig.Region != "" {
		region = b.sessionConfig.Region
	} else {
		region = getRegionFromEnv(b.env)
	}

	if region == "" {
		region = defaultRegion
	}

	configOptions = append(configOptions, config.WithRegion(region))

	if envCreds == nil && b.sessionConfig != nil && b.sessionConfig.Profile != "" {
		l.Debugf("Using AWS profile %s", b.sessionConfig.Profile)

		configOptions = append(configOptions, config.WithSharedConfigProfile(b.sessionConfig.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return aws.Config{}, errors.Errorf("Error loading AWS config: %w", err)
	}

	return cfg, nil
}

// getRegionFromEnv extracts region from environment variables.
func getRegionFromEnv(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}

	if region := env["AWS_REGION"]; region != "" {
		return region
	}

	return env["AWS_DEFAULT_REGION"]
}

// createCredentialsFromEnv creates AWS credentials from environment variables.
func createCredentialsFromEnv(env map[string]string) aws.CredentialsProvider {
	if len(env) == 0 {
		return nil
	}

	accessKeyID := env["AWS_ACCESS_KEY_ID"]
	secretAccessKey := env["AWS_SECRET_ACCESS_KEY"]
	sessionToken := env["AWS_SESSION_TOKEN"]

	// If we don't have at least access key and secret key, return nil
	if accessKeyID == "" || secretAccessKey == "" {
		return nil
	}

	return credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, sessionToken)
}

// STSAPI is the subset of the STS client used by Session.
type STSAPI interface {
	AssumeRole(ctx context.Context, params *sts.AssumeRoleInput, optFns ...func(*sts.Options)) (*sts.AssumeRoleOutput, error)
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Session issues short lived credentials for remote calls into the accounts of the organization. It never caches
// credentials: every ConfigFor call performs its own AssumeRole exchange.
type Session struct {
	base        aws.Config
	sts         STSAPI
	sessionName func(accountID string) string
	duration    time.Duration
	logger      log.Logger
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithSTSClient replaces the STS client built from the base config.
func WithSTSClient(client STSAPI) SessionOption {
	return func(session *Session) {
		session.sts = client
	}
}

// WithSessionName sets the role session name generator.
func WithSessionName(fn func(accountID string) string) SessionOption {
	return func(session *Session) {
		session.sessionName = fn
	}
}

// WithDuration sets the lifetime requested for assumed role credentials.
func WithDuration(duration time.Duration) SessionOption {
	return func(session *Session) {
		session.duration = duration
	}
}

// NewSession returns a session deriving per-call credentials from the base config.
func NewSession(l log.Logger, base aws.Config, opts ...SessionOption) *Session {
	session := &Session{
		base:     base,
		duration: 15 * time.Minute, //nolint:mnd
		logger:   l,
		sessionName: func(accountID string) string {
			return "stackdeploy-" + accountID
		},
	}

	for _, opt := range opts {
		opt(session)
	}

	if session.sts == nil {
		session.sts = sts.NewFromConfig(base)
	}

	return session
}

// AssumeRole exchanges the base credentials for credentials of the given role.
func (session *Session) AssumeRole(ctx context.Context, roleARN, accountID string) (aws.Credentials, error) {
	input := &sts.AssumeRoleInput{
		RoleArn:         aws.String(roleARN),
		RoleSessionName: aws.String(session.sessionName(accountID)),
		DurationSeconds: aws.Int32(int32(session.duration.Seconds())),
	}

	session.logger.Tracef("Assuming role %s", roleARN)

	result, err := session.sts.AssumeRole(ctx, input)
	if err != nil {
		return aws.Credentials{}, errors.Errorf("Error assuming role %s: %w", roleARN, err)
	}

	if result.Credentials == nil {
		return aws.Credentials{}, errors.Errorf("Error assuming role %s: no credentials returned", roleARN)
	}

	return aws.Credentials{
		AccessKeyID:     aws.ToString(result.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(result.Credentials.SecretAccessKey),
		SessionToken:    aws.ToString(result.Credentials.SessionToken),
		Source:          "AssumeRole",
		CanExpire:       true,
		Expires:         aws.ToTime(result.Credentials.Expiration),
	}, nil
}

// ConfigFor returns a copy of the base config bound to region and to freshly assumed credentials of the given role.
// The returned config is meant for a single client used for a single call.
func (session *Session) ConfigFor(ctx context.Context, roleARN, accountID, region string) (aws.Config, error) {
	creds, err := session.AssumeRole(ctx, roleARN, accountID)
	if err != nil {
		return aws.Config{}, err
	}

	cfg := session.base.Copy()
	cfg.Region = region
	cfg.Credentials = credentials.NewStaticCredentialsProvider(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)

	return cfg, nil
}

// CallerAccount returns the account id of the base credentials.
func (session *Session) CallerAccount(ctx context.Context) (string, error) {
	result, err := session.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.Errorf("Error getting caller identity: %w", err)
	}

	return aws.ToString(result.Account), nil
}
