//go:generate mockgen -source=$GOFILE -destination=mocks/mock_$GOFILE -package=mocks

// Package cfn wraps the CloudFormation operations needed to converge stacks and stack sets: probing for existence,
// dispatching create or update mutations and polling until the provider reports a terminal status.
package cfn

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"

	"github.com/delegat/stackdeploy/internal/awshelper"
)

// API is the subset of the CloudFormation client used by this package.
type API interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
	DescribeStackSet(ctx context.Context, params *cloudformation.DescribeStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackSetOutput, error)
	DescribeStackSetOperation(ctx context.Context, params *cloudformation.DescribeStackSetOperationInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStackSetOperationOutput, error)
	CreateStack(ctx context.Context, params *cloudformation.CreateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackOutput, error)
	UpdateStack(ctx context.Context, params *cloudformation.UpdateStackInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackOutput, error)
	CreateStackSet(ctx context.Context, params *cloudformation.CreateStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackSetOutput, error)
	UpdateStackSet(ctx context.Context, params *cloudformation.UpdateStackSetInput, optFns ...func(*cloudformation.Options)) (*cloudformation.UpdateStackSetOutput, error)
	CreateStackInstances(ctx context.Context, params *cloudformation.CreateStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.CreateStackInstancesOutput, error)
	ListStackInstances(ctx context.Context, params *cloudformation.ListStackInstancesInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListStackInstancesOutput, error)
}

// ClientProvider returns a client bound to the credentials of a target. Implementations must not reuse credentials
// between calls: callers request a new client for every remote call.
type ClientProvider interface {
	Client(ctx context.Context, target RemoteTarget) (API, error)
}

// RemoteTarget is an account and region reached through the cross-account role.
type RemoteTarget struct {
	AccountID string
	Region    string
	RoleName  string
}

// RoleARN returns the ARN of the cross-account role in the target account.
func (target RemoteTarget) RoleARN() string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", target.AccountID, target.RoleName)
}

// InRegion returns a copy of the target in another region.
func (target RemoteTarget) InRegion(region string) RemoteTarget {
	target.Region = region
	return target
}

func (target RemoteTarget) String() string {
	return target.AccountID + "/" + target.Region
}

// SessionClientProvider builds CloudFormation clients from credentials assumed through a session.
type SessionClientProvider struct {
	session *awshelper.Session
}

// NewSessionClientProvider returns a provider assuming the target role for every client.
func NewSessionClientProvider(session *awshelper.Session) *SessionClientProvider {
	return &SessionClientProvider{session: session}
}

// Client assumes the role of target and returns a throw-away client for a single call.
func (provider *SessionClientProvider) Client(ctx context.Context, target RemoteTarget) (API, error) {
	cfg, err := provider.session.ConfigFor(ctx, target.RoleARN(), target.AccountID, target.Region)
	if err != nil {
		return nil, err
	}

	return cloudformation.NewFromConfig(cfg), nil
}
