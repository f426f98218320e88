package awshelper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	ststypes "github.com/aws/aws-sdk-go-v2/service/sts/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delegat/stackdeploy/internal/awshelper"
	"github.com/delegat/stackdeploy/test/helpers/logger"
)

type fakeSTS struct {
	inputs []*sts.AssumeRoleInput
	err    error
}

func (fake *fakeSTS) AssumeRole(_ context.Context, params *sts.AssumeRoleInput, _ ...func(*sts.Options)) (*sts.AssumeRoleOutput, error) {
	fake.inputs = append(fake.inputs, params)

	if fake.err != nil {
		return nil, fake.err
	}

	n := len(fake.inputs)

	return &sts.AssumeRoleOutput{
		Credentials: &ststypes.Credentials{
			AccessKeyId:     aws.String("AKIA" + string(rune('0'+n))),
			SecretAccessKey: aws.String("secret"),
			SessionToken:    aws.String("token"),
			Expiration:      aws.Time(time.Now().Add(time.Hour)),
		},
	}, nil
}

func (fake *fakeSTS) GetCallerIdentity(_ context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{Account: aws.String("999999999999")}, nil
}

func TestConfigForAssumesRolePerCall(t *testing.T) {
	t.Parallel()

	fake := &fakeSTS{}
	session := awshelper.NewSession(logger.CreateLogger(), aws.Config{Region: "us-east-1"},
		awshelper.WithSTSClient(fake),
		awshelper.WithDuration(10*time.Minute),
		awshelper.WithSessionName(func(accountID string) string { return "test-" + accountID }),
	)

	roleARN := "arn:aws:iam::111111111111:role/deployer"

	first, err := session.ConfigFor(t.Context(), roleARN, "111111111111", "eu-west-1")
	require.NoError(t, err)

	second, err := session.ConfigFor(t.Context(), roleARN, "111111111111", "eu-west-2")
	require.NoError(t, err)

	require.Len(t, fake.inputs, 2)
	assert.Equal(t, roleARN, aws.ToString(fake.inputs[0].RoleArn))
	assert.Equal(t, "test-111111111111", aws.ToString(fake.inputs[0].RoleSessionName))
	assert.Equal(t, int32(600), aws.ToInt32(fake.inputs[0].DurationSeconds))

	assert.Equal(t, "eu-west-1", first.Region)
	assert.Equal(t, "eu-west-2", second.Region)

	firstCreds, err := first.Credentials.Retrieve(t.Context())
	require.NoError(t, err)

	secondCreds, err := second.Credentials.Retrieve(t.Context())
	require.NoError(t, err)

	assert.NotEqual(t, firstCreds.AccessKeyID, secondCreds.AccessKeyID)
}

func TestConfigForPropagatesAssumeRoleErrors(t *testing.T) {
	t.Parallel()

	denied := errors.New("access denied")
	session := awshelper.NewSession(logger.CreateLogger(), aws.Config{}, awshelper.WithSTSClient(&fakeSTS{err: denied}))

	_, err := session.ConfigFor(t.Context(), "arn:aws:iam::111111111111:role/deployer", "111111111111", "eu-west-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, denied)
}

func TestCallerAccount(t *testing.T) {
	t.Parallel()

	session := awshelper.NewSession(logger.CreateLogger(), aws.Config{}, awshelper.WithSTSClient(&fakeSTS{}))

	account, err := session.CallerAccount(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "999999999999", account)
}
