//go:build e2e

package e2e

import (
	"context"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costforge/costforge/pkg/awsx"
	"github.com/costforge/costforge/pkg/inspector"
)

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	client, err := awsx.NewClient(ctx, "us-east-1")
	require.NoError(t, err)

	identity, err := client.VerifyIdentity(ctx)
	require.NoError(t, err)

	// LocalStack answers STS with its fixed test account.
	assert.Equal(t, "000000000000", identity.Account)
	assert.NotEmpty(t, identity.ARN)
}

func TestLiveCountsSeeInstances(t *testing.T) {
	ctx := context.Background()

	client, err := awsx.NewClient(ctx, "us-east-1")
	require.NoError(t, err)

	ProvisionEC2Instance(t, ec2.NewFromConfig(GetAWSConfig(t)), map[string]string{
		"Project": "checkout-api",
	})

	counts, err := awsx.NewLive(client, slog.Default()).Counts(ctx)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, counts[inspector.CategoryEC2], 1)
}

func TestGuardrailsMissingOnFreshAccount(t *testing.T) {
	ctx := context.Background()

	client, err := awsx.NewClient(ctx, "us-east-1")
	require.NoError(t, err)

	missing, err := awsx.NewGuardrails(client).Missing(ctx, "checkout-api")
	require.NoError(t, err)

	assert.Contains(t, missing, awsx.GuardrailCostAlert)
	assert.Contains(t, missing, awsx.GuardrailBudgetAlarm)
}
