package awsx

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// Guardrail names follow the bundle's naming contract: the generated CDK
// stack and scripts deploy `<project>-cost-alert` and `<project>-budget-alarm`.
const (
	GuardrailCostAlert   = "cost-alert"
	GuardrailBudgetAlarm = "budget-alarm"
)

type (
	FunctionGetterAPI interface {
		GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	}
	AlarmAPI interface {
		DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
	}
)

// Guardrails verifies that the deployed cost controls from a generated
// bundle actually exist in the account.
type Guardrails struct {
	Lambda     FunctionGetterAPI
	CloudWatch AlarmAPI
}

// NewGuardrails builds the checker from a shared session.
func NewGuardrails(c *Client) *Guardrails {
	return &Guardrails{
		Lambda:     lambda.NewFromConfig(c.Config),
		CloudWatch: cloudwatch.NewFromConfig(c.Config),
	}
}

// Missing returns the guardrail labels that are not deployed for the
// project. An empty slice means every guardrail is in place.
func (g *Guardrails) Missing(ctx context.Context, projectName string) ([]string, error) {
	missing := []string{}

	fnName := fmt.Sprintf("%s-%s", projectName, GuardrailCostAlert)
	_, err := g.Lambda.GetFunction(ctx, &lambda.GetFunctionInput{
		FunctionName: aws.String(fnName),
	})
	if err != nil {
		var notFound *lambdatypes.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("checking %s: %w", fnName, err)
		}
		missing = append(missing, GuardrailCostAlert)
	}

	alarmName := fmt.Sprintf("%s-%s", projectName, GuardrailBudgetAlarm)
	out, err := g.CloudWatch.DescribeAlarms(ctx, &cloudwatch.DescribeAlarmsInput{
		AlarmNames: []string{alarmName},
	})
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", alarmName, err)
	}
	if len(out.MetricAlarms) == 0 && len(out.CompositeAlarms) == 0 {
		missing = append(missing, GuardrailBudgetAlarm)
	}

	return missing, nil
}
