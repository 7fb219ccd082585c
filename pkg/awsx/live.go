package awsx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/costforge/costforge/pkg/inspector"
)

// Narrow per-service interfaces so the mock can stand in for the real
// clients in command tests.
type (
	EC2API interface {
		DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	}
	RDSAPI interface {
		DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	}
	S3API interface {
		ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	}
	LambdaAPI interface {
		ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	}
	ELBAPI interface {
		DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	}
)

// Live counts deployed resources in the five categories the inspector
// tracks. Nothing outside those categories is queried.
type Live struct {
	EC2    EC2API
	RDS    RDSAPI
	S3     S3API
	Lambda LambdaAPI
	ELB    ELBAPI
	Logger *slog.Logger
}

// NewLive builds the live counter from a shared session.
func NewLive(c *Client, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.Default()
	}
	return &Live{
		EC2:    ec2.NewFromConfig(c.Config),
		RDS:    rds.NewFromConfig(c.Config),
		S3:     s3.NewFromConfig(c.Config),
		Lambda: lambda.NewFromConfig(c.Config),
		ELB:    elasticloadbalancingv2.NewFromConfig(c.Config),
		Logger: logger,
	}
}

// Counts queries each service in sequence and returns per-category totals
// keyed by the inspector's category names. A service the caller cannot
// read is logged and omitted from the map rather than failing the audit.
func (l *Live) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)

	if n, err := l.countInstances(ctx); err != nil {
		if !IsAccessDenied(err) {
			return nil, fmt.Errorf("counting EC2 instances: %w", err)
		}
		l.Logger.Warn("Skipping EC2 count, access denied", "error", err)
	} else {
		counts[inspector.CategoryEC2] = n
	}

	if n, err := l.countDatabases(ctx); err != nil {
		if !IsAccessDenied(err) {
			return nil, fmt.Errorf("counting RDS instances: %w", err)
		}
		l.Logger.Warn("Skipping RDS count, access denied", "error", err)
	} else {
		counts[inspector.CategoryRDS] = n
	}

	if n, err := l.countBuckets(ctx); err != nil {
		if !IsAccessDenied(err) {
			return nil, fmt.Errorf("counting S3 buckets: %w", err)
		}
		l.Logger.Warn("Skipping S3 count, access denied", "error", err)
	} else {
		counts[inspector.CategoryS3] = n
	}

	if n, err := l.countFunctions(ctx); err != nil {
		if !IsAccessDenied(err) {
			return nil, fmt.Errorf("counting Lambda functions: %w", err)
		}
		l.Logger.Warn("Skipping Lambda count, access denied", "error", err)
	} else {
		counts[inspector.CategoryLambda] = n
	}

	if n, err := l.countLoadBalancers(ctx); err != nil {
		if !IsAccessDenied(err) {
			return nil, fmt.Errorf("counting load balancers: %w", err)
		}
		l.Logger.Warn("Skipping ELB count, access denied", "error", err)
	} else {
		counts[inspector.CategoryELB] = n
	}

	return counts, nil
}

// countInstances counts running instances only. Stopped instances do not
// bill compute, and the generated guardrails only cap what is running.
func (l *Live) countInstances(ctx context.Context) (int, error) {
	count := 0
	var token *string
	for {
		out, err := l.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			Filters: []ec2types.Filter{
				{Name: strPtr("instance-state-name"), Values: []string{"running"}},
			},
			NextToken: token,
		})
		if err != nil {
			return 0, err
		}
		for _, res := range out.Reservations {
			count += len(res.Instances)
		}
		if out.NextToken == nil {
			return count, nil
		}
		token = out.NextToken
	}
}

func (l *Live) countDatabases(ctx context.Context) (int, error) {
	count := 0
	var marker *string
	for {
		out, err := l.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{Marker: marker})
		if err != nil {
			return 0, err
		}
		count += len(out.DBInstances)
		if out.Marker == nil {
			return count, nil
		}
		marker = out.Marker
	}
}

func (l *Live) countBuckets(ctx context.Context) (int, error) {
	out, err := l.S3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return 0, err
	}
	return len(out.Buckets), nil
}

func (l *Live) countFunctions(ctx context.Context) (int, error) {
	count := 0
	var marker *string
	for {
		out, err := l.Lambda.ListFunctions(ctx, &lambda.ListFunctionsInput{Marker: marker})
		if err != nil {
			return 0, err
		}
		count += len(out.Functions)
		if out.NextMarker == nil {
			return count, nil
		}
		marker = out.NextMarker
	}
}

func (l *Live) countLoadBalancers(ctx context.Context) (int, error) {
	count := 0
	var marker *string
	for {
		out, err := l.ELB.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{Marker: marker})
		if err != nil {
			return 0, err
		}
		count += len(out.LoadBalancers)
		if out.NextMarker == nil {
			return count, nil
		}
		marker = out.NextMarker
	}
}

func strPtr(s string) *string { return &s }
