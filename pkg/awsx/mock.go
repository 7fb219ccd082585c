package awsx

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Mock is the in-memory stand-in for every awsx interface, used by
// command tests and --mock runs. Counts and spend are plain fields;
// Deployed lists the guardrail resources that "exist".
type Mock struct {
	SpendMTD      float64
	Instances     int
	Databases     int
	Buckets       int
	Functions     int
	LoadBalancers int
	Deployed      map[string]bool // function or alarm name -> present
}

// NewMock returns a mock with a small plausible footprint.
func NewMock() *Mock {
	return &Mock{
		SpendMTD:      42.17,
		Instances:     2,
		Databases:     1,
		Buckets:       3,
		Functions:     4,
		LoadBalancers: 1,
		Deployed:      map[string]bool{},
	}
}

// MockLive wires the mock into a Live counter.
func MockLive(m *Mock) *Live {
	return &Live{EC2: m, RDS: m, S3: m, Lambda: m, ELB: m, Logger: slog.Default()}
}

func (m *Mock) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	return &costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []cetypes.ResultByTime{
			{
				Total: map[string]cetypes.MetricValue{
					"UnblendedCost": {
						Amount: aws.String(strconv.FormatFloat(m.SpendMTD, 'f', -1, 64)),
						Unit:   aws.String("USD"),
					},
				},
			},
		},
	}, nil
}

func (m *Mock) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	instances := make([]ec2types.Instance, m.Instances)
	for i := range instances {
		instances[i] = ec2types.Instance{
			InstanceId:   aws.String(fmt.Sprintf("i-0mock%010d", i)),
			InstanceType: ec2types.InstanceTypeT3Micro,
			State:        &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
		}
	}
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: instances}},
	}, nil
}

func (m *Mock) DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	dbs := make([]rdstypes.DBInstance, m.Databases)
	for i := range dbs {
		dbs[i] = rdstypes.DBInstance{
			DBInstanceIdentifier: aws.String(fmt.Sprintf("mock-db-%d", i)),
			DBInstanceClass:      aws.String("db.t3.micro"),
		}
	}
	return &rds.DescribeDBInstancesOutput{DBInstances: dbs}, nil
}

func (m *Mock) ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	buckets := make([]s3types.Bucket, m.Buckets)
	for i := range buckets {
		buckets[i] = s3types.Bucket{Name: aws.String(fmt.Sprintf("mock-bucket-%d", i))}
	}
	return &s3.ListBucketsOutput{Buckets: buckets}, nil
}

func (m *Mock) ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error) {
	fns := make([]lambdatypes.FunctionConfiguration, m.Functions)
	for i := range fns {
		fns[i] = lambdatypes.FunctionConfiguration{
			FunctionName: aws.String(fmt.Sprintf("mock-fn-%d", i)),
		}
	}
	return &lambda.ListFunctionsOutput{Functions: fns}, nil
}

func (m *Mock) DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error) {
	lbs := make([]elbtypes.LoadBalancer, m.LoadBalancers)
	for i := range lbs {
		lbs[i] = elbtypes.LoadBalancer{
			LoadBalancerName: aws.String(fmt.Sprintf("mock-lb-%d", i)),
			Type:             elbtypes.LoadBalancerTypeEnumApplication,
		}
	}
	return &elasticloadbalancingv2.DescribeLoadBalancersOutput{LoadBalancers: lbs}, nil
}

func (m *Mock) GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error) {
	name := aws.ToString(params.FunctionName)
	if !m.Deployed[name] {
		return nil, &lambdatypes.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Function not found: %s", name)),
		}
	}
	return &lambda.GetFunctionOutput{
		Configuration: &lambdatypes.FunctionConfiguration{FunctionName: params.FunctionName},
	}, nil
}

func (m *Mock) DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error) {
	out := &cloudwatch.DescribeAlarmsOutput{}
	for _, name := range params.AlarmNames {
		if m.Deployed[name] {
			out.MetricAlarms = append(out.MetricAlarms, cwtypes.MetricAlarm{
				AlarmName: aws.String(name),
			})
		}
	}
	return out, nil
}
