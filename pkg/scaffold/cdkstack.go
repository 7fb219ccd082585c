package scaffold

import "fmt"

// renderCDKStack emits the TypeScript cost-control stack. Only generated
// when the aws-cdk pattern was detected; pure boilerplate wiring the
// budget alarm, the SNS topic, and the two Lambdas. The resource names
// (`<project>-cost-alert`, `<project>-budget-alarm`) are the names the
// audit command later checks for.
func renderCDKStack(d *Document) []byte {
	limits := d.Limits()

	src := fmt.Sprintf(`// Cost-control stack for %[1]s. Generated by costforge.
import * as cdk from 'aws-cdk-lib';
import * as cloudwatch from 'aws-cdk-lib/aws-cloudwatch';
import * as cloudwatchActions from 'aws-cdk-lib/aws-cloudwatch-actions';
import * as events from 'aws-cdk-lib/aws-events';
import * as targets from 'aws-cdk-lib/aws-events-targets';
import * as lambda from 'aws-cdk-lib/aws-lambda';
import * as sns from 'aws-cdk-lib/aws-sns';
import * as subscriptions from 'aws-cdk-lib/aws-sns-subscriptions';
import { Construct } from 'constructs';

const PROJECT = '%[1]s';
const BUDGET = %[2]d;
const ALERT_EMAIL = '%[3]s';

export class CostControlStack extends cdk.Stack {
  constructor(scope: Construct, id: string, props?: cdk.StackProps) {
    super(scope, id, props);

    const alertTopic = new sns.Topic(this, 'CostAlertTopic', {
      topicName: `+"`"+`${PROJECT}-cost-alerts`+"`"+`,
    });
    alertTopic.addSubscription(new subscriptions.EmailSubscription(ALERT_EMAIL));

    const costAlertFn = new lambda.Function(this, 'CostAlertFunction', {
      functionName: `+"`"+`${PROJECT}-cost-alert`+"`"+`,
      runtime: lambda.Runtime.NODEJS_18_X,
      handler: 'cost-alert.handler',
      code: lambda.Code.fromAsset('../lambda'),
      timeout: cdk.Duration.seconds(30),
      environment: { ALERT_TOPIC_ARN: alertTopic.topicArn },
    });
    alertTopic.grantPublish(costAlertFn);

    new events.Rule(this, 'CostAlertSchedule', {
      schedule: events.Schedule.rate(cdk.Duration.hours(6)),
      targets: [new targets.LambdaFunction(costAlertFn)],
    });
%[4]s
    const budgetAlarm = new cloudwatch.Alarm(this, 'BudgetAlarm', {
      alarmName: `+"`"+`${PROJECT}-budget-alarm`+"`"+`,
      metric: new cloudwatch.Metric({
        namespace: 'AWS/Billing',
        metricName: 'EstimatedCharges',
        dimensionsMap: { Currency: 'USD' },
        statistic: 'Maximum',
        period: cdk.Duration.hours(6),
      }),
      threshold: BUDGET,
      evaluationPeriods: 1,
      comparisonOperator: cloudwatch.ComparisonOperator.GREATER_THAN_THRESHOLD,
    });
    budgetAlarm.addAlarmAction(new cloudwatchActions.SnsAction(alertTopic));
  }
}
`, d.ProjectName, d.Budget, d.AlertEmail, renderAutoStopBlock(d, limits))
	return []byte(src)
}

// renderAutoStopBlock emits the auto-stop Lambda wiring, or a comment
// noting it is disabled for environments with AutoStop off (prod).
func renderAutoStopBlock(d *Document, limits EnvironmentEntry) string {
	if !limits.AutoStop {
		return fmt.Sprintf(`
    // Auto-stop is disabled for the %s environment.
`, d.Environment)
	}
	return `
    const autoStopFn = new lambda.Function(this, 'AutoStopFunction', {
      functionName: ` + "`" + `${PROJECT}-auto-stop` + "`" + `,
      runtime: lambda.Runtime.NODEJS_18_X,
      handler: 'auto-stop.handler',
      code: lambda.Code.fromAsset('../lambda'),
      timeout: cdk.Duration.minutes(1),
    });

    new events.Rule(this, 'AutoStopSchedule', {
      schedule: events.Schedule.rate(cdk.Duration.hours(1)),
      targets: [new targets.LambdaFunction(autoStopFn)],
    });
`
}
