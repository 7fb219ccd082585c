package scaffold

import (
	"fmt"
	"strings"
)

// Generated Lambda sources. Emitted as opaque template text: costforge
// never parses or executes these. The budget, project name, and alert
// email are the same literals the scripts and CDK stack carry.

func renderCostAlertLambda(d *Document) []byte {
	src := fmt.Sprintf(`// %[1]s cost alert. Generated by costforge.
// Compares month-to-date spend against the %[2]s budget and publishes an
// SNS alert when the budget is exceeded.
const { CostExplorerClient, GetCostAndUsageCommand } = require('@aws-sdk/client-cost-explorer');
const { SNSClient, PublishCommand } = require('@aws-sdk/client-sns');

const PROJECT = '%[1]s';
const BUDGET = %[3]d;
const ALERT_EMAIL = '%[4]s';

const ce = new CostExplorerClient({ region: 'us-east-1' });
const sns = new SNSClient({});

exports.handler = async () => {
  const now = new Date();
  const start = new Date(Date.UTC(now.getUTCFullYear(), now.getUTCMonth(), 1));
  const fmt = (d) => d.toISOString().slice(0, 10);

  const result = await ce.send(new GetCostAndUsageCommand({
    TimePeriod: { Start: fmt(start), End: fmt(now) },
    Granularity: 'MONTHLY',
    Metrics: ['UnblendedCost'],
  }));

  const spend = parseFloat(result.ResultsByTime[0].Total.UnblendedCost.Amount);
  console.log(`+"`"+`${PROJECT}: month-to-date spend $${spend.toFixed(2)} (budget $${BUDGET})`+"`"+`);

  if (spend > BUDGET) {
    await sns.send(new PublishCommand({
      TopicArn: process.env.ALERT_TOPIC_ARN,
      Subject: `+"`"+`[${PROJECT}] Budget exceeded`+"`"+`,
      Message: `+"`"+`Month-to-date spend $${spend.toFixed(2)} exceeds the $${BUDGET} budget for ${PROJECT}.\nAlert contact: ${ALERT_EMAIL}`+"`"+`,
    }));
    return { status: 'ALERT', spend, budget: BUDGET };
  }

  return { status: 'OK', spend, budget: BUDGET };
};
`, d.ProjectName, d.Environment, d.Budget, d.AlertEmail)
	return []byte(src)
}

func renderAutoStopLambda(d *Document) []byte {
	limits := d.Limits()
	requiredTag := "Project"
	if len(limits.RequiredTags) > 0 {
		requiredTag = limits.RequiredTags[0]
	}

	src := fmt.Sprintf(`// %[1]s auto-stop. Generated by costforge.
// Stops running instances that are missing the required cost tag outside
// business hours (before 08:00 / after 19:00 UTC).
const { EC2Client, DescribeInstancesCommand, StopInstancesCommand } = require('@aws-sdk/client-ec2');

const PROJECT = '%[1]s';
const REQUIRED_TAG = '%[2]s';
const REQUIRED_TAGS = [%[3]s];

const ec2 = new EC2Client({});

exports.handler = async () => {
  const hour = new Date().getUTCHours();
  if (hour >= 8 && hour < 19) {
    return { status: 'SKIP', reason: 'business hours' };
  }

  const described = await ec2.send(new DescribeInstancesCommand({
    Filters: [{ Name: 'instance-state-name', Values: ['running'] }],
  }));

  const untagged = [];
  for (const reservation of described.Reservations || []) {
    for (const instance of reservation.Instances || []) {
      const keys = (instance.Tags || []).map((t) => t.Key);
      if (!keys.includes(REQUIRED_TAG)) {
        untagged.push(instance.InstanceId);
      }
    }
  }

  if (untagged.length === 0) {
    return { status: 'OK', stopped: [] };
  }

  await ec2.send(new StopInstancesCommand({ InstanceIds: untagged }));
  console.log(`+"`"+`${PROJECT}: stopped ${untagged.length} untagged instance(s)`+"`"+`);
  return { status: 'STOPPED', stopped: untagged };
};
`, d.ProjectName, requiredTag, quoteList(limits.RequiredTags))
	return []byte(src)
}

// quoteList renders a Go string slice as a JS array literal body.
func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("'%s'", item)
	}
	return strings.Join(quoted, ", ")
}
