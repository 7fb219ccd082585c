package scaffold

import (
	"fmt"
	"strings"
)

// The scripts embed the resolved profile values as literals. The same
// budget, project name, and email appear again in the Lambda sources and
// the CDK stack; keeping each artifact self-contained is the product's
// contract, so nothing is factored into a shared include.

func renderCostCheckScript(d *Document) []byte {
	script := fmt.Sprintf(`#!/bin/bash
# Month-to-date spend check for %[1]s (%[2]s).
# Exits non-zero when actual spend exceeds the configured budget.
set -euo pipefail

PROJECT="%[1]s"
BUDGET=%[3]d
ALERT_EMAIL="%[4]s"

START=$(date +%%Y-%%m-01)
END=$(date +%%Y-%%m-%%d)
if [ "$START" = "$END" ]; then
  END=$(date -d "$START + 1 day" +%%Y-%%m-%%d 2>/dev/null || date -v+1d -j -f %%Y-%%m-%%d "$START" +%%Y-%%m-%%d)
fi

SPEND=$(aws ce get-cost-and-usage \
  --time-period Start="$START",End="$END" \
  --granularity MONTHLY \
  --metrics UnblendedCost \
  --query 'ResultsByTime[0].Total.UnblendedCost.Amount' \
  --output text)

echo "Project: $PROJECT"
echo "Month-to-date spend: \$${SPEND} (budget \$${BUDGET})"

if [ "$(echo "$SPEND > $BUDGET" | bc -l)" -eq 1 ]; then
  echo "ALERT: $PROJECT is over budget for this month."
  echo "       Notify: $ALERT_EMAIL"
  exit 1
fi

echo "OK: $PROJECT is within budget."
`, d.ProjectName, d.Environment, d.Budget, d.AlertEmail)
	return []byte(script)
}

func renderTagAuditScript(d *Document) []byte {
	limits := d.Limits()
	tags := strings.Join(limits.RequiredTags, " ")
	allowed := strings.Join(limits.AllowedInstanceTypes, "|")

	script := fmt.Sprintf(`#!/bin/bash
# Tag and instance-type audit for %[1]s (%[2]s).
# Flags running instances missing cost-allocation tags or using types
# outside the environment allow-list.
set -euo pipefail

PROJECT="%[1]s"
REQUIRED_TAGS="%[3]s"
ALLOWED_TYPES="%[4]s"
MAX_INSTANCES=%[5]d

INSTANCES=$(aws ec2 describe-instances \
  --filters "Name=instance-state-name,Values=running" \
  --query 'Reservations[].Instances[].[InstanceId,InstanceType,Tags]' \
  --output json)

COUNT=$(echo "$INSTANCES" | jq 'length')
echo "Project: $PROJECT"
echo "Running instances: $COUNT (limit $MAX_INSTANCES)"
if [ "$COUNT" -gt "$MAX_INSTANCES" ]; then
  echo "ALERT: instance count exceeds the %[2]s limit."
fi

VIOLATIONS=0
for ROW in $(echo "$INSTANCES" | jq -r '.[] | @base64'); do
  ID=$(echo "$ROW" | base64 --decode | jq -r '.[0]')
  TYPE=$(echo "$ROW" | base64 --decode | jq -r '.[1]')
  TAGS=$(echo "$ROW" | base64 --decode | jq -r '(.[2] // []) | map(.Key) | join(" ")')

  if ! echo "$TYPE" | grep -qE "^($ALLOWED_TYPES)$"; then
    echo "VIOLATION: $ID uses disallowed type $TYPE"
    VIOLATIONS=$((VIOLATIONS + 1))
  fi

  for TAG in $REQUIRED_TAGS; do
    if ! echo "$TAGS" | grep -qw "$TAG"; then
      echo "VIOLATION: $ID is missing required tag $TAG"
      VIOLATIONS=$((VIOLATIONS + 1))
    fi
  done
done

if [ "$VIOLATIONS" -gt 0 ]; then
  echo "FAIL: $VIOLATIONS violation(s) found."
  exit 1
fi

echo "OK: all instances tagged and within the allow-list."
`, d.ProjectName, d.Environment, tags, allowed, limits.MaxInstances)
	return []byte(script)
}
