package scaffold

import (
	"fmt"
	"strings"
)

func renderReadme(d *Document, withCDK bool) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Cost controls for %s\n\n", d.ProjectName)
	fmt.Fprintf(&b, "Generated by costforge. Environment: `%s`, monthly budget: $%d,\n", d.Environment, d.Budget)
	fmt.Fprintf(&b, "alerts to %s. Detected infrastructure: %s.\n\n", d.AlertEmail, d.InfrastructurePatterns)

	b.WriteString("## Contents\n\n")
	b.WriteString("| File | Purpose |\n")
	b.WriteString("|------|---------|\n")
	b.WriteString("| `config.json` | Profile values and per-environment limit tables |\n")
	fmt.Fprintf(&b, "| `scripts/cost-check.sh` | Month-to-date spend vs. the $%d budget (exits non-zero over budget) |\n", d.Budget)
	b.WriteString("| `scripts/tag-audit.sh` | Required-tag and instance-type allow-list audit |\n")
	b.WriteString("| `lambda/cost-alert.js` | Scheduled spend check publishing SNS alerts |\n")
	b.WriteString("| `lambda/auto-stop.js` | Stops untagged instances outside business hours |\n")
	if withCDK {
		b.WriteString("| `cdk/cost-control-stack.ts` | CDK stack deploying the alarm, topic, and Lambdas |\n")
	}
	b.WriteString("| `policy/cost-rules.yaml` | CEL rules evaluated by `costforge audit` |\n")
	b.WriteString("\n## Budgets\n\n")
	b.WriteString("| Environment | Budget (USD/month) | Max instances | Auto-stop |\n")
	b.WriteString("|-------------|-------------------:|--------------:|-----------|\n")
	for _, name := range []string{"dev", "staging", "prod"} {
		entry, ok := d.Environments[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %d | %v |\n", name, entry.Budget, entry.MaxInstances, entry.AutoStop)
	}
	b.WriteString("\n## Next steps\n\n")
	b.WriteString("1. Review `config.json` and adjust budgets if the estimate is off.\n")
	b.WriteString("2. Wire `scripts/cost-check.sh` into CI for a cheap spend gate.\n")
	if withCDK {
		b.WriteString("3. Deploy the guardrails: `cd cdk && npx cdk deploy`.\n")
		b.WriteString("4. Verify with `costforge audit` once deployed.\n")
	} else {
		b.WriteString("3. Verify with `costforge audit` once guardrails are deployed.\n")
	}

	return []byte(b.String())
}
