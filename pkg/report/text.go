package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/policy"
	"github.com/costforge/costforge/pkg/providers/terraform"
)

var (
	colorAccent  = lipgloss.Color("#00FF99")
	colorSubtext = lipgloss.Color("#64748B")
	colorDanger  = lipgloss.Color("#FF0055")
	colorWarning = lipgloss.Color("#F59E0B")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext).
			Width(16)

	valueStyle = lipgloss.NewStyle().Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtext).
			Padding(1, 2)

	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	okStyle      = lipgloss.NewStyle().Foreground(colorAccent)
)

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

// RenderProfile renders the profile summary card, with optional
// Terraform inventory and state sections when the terraform pattern was
// detected.
func RenderProfile(p *inspector.Profile, inv *terraform.Inventory, state *terraform.State) string {
	var b strings.Builder

	rows := []string{
		row("Project", p.ProjectName),
		row("Type", string(p.ProjectType)),
		row("Infrastructure", p.PatternDisplay()),
		row("Budget estimate", fmt.Sprintf("$%d/month", p.BudgetEstimateUSD)),
		row("Alert email", p.AlertEmail),
	}
	b.WriteString(cardStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	if len(p.Mentions) > 0 {
		b.WriteString(titleStyle.Render("RESOURCE MENTIONS"))
		b.WriteString("\n")
		for _, category := range sortedKeys(p.MentionCounts()) {
			b.WriteString(fmt.Sprintf("  %-20s %d\n", category, p.MentionCounts()[category]))
		}
		b.WriteString("\n")
	}

	if inv != nil && len(inv.Resources) > 0 {
		b.WriteString(titleStyle.Render("TERRAFORM INVENTORY"))
		b.WriteString("\n")
		counts := inv.TypeCounts()
		for _, typ := range sortedKeys(counts) {
			b.WriteString(fmt.Sprintf("  %-35s %d\n", typ, counts[typ]))
		}
		b.WriteString(fmt.Sprintf("\n  %d managed resource(s) total. Informational only; the\n", inv.Total()))
		b.WriteString("  budget estimate comes from the mention scan alone.\n")
	}

	if counts := state.ManagedCounts(); len(counts) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("TERRAFORM STATE"))
		b.WriteString("\n")
		for _, typ := range sortedKeys(counts) {
			b.WriteString(fmt.Sprintf("  %-35s %d\n", typ, counts[typ]))
		}
		b.WriteString("\n  Deployed per terraform.tfstate; configuration and state can\n")
		b.WriteString("  disagree after un-applied edits.\n")
	}

	return b.String()
}

// Audit is a collected audit snapshot plus its rule verdicts.
type Audit struct {
	Account        string
	Environment    string
	SpendMTD       float64
	Budget         float64
	ResourceCounts map[string]int
	MonthlyRates   map[string]float64
	Missing        []string
	Verdicts       []policy.Verdict
}

// RenderAudit renders the audit result card and the per-rule verdicts.
func RenderAudit(a *Audit) string {
	var b strings.Builder

	spendLine := fmt.Sprintf("$%.2f of $%.0f", a.SpendMTD, a.Budget)
	rows := []string{
		row("Account", a.Account),
		row("Environment", a.Environment),
		row("Spend (MTD)", spendLine),
	}
	if len(a.Missing) == 0 {
		rows = append(rows, row("Guardrails", okStyle.Render("deployed")))
	} else {
		rows = append(rows, row("Guardrails", dangerStyle.Render("missing: "+strings.Join(a.Missing, ", "))))
	}
	b.WriteString(cardStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")

	if len(a.ResourceCounts) > 0 {
		b.WriteString(titleStyle.Render("LIVE RESOURCES"))
		b.WriteString("\n")
		for _, category := range sortedKeys(a.ResourceCounts) {
			line := fmt.Sprintf("  %-20s %d", category, a.ResourceCounts[category])
			if rate, ok := a.MonthlyRates[category]; ok {
				line += fmt.Sprintf("   (~$%.2f/mo each)", rate)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("RULES"))
	b.WriteString("\n")
	for _, v := range a.Verdicts {
		b.WriteString("  " + verdictLine(v) + "\n")
	}

	return b.String()
}

func verdictLine(v policy.Verdict) string {
	if !v.Triggered {
		return okStyle.Render("PASS") + fmt.Sprintf("  %s", v.Rule.Name)
	}
	switch v.Rule.Severity {
	case policy.SeverityCritical:
		return dangerStyle.Render("FAIL") + fmt.Sprintf("  %s  %s", v.Rule.Name, v.Rule.Description)
	default:
		return warningStyle.Render("WARN") + fmt.Sprintf("  %s  %s", v.Rule.Name, v.Rule.Description)
	}
}

// Triggered reports whether any critical rule fired, for the command
// layer's exit code.
func (a *Audit) Triggered(severity string) bool {
	for _, v := range a.Verdicts {
		if v.Triggered && v.Rule.Severity == severity {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
