package policy

import (
	"fmt"
	"log/slog"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

// Facts is the evaluation input: one snapshot of spend, limits, and live
// state collected by an audit run.
type Facts struct {
	SpendMTD          float64
	Budget            float64
	Environment       string
	MaxInstances      int
	ResourceCounts    map[string]int
	GuardrailsMissing []string
}

func (f Facts) vars() map[string]any {
	counts := f.ResourceCounts
	if counts == nil {
		counts = map[string]int{}
	}
	missing := f.GuardrailsMissing
	if missing == nil {
		missing = []string{}
	}
	return map[string]any{
		"spend_mtd":          f.SpendMTD,
		"budget":             f.Budget,
		"environment":        f.Environment,
		"max_instances":      f.MaxInstances,
		"resource_counts":    counts,
		"guardrails_missing": missing,
	}
}

// Verdict is the outcome of one rule against one snapshot.
type Verdict struct {
	Rule      Rule
	Triggered bool
}

// Diagnostic reports a rule that failed to compile.
type Diagnostic struct {
	Rule  string
	Issue string
}

// Engine manages the compilation and execution of cost rules.
type Engine struct {
	env      *cel.Env
	rules    []Rule
	programs map[string]cel.Program
}

// NewEngine initializes the CEL environment with the audit variable
// declarations.
func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Declarations(
			decls.NewVar("spend_mtd", decls.Double),
			decls.NewVar("budget", decls.Double),
			decls.NewVar("environment", decls.String),
			decls.NewVar("max_instances", decls.Int),
			decls.NewVar("resource_counts", decls.NewMapType(decls.String, decls.Int)),
			decls.NewVar("guardrails_missing", decls.NewListType(decls.String)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	return &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Compile compiles all rules into executable programs. The first bad rule
// fails the whole set.
func (e *Engine) Compile(rules []Rule) error {
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			return fmt.Errorf("rule %s compilation error: %w", r.Name, issues.Err())
		}

		prg, err := e.env.Program(ast)
		if err != nil {
			return fmt.Errorf("rule %s program creation error: %w", r.Name, err)
		}

		e.programs[r.Name] = prg
	}
	e.rules = append(e.rules, rules...)
	return nil
}

// Lint compiles every rule independently and collects diagnostics instead
// of stopping at the first failure.
func (e *Engine) Lint(rules []Rule) []Diagnostic {
	var diags []Diagnostic
	for _, r := range rules {
		ast, issues := e.env.Compile(r.Expression)
		if issues != nil && issues.Err() != nil {
			diags = append(diags, Diagnostic{Rule: r.Name, Issue: issues.Err().Error()})
			continue
		}
		if _, err := e.env.Program(ast); err != nil {
			diags = append(diags, Diagnostic{Rule: r.Name, Issue: err.Error()})
		}
	}
	return diags
}

// Evaluate runs every compiled rule against the snapshot, in the order the
// rules were compiled. A rule whose evaluation errors is logged and
// skipped, never fatal.
func (e *Engine) Evaluate(facts Facts) []Verdict {
	vars := facts.vars()
	verdicts := make([]Verdict, 0, len(e.rules))

	for _, r := range e.rules {
		prg, ok := e.programs[r.Name]
		if !ok {
			continue
		}

		out, _, err := prg.Eval(vars)
		if err != nil {
			slog.Error("Rule evaluation failed", "rule", r.Name, "error", err)
			continue
		}

		triggered, ok := out.Value().(bool)
		verdicts = append(verdicts, Verdict{Rule: r, Triggered: ok && triggered})
	}
	return verdicts
}
