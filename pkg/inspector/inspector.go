package inspector

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoProject is the single fatal inspection error: the directory holds
// none of the manifests that mark a recognizable project. Raised before
// any detection runs; no partial profile accompanies it.
var ErrNoProject = errors.New("no recognizable project manifest found (expected package.json, pom.xml, or requirements.txt)")

// Inspector runs the sequential detection pass over one project root.
type Inspector struct {
	root         string
	log          *slog.Logger
	tracer       trace.Tracer
	filesScanned metric.Int64Counter
}

// Option defines a functional configuration override.
type Option func(*Inspector)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Inspector) {
		i.log = l
	}
}

// New returns an Inspector for the given project root.
func New(root string, opts ...Option) *Inspector {
	counter, _ := otel.Meter("costforge/inspector").Int64Counter(
		"costforge.inspector.files_scanned",
		metric.WithDescription("Files read by the mention scan"),
	)
	i := &Inspector{
		root:         root,
		log:          slog.Default(),
		tracer:       otel.Tracer("costforge/inspector"),
		filesScanned: counter,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run builds the profile in a single sequential pass: classification,
// pattern detection, mention scan, budget estimate, then name and email
// resolution. Every step after the fatal precondition degrades to a
// default on failure instead of erroring.
func (i *Inspector) Run(ctx context.Context) (*Profile, error) {
	ctx, span := i.tracer.Start(ctx, "inspector.Run",
		trace.WithAttributes(attribute.String("project.root", i.root)))
	defer span.End()

	if !validProject(i.root) {
		span.RecordError(ErrNoProject)
		return nil, ErrNoProject
	}

	manifest := loadManifest(i.root)
	walk := i.collectFiles(ctx)

	p := &Profile{Root: i.root}
	p.ProjectType = classify(i.root, manifest)
	p.Patterns = i.detectPatterns(walk)
	p.Mentions = scanMentions(walk.files)
	p.BudgetEstimateUSD = EstimateBudget(p.Mentions)
	p.ProjectName = i.resolveProjectName(manifest)
	p.AlertEmail = i.resolveAlertEmail(manifest)

	span.SetAttributes(
		attribute.String("project.type", string(p.ProjectType)),
		attribute.Int("project.mentions", len(p.Mentions)),
		attribute.Int("project.budget_usd", p.BudgetEstimateUSD),
	)
	i.log.Info("inspection complete",
		"type", p.ProjectType,
		"patterns", p.PatternDisplay(),
		"mentions", len(p.Mentions),
		"budget_usd", p.BudgetEstimateUSD,
	)
	return p, nil
}
