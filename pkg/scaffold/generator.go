// Package scaffold turns an inspection profile into the cost-control
// bundle written into the target repository.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/costforge/costforge/pkg/config"
	"github.com/costforge/costforge/pkg/inspector"
	"github.com/costforge/costforge/pkg/storage"
)

// File is one rendered bundle artifact.
type File struct {
	Path string
	Data []byte
	Mode fs.FileMode
}

// Manifest lists what a generation run did, for the command layer to
// render. Skipped paths existed already and were left alone.
type Manifest struct {
	Root    string
	Written []string
	Skipped []string
}

// Generator renders and writes one bundle.
type Generator struct {
	backend storage.Backend
	log     *slog.Logger
	tracer  trace.Tracer
	force   bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithForce makes every write overwrite an existing file instead of
// skipping it.
func WithForce(force bool) Option {
	return func(g *Generator) { g.force = force }
}

// New returns a Generator writing through the given backend.
func New(backend storage.Backend, opts ...Option) *Generator {
	g := &Generator{
		backend: backend,
		log:     slog.Default(),
		tracer:  otel.Tracer("costforge/scaffold"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Render produces every bundle file for the profile without touching the
// backend. The CDK stack is included only when the aws-cdk pattern was
// detected.
func Render(p *inspector.Profile, environment string, limits map[string]config.EnvironmentLimits) ([]File, error) {
	doc, err := BuildDocument(p, environment, limits)
	if err != nil {
		return nil, err
	}

	configJSON, err := renderConfig(doc)
	if err != nil {
		return nil, err
	}
	rulesYAML, err := renderPolicyFile(doc)
	if err != nil {
		return nil, err
	}

	withCDK := p.HasPattern(inspector.PatternCDK)
	files := []File{
		{Path: "config.json", Data: configJSON, Mode: 0644},
		{Path: "scripts/cost-check.sh", Data: renderCostCheckScript(doc), Mode: 0755},
		{Path: "scripts/tag-audit.sh", Data: renderTagAuditScript(doc), Mode: 0755},
		{Path: "lambda/cost-alert.js", Data: renderCostAlertLambda(doc), Mode: 0644},
		{Path: "lambda/auto-stop.js", Data: renderAutoStopLambda(doc), Mode: 0644},
	}
	if withCDK {
		files = append(files, File{Path: "cdk/cost-control-stack.ts", Data: renderCDKStack(doc), Mode: 0644})
	}
	files = append(files,
		File{Path: "policy/cost-rules.yaml", Data: rulesYAML, Mode: 0644},
		File{Path: "README.md", Data: renderReadme(doc, withCDK), Mode: 0644},
	)
	return files, nil
}

// Generate renders the bundle and writes it through the backend. Existing
// files are skipped unless the generator was built with WithForce.
func (g *Generator) Generate(ctx context.Context, p *inspector.Profile, environment string, limits map[string]config.EnvironmentLimits) (*Manifest, error) {
	ctx, span := g.tracer.Start(ctx, "scaffold.Generate",
		trace.WithAttributes(
			attribute.String("bundle.environment", environment),
			attribute.Bool("bundle.force", g.force),
		))
	defer span.End()

	files, err := Render(p, environment, limits)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	manifest := &Manifest{Root: g.backend.Root()}
	for _, f := range files {
		err := g.backend.Put(ctx, f.Path, f.Data, f.Mode, g.force)
		if errors.Is(err, fs.ErrExist) {
			g.log.Info("skipping existing file", "path", f.Path)
			manifest.Skipped = append(manifest.Skipped, f.Path)
			continue
		}
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("writing %s: %w", f.Path, err)
		}
		g.log.Info("bundle file written", "path", f.Path, "bytes", len(f.Data))
		manifest.Written = append(manifest.Written, f.Path)
	}

	span.SetAttributes(
		attribute.Int("bundle.written", len(manifest.Written)),
		attribute.Int("bundle.skipped", len(manifest.Skipped)),
	)
	g.log.Info("bundle written", "root", manifest.Root,
		"written", len(manifest.Written), "skipped", len(manifest.Skipped))
	return manifest, nil
}
