// Package report drives the per-attribute analysis of an uploaded survey:
// detect which columns are graded attributes, classify and aggregate each
// one, and assemble the results into a single report.
package report

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agrisurvey/soilreport/internal/grading"
	"github.com/agrisurvey/soilreport/internal/schema"
	"github.com/agrisurvey/soilreport/internal/stats"
	"github.com/agrisurvey/soilreport/internal/table"
)

// defaultConcurrency bounds the per-attribute workers.
const defaultConcurrency = 4

// Report is the finished analysis of one survey dataset.
type Report struct {
	StandardID  string                    `json:"standard_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Attributes  []*stats.AttributeSummary `json:"attributes"`
	Skipped     []string                  `json:"skipped,omitempty"`
}

// Generator runs the analysis. The standard is fixed at construction so a
// report is never computed against a half-switched registry.
type Generator struct {
	std         *grading.Standard
	concurrency int
}

// NewGenerator returns a Generator for one grading standard.
func NewGenerator(std *grading.Standard) *Generator {
	return &Generator{std: std, concurrency: defaultConcurrency}
}

// WithConcurrency overrides the attribute worker count. Values below one
// keep the default.
func (g *Generator) WithConcurrency(n int) *Generator {
	if n > 0 {
		g.concurrency = n
	}
	return g
}

// Generate analyzes every detected attribute of the mapped and sample
// tables. Attributes are processed concurrently and in isolation: a failure
// in one is logged and recorded under Skipped without aborting the rest.
// Returns schema.ErrNoUsableAttributes when neither table has a graded
// column.
func (g *Generator) Generate(ctx context.Context, mapped, sample *table.Table) (*Report, error) {
	attrs := detectAll(mapped, sample, g.std)
	if len(attrs) == 0 {
		return nil, eris.Wrap(schema.ErrNoUsableAttributes, "report: generate")
	}

	summaries := make([]*stats.AttributeSummary, len(attrs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, key := range attrs {
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			cfg := g.std.Attr(key)

			m, err := attrTable(mapped, key, g.std)
			if err != nil {
				zap.L().Warn("report: skipping attribute",
					zap.String("attr", key),
					zap.Error(err),
				)
				return nil
			}
			s, err := attrTable(sample, key, g.std)
			if err != nil {
				zap.L().Warn("report: skipping attribute",
					zap.String("attr", key),
					zap.Error(err),
				)
				return nil
			}

			summaries[i] = stats.Compute(m, s, cfg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, eris.Wrap(err, "report: generate")
	}

	rpt := &Report{
		StandardID:  g.std.ID,
		GeneratedAt: time.Now().UTC(),
	}
	for i, s := range summaries {
		if s == nil {
			rpt.Skipped = append(rpt.Skipped, attrs[i])
			continue
		}
		rpt.Attributes = append(rpt.Attributes, s)
	}
	return rpt, nil
}

// detectAll merges the graded attribute keys of both tables, mapped-table
// order first.
func detectAll(mapped, sample *table.Table, std *grading.Standard) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, t := range []*table.Table{mapped, sample} {
		for _, ra := range schema.DetectAttributes(t, std) {
			if seen[ra.Key] {
				continue
			}
			seen[ra.Key] = true
			keys = append(keys, ra.Key)
		}
	}
	return keys
}

// attrTable returns the table with the source column of the attribute
// renamed to its canonical key, or nil when the table lacks the attribute.
func attrTable(t *table.Table, key string, std *grading.Standard) (*table.Table, error) {
	if t == nil {
		return nil, nil
	}
	for _, ra := range schema.DetectAttributes(t, std) {
		if ra.Key != key {
			continue
		}
		if ra.Column == key {
			return t, nil
		}
		renamed, err := t.Rename(ra.Column, key)
		if err != nil {
			return nil, eris.Wrapf(err, "report: normalize column %q", ra.Column)
		}
		return renamed, nil
	}
	return nil, nil
}
