package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"judgefit/domain/calibration"
	"judgefit/domain/pattern"
	"judgefit/internal"
)

// ReportService renders calibration state into an xlsx workbook and a
// markdown summary for the dashboard. Read-only over the learner and
// monitor.
type ReportService struct {
	learner *LearnerService
	monitor *MonitorService
	log     *internal.Logger
}

// NewReportService creates a report service over the given services.
func NewReportService(learner *LearnerService, monitor *MonitorService, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{learner: learner, monitor: monitor, log: logger}
}

// BuildWorkbook assembles the three report sheets and returns the workbook.
// The caller owns writing or streaming it.
func (s *ReportService) BuildWorkbook(ctx context.Context) (*excelize.File, error) {
	store, err := s.learner.Store(ctx)
	if err != nil {
		return nil, err
	}
	proposals, err := s.learner.Provisional(ctx)
	if err != nil {
		return nil, err
	}
	metrics, err := s.monitor.Metrics(ctx)
	if err != nil {
		return nil, err
	}

	// Row assembly is pure computation, so the three sheets build
	// concurrently; the workbook itself is written single-threaded.
	var iterRows, patternRows, proposalRows [][]interface{}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		iterRows = buildIterationRows(metrics)
		return nil
	})
	g.Go(func() error {
		patternRows = buildPatternRows(store.Active())
		return nil
	})
	g.Go(func() error {
		proposalRows = buildProposalRows(proposals)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{"Iterations", iterRows},
		{"Active Patterns", patternRows},
		{"Proposals", proposalRows},
	}
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", sheet.name, err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
			}
		}
		for rowIdx, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write row %d of %s: %w", rowIdx+1, sheet.name, err)
			}
		}
	}
	return f, nil
}

func buildIterationRows(metrics []calibration.IterationMetrics) [][]interface{} {
	rows := [][]interface{}{{
		"Iteration", "Timestamp", "Expensive Avg", "Cheap Avg", "Gap", "Gap Delta",
		"Active Patterns", "Provisional", "Committed", "Rejected", "Stories",
	}}
	for _, m := range metrics {
		rows = append(rows, []interface{}{
			m.Iteration, m.Timestamp.String(), m.ExpensiveAvg, m.CheapAvg, m.Gap, m.GapDelta,
			m.PatternCount, m.ProvisionalCount, m.CommittedCount, m.RejectedCount, len(m.StoryIDs),
		})
	}
	return rows
}

func buildPatternRows(patterns []pattern.Pattern) [][]interface{} {
	rows := [][]interface{}{{
		"ID", "Polarity", "Description", "Keywords", "Weight", "Accuracy", "Fired", "Source", "Discovered",
	}}
	for _, p := range patterns {
		rows = append(rows, []interface{}{
			p.ID.String(), string(p.Polarity), p.Description, strings.Join(p.Keywords, ", "),
			p.Weight, p.Accuracy, p.FiredCount, p.Source, p.DiscoveredAt.String(),
		})
	}
	return rows
}

func buildProposalRows(proposals []pattern.Proposal) [][]interface{} {
	rows := [][]interface{}{{
		"ID", "Polarity", "Keywords", "Tested", "Correct", "Accuracy", "Proposed At",
	}}
	for i := range proposals {
		p := &proposals[i]
		rows = append(rows, []interface{}{
			p.Pattern.ID.String(), string(p.Pattern.Polarity), strings.Join(p.Pattern.Keywords, ", "),
			p.StoriesTested, p.CorrectPredictions, p.Accuracy(), p.ProposedAt,
		})
	}
	return rows
}

// MarkdownSummary renders the current calibration status as markdown.
func (s *ReportService) MarkdownSummary(ctx context.Context) (string, error) {
	metrics, err := s.monitor.Metrics(ctx)
	if err != nil {
		return "", err
	}
	store, err := s.learner.Store(ctx)
	if err != nil {
		return "", err
	}
	proposals, err := s.learner.Provisional(ctx)
	if err != nil {
		return "", err
	}
	div, err := s.monitor.CheckDivergence(ctx)
	if err != nil {
		return "", err
	}
	conv, err := s.monitor.CheckConvergence(ctx)
	if err != nil {
		return "", err
	}
	trend, err := s.monitor.Trend(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Calibration Status\n\n")
	if len(metrics) == 0 {
		b.WriteString("No iterations recorded yet.\n")
		return b.String(), nil
	}

	latest := metrics[len(metrics)-1]
	fmt.Fprintf(&b, "Iteration %d: expensive avg %.2f, cheap avg %.2f, gap %.3f (delta %+.3f)\n\n",
		latest.Iteration, latest.ExpensiveAvg, latest.CheapAvg, latest.Gap, latest.GapDelta)
	fmt.Fprintf(&b, "- **Active patterns**: %d (%d provisional)\n", len(store.Active()), len(proposals))
	fmt.Fprintf(&b, "- **Trend**: %s (mean delta %+.3f, slope %+.4f)\n", trend.Trend, trend.MeanDelta, trend.Slope)
	fmt.Fprintf(&b, "- **Convergence**: %s\n", conv.Summary())
	if div.Diverging {
		fmt.Fprintf(&b, "- **Divergence**: %s (%s)\n", div.Diagnosis, div.Action)
	} else {
		b.WriteString("- **Divergence**: none detected\n")
	}

	if action, ok, err := s.monitor.SuggestAction(ctx); err == nil && ok {
		fmt.Fprintf(&b, "\n## Suggested action\n\n%s\n", action)
	}
	return b.String(), nil
}

// RenderHTML converts a markdown summary into an HTML fragment for the
// dashboard.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
