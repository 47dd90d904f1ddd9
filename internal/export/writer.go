package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ventureforge/planscope/internal/evaluation"
	"github.com/ventureforge/planscope/internal/plan"
)

// Writer persists evaluated plans as markdown and JSON artifacts under an
// output directory, alongside periodic summary reports.
type Writer struct {
	outputDir   string
	markdownDir string
	jsonDir     string
}

// NewWriter creates the output directory layout if it does not exist.
func NewWriter(outputDir string) (*Writer, error) {
	w := &Writer{
		outputDir:   outputDir,
		markdownDir: filepath.Join(outputDir, "markdown"),
		jsonDir:     filepath.Join(outputDir, "json"),
	}

	for _, dir := range []string{w.markdownDir, w.jsonDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	return w, nil
}

type planArtifact struct {
	Plan       *plan.BusinessPlan          `json:"plan"`
	Evaluation evaluation.EvaluationResult `json:"evaluation"`
}

// WritePlan writes the plan as a markdown document and a JSON artifact. The
// returned path is the markdown file.
func (w *Writer) WritePlan(p *plan.BusinessPlan, result evaluation.EvaluationResult) (string, error) {
	filename := artifactName(p, result)

	mdPath := filepath.Join(w.markdownDir, filename+".md")
	if err := os.WriteFile(mdPath, []byte(p.Markdown()), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown artifact: %w", err)
	}

	data, err := json.MarshalIndent(planArtifact{Plan: p, Evaluation: result}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling plan artifact: %w", err)
	}

	jsonPath := filepath.Join(w.jsonDir, filename+".json")
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing json artifact: %w", err)
	}

	return mdPath, nil
}

// WriteSummary renders a markdown summary of the evaluated population and
// writes it to the output root. The returned path is the summary file.
func (w *Writer) WriteSummary(population []evaluation.Evaluated, report *evaluation.AnalyticsReport) (string, error) {
	content := renderSummary(population, report)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(w.outputDir, fmt.Sprintf("summary_%s.md", timestamp))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing summary report: %w", err)
	}

	return path, nil
}

// artifactName builds a sortable filename from the creation time, composite
// score and a sanitized title.
func artifactName(p *plan.BusinessPlan, result evaluation.EvaluationResult) string {
	safeTitle := strings.NewReplacer("/", "-", "\\", "-", " ", "_").Replace(p.Title)
	if len(safeTitle) > 50 {
		safeTitle = safeTitle[:50]
	}

	return fmt.Sprintf("%s_%.0f_%s", p.CreatedAt.Format("20060102_150405"), result.Composite, safeTitle)
}

func renderSummary(population []evaluation.Evaluated, report *evaluation.AnalyticsReport) string {
	var b strings.Builder

	b.WriteString("# Business Plan Summary\n\n")
	b.WriteString(fmt.Sprintf("**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Total plans:** %d\n\n---\n\n", len(population)))

	if report != nil {
		b.WriteString("## Statistics\n\n")
		b.WriteString(fmt.Sprintf("- **Mean composite:** %.1f\n", report.MeanComposite))
		b.WriteString(fmt.Sprintf("- **Median composite:** %.1f\n", report.MedianComposite))
		b.WriteString(fmt.Sprintf("- **Std deviation:** %.1f\n\n", report.StdDevComposite))

		if len(report.CategoryDistribution) > 0 {
			b.WriteString("## Plans by Category\n\n")
			for _, cat := range plan.Categories() {
				if stats, ok := report.CategoryDistribution[cat]; ok {
					b.WriteString(fmt.Sprintf("- **%s:** %d\n", cat, stats.Count))
				}
			}
			b.WriteString("\n")
		}
	}

	ranked := make([]evaluation.Evaluated, len(population))
	copy(ranked, population)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Result.Composite > ranked[j].Result.Composite
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	b.WriteString("## Top Plans\n\n")
	for i, entry := range ranked {
		b.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, entry.Plan.Title))
		b.WriteString(fmt.Sprintf("- **Composite:** %.1f\n", entry.Result.Composite))
		b.WriteString(fmt.Sprintf("- **Category:** %s\n", entry.Plan.Category))
		if entry.Plan.Market != nil {
			b.WriteString(fmt.Sprintf("- **Market size:** $%.0fM\n", entry.Plan.Market.MarketSize))
		}
		if entry.Plan.Financials != nil {
			b.WriteString(fmt.Sprintf("- **Year 5 revenue:** $%.0f\n", entry.Plan.Financials.Year5Revenue))
		}
		if entry.Plan.ValueProposition != "" {
			b.WriteString("\n" + entry.Plan.ValueProposition + "\n")
		}
		b.WriteString("\n---\n\n")
	}

	return b.String()
}
