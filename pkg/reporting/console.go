package reporting

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/walkforward"
)

// ConsoleReporter renders run results as terminal tables.
type ConsoleReporter struct {
	ParamNames []string // declared parameter order, fixes column order
}

// NewConsoleReporter creates a console reporter with the declared parameter
// order.
func NewConsoleReporter(paramNames []string) *ConsoleReporter {
	return &ConsoleReporter{ParamNames: paramNames}
}

// PrintFolds renders the per-fold table: boundaries, chosen parameters and
// test score.
func (r *ConsoleReporter) PrintFolds(result *walkforward.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("WALK-FORWARD FOLDS")
	t.SetStyle(table.StyleRounded)

	header := table.Row{"Fold", "Train Start", "Train End", "Test Start", "Test End"}
	for _, name := range r.ParamNames {
		header = append(header, name)
	}
	header = append(header, "Test RAR")
	t.AppendHeader(header)

	for _, fr := range result.Folds {
		row := table.Row{
			fr.Fold.Index,
			fr.Fold.TrainStart.Format("2006-01-02"),
			fr.Fold.TrainEnd.Format("2006-01-02"),
			fr.Fold.TestStart.Format("2006-01-02"),
			fr.Fold.TestEnd.Format("2006-01-02"),
		}
		for _, name := range r.ParamNames {
			if fr.Params == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%g", fr.Params[name]))
		}
		row = append(row, formatRatio(fr.Test.RiskAdjusted))
		t.AppendRow(row)
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
	})
	t.Render()
	fmt.Println()
}

// PrintMetrics renders the fold-by-phase metrics table.
func (r *ConsoleReporter) PrintMetrics(result *walkforward.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("FOLD METRICS")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Fold", "Phase", "Obs", "Ann Return", "Ann Vol", "RAR", "Max DD", "Turnover", "Tail"})

	for _, fr := range result.Folds {
		t.AppendRow(metricsRow(fr.Fold.Index, "train", fr.Train))
		t.AppendRow(metricsRow(fr.Fold.Index, "test", fr.Test))
	}
	t.Render()
	fmt.Println()
}

// PrintSummary renders the stitched out-of-sample curve against the static
// baseline.
func (r *ConsoleReporter) PrintSummary(result *walkforward.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("OUT-OF-SAMPLE SUMMARY")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Series", "Obs", "Cum Return", "RAR", "Max DD"})

	t.AppendRow(seriesRow("stitched", result.Stitched))
	if !result.Static.Empty() {
		t.AppendRow(seriesRow(fmt.Sprintf("static (%s)", result.StaticParams), result.Static))
	}
	t.Render()
	fmt.Printf("⏱  search completed in %s\n\n", result.Elapsed.Round(time.Millisecond))
}

func metricsRow(fold int, phase string, m engine.Metrics) table.Row {
	return table.Row{
		fold,
		phase,
		m.Observations,
		fmt.Sprintf("%.2f%%", m.AnnReturn*100),
		fmt.Sprintf("%.2f%%", m.AnnVol*100),
		formatRatio(m.RiskAdjusted),
		fmt.Sprintf("%.2f%%", m.MaxDrawdown*100),
		fmt.Sprintf("%.2f", m.Turnover),
		formatRatio(m.TailRatio),
	}
}

func seriesRow(name string, s interface {
	Empty() bool
	Len() int
	Values() []float64
}) table.Row {
	if s.Empty() {
		return table.Row{name, 0, "-", "-", "-"}
	}
	values := s.Values()
	cum, mean := 0.0, 0.0
	for _, v := range values {
		cum += v
		mean += v
	}
	mean /= float64(len(values))
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(values)))
	rar := math.NaN()
	if std > 0 {
		rar = mean / std * math.Sqrt(252)
	}

	peak, worst, run := 0.0, 0.0, 0.0
	for _, v := range values {
		run += v
		if run > peak {
			peak = run
		}
		if dd := run - peak; dd < worst {
			worst = dd
		}
	}
	return table.Row{
		name,
		len(values),
		fmt.Sprintf("%.2f%%", cum*100),
		formatRatio(rar),
		fmt.Sprintf("%.2f%%", worst*100),
	}
}

// formatRatio keeps undefined ratios visibly undefined.
func formatRatio(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
