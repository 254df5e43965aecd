package reporting

import (
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/series"
)

// CSVReporter writes the run tables as CSV files.
type CSVReporter struct {
	ParamNames []string
}

// NewCSVReporter creates a CSV reporter with the declared parameter order.
func NewCSVReporter(paramNames []string) *CSVReporter {
	return &CSVReporter{ParamNames: paramNames}
}

// WriteFolds writes the per-fold table: index, trimmed boundaries and the
// chosen parameter set, one column per declared parameter. Returns the path
// actually written.
func (r *CSVReporter) WriteFolds(result *walkforward.RunResult, path string) (string, error) {
	f, used, err := CreateWithFallback(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"fold", "train_start", "train_end", "test_start", "test_end", "degenerate"}
	header = append(header, r.ParamNames...)
	if err := w.Write(header); err != nil {
		return used, err
	}

	for _, fr := range result.Folds {
		row := []string{
			strconv.Itoa(fr.Fold.Index),
			fr.Fold.TrainStart.Format("2006-01-02"),
			fr.Fold.TrainEnd.Format("2006-01-02"),
			fr.Fold.TestStart.Format("2006-01-02"),
			fr.Fold.TestEnd.Format("2006-01-02"),
			strconv.FormatBool(fr.Fold.Degenerate),
		}
		for _, name := range r.ParamNames {
			if fr.Params == nil {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(fr.Params[name]))
		}
		if err := w.Write(row); err != nil {
			return used, err
		}
	}
	return used, nil
}

// WriteMetrics writes one row per fold and phase.
func (r *CSVReporter) WriteMetrics(result *walkforward.RunResult, path string) (string, error) {
	f, used, err := CreateWithFallback(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"fold", "phase", "observations", "ann_return", "ann_vol", "risk_adjusted", "max_drawdown", "turnover", "tail_ratio", "score",
	}); err != nil {
		return used, err
	}

	for _, fr := range result.Folds {
		for _, phase := range []struct {
			name  string
			m     engine.Metrics
			score float64
		}{{"train", fr.Train, fr.TrainScore}, {"test", fr.Test, fr.TestScore}} {
			row := []string{
				strconv.Itoa(fr.Fold.Index),
				phase.name,
				strconv.Itoa(phase.m.Observations),
				formatValue(phase.m.AnnReturn),
				formatValue(phase.m.AnnVol),
				formatValue(phase.m.RiskAdjusted),
				formatValue(phase.m.MaxDrawdown),
				formatValue(phase.m.Turnover),
				formatValue(phase.m.TailRatio),
				formatValue(phase.score),
			}
			if err := w.Write(row); err != nil {
				return used, err
			}
		}
	}
	return used, nil
}

// WriteSeries writes a (date, value) series, one row per observation.
func (r *CSVReporter) WriteSeries(s series.Series, path string) (string, error) {
	f, used, err := CreateWithFallback(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "pnl_net"}); err != nil {
		return used, err
	}
	for i := 0; i < s.Len(); i++ {
		row := []string{s.Date(i).Format("2006-01-02"), formatValue(s.Value(i))}
		if err := w.Write(row); err != nil {
			return used, err
		}
	}
	return used, nil
}

// formatValue emits full float precision and leaves undefined values blank.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}
