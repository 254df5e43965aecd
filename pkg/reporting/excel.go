package reporting

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/series"
)

// ExcelReporter writes the whole run into one workbook: Folds, Metrics,
// Stitched and Static sheets.
type ExcelReporter struct {
	ParamNames []string
}

// NewExcelReporter creates an Excel reporter with the declared parameter
// order.
func NewExcelReporter(paramNames []string) *ExcelReporter {
	return &ExcelReporter{ParamNames: paramNames}
}

// WriteWorkbook writes all result tables to path.
func (r *ExcelReporter) WriteWorkbook(result *walkforward.RunResult, path string) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const foldsSheet = "Folds"
	const metricsSheet = "Metrics"
	const stitchedSheet = "Stitched"
	const staticSheet = "Static"

	fx.SetSheetName(fx.GetSheetName(0), foldsSheet)
	if _, err := fx.NewSheet(metricsSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(stitchedSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(staticSheet); err != nil {
		return err
	}

	if err := r.writeFoldsSheet(fx, foldsSheet, result); err != nil {
		return err
	}
	if err := r.writeMetricsSheet(fx, metricsSheet, result); err != nil {
		return err
	}
	if err := writeSeriesSheet(fx, stitchedSheet, result.Stitched); err != nil {
		return err
	}
	if err := writeSeriesSheet(fx, staticSheet, result.Static); err != nil {
		return err
	}

	if err := fx.SaveAs(path); err != nil {
		// Locked or unwritable workbook falls back like the CSV writers.
		return fx.SaveAs(timestampedPath(path))
	}
	return nil
}

func (r *ExcelReporter) writeFoldsSheet(fx *excelize.File, sheet string, result *walkforward.RunResult) error {
	header := []interface{}{"fold", "train_start", "train_end", "test_start", "test_end", "degenerate"}
	for _, name := range r.ParamNames {
		header = append(header, name)
	}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, fr := range result.Folds {
		row := []interface{}{
			fr.Fold.Index,
			fr.Fold.TrainStart.Format("2006-01-02"),
			fr.Fold.TrainEnd.Format("2006-01-02"),
			fr.Fold.TestStart.Format("2006-01-02"),
			fr.Fold.TestEnd.Format("2006-01-02"),
			fr.Fold.Degenerate,
		}
		for _, name := range r.ParamNames {
			if fr.Params == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fr.Params[name])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReporter) writeMetricsSheet(fx *excelize.File, sheet string, result *walkforward.RunResult) error {
	header := []interface{}{"fold", "phase", "observations", "ann_return", "ann_vol", "risk_adjusted", "max_drawdown", "turnover", "tail_ratio", "score"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for _, fr := range result.Folds {
		for _, phase := range []struct {
			name  string
			m     engine.Metrics
			score float64
		}{{"train", fr.Train, fr.TrainScore}, {"test", fr.Test, fr.TestScore}} {
			row := []interface{}{
				fr.Fold.Index,
				phase.name,
				phase.m.Observations,
				cellValue(phase.m.AnnReturn),
				cellValue(phase.m.AnnVol),
				cellValue(phase.m.RiskAdjusted),
				cellValue(phase.m.MaxDrawdown),
				cellValue(phase.m.Turnover),
				cellValue(phase.m.TailRatio),
				cellValue(phase.score),
			}
			cell := fmt.Sprintf("A%d", line)
			if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}

func writeSeriesSheet(fx *excelize.File, sheet string, s series.Series) error {
	header := []interface{}{"date", "pnl_net"}
	if err := fx.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < s.Len(); i++ {
		row := []interface{}{s.Date(i).Format("2006-01-02"), s.Value(i)}
		cell := fmt.Sprintf("A%d", i+2)
		if err := fx.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// cellValue maps undefined ratios to empty cells.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}
