package walkforward

import (
	"time"

	"github.com/quantfold/walkforward/pkg/series"
)

// FoldConfig sets the walk-forward window geometry.
type FoldConfig struct {
	TrainYears  int
	TestYears   int
	EmbargoDays int
}

// Fold is one train/test split. Train and Test are the embargo-trimmed
// slices; the date fields are their trimmed boundaries. A fold whose
// trimming emptied a window is flagged Degenerate and carries the untrimmed
// boundaries so it can still be reported.
type Fold struct {
	Index      int
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
	Train      series.Series
	Test       series.Series
	Degenerate bool
}

// BuildFolds partitions the data range into folds anchored at quarter ends:
// the test window opens on the first observation after an anchor and spans
// TestYears; the train window covers the TrainYears up to the anchor.
// Anchors whose test window would overlap the previous fold's are skipped,
// keeping test windows contiguous and non-overlapping. The last EmbargoDays
// rows of train and the first EmbargoDays rows of test are removed before
// anything downstream touches them, so boundary-straddling rolling
// statistics cannot leak across the split.
func BuildFolds(data series.Series, cfg FoldConfig) []Fold {
	if data.Len() < 2 {
		return nil
	}

	var folds []Fold
	var lastTestEnd time.Time
	for _, anchor := range data.QuarterEndIndexes() {
		trainEnd := data.Date(anchor)
		testStart := data.Date(anchor + 1)
		testEnd := testStart.AddDate(cfg.TestYears, 0, 0).AddDate(0, 0, -1)
		trainStart := testStart.AddDate(-cfg.TrainYears, 0, 0)

		if trainStart.Before(data.First().Date) || testEnd.After(data.Last().Date) {
			continue
		}
		if !lastTestEnd.IsZero() && !testStart.After(lastTestEnd) {
			continue
		}
		lastTestEnd = testEnd

		train := data.Slice(trainStart, trainEnd).TrimTail(cfg.EmbargoDays)
		test := data.Slice(testStart, testEnd).TrimHead(cfg.EmbargoDays)

		fold := Fold{
			Index:      len(folds),
			TrainStart: trainStart,
			TrainEnd:   trainEnd,
			TestStart:  testStart,
			TestEnd:    testEnd,
			Train:      train,
			Test:       test,
		}
		if train.Empty() || test.Empty() {
			fold.Degenerate = true
		} else {
			fold.TrainStart = train.First().Date
			fold.TrainEnd = train.Last().Date
			fold.TestStart = test.First().Date
			fold.TestEnd = test.Last().Date
		}
		folds = append(folds, fold)
	}
	return folds
}
