package walkforward

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/monitoring"
	"github.com/quantfold/walkforward/internal/signal"
	"github.com/quantfold/walkforward/pkg/series"
)

// Runner drives the sequential walk-forward loop: build folds, expand the
// grid per fold (coarse for the first, a local band around the prior
// optimum afterwards), evaluate candidates on the train window, select,
// evaluate the winner once on the unseen test window, then stitch.
//
// Folds run strictly in order because fold i+1's grid depends on fold i's
// selection; candidate evaluation inside a fold is parallel.
type Runner struct {
	Data         series.Series
	Evaluator    *engine.Evaluator
	FoldCfg      FoldConfig
	Grid         *Grid
	Scorer       Scorer
	Workers      int
	StaticParams signal.Params           // optional fixed-parameter baseline
	Monitor      *monitoring.RunMetrics  // optional
	Verbose      bool
}

// FoldResult is the record of one finished fold. It is written once when
// the fold completes and never mutated: the next fold reads Params, the
// report reads the rest.
type FoldResult struct {
	Fold       Fold
	Params     signal.Params
	Train      engine.Metrics
	Test       engine.Metrics
	TrainScore float64
	TestScore  float64
	TestPnL    series.Series
}

// RunResult is the full output of one search.
type RunResult struct {
	Folds        []FoldResult
	Stitched     series.Series
	Static       series.Series
	StaticParams signal.Params
	Elapsed      time.Duration
}

// Run executes the search to completion.
func (r *Runner) Run() (*RunResult, error) {
	start := time.Now()

	folds := BuildFolds(r.Data, r.FoldCfg)
	if len(folds) == 0 {
		return nil, fmt.Errorf("data range %s to %s does not fit a single %dy train / %dy test fold",
			r.Data.First().Date.Format("2006-01-02"), r.Data.Last().Date.Format("2006-01-02"),
			r.FoldCfg.TrainYears, r.FoldCfg.TestYears)
	}

	results := make([]FoldResult, 0, len(folds))
	// Previous fold's optimum: the single value threaded across the
	// sequential loop. Starts empty, updated once per fold, read once by
	// the next fold's grid expansion.
	var prevBest signal.Params

	for _, fold := range folds {
		if r.Monitor != nil {
			r.Monitor.FoldBuilt()
		}
		if fold.Degenerate {
			if r.Monitor != nil {
				r.Monitor.FoldDegenerate()
			}
			if r.Verbose {
				log.Printf("⚠️ fold %d: window emptied by embargo trimming, recorded as zero observations", fold.Index)
			}
			results = append(results, FoldResult{
				Fold:       fold,
				Train:      engine.ZeroObservations(),
				Test:       engine.ZeroObservations(),
				TrainScore: math.NaN(),
				TestScore:  math.NaN(),
			})
			continue
		}

		candidates, err := r.expand(prevBest)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold.Index, err)
		}

		scored, err := evaluatePool(r.Evaluator, fold.Train, candidates, r.Workers)
		if err != nil {
			return nil, fmt.Errorf("fold %d: %w", fold.Index, err)
		}
		if r.Monitor != nil {
			r.Monitor.CandidatesEvaluated(len(scored))
		}
		for i := range scored {
			scored[i].Score = r.Scorer.Score(scored[i].Metrics)
		}

		best, ok := r.Scorer.SelectBest(scored)
		if !ok {
			return nil, fmt.Errorf("fold %d: grid expanded to zero candidates", fold.Index)
		}
		chosen := scored[best]

		// Same parameter set, evaluated exactly once on the unseen test
		// window. Never re-optimized there.
		testRes, err := r.Evaluator.Evaluate(fold.Test, chosen.Params)
		if err != nil {
			return nil, fmt.Errorf("fold %d test window: %w", fold.Index, err)
		}

		if r.Verbose {
			log.Printf("📊 fold %d: %d candidates, chose %s (train score %.3f)",
				fold.Index, len(scored), chosen.Params, chosen.Score)
		}

		results = append(results, FoldResult{
			Fold:       fold,
			Params:     chosen.Params.Clone(),
			Train:      chosen.Metrics,
			Test:       testRes.Metrics,
			TrainScore: chosen.Score,
			TestScore:  r.Scorer.Score(testRes.Metrics),
			TestPnL:    testRes.PnLSeries(),
		})
		prevBest = chosen.Params
	}

	stitched, err := Stitch(results)
	if err != nil {
		return nil, err
	}

	out := &RunResult{
		Folds:        results,
		Stitched:     stitched,
		StaticParams: r.StaticParams,
		Elapsed:      time.Since(start),
	}

	if len(r.StaticParams) > 0 && !stitched.Empty() {
		static, err := r.staticBaseline(stitched)
		if err != nil {
			return nil, err
		}
		out.Static = static
	}

	if r.Monitor != nil {
		r.Monitor.SearchSeconds(out.Elapsed.Seconds())
	}
	return out, nil
}

// expand picks coarse or refinement mode depending on whether a previous
// optimum exists yet.
func (r *Runner) expand(prevBest signal.Params) ([]signal.Params, error) {
	if len(prevBest) == 0 {
		return r.Grid.Coarse()
	}
	return r.Grid.RefineAround(prevBest)
}

// staticBaseline evaluates the fixed parameter set over the out-of-sample
// span covered by the stitched series, quantifying what per-fold
// re-optimization added.
func (r *Runner) staticBaseline(stitched series.Series) (series.Series, error) {
	span := r.Data.Slice(stitched.First().Date, stitched.Last().Date)
	res, err := r.Evaluator.Evaluate(span, r.StaticParams)
	if err != nil {
		return series.Series{}, fmt.Errorf("static baseline: %w", err)
	}
	return res.PnLSeries(), nil
}
