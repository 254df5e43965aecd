package walkforward

import (
	"runtime"
	"sync"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/signal"
	"github.com/quantfold/walkforward/pkg/series"
)

// evalJob is one candidate to score against a train window.
type evalJob struct {
	index  int
	params signal.Params
}

// evalResult carries a finished evaluation back to the collector.
type evalResult struct {
	index   int
	metrics engine.Metrics
	err     error
}

// evaluatePool fans candidates out to workers and gathers every result
// before returning. Workers share only the read-only train slice and the
// stateless evaluator; results come back indexed so selection order never
// depends on completion order.
func evaluatePool(ev *engine.Evaluator, train series.Series, candidates []signal.Params, workers int) ([]Candidate, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan evalJob, len(candidates))
	results := make(chan evalResult, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				res, err := ev.Evaluate(train, job.params)
				if err != nil {
					results <- evalResult{index: job.index, err: err}
					continue
				}
				results <- evalResult{index: job.index, metrics: res.Metrics}
			}
		}()
	}

	for i, p := range candidates {
		jobs <- evalJob{index: i, params: p}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]Candidate, len(candidates))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		out[r.index] = Candidate{Index: r.index, Params: candidates[r.index], Metrics: r.metrics}
	}
	return out, nil
}
