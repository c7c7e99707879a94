package fitness

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/jsphweid/fugue/model"
)

// EvaluateAll scores every track of a population. With more than one worker
// the tracks are scored concurrently; results keep population order.
func EvaluateAll(s Style, pop model.Population, workers int) ([]float64, error) {
	scores := make([]float64, len(pop))
	if workers <= 1 {
		for i, t := range pop {
			f, err := s.Evaluate(t)
			if err != nil {
				return nil, fmt.Errorf("evaluating %s candidate %d: %w", s.Name(), i, err)
			}
			scores[i] = f
		}
		return scores, nil
	}

	p := pool.New().WithMaxGoroutines(workers).WithErrors()
	for i, t := range pop {
		i, t := i, t
		p.Go(func() error {
			f, err := s.Evaluate(t)
			if err != nil {
				return fmt.Errorf("evaluating %s candidate %d: %w", s.Name(), i, err)
			}
			scores[i] = f
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}
