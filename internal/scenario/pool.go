package scenario

import (
	"context"
	"fmt"
	"sync"
)

// Pool replays scenarios with bounded concurrency. Each scenario gets its
// own Runner, so scenarios that share a data file must run with one worker.
type Pool struct {
	// Workers bounds how many scenarios run at once. Values below 1 mean 1.
	Workers int

	// Prepare returns the runner for s and a cleanup func called after it
	// finishes. Cleanup may be nil.
	Prepare func(s *Scenario) (*Runner, func(), error)
}

// Run replays every scenario and returns the results in input order. The
// first Prepare error cancels scenarios that have not started yet.
func (p *Pool) Run(ctx context.Context, scenarios []*Scenario) ([]Result, error) {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		sem      = make(chan struct{}, workers)
		results  = make([]Result, len(scenarios))
	)

	for i, s := range scenarios {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			runner, cleanup, err := p.Prepare(s)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", s.Name, err)
				}
				mu.Unlock()
				cancel()
				return
			}
			if cleanup != nil {
				defer cleanup()
			}
			results[i] = runner.Run(s)
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
