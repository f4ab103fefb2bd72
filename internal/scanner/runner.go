package scanner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// probeRunner fans out independent probes and waits for all of them to
// settle. Probes receive their catalog index and a context bounded by the
// per-probe timeout; they record outcomes by index, so aggregate judgment is
// independent of completion order.
type probeRunner struct {
	Concurrency int           // maximum in-flight probes (0 = unbounded)
	Rate        int           // probes per second (0 = unpaced)
	Timeout     time.Duration // per-probe timeout
}

func (r *probeRunner) run(ctx context.Context, count int, probe func(ctx context.Context, i int)) {
	var limiter *rate.Limiter
	if r.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.Rate), r.Rate)
	}

	var sem chan struct{}
	if r.Concurrency > 0 {
		sem = make(chan struct{}, r.Concurrency)
	}

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			if limiter != nil {
				_ = limiter.Wait(ctx)
			}

			probeCtx, cancel := context.WithTimeout(ctx, r.Timeout)
			defer cancel()

			probe(probeCtx, i)
		}(i)
	}
	wg.Wait()
}
