package app

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/refkit/refkit"
	"github.com/refkit/refkit/dedup"
)

const (
	WorkloadRaw    = "raw"
	WorkloadStrong = "strong"
	WorkloadWeak   = "weak"
	WorkloadPool   = "pool"
	WorkloadDedup  = "dedup"
)

// Result is the outcome of one workload.
type Result struct {
	Name       string
	Iterations int
	Elapsed    time.Duration
	NsPerOp    float64
}

type payload struct {
	id   uint64
	data [64]byte
}

func (p *payload) Key() uint64 { return p.id }

func (p *payload) touch() {
	p.data[0]++
}

// sink defeats dead-code elimination across workloads.
var sink byte

// RunWorkloads executes every configured workload in order. Unknown
// workload names are collected and reported together after the known
// ones have run.
func RunWorkloads(log logr.Logger, cfg *Config) ([]Result, error) {
	var (
		results []Result
		errs    *multierror.Error
	)

	for _, name := range cfg.Workloads {
		w, ok := workloads[name]
		if !ok {
			errs = multierror.Append(errs, errors.Errorf("unknown workload %q", name))
			continue
		}

		log.V(1).Info("running workload", "name", name)
		elapsed := w(cfg.Iterations)
		results = append(results, Result{
			Name:       name,
			Iterations: cfg.Iterations,
			Elapsed:    elapsed,
			NsPerOp:    float64(elapsed.Nanoseconds()) / float64(cfg.Iterations),
		})
	}

	return results, errs.ErrorOrNil()
}

var workloads = map[string]func(n int) time.Duration{
	WorkloadRaw:    benchRaw,
	WorkloadStrong: benchStrong,
	WorkloadWeak:   benchWeak,
	WorkloadPool:   benchPool,
	WorkloadDedup:  benchDedup,
}

func benchRaw(n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		p := &payload{id: uint64(i)}
		p.touch()
		sink = p.data[0]
	}
	return time.Since(start)
}

func benchStrong(n int) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		s := refkit.New(&payload{id: uint64(i)})
		s2 := s.Clone()
		s2.Get().touch()
		sink = s2.Get().data[0]
		s2.Release()
		s.Release()
	}
	return time.Since(start)
}

func benchWeak(n int) time.Duration {
	s := refkit.New(&payload{id: 1})
	defer s.Release()

	start := time.Now()
	for i := 0; i < n; i++ {
		w := s.Weak()
		locked := w.Lock()
		locked.Get().touch()
		sink = locked.Get().data[0]
		locked.Release()
		w.Release()
	}
	return time.Since(start)
}

func benchPool(n int) time.Duration {
	var pool sync.Pool
	pool.New = func() interface{} {
		return new(payload)
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		p := pool.Get().(*payload)
		p.touch()
		sink = p.data[0]
		pool.Put(p)
	}
	return time.Since(start)
}

// benchDedup cycles one identity through death and revival, the pattern
// a deduplication table sees under churn.
func benchDedup(n int) time.Duration {
	tbl := dedup.NewTable[payload](logr.Discard())
	defer tbl.Close()

	start := time.Now()
	for i := 0; i < n; i++ {
		s, err := tbl.Intern(7, func() *payload { return &payload{id: 7} })
		if err != nil {
			break
		}
		s.Get().touch()
		sink = s.Get().data[0]
		s.Release()
	}
	return time.Since(start)
}
