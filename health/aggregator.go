package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultAggregatorTimeout bounds CheckAll when no timeout is configured.
const DefaultAggregatorTimeout = 5 * time.Second

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time to wait for all checks.
	// Default: 5 seconds
	Timeout time.Duration
}

// Aggregator runs several checkers as one.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string
}

// NamedResult pairs a checker name with its result.
type NamedResult struct {
	Name   string
	Result Result
}

// Report is the outcome of CheckAll. Results follow registration order.
type Report struct {
	Status  Status
	Results []NamedResult
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAggregatorTimeout
	}

	return &Aggregator{
		config:   cfg,
		checkers: make(map[string]Checker),
	}
}

// Register adds checker under its Name. Registering the same name again
// replaces the earlier checker and keeps its position.
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := checker.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Check runs a single named health check.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()
	return runCheck(ctx, checker), nil
}

// CheckAll runs every registered checker concurrently.
func (a *Aggregator) CheckAll(ctx context.Context) Report {
	a.mu.RLock()
	checkers := make([]Checker, len(a.order))
	for i, name := range a.order {
		checkers[i] = a.checkers[name]
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	results := make([]NamedResult, len(checkers))
	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			results[i] = NamedResult{Name: checker.Name(), Result: runCheck(ctx, checker)}
			return nil
		})
	}
	_ = g.Wait()

	return Report{Status: OverallStatus(results), Results: results}
}

// OverallStatus returns the worst status among results. An empty set is
// healthy.
func OverallStatus(results []NamedResult) Status {
	overall := StatusHealthy
	for _, r := range results {
		if r.Result.Status > overall {
			overall = r.Result.Status
		}
	}
	return overall
}

func runCheck(ctx context.Context, checker Checker) Result {
	start := time.Now()
	resultCh := make(chan Result, 1)

	go func() {
		result := checker.Check(ctx).WithDuration(time.Since(start))
		if result.Timestamp.IsZero() {
			result.Timestamp = start
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		return Result{
			Status:    StatusUnhealthy,
			Message:   "check timed out",
			Error:     ErrCheckTimeout,
			Duration:  time.Since(start),
			Timestamp: start,
		}
	}
}
