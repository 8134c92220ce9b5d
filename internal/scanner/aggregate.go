package scanner

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// DefaultRepoJobs bounds repository-level scan concurrency.
const DefaultRepoJobs = 4

// Aggregator fans repository scans out over a bounded number of goroutines
// and folds the results into a single report. The report's repository order
// is the caller's input order, not completion order.
type Aggregator struct {
	repos  *RepoScanner
	jobs   int
	logger hclog.Logger
}

func NewAggregator(repos *RepoScanner, jobs int, logger hclog.Logger) *Aggregator {
	if jobs <= 0 {
		jobs = DefaultRepoJobs
	}
	return &Aggregator{repos: repos, jobs: jobs, logger: logger}
}

// Scan scans every target and aggregates the results. On cancellation the
// results for repositories already scanned remain valid; targets never
// started are reported with empty file lists.
func (a *Aggregator) Scan(ctx context.Context, targets []Target) ScanReport {
	report := ScanReport{
		ScanID:       uuid.NewString(),
		Repositories: make([]RepositoryResult, len(targets)),
	}

	a.logger.Info("scanning repositories", "total", len(targets), "goroutines", a.jobs)

	// Targets never started still keep an identified empty result.
	for i, target := range targets {
		report.Repositories[i] = RepositoryResult{
			Owner: target.Owner,
			Name:  target.Name,
			URL:   target.URL,
		}
	}

	guard := make(chan struct{}, a.jobs)
	var wg sync.WaitGroup
	for i, target := range targets {
		if ctx.Err() != nil {
			a.logger.Warn("scan cancelled", "remaining", len(targets)-i)
			break
		}

		guard <- struct{}{}
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			defer func() { <-guard }()

			a.logger.Debug("repository scan started", "#", i+1, "repository", target.Owner+"/"+target.Name)
			report.Repositories[i] = a.repos.Scan(ctx, target)
		}(i, target)
	}
	wg.Wait()

	return report
}
