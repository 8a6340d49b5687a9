// Package pipeline coordinates a batch run: read the client workbook,
// score every client against the shared reference data, and assemble
// the report.
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/client"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/config"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/report"
	"github.com/BenWilson850/00-850-Code-Rev1/internal/scoring"
)

// Runner executes batch scoring runs against immutable reference data.
type Runner struct {
	cfg    *config.Config
	scorer *scoring.Scorer
}

// NewRunner builds a Runner. Dataset completeness is verified here,
// before any client work starts.
func NewRunner(cfg *config.Config, ds *norms.Dataset) (*Runner, error) {
	scorer, err := scoring.NewScorer(ds, cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, scorer: scorer}, nil
}

// Run reads a client workbook and scores every sheet. Invalid sheets
// are skipped and reported; scoring errors on valid records abort the
// run since they indicate reference-data problems, not client ones.
func (r *Runner) Run(workbookPath string) (*report.Report, error) {
	start := time.Now()

	records, skipped, err := client.ReadWorkbook(workbookPath)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		Source:    workbookPath,
		StartTime: start,
	}
	for _, s := range skipped {
		rep.Skipped = append(rep.Skipped, s.Sheet)
	}

	scored, err := r.ScoreBatch(records)
	if err != nil {
		return nil, err
	}
	rep.Clients = scored
	return rep, nil
}

// ScoreBatch scores a batch of records, optionally in parallel. Each
// client depends only on the shared read-only reference data, so the
// only coordination needed is preserving input order in the output.
func (r *Runner) ScoreBatch(records []*client.Record) ([]*scoring.ScoredClient, error) {
	if !r.cfg.Parallel || len(records) < 2 {
		return r.scoreSequential(records)
	}
	return r.scoreParallel(records)
}

func (r *Runner) scoreSequential(records []*client.Record) ([]*scoring.ScoredClient, error) {
	scored := make([]*scoring.ScoredClient, 0, len(records))
	for _, rec := range records {
		sc, err := r.scorer.ScoreClient(rec)
		if err != nil {
			return nil, fmt.Errorf("scoring client %q: %w", rec.Name, err)
		}
		scored = append(scored, sc)
	}
	return scored, nil
}

func (r *Runner) scoreParallel(records []*client.Record) ([]*scoring.ScoredClient, error) {
	workers := r.cfg.Concurrency
	if workers > len(records) {
		workers = len(records)
	}

	scored := make([]*scoring.ScoredClient, len(records))
	errs := make([]error, len(records))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sc, err := r.scorer.ScoreClient(records[i])
				if err != nil {
					errs[i] = fmt.Errorf("scoring client %q: %w", records[i].Name, err)
					continue
				}
				scored[i] = sc
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scored, nil
}
