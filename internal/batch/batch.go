// Package batch runs placement passes for many anchors offline.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/propscatter/internal/logger"
	"github.com/Faultbox/propscatter/internal/scatter"
	"github.com/Faultbox/propscatter/internal/surface"
)

// ErrDuplicateJob is returned when two jobs share a name.
var ErrDuplicateJob = errors.New("duplicate job name")

// Job is one named pointer ray to place around.
type Job struct {
	Name    string
	Pointer surface.Ray
}

// Result is the outcome of one job.
type Result struct {
	Job       Job
	Seed      uint64
	Pass      scatter.PassResult
	Committed int
}

// Runner runs jobs concurrently against a shared, read-only surface.
type Runner struct {
	Query      surface.Query
	Clearances scatter.ClearanceLookup
	Settings   scatter.Settings
	Seed       uint64
	Workers    int // <= 0 means one worker per job

	// Committer, if set, returns the committer for a job's valid placements.
	Committer func(job Job) scatter.Committer
}

// JobSeed derives a stable per-job seed so results do not depend on
// scheduling order.
func JobSeed(base uint64, name string) uint64 {
	return xxhash.Sum64String(strconv.FormatUint(base, 10) + "/" + name)
}

// Run executes every job and returns results in job order. Each job gets its
// own tool and sampler; only the query is shared. Passes run concurrently,
// but commits happen after all passes finish, in job order, so the commit
// log is the same on every run.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateJob, j.Name)
		}
		seen[j.Name] = true
	}

	results := make([]Result, len(jobs))
	tools := make([]*scatter.Tool, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if r.Workers > 0 {
		g.SetLimit(r.Workers)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			seed := JobSeed(r.Seed, job.Name)
			tools[i] = scatter.NewTool(r.Query, r.Clearances, scatter.NewSampler(seed), r.Settings)
			results[i] = Result{Job: job, Seed: seed, Pass: tools[i].Pass(job.Pointer)}

			logger.Debug("batch pass done",
				zap.String("job", job.Name),
				zap.Bool("hit", results[i].Pass.OK),
				zap.Int("placements", len(results[i].Pass.Placements)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if r.Committer == nil {
		return results, nil
	}
	for i := range results {
		res := &results[i]
		if !res.Pass.OK {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := tools[i].Commit(r.Committer(res.Job), res.Pass.Placements)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", res.Job.Name, err)
		}
		res.Committed = n
		logger.Debug("batch job committed", zap.String("job", res.Job.Name), zap.Int("committed", n))
	}
	return results, nil
}
