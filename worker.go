package gridastar

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Job is one independent search handed to SearchAll. Jobs must not share a Grid.
type Job struct {
	Name    string
	Grid    *Grid
	Options []Option
}

// JobResult pairs a job with its outcome. Err holds per-job failures such as
// ErrNoPathFound; they do not abort the batch.
type JobResult struct {
	Name   string
	Result Result
	Err    error
}

// SearchAll runs every job on a bounded pool of workers and returns one result
// per job in input order. Shared options apply first and each job's own options
// override them. Only cancellation of ctx fails the whole batch.
func SearchAll(contextObject context.Context, jobs []Job, options ...Option) ([]JobResult, error) {
	searchOptions := applyOptions(options)

	groupContext, span := tracer.Start(contextObject, "gridastar.SearchAll",
		trace.WithAttributes(
			attribute.Int("batch.jobs", len(jobs)),
			attribute.Int("batch.workers", searchOptions.NumberOfWorkers),
		))
	defer span.End()

	seen := make(map[*Grid]string, len(jobs))
	for _, job := range jobs {
		if other, ok := seen[job.Grid]; ok {
			return nil, fmt.Errorf("jobs %q and %q share a grid", other, job.Name)
		}
		seen[job.Grid] = job.Name
	}

	results := make([]JobResult, len(jobs))
	group, groupContext := errgroup.WithContext(groupContext)
	group.SetLimit(searchOptions.NumberOfWorkers)

	for i, job := range jobs {
		group.Go(func() error {
			jobOptions := append(append([]Option(nil), options...), job.Options...)
			result, err := FindPath(groupContext, job.Grid, jobOptions...)
			if ctxErr := groupContext.Err(); ctxErr != nil {
				return ctxErr
			}
			results[i] = JobResult{Name: job.Name, Result: result, Err: err}
			searchOptions.Logger.Debug("job finished",
				"job", job.Name,
				"status", result.Status.String(),
				"expanded", result.ExpandedNodes)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return results, nil
}
