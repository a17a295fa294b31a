// Package fetch executes a Plan with bounded concurrency: one worker per
// bucket, workers run in parallel with no cross-bucket coordination, and
// within a bucket files are fetched sequentially to preserve per-server
// politeness.
package fetch

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/nrao/yoink/internal/workerpool"
	"github.com/nrao/yoink/log"
	"github.com/nrao/yoink/report"
	"github.com/nrao/yoink/retriever"
	"github.com/nrao/yoink/yokerr"
)

// maxConcurrentBuckets caps how many of the plan's buckets run at once,
// regardless of how many distinct servers or threads-per-host the plan
// spans. It exists so a plan touching many servers at once doesn't open an
// unbounded number of simultaneous connections.
const maxConcurrentBuckets = 64

// bucketResult is what one worker reports back after running its bucket to
// completion (buckets are never canceled mid-flight).
type bucketResult struct {
	paths []string
	count int
	err   error
}

// Run executes plan's buckets concurrently and returns the concatenated
// destination paths in completion order. Every bucket runs to completion
// regardless of whether a sibling bucket failed; the first fatal error
// observed (in bucket completion order) is what's returned, and all
// other buckets' results are discarded in that case. If every bucket
// succeeds but the aggregate count doesn't match the plan's total file
// count, an NGASServiceError is returned instead.
func Run(ctx context.Context, plan report.Plan, r *retriever.Retriever) ([]string, error) {
	results := make([]bucketResult, len(plan))
	var (
		mu    sync.Mutex
		order = make([]int, 0, len(plan))
	)

	pool := workerpool.New(maxConcurrentBuckets)
	for i, bucket := range plan {
		i, bucket := i, bucket
		pool.Submit(func() {
			results[i] = runBucket(ctx, bucket, r)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	pool.Wait()

	var (
		merr       *multierror.Error
		fatal      error
		totalCount int
		allPaths   []string
	)

	for _, i := range order {
		res := results[i]
		if res.err != nil {
			merr = multierror.Append(merr, res.err)
			if fatal == nil && isFatal(res.err) {
				fatal = res.err
			}
			continue
		}
		totalCount += res.count
		allPaths = append(allPaths, res.paths...)
	}

	if fatal != nil {
		return nil, fatal
	}
	if merr != nil {
		return nil, merr.Errors[0]
	}

	expected := plan.TotalFiles()
	if totalCount != expected {
		return nil, yokerr.NewNGASServiceError("", 0,
			fmt.Sprintf("expected %d, got %d", expected, totalCount), nil)
	}

	return allPaths, nil
}

func runBucket(ctx context.Context, bucket report.Bucket, r *retriever.Retriever) bucketResult {
	server := report.ServerRef{Host: bucket.ServerHost, RetrieveMethod: bucket.RetrieveMethod}

	var res bucketResult
	for _, file := range bucket.Files {
		srv := server
		srv.Location = file.Server.Location
		srv.Cluster = file.Server.Cluster

		outcome, err := r.Fetch(ctx, srv, bucket.RetrieveMethod, file)
		if err != nil {
			res.err = err
			return res
		}
		log.Success(log.InfoMessage{
			Operation:   "retrieve",
			Destination: outcome.Destination,
			Server:      bucket.ServerHost,
			Tries:       outcome.Tries,
		})
		res.paths = append(res.paths, outcome.Destination)
		res.count++
	}
	return res
}

// isFatal reports whether err belongs to the fatal set: NGASServiceError
// (and its Timeout/Redirects variants), SizeMismatch, FileExists, FileError,
// MissingSetting.
// Every error the retriever can return after exhausting retries falls into
// this set, so in practice this is always true for a non-nil bucket error;
// it exists to make the policy explicit and future-proof against a new,
// non-fatal error kind being introduced.
func isFatal(err error) bool {
	switch yokerr.ExitCodeOf(err) {
	case yokerr.NGASServiceError.ExitCode(),
		yokerr.NGASServiceTimeout.ExitCode(),
		yokerr.NGASServiceRedirects.ExitCode(),
		yokerr.SizeMismatch.ExitCode(),
		yokerr.FileExists.ExitCode(),
		yokerr.FileError.ExitCode(),
		yokerr.MissingSetting.ExitCode():
		return true
	default:
		return false
	}
}
