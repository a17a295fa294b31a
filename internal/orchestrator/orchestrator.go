// Package orchestrator wires the Settings & Request, Locations Resolver,
// Plan Builder and Parallel Fetcher together into the state machine spec.md
// describes: INIT -> RESOLVE -> PLAN -> FETCH -> DONE, with FAIL reachable
// from any state.
package orchestrator

import (
	"context"

	"github.com/nrao/yoink/fetch"
	"github.com/nrao/yoink/locations"
	"github.com/nrao/yoink/plan"
	"github.com/nrao/yoink/report"
	"github.com/nrao/yoink/retriever"
	"github.com/nrao/yoink/settings"
	"github.com/nrao/yoink/yokerr"
)

//go:generate mockgen -destination=./locatorlookup_mock.go -package=orchestrator github.com/nrao/yoink/internal/orchestrator LocatorLookup

// LocatorLookup resolves an opaque identifier (say, an execution block ID
// looked up against the relational metadata database) into the product
// locator the archive location service understands. It is the "out of
// scope" collaborator spec.md names; the orchestrator treats a nil
// LocatorLookup, or one that's simply never needed because a location file
// was given instead, as "the Request already carries the final locator."
type LocatorLookup interface {
	Lookup(ctx context.Context, identifier string) (string, error)
}

// State names the orchestrator's position in the INIT -> RESOLVE -> PLAN ->
// FETCH -> DONE state machine, exposed for logging and tests.
type State int

const (
	Init State = iota
	Resolve
	Plan
	Fetch
	Done
	Fail
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Resolve:
		return "RESOLVE"
	case Plan:
		return "PLAN"
	case Fetch:
		return "FETCH"
	case Done:
		return "DONE"
	case Fail:
		return "FAIL"
	default:
		return "UNKNOWN"
	}
}

// Result is the final list of retrieved destination paths and the state
// the run ended in.
type Result struct {
	Paths []string
	State State
}

// Run executes one retrieval end to end. lookup may be nil; it's only
// consulted when req.ProductLocator is set and req.LocationFilePath is not.
func Run(ctx context.Context, req *settings.Request, cfg *settings.Settings, lookup LocatorLookup) (Result, error) {
	// INIT -> RESOLVE: Request and Settings are already validated by their
	// constructors; NewRequest/NewSettings refuse to build an invalid one.
	if req == nil || cfg == nil {
		return Result{State: Fail}, yokerr.NewMissingSetting("request and settings are both required")
	}

	productLocator := req.ProductLocator
	if req.LocationFilePath == "" && lookup != nil {
		resolved, err := lookup.Lookup(ctx, req.ProductLocator)
		if err != nil {
			return Result{State: Fail}, err
		}
		productLocator = resolved
	}

	filesReport, err := locations.Resolve(ctx, cfg, productLocator, req.LocationFilePath, req.SDMOnly)
	if err != nil {
		return Result{State: Fail}, err
	}

	// RESOLVE -> PLAN
	serversReport := report.ToServersReport(filesReport)
	retrievalPlan := plan.Build(serversReport, cfg.ThreadsPerHost)
	if len(retrievalPlan) == 0 {
		return Result{State: Fail}, yokerr.NewMissingSetting("locations report contained no files to retrieve")
	}

	// PLAN -> FETCH
	r := retriever.New(req.OutputDir, req.DryRun, req.ForceOverwrite)
	paths, err := fetch.Run(ctx, retrievalPlan, r)
	if err != nil {
		return Result{State: Fail}, err
	}

	// FETCH -> DONE
	return Result{Paths: paths, State: Done}, nil
}
