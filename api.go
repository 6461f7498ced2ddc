package gridastar

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Status is the lifecycle of one search run.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSucceeded
	StatusExhausted
	StatusFailed
)

var statusNames = [...]string{"idle", "running", "succeeded", "exhausted", "failed"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Terminal reports whether no further step can change the run.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusExhausted || s == StatusFailed
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result contains the outcome of a search
type Result struct {
	Path          []Coordinate `json:"path"`
	TotalCost     float64      `json:"total_cost"`
	ExpandedNodes int          `json:"expanded_nodes"`
	Found         bool         `json:"found"`
	Status        Status       `json:"status"`
}

// Steps is the number of moves along the path.
func (r Result) Steps() int {
	if len(r.Path) == 0 {
		return 0
	}
	return len(r.Path) - 1
}

// Options defines parameters for the search.
type Options struct {
	Heuristic       Heuristic
	Weighted        bool
	Connectivity    Connectivity
	NumberOfWorkers int
	Logger          *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithHeuristic selects the distance estimator (Diagonal by default).
func WithHeuristic(heuristic Heuristic) Option {
	return func(options *Options) { options.Heuristic = heuristic }
}

// WithWeighted enables the dynamic weighting that favours the heuristic while
// little cost has accrued.
func WithWeighted(weighted bool) Option {
	return func(options *Options) { options.Weighted = weighted }
}

// WithConnectivity selects the move set (EightWay by default).
func WithConnectivity(connectivity Connectivity) Option {
	return func(options *Options) { options.Connectivity = connectivity }
}

// WithWorkers specifies how many grids SearchAll may search at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithLogger receives debug records for every step and outcome.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		Heuristic:       Diagonal,
		Connectivity:    EightWay,
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = slog.New(slog.DiscardHandler)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}

// FindPath runs the search on grid to completion.
//
// It returns ErrNoPathFound when the frontier is exhausted, ErrInvalidEndpoints
// when start or goal is unset or blocked, and ErrStaleRun when grid still holds
// a previous run. Cancelling ctx stops the search between iterations; the grid
// then needs Reset before another run.
func FindPath(contextObject context.Context, grid *Grid, options ...Option) (Result, error) {
	searchOptions := applyOptions(options)
	heuristicName := searchOptions.Heuristic.String()

	_, span := tracer.Start(contextObject, "gridastar.FindPath",
		trace.WithAttributes(
			attribute.Int("grid.rows", grid.Rows()),
			attribute.Int("grid.cols", grid.Cols()),
			attribute.String("search.heuristic", heuristicName),
			attribute.Bool("search.weighted", searchOptions.Weighted),
		))
	defer span.End()

	began := time.Now()
	defer func() {
		searchDuration.WithLabelValues(heuristicName).Observe(time.Since(began).Seconds())
	}()

	stepper, err := NewStepper(grid, options...)
	if err != nil {
		searchTotal.WithLabelValues(StatusFailed.String(), heuristicName).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Status: StatusFailed}, err
	}

	// --- Orchestrator loop ---
	for !stepper.Status().Terminal() {
		if err := contextObject.Err(); err != nil {
			span.RecordError(err)
			return stepper.Result(), err
		}
		if _, err := stepper.Step(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return stepper.Result(), err
		}
	}

	result := stepper.Result()
	span.SetAttributes(
		attribute.String("search.status", result.Status.String()),
		attribute.Int("search.expanded_nodes", result.ExpandedNodes),
		attribute.Int("search.path_length", len(result.Path)),
	)
	if !result.Found {
		return result, ErrNoPathFound
	}
	return result, nil
}
