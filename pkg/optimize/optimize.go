package optimize

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxarrow/pkg/anchor"
	"github.com/matzehuels/boxarrow/pkg/geom"
	"github.com/matzehuels/boxarrow/pkg/layout"
	"github.com/matzehuels/boxarrow/pkg/route"
	"github.com/matzehuels/boxarrow/pkg/schematic"
)

// DefaultMaxRounds bounds the local search when Options.MaxRounds is unset.
const DefaultMaxRounds = 8

// Options configures evaluation and the local search.
type Options struct {
	// MaxRounds bounds the number of search rounds. Zero uses
	// DefaultMaxRounds; a negative value disables the search so that Run
	// only evaluates the input configuration.
	MaxRounds int
	// Workers bounds how many candidates are evaluated concurrently.
	// Zero uses GOMAXPROCS.
	Workers int
	Weights Weights
	Layout  layout.Engine
	Route   route.Options
	// OnRound, when set, is called after every completed round.
	OnRound func(Round)
}

// DefaultOptions returns the default search parameters.
func DefaultOptions() Options {
	return Options{
		MaxRounds: DefaultMaxRounds,
		Weights:   DefaultWeights(),
		Route:     route.DefaultOptions(),
	}
}

// Evaluation is the full geometric resolution of one configuration.
type Evaluation struct {
	Anchors *anchor.Set
	Routes  *route.Result
	Score   Defects
}

// Evaluate lays out s, resolves its anchors, routes its links and scores the
// result. It writes the resolved geometry into s.
func Evaluate(ctx context.Context, s *schematic.Schematic, opts Options) (*Evaluation, error) {
	eng := opts.Layout
	if err := eng.Run(ctx, s); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	anchors, err := anchor.Resolve(s)
	if err != nil {
		return nil, fmt.Errorf("anchors: %w", err)
	}
	routes, err := route.New(opts.Route).Route(ctx, s, anchors)
	if err != nil {
		return nil, fmt.Errorf("routes: %w", err)
	}
	return &Evaluation{
		Anchors: anchors,
		Routes:  routes,
		Score:   Score(s, routes.Paths, opts.Weights),
	}, nil
}

// Round summarizes one search round.
type Round struct {
	Index      int
	Candidates int
	Accepted   *Candidate // nil when no candidate improved the score
	Score      Defects    // score after the round
}

// Report describes a completed search.
type Report struct {
	Initial  Defects
	Final    Defects
	Rounds   []Round
	Accepted []Candidate
	// Canceled is set when the context was canceled before the search
	// reached a local optimum or the round limit.
	Canceled bool
	// Evaluation is the resolution of the configuration left in the
	// schematic.
	Evaluation *Evaluation
}

type trial struct {
	s    *schematic.Schematic
	eval *Evaluation
}

// Run evaluates s and then improves its configuration by local search.
//
// Each round generates every single-step perturbation of the current
// configuration and evaluates each on its own clone of the schematic, in
// parallel. The candidate with the lowest score wins, ties going to the
// smaller edit distance and then to generation order. It is committed into
// s only if it strictly lowers the score; otherwise the search has reached a
// local optimum and stops. A clean schematic is never perturbed.
//
// Rounds are sequential. Cancellation is checked between rounds: a round in
// progress always completes, and Run returns with the best configuration
// accepted so far and Report.Canceled set. Run never fails because a round
// could not improve the score.
func Run(ctx context.Context, s *schematic.Schematic, opts Options) (*Report, error) {
	work := context.WithoutCancel(ctx)

	cur, err := Evaluate(work, s, opts)
	if err != nil {
		return nil, err
	}
	report := &Report{Initial: cur.Score, Final: cur.Score, Evaluation: cur}

	rounds := opts.MaxRounds
	if rounds == 0 {
		rounds = DefaultMaxRounds
	}
	for i := 0; i < rounds && !cur.Score.Clean(); i++ {
		if ctx.Err() != nil {
			report.Canceled = true
			break
		}

		cands := Candidates(s)
		trials, err := evaluateAll(work, s, cands, opts)
		if err != nil {
			return nil, err
		}

		round := Round{Index: i, Candidates: len(cands), Score: cur.Score}
		best := pick(cands, trials)
		if best >= 0 && trials[best].eval.Score.Total < cur.Score.Total-geom.Eps {
			s.CopyGeometry(trials[best].s)
			cur = trials[best].eval
			round.Accepted = &cands[best]
			round.Score = cur.Score
			report.Accepted = append(report.Accepted, cands[best])
		}
		report.Rounds = append(report.Rounds, round)
		if opts.OnRound != nil {
			opts.OnRound(round)
		}
		if round.Accepted == nil {
			break
		}
	}

	report.Final = cur.Score
	report.Evaluation = cur
	return report, nil
}

// evaluateAll resolves every candidate on a clone of s. Each goroutine owns
// its clone and its result slot.
func evaluateAll(ctx context.Context, s *schematic.Schematic, cands []Candidate, opts Options) ([]trial, error) {
	trials := make([]trial, len(cands))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cands {
		g.Go(func() error {
			clone := s.Clone()
			c.Apply(clone)
			eval, err := Evaluate(ctx, clone, opts)
			if err != nil {
				return fmt.Errorf("candidate %q: %w", c.Edit, err)
			}
			trials[i] = trial{s: clone, eval: eval}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trials, nil
}

// pick returns the index of the best trial, or -1 when there is none.
func pick(cands []Candidate, trials []trial) int {
	best := -1
	for i := range trials {
		if best < 0 {
			best = i
			continue
		}
		a, b := trials[i].eval.Score.Total, trials[best].eval.Score.Total
		switch {
		case a < b-geom.Eps:
			best = i
		case a < b+geom.Eps && cands[i].Distance < cands[best].Distance:
			best = i
		}
	}
	return best
}
