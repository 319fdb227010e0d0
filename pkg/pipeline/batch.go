package pipeline

import (
	"context"
	"runtime/debug"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/genome"
	"github.com/matzehuels/traitforge/pkg/observability"
	"github.com/matzehuels/traitforge/pkg/render"
)

// TokenRenderer renders a single token. [render.Renderer] implements it.
type TokenRenderer interface {
	Render(ctx context.Context, md genome.Metadata) (render.Result, error)
}

// Outcome is the result of one render task.
type Outcome struct {
	TokenID  int
	Path     string
	Skipped  []render.SkippedLayer
	Duration time.Duration
	Err      error
}

// OK reports whether the token's image was written.
func (o Outcome) OK() bool { return o.Err == nil }

// BatchReport holds one outcome per rendered token, sorted by token id.
type BatchReport struct {
	Outcomes []Outcome
}

// Succeeded returns the outcomes whose image was written.
func (r BatchReport) Succeeded() []Outcome {
	return r.filter(true)
}

// Failed returns the outcomes whose image could not be produced.
func (r BatchReport) Failed() []Outcome {
	return r.filter(false)
}

func (r BatchReport) filter(ok bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.OK() == ok {
			out = append(out, o)
		}
	}
	return out
}

// RenderAll renders every record on a pool of at most workers goroutines and
// returns once all of them finished.
//
// Tasks are independent: a failing or panicking task is recorded in its
// outcome and the others carry on. Cancelling ctx stops new tasks from
// starting; tasks already running complete, and tasks that never started are
// reported as CANCELED failures so no token goes missing from the report.
func RenderAll(ctx context.Context, r TokenRenderer, mds []genome.Metadata, workers int) BatchReport {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make(chan Outcome, workers*2)

	var g errgroup.Group
	g.SetLimit(workers)

	go func() {
		for _, md := range mds {
			if err := ctx.Err(); err != nil {
				results <- canceled(md.TokenID, err)
				continue
			}
			g.Go(func() error {
				results <- renderOne(ctx, r, md)
				return nil
			})
		}
		_ = g.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(mds))
	for o := range results {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].TokenID < outcomes[j].TokenID })
	return BatchReport{Outcomes: outcomes}
}

func renderOne(ctx context.Context, r TokenRenderer, md genome.Metadata) (o Outcome) {
	o.TokenID = md.TokenID
	if err := ctx.Err(); err != nil {
		return canceled(md.TokenID, err)
	}

	hooks := observability.Generation()
	hooks.OnRenderStart(ctx, md.TokenID)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			o.Err = errors.New(errors.ErrCodeRenderPanic, "token %d: panic: %v\n%s", md.TokenID, p, debug.Stack())
		}
		o.Duration = time.Since(start)
		hooks.OnRenderComplete(ctx, md.TokenID, o.Duration, o.Err)
	}()

	res, err := r.Render(ctx, md)
	o.Path = res.Path
	o.Skipped = res.Skipped
	o.Err = err
	return o
}

func canceled(tokenID int, cause error) Outcome {
	return Outcome{
		TokenID: tokenID,
		Err:     errors.Wrap(errors.ErrCodeCanceled, cause, "token %d not rendered", tokenID),
	}
}
