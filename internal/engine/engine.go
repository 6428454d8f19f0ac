package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/memoryd/internal/logging"
)

// tracerName identifies engine spans.
const tracerName = "github.com/fyrsmithlabs/memoryd/internal/engine"

// Engine drives the per-turn orchestration pipeline. It is safe for
// concurrent use across sessions; turns within one session are
// serialized by the session's guard.
type Engine struct {
	repo       Repository
	capability Capability
	logger     *logging.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Options configures optional engine collaborators.
type Options struct {
	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to nil (unmetered).
	Metrics *Metrics
}

// NewEngine creates an engine over the given repository and capability
// provider. Both are injected once at construction; the engine never
// reaches through globals to find them.
func NewEngine(repo Repository, capability Capability, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		repo:       repo,
		capability: capability,
		logger:     logger,
		metrics:    opts.Metrics,
		tracer:     otel.Tracer(tracerName),
	}
}

// Stream begins a turn and returns its pull-based status stream. No
// work happens until the first Next call. Returns ErrTurnActive when
// another turn is already running on the session.
//
// The caller must either drain the stream or Close it; otherwise the
// session stays locked.
func (e *Engine) Stream(ctx context.Context, sess *Session, userInput string) (*TurnStream, error) {
	if sess == nil {
		return nil, fmt.Errorf("nil session")
	}
	if !sess.beginTurn() {
		return nil, ErrTurnActive
	}

	ctx = logging.WithSessionID(ctx, sess.ID())
	ctx = logging.WithTurnID(ctx, uuid.NewString())

	return &TurnStream{
		eng:   e,
		sess:  sess,
		ctx:   ctx,
		input: userInput,
	}, nil
}

// Run processes a turn to completion, discarding intermediate statuses
// (they remain available on the response). This is the non-streaming
// convenience over Stream.
func (e *Engine) Run(ctx context.Context, sess *Session, userInput string) (*ChatResponse, error) {
	stream, err := e.Stream(ctx, sess, userInput)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	for {
		if _, ok := stream.Next(); !ok {
			break
		}
	}
	return stream.Result()
}
