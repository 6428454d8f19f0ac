package engine

import (
	"context"
	"time"

	otelattr "go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/memoryd/internal/attribute"
	"github.com/fyrsmithlabs/memoryd/internal/history"
)

// turnPhase is the engine state for one turn.
type turnPhase int

const (
	phaseIdle turnPhase = iota
	phaseJudging
	phaseGenerating
	phaseExtracting
	phaseDone
	phaseFailed
)

// TurnStream is the pull-based progress sequence of one turn.
//
// All work runs inside Next, in the caller's goroutine. Each sub-task
// spans two pulls: the first emits the "processing" status without
// touching any collaborator, the second performs the capability and
// repository calls and emits the terminal status. Abandoning the
// stream (calling Close, or simply not pulling again) therefore
// guarantees no further calls are issued.
type TurnStream struct {
	eng   *Engine
	sess  *Session
	ctx   context.Context
	input string

	phase       turnPhase
	idx         int
	callPending bool

	masters      []attribute.Master
	contents     map[int64]string
	histSnapshot []history.Message
	attrCtx      *attribute.Context

	statuses  []TaskStatus
	extracted []attribute.Extracted
	text      string
	response  *ChatResponse
	err       error

	span     trace.Span
	released bool
	closed   bool
}

// Next advances the turn by exactly one observable step and returns
// the emitted status. ok is false once the stream is exhausted, after
// which Result holds the outcome.
func (s *TurnStream) Next() (status TaskStatus, ok bool) {
	if s.closed || s.phase == phaseDone || s.phase == phaseFailed {
		return TaskStatus{}, false
	}

	// A cancelled context means the consumer is gone; stop without
	// issuing further calls.
	if err := s.ctx.Err(); err != nil {
		s.fail(err)
		return TaskStatus{}, false
	}

	switch s.phase {
	case phaseIdle:
		return s.begin()
	case phaseJudging:
		if s.callPending {
			return s.judgeCurrent(), true
		}
		return s.advanceJudging()
	case phaseGenerating:
		if s.callPending {
			return s.generate()
		}
		return s.advanceToExtraction()
	case phaseExtracting:
		if s.callPending {
			return s.extractCurrent(), true
		}
		return s.advanceExtracting()
	default:
		return TaskStatus{}, false
	}
}

// begin loads the masters, appends the user message, and emits the
// first "processing" status.
func (s *TurnStream) begin() (TaskStatus, bool) {
	ctx, span := s.eng.tracer.Start(s.ctx, "engine.turn")
	s.ctx = ctx
	s.span = span

	masters, err := s.eng.repo.AttributeMasters(s.ctx)
	if err != nil {
		// Without the master list there is nothing to orchestrate.
		s.eng.logger.Error(s.ctx, "loading attribute masters failed", zap.Error(err))
		s.fail(err)
		return TaskStatus{}, false
	}
	s.masters = masters
	s.contents = make(map[int64]string)
	s.span.SetAttributes(otelattr.Int("engine.masters", len(masters)))

	// Generation sees the history as it was before this turn; the
	// current input travels separately.
	s.histSnapshot = s.sess.Ledger().Snapshot()
	s.sess.Ledger().Append(history.NewMessage(history.RoleUser, s.input))

	if len(s.masters) == 0 {
		s.phase = phaseGenerating
		s.callPending = true
		return s.emit(TaskStatus{Type: TaskGeneration, State: StateProcessing}), true
	}

	s.phase = phaseJudging
	s.idx = 0
	s.callPending = true
	return s.emit(TaskStatus{
		Type:          TaskJudgment,
		AttributeName: s.masters[0].Name,
		State:         StateProcessing,
	}), true
}

// judgeCurrent performs the judge call for the current master and, on
// a positive judgment, fetches the latest stored content.
func (s *TurnStream) judgeCurrent() TaskStatus {
	m := s.masters[s.idx]
	s.callPending = false

	callCtx, span := s.eng.tracer.Start(s.ctx, "engine.judge",
		trace.WithAttributes(otelattr.String("attribute.name", m.Name)))
	defer span.End()

	start := time.Now()
	state := StateCompleted

	required, err := s.eng.capability.Judge(callCtx, m.JudgmentPrompt, s.input, m.Name)
	if err != nil {
		// Non-fatal: treat as "attribute not needed".
		state = StateFailed
		span.SetStatus(codes.Error, err.Error())
		s.eng.logger.Warn(s.ctx, "judgment failed, skipping attribute",
			zap.String("attribute", m.Name), zap.Error(err))
	} else if required {
		content, ok, ferr := s.eng.repo.LatestAttributeContent(callCtx, m.ID)
		switch {
		case ferr != nil:
			state = StateFailed
			span.SetStatus(codes.Error, ferr.Error())
			s.eng.logger.Warn(s.ctx, "content fetch failed, skipping attribute",
				zap.String("attribute", m.Name), zap.Error(ferr))
		case ok:
			s.contents[m.ID] = content
		}
	}

	s.eng.metrics.observeCall(TaskJudgment, start, state == StateFailed)
	return s.emit(TaskStatus{Type: TaskJudgment, AttributeName: m.Name, State: state})
}

// advanceJudging emits the next judgment "processing" status, or moves
// on to generation after the last master.
func (s *TurnStream) advanceJudging() (TaskStatus, bool) {
	s.idx++
	if s.idx < len(s.masters) {
		s.callPending = true
		return s.emit(TaskStatus{
			Type:          TaskJudgment,
			AttributeName: s.masters[s.idx].Name,
			State:         StateProcessing,
		}), true
	}

	s.phase = phaseGenerating
	s.callPending = true
	return s.emit(TaskStatus{Type: TaskGeneration, State: StateProcessing}), true
}

// generate assembles the attribute context and performs the single
// generation call of the turn. Failure here is fatal.
func (s *TurnStream) generate() (TaskStatus, bool) {
	s.callPending = false
	s.attrCtx = attribute.BuildContext(s.masters, s.contents)

	callCtx, span := s.eng.tracer.Start(s.ctx, "engine.generate_response",
		trace.WithAttributes(otelattr.Int("engine.used_attributes", s.attrCtx.Len())))
	defer span.End()

	start := time.Now()
	text, err := s.eng.capability.GenerateResponse(callCtx, s.histSnapshot, s.input, s.attrCtx)
	s.eng.metrics.observeCall(TaskGeneration, start, err != nil)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.eng.logger.Error(s.ctx, "response generation failed", zap.Error(err))
		status := s.emit(TaskStatus{Type: TaskGeneration, State: StateFailed})
		s.fail(err)
		return status, true
	}

	s.sess.Ledger().Append(history.NewMessage(history.RoleAssistant, text))
	s.text = text
	return s.emit(TaskStatus{Type: TaskGeneration, State: StateCompleted}), true
}

// advanceToExtraction emits the first extraction "processing" status,
// or finishes the turn when there are no masters.
func (s *TurnStream) advanceToExtraction() (TaskStatus, bool) {
	if len(s.masters) == 0 {
		s.finish()
		return TaskStatus{}, false
	}

	s.phase = phaseExtracting
	s.idx = 0
	s.callPending = true
	return s.emit(TaskStatus{
		Type:          TaskExtraction,
		AttributeName: s.masters[0].Name,
		State:         StateProcessing,
	}), true
}

// extractCurrent performs the extract call for the current master and
// persists any new content.
func (s *TurnStream) extractCurrent() TaskStatus {
	m := s.masters[s.idx]
	s.callPending = false

	callCtx, span := s.eng.tracer.Start(s.ctx, "engine.extract",
		trace.WithAttributes(otelattr.String("attribute.name", m.Name)))
	defer span.End()

	start := time.Now()
	state := StateCompleted

	content, ok, err := s.eng.capability.Extract(callCtx, m.ExtractionPrompt, s.input, m.Name)
	switch {
	case err != nil:
		// Non-fatal: skip this attribute, keep going.
		state = StateFailed
		span.SetStatus(codes.Error, err.Error())
		s.eng.logger.Warn(s.ctx, "extraction failed, skipping attribute",
			zap.String("attribute", m.Name), zap.Error(err))
	case ok:
		_, ierr := s.eng.repo.InsertAttributeRecord(callCtx, attribute.Record{
			AttributeID: m.ID,
			Content:     content,
		})
		if ierr != nil {
			state = StateFailed
			span.SetStatus(codes.Error, ierr.Error())
			s.eng.logger.Warn(s.ctx, "record insert failed, skipping attribute",
				zap.String("attribute", m.Name), zap.Error(ierr))
		} else {
			s.extracted = append(s.extracted, attribute.Extracted{Name: m.Name, Content: content})
		}
	}

	s.eng.metrics.observeCall(TaskExtraction, start, state == StateFailed)
	return s.emit(TaskStatus{Type: TaskExtraction, AttributeName: m.Name, State: state})
}

// advanceExtracting emits the next extraction "processing" status, or
// finishes the turn after the last master.
func (s *TurnStream) advanceExtracting() (TaskStatus, bool) {
	s.idx++
	if s.idx < len(s.masters) {
		s.callPending = true
		return s.emit(TaskStatus{
			Type:          TaskExtraction,
			AttributeName: s.masters[s.idx].Name,
			State:         StateProcessing,
		}), true
	}

	s.finish()
	return TaskStatus{}, false
}

// emit records and returns a status.
func (s *TurnStream) emit(status TaskStatus) TaskStatus {
	s.statuses = append(s.statuses, status)
	return status
}

// finish completes the turn successfully.
func (s *TurnStream) finish() {
	s.phase = phaseDone
	s.response = &ChatResponse{
		ResponseText:        s.text,
		UsedAttributes:      s.attrCtx,
		ExtractedAttributes: s.extracted,
		TaskStatuses:        s.statuses,
	}
	s.eng.metrics.observeTurn("completed")
	s.eng.logger.Info(s.ctx, "turn completed",
		zap.Int("used_attributes", s.attrCtx.Len()),
		zap.Int("extracted_attributes", len(s.extracted)),
		zap.Int("statuses", len(s.statuses)))
	if s.span != nil {
		s.span.End()
	}
	s.release()
}

// fail terminates the turn with an error.
func (s *TurnStream) fail(err error) {
	s.phase = phaseFailed
	s.err = err
	s.eng.metrics.observeTurn("failed")
	if s.span != nil {
		s.span.SetStatus(codes.Error, err.Error())
		s.span.End()
	}
	s.release()
}

// release frees the session turn guard exactly once.
func (s *TurnStream) release() {
	if !s.released {
		s.released = true
		s.sess.endTurn()
	}
}

// Result returns the turn outcome. It is valid once Next has returned
// false: a ChatResponse on success, the fatal error on failure, and
// ErrStreamOpen while statuses remain to be pulled.
func (s *TurnStream) Result() (*ChatResponse, error) {
	switch s.phase {
	case phaseDone:
		return s.response, nil
	case phaseFailed:
		return nil, s.err
	default:
		return nil, ErrStreamOpen
	}
}

// Statuses returns all statuses emitted so far, in order.
func (s *TurnStream) Statuses() []TaskStatus {
	out := make([]TaskStatus, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Close abandons the stream. No further calls are issued; the session
// turn guard is released. Closing an exhausted stream is a no-op.
func (s *TurnStream) Close() {
	s.closed = true
	s.release()
}
