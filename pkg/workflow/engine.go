// Package workflow drives bounded, session-scoped generation workflows.
//
// A session moves Created → InProgress → Completed. Every step follows the
// same shape: snapshot the session, build a prompt, call the generator, parse
// the output, then commit the mutation atomically. Any failure before the
// commit leaves the session exactly as it was.
package workflow

import (
	"context"
	"errors"
	"time"

	"ai-workflow-be/internal/pkg/logger"
	"ai-workflow-be/internal/repository/contract"
	"ai-workflow-be/pkg/apperror"
	"ai-workflow-be/pkg/events"
	"ai-workflow-be/pkg/llm"
	"ai-workflow-be/pkg/store"
)

// Engine is one workflow family's state machine over its session store.
type Engine[C, H, D any] struct {
	name   string
	store  contract.SessionStore[store.Session[C, H, D]]
	gen    llm.Generator
	events events.Publisher
	logger logger.ILogger
}

func NewEngine[C, H, D any](
	name string,
	sessions contract.SessionStore[store.Session[C, H, D]],
	gen llm.Generator,
	publisher events.Publisher,
	log logger.ILogger,
) *Engine[C, H, D] {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Engine[C, H, D]{
		name:   name,
		store:  sessions,
		gen:    gen,
		events: publisher,
		logger: log,
	}
}

// IsCompleted reports whether err means the session's step budget is spent.
func IsCompleted(err error) bool {
	return errors.Is(err, apperror.ErrConflict)
}

func (e *Engine[C, H, D]) completedErr(id string) error {
	return apperror.Conflict("%s session %s is already completed", e.name, id)
}

// Start creates a session with an empty history.
func (e *Engine[C, H, D]) Start(ctx context.Context, cfg C, max int, derived D) string {
	now := time.Now()
	id := e.store.Create(func(id string) store.Session[C, H, D] {
		return store.Session[C, H, D]{
			ID:        id,
			Config:    cfg,
			Max:       max,
			Derived:   derived,
			CreatedAt: now,
			UpdatedAt: now,
		}
	})
	e.logger.Info(e.name, "Session started", map[string]interface{}{"session_id": id, "max": max})
	e.publish(ctx, events.TypeSessionStarted, id, map[string]interface{}{"max": max})
	return id
}

// Get returns a snapshot of the session.
func (e *Engine[C, H, D]) Get(id string) (store.Session[C, H, D], error) {
	return e.store.Get(id)
}

// Active returns the number of live sessions.
func (e *Engine[C, H, D]) Active() int {
	return e.store.Count()
}

// Generate calls the generator without touching any session.
func (e *Engine[C, H, D]) Generate(ctx context.Context, prompt string) (string, error) {
	return e.gen.Generate(ctx, prompt)
}

// Serve appends the step produced by next and moves the cursor. next receives
// a snapshot; it may call the generator or read other state but must not
// mutate the session. It returns the committed step and its 0-based index.
func (e *Engine[C, H, D]) Serve(
	ctx context.Context,
	id string,
	next func(ctx context.Context, s store.Session[C, H, D]) (H, error),
) (H, int, error) {
	var zero H

	s, err := e.store.Get(id)
	if err != nil {
		return zero, 0, err
	}
	if s.Completed() {
		return zero, s.Cursor, e.completedErr(id)
	}

	item, err := next(ctx, s)
	if err != nil {
		e.stepFailed(ctx, id, "advance", err)
		return zero, s.Cursor, err
	}

	var index int
	err = e.store.Update(id, func(cur *store.Session[C, H, D]) error {
		// the bound may have been reached by a concurrent step meanwhile
		if cur.Completed() {
			return e.completedErr(id)
		}
		index = cur.Cursor
		cur.History = append(cur.History, item)
		cur.Cursor++
		cur.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return zero, s.Cursor, err
	}

	e.logger.Info(e.name, "Session advanced", map[string]interface{}{"session_id": id, "cursor": index + 1})
	e.publish(ctx, events.TypeSessionAdvanced, id, map[string]interface{}{"cursor": index + 1})
	return item, index, nil
}

// Advance builds a prompt from the session, generates and parses one step.
func (e *Engine[C, H, D]) Advance(
	ctx context.Context,
	id string,
	build func(s store.Session[C, H, D]) (string, error),
	parse func(raw string) (H, error),
) (H, int, error) {
	return e.Serve(ctx, id, func(ctx context.Context, s store.Session[C, H, D]) (H, error) {
		var zero H
		prompt, err := build(s)
		if err != nil {
			return zero, err
		}
		raw, err := e.gen.Generate(ctx, prompt)
		if err != nil {
			return zero, err
		}
		return parse(raw)
	})
}

// Refine generates output that overwrites derived state or annotates the
// latest step without moving the cursor. apply parses raw and mutates the
// session; returning an error discards the mutation.
func (e *Engine[C, H, D]) Refine(
	ctx context.Context,
	id string,
	build func(s store.Session[C, H, D]) (string, error),
	apply func(raw string, s *store.Session[C, H, D]) error,
) error {
	s, err := e.store.Get(id)
	if err != nil {
		return err
	}
	prompt, err := build(s)
	if err != nil {
		return err
	}
	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.stepFailed(ctx, id, "refine", err)
		return err
	}
	err = e.store.Update(id, func(cur *store.Session[C, H, D]) error {
		if err := apply(raw, cur); err != nil {
			return err
		}
		cur.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		if apperror.IsGenerationFailure(err) {
			e.stepFailed(ctx, id, "refine", err)
		}
		return err
	}

	e.publish(ctx, events.TypeSessionRefined, id, nil)
	return nil
}

// Mutate applies a local (non-generating) change atomically.
func (e *Engine[C, H, D]) Mutate(id string, mutate func(s *store.Session[C, H, D]) error) error {
	return e.store.Update(id, func(cur *store.Session[C, H, D]) error {
		if err := mutate(cur); err != nil {
			return err
		}
		cur.UpdatedAt = time.Now()
		return nil
	})
}

// Complete generates a final summary from the full history and deletes the
// session. The state of the session is irrelevant; it only has to exist.
func (e *Engine[C, H, D]) Complete(
	ctx context.Context,
	id string,
	build func(s store.Session[C, H, D]) (string, error),
	parse func(raw string, s store.Session[C, H, D]) error,
) error {
	s, err := e.store.Get(id)
	if err != nil {
		return err
	}
	prompt, err := build(s)
	if err != nil {
		return err
	}
	raw, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.stepFailed(ctx, id, "complete", err)
		return err
	}
	if err := parse(raw, s); err != nil {
		e.stepFailed(ctx, id, "complete", err)
		return err
	}
	return e.remove(ctx, id, s.Cursor)
}

// Finish deletes the session without generating anything and returns its
// final snapshot.
func (e *Engine[C, H, D]) Finish(ctx context.Context, id string) (store.Session[C, H, D], error) {
	s, err := e.store.Get(id)
	if err != nil {
		return s, err
	}
	if err := e.remove(ctx, id, s.Cursor); err != nil {
		return s, err
	}
	return s, nil
}

func (e *Engine[C, H, D]) remove(ctx context.Context, id string, cursor int) error {
	if err := e.store.Delete(id); err != nil {
		return err
	}
	e.logger.Info(e.name, "Session completed", map[string]interface{}{"session_id": id, "cursor": cursor})
	e.publish(ctx, events.TypeSessionCompleted, id, map[string]interface{}{"cursor": cursor})
	return nil
}

func (e *Engine[C, H, D]) stepFailed(ctx context.Context, id, step string, err error) {
	details := map[string]interface{}{"session_id": id, "step": step, "error": err.Error()}
	if apperror.IsGenerationFailure(err) {
		e.logger.Error(e.name, "Generation failed", details)
	} else {
		e.logger.Warn(e.name, "Step rejected", details)
	}
	e.publish(ctx, events.TypeStepFailed, id, map[string]interface{}{"step": step, "kind": string(apperror.KindOf(err))})
}

func (e *Engine[C, H, D]) publish(ctx context.Context, eventType, id string, data map[string]interface{}) {
	payload := map[string]interface{}{"workflow": e.name, "session_id": id}
	for k, v := range data {
		payload[k] = v
	}
	if err := e.events.Publish(ctx, events.New(eventType, payload)); err != nil {
		e.logger.Warn(e.name, "Failed to publish event", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}
