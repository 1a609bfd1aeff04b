// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scope provides deterministic scoped resource release and
// structured fault propagation.
//
// A scope owns the resources acquired in it, in acquisition order. When
// the scope completes, normally or not, its resources are released in
// strict reverse acquisition order, each exactly once. A fault raised by
// the scope body propagates to the caller after the releases run; a
// fault raised by a release while another fault is already propagating
// is attached to the propagating fault's suppressed list rather than
// replacing it. A release fault with nothing already propagating becomes
// the propagating fault itself.
//
// Scopes nest by nesting Run calls; ownership moves out of a scope only
// through an explicit Transfer. Handlers registered with Catch intercept
// faults by kind after the scope's own releases have run; fatal-class
// faults are never intercepted.
//
// Everything here is single-threaded: a Scope must only be used from the
// body function it is passed to.
package scope

import (
	"context"

	"github.com/cockroachdb/collections/pkg/fault"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"go.uber.org/zap"
)

// Releaser is a resource with an explicit release operation. Release is
// called at most once by the owning scope.
type Releaser interface {
	Release(context.Context) error
}

// ReleaserFunc adapts a function to the Releaser interface.
type ReleaserFunc func(context.Context) error

// Release implements Releaser.
func (f ReleaserFunc) Release(ctx context.Context) error { return f(ctx) }

// Handle identifies a resource within its owning scope. It is the token
// used to transfer ownership out of the scope.
type Handle struct {
	name        string
	r           Releaser
	transferred bool
	released    bool
}

type handler struct {
	kind *fault.Kind
	fn   func(error) error
}

// Scope tracks the resources and handlers of one Run invocation.
type Scope struct {
	name      string
	logger    *zap.Logger
	resources []*Handle
	handlers  []handler
}

// Option configures a Run invocation.
type Option func(*Scope)

// WithLogger sets the logger used to report suppressed release faults
// and handler activity. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scope) { s.logger = l }
}

// Run executes body within a new scope. The context passed to body is
// tagged with the scope name. On every exit path, including panics, the
// scope's resources are released in reverse acquisition order before
// Run returns (or before the panic continues).
func Run(
	ctx context.Context, name string, body func(context.Context, *Scope) error, opts ...Option,
) (err error) {
	s := &Scope{name: name, logger: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	ctx = logtags.AddTag(ctx, "scope", name)

	done := false
	defer func() {
		if done {
			return
		}
		// The body panicked (or exited the goroutine). Resources are
		// still released in reverse order; with no error return to
		// attach them to, release faults can only be logged here. The
		// panic itself continues unchanged.
		if relErr := s.releaseAll(ctx, nil); relErr != nil {
			s.logger.Warn("resource release failed during panic unwind",
				zap.String("scope", s.name), zap.Error(relErr))
		}
	}()

	err = body(ctx, s)
	done = true
	return s.finish(ctx, err)
}

// Acquire appends a resource to the scope's release list and returns its
// handle. Resources release in reverse of the order they were acquired.
func (s *Scope) Acquire(name string, r Releaser) *Handle {
	h := &Handle{name: name, r: r}
	s.resources = append(s.resources, h)
	return h
}

// Defer is shorthand for acquiring a release function as a resource.
func (s *Scope) Defer(name string, f func(context.Context) error) *Handle {
	return s.Acquire(name, ReleaserFunc(f))
}

// Transfer moves ownership of a resource out of the scope: the scope
// will no longer release it, and the caller becomes responsible for it.
// Transfer of an already-transferred or already-released handle returns
// nil.
func (s *Scope) Transfer(h *Handle) Releaser {
	if h.transferred || h.released {
		return nil
	}
	h.transferred = true
	return h.r
}

// Catch registers a handler for faults of the given kind. When a fault
// of that kind propagates out of the scope body (after the scope's
// releases have run), the first matching handler receives it and may:
//
//   - return nil to resolve the fault, completing the scope normally;
//   - return the fault unchanged to continue propagation;
//   - return a new fault, which becomes primary with the original fault
//     recorded as its cause (see fault.CauseOf).
//
// At most one handler runs per propagating fault. Fatal-class faults
// never match.
func (s *Scope) Catch(kind *fault.Kind, fn func(error) error) {
	s.handlers = append(s.handlers, handler{kind: kind, fn: fn})
}

// releaseAll releases every still-owned resource in reverse acquisition
// order and folds release faults into propagating per the suppression
// rules. It returns the resulting propagating fault.
func (s *Scope) releaseAll(ctx context.Context, propagating error) error {
	for i := len(s.resources) - 1; i >= 0; i-- {
		h := s.resources[i]
		if h.transferred || h.released {
			continue
		}
		h.released = true
		relErr := h.r.Release(ctx)
		if relErr == nil {
			continue
		}
		relErr = fault.Mark(errors.Wrapf(relErr, "releasing %s", h.name), fault.ResourceClose)
		if propagating == nil {
			propagating = relErr
			continue
		}
		s.logger.Warn("suppressing release fault",
			zap.String("scope", s.name),
			zap.String("resource", h.name),
			zap.Error(relErr))
		propagating = fault.Suppress(propagating, relErr)
	}
	s.resources = nil
	return propagating
}

func (s *Scope) finish(ctx context.Context, propagating error) error {
	propagating = s.releaseAll(ctx, propagating)
	if propagating == nil {
		return nil
	}
	if fault.ClassOf(propagating) == fault.Fatal {
		return propagating
	}
	for _, h := range s.handlers {
		if !fault.Is(propagating, h.kind) {
			continue
		}
		out := h.fn(propagating)
		if out == nil {
			s.logger.Debug("fault handled",
				zap.String("scope", s.name), zap.Stringer("kind", h.kind))
			return nil
		}
		if out != propagating && fault.CauseOf(out) == nil && !errors.Is(out, propagating) {
			// The handler replaced the fault without recording the
			// original; attach it as the cause.
			out = fault.WithCause(out, propagating)
		}
		// Only the first matching handler gets a shot, whether it
		// rethrew or replaced.
		return out
	}
	return propagating
}
