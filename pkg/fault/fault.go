// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package fault defines the error taxonomy shared by the containers and
// the scope package: a small set of fault kinds, each belonging to one
// of three classes, plus cause and suppressed-error chains.
//
// A kind is matched with Is regardless of how many layers of wrapping
// have been applied since the fault was created. Classes determine
// propagation policy: Recoverable faults are part of an operation's
// contract and are expected to be handled; Defect faults indicate a bug
// in the calling code (they are built on assertion failures and should
// reach a bug report, not a handler); Fatal faults are never intercepted
// by kind-based handlers.
package fault

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Class partitions fault kinds by propagation policy.
type Class int8

const (
	// Recoverable faults are expected outcomes of an operation's
	// contract; callers handle them or pass them on deliberately.
	Recoverable Class = iota
	// Defect faults indicate a logic error in the caller. They carry
	// assertion-failure semantics through the errors library.
	Defect
	// Fatal faults are not intended to be intercepted by ordinary
	// kind-based handlers.
	Fatal
)

// String implements fmt.Stringer.
func (c Class) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	case Defect:
		return "defect"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("class(%d)", int8(c))
	}
}

// Kind identifies a category of fault. Kinds are matched by identity;
// all kinds are declared in this package.
type Kind struct {
	name   string
	class  Class
	marker error
}

// kinds registers every declared kind for ClassOf.
var kinds []*Kind

func newKind(name string, class Class) *Kind {
	k := &Kind{
		name: name,
		// The marker exists so faults can be detected with Is even
		// after arbitrary wrapping, following the sentinel-and-Mark
		// idiom.
		marker: errors.Newf("%s fault", name),
		class:  class,
	}
	kinds = append(kinds, k)
	return k
}

var (
	// NotFound reports a lookup miss in contexts where an explicit
	// "no value" result is not available.
	NotFound = newKind("not found", Recoverable)
	// DuplicateKey reports an insert of an already-present key into a
	// structure that disallows duplicates.
	DuplicateKey = newKind("duplicate key", Recoverable)
	// CapacityOverflow reports an insert into a bounded container that
	// is already at its configured bound.
	CapacityOverflow = newKind("capacity overflow", Recoverable)
	// ResourceClose reports a failure to release a scoped resource. It
	// may be a primary fault or a suppressed one, depending on whether
	// another fault was already propagating.
	ResourceClose = newKind("resource close", Recoverable)
	// ConcurrentModification reports a container mutated out from under
	// a live iterator.
	ConcurrentModification = newKind("concurrent modification", Defect)
	// ComparatorContract reports a comparator observed to violate the
	// strict-total-order contract.
	ComparatorContract = newKind("comparator contract violation", Defect)
	// OutOfMemory reports unrecoverable resource exhaustion.
	OutOfMemory = newKind("out of memory", Fatal)
)

// String implements fmt.Stringer.
func (k *Kind) String() string { return k.name }

// Class returns the kind's class.
func (k *Kind) Class() Class { return k.class }

// Newf creates a fault of the given kind. Defect kinds are created as
// assertion failures so that they carry the usual barrier and report
// semantics.
func Newf(k *Kind, format string, args ...interface{}) error {
	var err error
	if k.class == Defect {
		err = errors.AssertionFailedf(format, args...)
	} else {
		err = errors.Newf(format, args...)
	}
	return errors.Mark(err, k.marker)
}

// Mark tags an existing error as a fault of the given kind.
func Mark(err error, k *Kind) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, k.marker)
}

// Is reports whether err is a fault of the given kind, at any depth of
// wrapping.
func Is(err error, k *Kind) bool {
	return errors.Is(err, k.marker)
}

// KindOf returns the kind of err, or nil if err carries no kind mark.
func KindOf(err error) *Kind {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k.marker) {
			return k
		}
	}
	return nil
}

// ClassOf returns the class of err. Errors without a kind mark are
// treated as Recoverable: an unclassified error is, by construction,
// not something we can prove to be a bug.
func ClassOf(err error) Class {
	if k := KindOf(err); k != nil {
		return k.class
	}
	if errors.HasAssertionFailure(err) {
		return Defect
	}
	return Recoverable
}

// withSuppressed carries the secondary faults raised while a primary
// fault was already propagating. The primary remains the error chain;
// suppressed faults are reachable only through Suppressed and the
// verbose format.
type withSuppressed struct {
	cause      error
	suppressed []error
}

var _ errors.SafeFormatter = (*withSuppressed)(nil)
var _ fmt.Formatter = (*withSuppressed)(nil)

func (e *withSuppressed) Error() string { return e.cause.Error() }
func (e *withSuppressed) Cause() error  { return e.cause }
func (e *withSuppressed) Unwrap() error { return e.cause }

func (e *withSuppressed) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// SafeFormatError implements errors.SafeFormatter.
func (e *withSuppressed) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		for i, s := range e.suppressed {
			p.Printf("suppressed[%d]: %v", i, s)
		}
	}
	return e.cause
}

// Suppress attaches secondary to primary's suppressed list and returns
// the primary. If primary is nil, secondary becomes the primary. The
// suppressed list rides the outermost layer of the primary: wrapping the
// result keeps the list reachable, but Suppress never reaches into an
// existing chain to merge lists.
func Suppress(primary, secondary error) error {
	if secondary == nil {
		return primary
	}
	if primary == nil {
		return secondary
	}
	if ws, ok := primary.(*withSuppressed); ok {
		ws.suppressed = append(ws.suppressed, secondary)
		return ws
	}
	return &withSuppressed{cause: primary, suppressed: []error{secondary}}
}

// Suppressed returns the faults suppressed by err, at any depth of
// wrapping. The returned slice is in attachment order and must not be
// modified.
func Suppressed(err error) []error {
	for err != nil {
		if ws, ok := err.(*withSuppressed); ok {
			return ws.suppressed
		}
		err = errors.UnwrapOnce(err)
	}
	return nil
}

// withCause replaces a propagating fault with a new primary while
// keeping the original reachable as the cause. Unlike plain wrapping,
// kind matching on the result sees only the new primary's chain; the
// original's kind does not leak into handler selection.
type withCause struct {
	primary error
	cause   error
}

var _ errors.SafeFormatter = (*withCause)(nil)
var _ fmt.Formatter = (*withCause)(nil)

func (e *withCause) Error() string { return e.primary.Error() }
func (e *withCause) Unwrap() error { return e.primary }

func (e *withCause) Format(s fmt.State, verb rune) { errors.FormatError(e, s, verb) }

// SafeFormatError implements errors.SafeFormatter.
func (e *withCause) SafeFormatError(p errors.Printer) (next error) {
	if p.Detail() {
		p.Printf("caused by: %v", e.cause)
	}
	return e.primary
}

// WithCause records cause as the origin of err. The result matches
// kinds of err only; use CauseOf to recover the original fault.
func WithCause(err, cause error) error {
	if err == nil {
		return cause
	}
	if cause == nil {
		return err
	}
	return &withCause{primary: err, cause: cause}
}

// CauseOf returns the fault recorded as err's origin via WithCause, or
// nil.
func CauseOf(err error) error {
	for err != nil {
		if wc, ok := err.(*withCause); ok {
			return wc.cause
		}
		err = errors.UnwrapOnce(err)
	}
	return nil
}

// Redacted returns the redactable one-line rendering of err.
func Redacted(err error) redact.RedactableString {
	return redact.Sprint(err)
}
