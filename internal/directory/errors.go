package directory

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Kind tells callers how a failed operation should be reported.
type Kind int

const (
	// KindNone marks a successful outcome.
	KindNone Kind = iota
	// KindNotFound means the referenced entity does not exist.
	KindNotFound
	// KindConstraintViolation means the write broke a uniqueness, foreign
	// key or required-field rule.
	KindConstraintViolation
	// KindTransientFailure covers storage unavailability and everything
	// the store did not explain.
	KindTransientFailure
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindConstraintViolation:
		return "constraint_violation"
	case KindTransientFailure:
		return "transient_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrNotFound            = errors.New("entity not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrTransientFailure    = errors.New("transient storage failure")
)

// Error is the typed failure returned by the query and mutation services.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an *Error against the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrConstraintViolation:
		return e.Kind == KindConstraintViolation
	case ErrTransientFailure:
		return e.Kind == KindTransientFailure
	}
	return false
}

func NotFound(op string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

func ConstraintViolation(op string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConstraintViolation, Op: op, Err: fmt.Errorf(format, args...)}
}

// Classify maps a storage error onto a Kind. Errors that are already
// classified keep their kind.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var de *Error
	if errors.As(err, &de) {
		return de
	}

	return &Error{Kind: kindOf(err), Op: op, Err: err}
}

// KindOf returns the kind carried by err, or KindNone for a nil error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return kindOf(err)
}

func kindOf(err error) Kind {
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}

	// class 23 covers unique, foreign key, not null and check violations
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return KindConstraintViolation
	}

	// sqlite reports "UNIQUE constraint failed", "FOREIGN KEY constraint failed", ...
	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return KindConstraintViolation
	}

	return KindTransientFailure
}
