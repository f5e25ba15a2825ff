package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ChallenHB/mill/internal/target"
)

// PlanError represents a definition-time error detected before any
// evaluation starts. Definition-time errors abort the whole run.
type PlanError struct {
	// Code identifies the error category.
	Code PlanErrorCode

	// Message is a human-readable description.
	Message string

	// Identity names the offending target.
	Identity target.Identity

	// Cycle holds one walk of the dependency cycle (for cycle errors),
	// starting and ending at the same identity.
	Cycle []target.Identity
}

// PlanErrorCode categorizes definition-time errors.
type PlanErrorCode string

const (
	// ErrCodeCycleDetected indicates the graph depends on itself.
	ErrCodeCycleDetected PlanErrorCode = "CYCLE_DETECTED"

	// ErrCodeDuplicateIdentity indicates two distinct targets share an identity.
	ErrCodeDuplicateIdentity PlanErrorCode = "DUPLICATE_IDENTITY"
)

// Error implements the error interface.
func (e *PlanError) Error() string {
	if len(e.Cycle) > 0 {
		parts := make([]string, len(e.Cycle))
		for i, id := range e.Cycle {
			parts[i] = id.String()
		}
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, " -> "))
	}
	return fmt.Sprintf("%s: %s (target=%s)", e.Code, e.Message, e.Identity)
}

// NewCycleError creates a PlanError for a dependency cycle. cycle must
// contain at least one identity on the cycle.
func NewCycleError(cycle []target.Identity) *PlanError {
	var id target.Identity
	if len(cycle) > 0 {
		id = cycle[0]
	}
	return &PlanError{
		Code:     ErrCodeCycleDetected,
		Message:  "target depends on itself",
		Identity: id,
		Cycle:    cycle,
	}
}

// NewDuplicateIdentityError creates a PlanError for two distinct
// targets sharing one identity.
func NewDuplicateIdentityError(id target.Identity) *PlanError {
	return &PlanError{
		Code:     ErrCodeDuplicateIdentity,
		Message:  "distinct targets share an identity",
		Identity: id,
	}
}

// IsCycleError reports whether err is a cycle detection error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeCycleDetected
	}
	return false
}

// IsDuplicateIdentityError reports whether err is a duplicate identity error.
func IsDuplicateIdentityError(err error) bool {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeDuplicateIdentity
	}
	return false
}

// TargetError records the direct failure of one target's evaluation.
// The target is not retried; its previous cache entry, if any, is
// left untouched.
type TargetError struct {
	Identity target.Identity
	Err      error
}

// Error implements the error interface.
func (e *TargetError) Error() string {
	return fmt.Sprintf("target %s failed: %v", e.Identity, e.Err)
}

// Unwrap returns the underlying evaluation error.
func (e *TargetError) Unwrap() error { return e.Err }

// BlockedError marks a target that was never run because a transitive
// input failed. Distinct from TargetError so callers can separate root
// cause from fallout.
type BlockedError struct {
	Identity target.Identity
	// Cause is the identity of the upstream target whose direct
	// failure blocked this one.
	Cause target.Identity
}

// Error implements the error interface.
func (e *BlockedError) Error() string {
	return fmt.Sprintf("target %s blocked by failed dependency %s", e.Identity, e.Cause)
}

// IsBlocked reports whether err marks a dependency-blocked target.
func IsBlocked(err error) bool {
	var be *BlockedError
	return errors.As(err, &be)
}
