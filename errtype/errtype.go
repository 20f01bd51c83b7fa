// Package errtype defines the error taxonomy shared across every dalign
// component. Workers classify a failure against one of the sentinels here so
// that a cmd/ wrapper can pick the right exit code without inspecting error
// strings.
package errtype

import (
	"errors"
)

// Category sentinels. Wrap one of these with github.com/grailbio/base/errors
// (errors.E(CorruptFile, "path", p, err)) to attach context while keeping
// errors.Is(err, CorruptFile) working.
var (
	// UserError covers bad flags, missing files, out-of-range arguments.
	UserError = errors.New("user error")
	// CorruptFile covers inconsistent headers, trace-sum mismatches, bad
	// record sizes.
	CorruptFile = errors.New("corrupt file")
	// ResourceExhausted covers allocation failure or a fixed buffer that
	// cannot grow further.
	ResourceExhausted = errors.New("resource exhausted")
	// LogicViolation covers an internal invariant check that failed (e.g.
	// a duplicate record under the I5 sort-key uniqueness rule).
	LogicViolation = errors.New("logic violation")
	// SystemError covers a syscall returning a short count or failing
	// outright.
	SystemError = errors.New("system error")

	// AlignmentTooDivergent is returned by the wavefront aligner when no
	// trim point ever reaches the minimum average-correlation score; the
	// caller must treat this as "no overlap", not a fatal condition.
	AlignmentTooDivergent = errors.New("alignment too divergent")
)

// ExitCode maps an error produced anywhere in the pipeline to the process
// exit code spec'd for the CLI surface: 0 success, 1 user/corrupt/resource/
// logic errors, 2 system errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, SystemError) {
		return 2
	}
	return 1
}
