//go:build staticdex_debug

// Package verify holds runtime contracts and differential oracles used to
// check the production code against naive reference implementations.
// Assert is only compiled in with the staticdex_debug build tag; release
// builds use the no-op in assert_release.go.
package verify

import (
	"fmt"

	"github.com/staticdex/staticdex/internal/errors"
)

// Debug reports whether Assert is active in this build.
const Debug = true

// Assert panics with an Internal/InvariantViolated error if cond is
// false. Compiled out entirely unless built with -tags staticdex_debug.
func Assert(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	panic(errors.New(errors.ErrCodeInvariantViolated, fmt.Sprintf(msg, args...), nil))
}
