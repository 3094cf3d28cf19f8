// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"fmt"
	"runtime"
)

// panicf reports a precondition violation: a caller error that the
// engine has no sane way to recover from (a degenerate shape, an index
// out of range, an unsupported shape pair), prefixed with the caller's
// file:line. Matched against raw-physics
// style "this should never happen" panics rather than returning an
// error every caller would have to check and could not act on.
func panicf(format string, args ...any) {
	if _, file, line, ok := runtime.Caller(1); ok {
		panic(fmt.Errorf("%s:%d: %s", file, line, fmt.Sprintf(format, args...)))
	}
	panic(fmt.Errorf(format, args...))
}
