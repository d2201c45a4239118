//go:build !staticdex_debug

package verify

// Debug reports whether Assert is active in this build.
const Debug = false

// Assert is a no-op in release builds. cond is still evaluated by the
// caller before this call, so it must never carry side effects relied on
// elsewhere.
func Assert(cond bool, msg string, args ...any) {}
