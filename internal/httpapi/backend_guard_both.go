//go:build backend_stdlib && backend_echo

package httpapi

// Selecting both backend_stdlib and backend_echo build tags at once is a
// configuration error: exactly one HttpBackend implementation may be
// compiled into a binary. This file exists solely to fail the build with a
// clear message instead of a silent duplicate-symbol error.
const _ = "hegelpm: specify exactly one of -tags backend_stdlib OR -tags backend_echo, not both"

var invalidBuildConfiguration_bothBackendsSelected uint = -1
