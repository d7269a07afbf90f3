//go:build !backend_stdlib && !backend_echo

package httpapi

// Building without selecting a backend is a configuration error: exactly
// one HttpBackend implementation must be compiled in via
// -tags backend_stdlib or -tags backend_echo.
const _ = "hegelpm: select a backend with -tags backend_stdlib or -tags backend_echo"

var invalidBuildConfiguration_noBackendSelected uint = -1
