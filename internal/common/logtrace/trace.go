package logtrace

// IsTraceEnabled reports whether route tracing is on. Kept as a build
// switch rather than config so tracing never leaks into deployments.
func IsTraceEnabled() bool {
	return false
}
