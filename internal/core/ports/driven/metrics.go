package driven

// MetricsRecorder counts synchronization outcomes. It is externally
// owned and optional; implementations must be safe for concurrent
// increment because a host process may run several synchronization
// runs in parallel, even though one run only ever writes from its
// single synchronization goroutine.
type MetricsRecorder interface {
	// RunStarted counts the start of a synchronization run.
	RunStarted()

	// RunSucceeded counts a completed run and its task count.
	RunSucceeded(taskCount int)

	// RunFailed counts an aborted run.
	RunFailed()

	// WarningEmitted counts a non-fatal outcome by kind
	// (e.g. "empty_pattern_filter", "duplicate_signal",
	// "cardinality_mismatch").
	WarningEmitted(kind string)
}
