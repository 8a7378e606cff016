package domain

// SyncReport is the structured result of one synchronization cycle.
type SyncReport struct {
	// CycleID uniquely identifies the cycle in logs and traces.
	CycleID string

	// Changed is false when the freshly extracted schema matched the
	// last committed fingerprint and the cycle short-circuited.
	Changed bool

	// FilesWritten is the number of artifacts committed to the output
	// directory during this cycle.
	FilesWritten int

	// Fingerprint of the extracted schema, when extraction succeeded.
	Fingerprint Fingerprint

	// FailedState names the orchestrator state in which the cycle
	// failed; empty on success.
	FailedState string

	// Results holds the per-generator outcomes of the cycle.
	Results []GenerationResult
}
