package entity

// SummaryResult is the only externally observable output of the pipeline.
// Summary is never empty and never longer than the display cap.
type SummaryResult struct {
	Summary         string
	UsedRemoteModel bool
	OGImage         string

	// Stage names the pipeline state that produced the result. Diagnostic only.
	Stage string
}
