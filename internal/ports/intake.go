package ports

// Intake defines a long-running source of evidence to triage
type Intake interface {
	// Start starts accepting evidence
	Start() error

	// Stop stops accepting evidence
	Stop() error
}

// ReportSink stores rendered reports
type ReportSink interface {
	// Save stores a PDF report and returns where it was written
	Save(name string, pdf []byte) (string, error)
}
