package pipeline

// Stage is a step of the single forward pass run for an upload.
type Stage int

// Pipeline stages, in execution order.
const (
	Idle Stage = iota
	Persisting
	Transcribing
	Reading
	HasText
	Summarizing
	ExtractingKeywords
	Complete
)

var stageNames = [...]string{
	Idle:               "idle",
	Persisting:         "persisting",
	Transcribing:       "transcribing",
	Reading:            "reading",
	HasText:            "has-text",
	Summarizing:        "summarizing",
	ExtractingKeywords: "extracting-keywords",
	Complete:           "complete",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Busy returns the progress message shown while the stage runs.
// Empty for stages that are not worth a busy indicator.
func (s Stage) Busy() string {
	switch s {
	case Persisting:
		return "Saving upload..."
	case Transcribing:
		return "Processing audio transcription..."
	case Reading:
		return "Reading text file..."
	case Summarizing:
		return "Generating summary..."
	case ExtractingKeywords:
		return "Extracting keywords..."
	}
	return ""
}
