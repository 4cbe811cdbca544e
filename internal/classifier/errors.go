package classifier

import "fmt"

// Failure stages, in pipeline order.
const (
	StageModel    = "model"    // the completion call itself failed
	StageExtract  = "extract"  // no text could be pulled from the response
	StageParse    = "parse"    // the text was not valid JSON
	StageValidate = "validate" // the JSON was missing fields or out of contract
)

// ClassificationError tags a per-post failure with the stage it occurred
// in and keeps the offending model output for diagnostics.
type ClassificationError struct {
	Stage   string
	RawText string
	Err     error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classification failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("classification failed at %s", e.Stage)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

func failure(stage, rawText string, err error) *ClassificationError {
	return &ClassificationError{Stage: stage, RawText: rawText, Err: err}
}
