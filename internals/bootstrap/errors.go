package bootstrap

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what went wrong in a stage
type ErrorKind int

const (
	// KindNetwork is a failed or timed out remote request
	KindNetwork ErrorKind = iota
	// KindFilesystem is a failed local disk operation
	KindFilesystem
	// KindData is a malformed or incomplete descriptor / index
	KindData
	// KindVerification is a hash mismatch that survived all retries
	KindVerification
	// KindExternalTool is an installer that failed under every mode
	KindExternalTool
	// KindConfiguration is a missing prerequisite (java, account, …)
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindFilesystem:
		return "filesystem"
	case KindData:
		return "data"
	case KindVerification:
		return "verification"
	case KindExternalTool:
		return "external-tool"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// StageError is the error type every stage failure is reported as. It
// carries the stage it happened in, a classification and an optional
// remediation hint for the user
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	// Hint tells the user what they can do about it. may be empty
	Hint string
	Err  error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s (%s): %v", e.Stage, e.Kind, e.Err)
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// fail wraps err into a StageError unless it already is one
func fail(stage Stage, kind ErrorKind, hint string, err error) *StageError {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr
	}
	return &StageError{Stage: stage, Kind: kind, Hint: hint, Err: err}
}
