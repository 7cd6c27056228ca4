// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// FetchError wraps a failure reaching or parsing the PubMed API.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// PersistError wraps a failure reaching or writing the snapshot store.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "persist: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// PipelineError wraps a fatal invariant violation inside the pipeline
// itself, such as an existing snapshot that no longer parses.
type PipelineError struct {
	Err error
}

func (e *PipelineError) Error() string { return "pipeline: " + e.Err.Error() }
func (e *PipelineError) Unwrap() error { return e.Err }
