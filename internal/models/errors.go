package models

import "fmt"

// InvalidInputError indicates a malformed or unsupported URL.
type InvalidInputError struct {
	URL    string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid URL %s: %s", e.URL, e.Reason)
	}
	return fmt.Sprintf("invalid URL: %s", e.URL)
}

// FetchError indicates a network failure, timeout, or non-2xx response while
// fetching a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError indicates both extraction strategies failed for a URL.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract content from %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// EmptyContentError indicates the chunker produced zero chunks for a source.
// It aborts indexing for that source only, never the whole batch.
type EmptyContentError struct {
	URL string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("no content could be extracted from %s", e.URL)
}

// CompletionError indicates an answer-generation transport failure. Callers
// convert it into a fixed apology rather than surfacing it.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion via %s failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
