package types

import "fmt"

// ConfigurationError reports a precondition the core cannot recover from:
// no active document, missing credentials, or an unavailable vector index.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NoDocumentsError signals an empty retrieval or upload set. It is always
// recoverable: executors record it in the request state and the pipeline
// still produces a readable result.
type NoDocumentsError struct {
	Operation string
}

func (e *NoDocumentsError) Error() string {
	return fmt.Sprintf("no documents provided for %s", e.Operation)
}

// LLMInvocationError wraps a failed language-model call. It is recorded in
// the request state verbatim and never retried.
type LLMInvocationError struct {
	Err error
}

func (e *LLMInvocationError) Error() string {
	return "llm invocation failed: " + e.Err.Error()
}

func (e *LLMInvocationError) Unwrap() error { return e.Err }

// RerankerUnavailableError wraps a failed cross-encoder call. Callers must
// degrade to the pre-rerank candidate order and log it; it is never
// surfaced to the end user.
type RerankerUnavailableError struct {
	Err error
}

func (e *RerankerUnavailableError) Error() string {
	return "reranker unavailable: " + e.Err.Error()
}

func (e *RerankerUnavailableError) Unwrap() error { return e.Err }
