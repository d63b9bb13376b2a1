// Package runner executes benchmark entry points as isolated child
// processes and collects wall-clock timing samples.
//
// Every invocation is a fresh child process bound to one side's
// interpreter. The two sides never share a process, so no in-process
// state can leak between them regardless of what they do at import
// time.
package runner

// RunResult is one timed execution attempt of one entry point: elapsed
// wall-clock seconds on success, or a failure marker with the child's
// captured output.
type RunResult struct {
	Elapsed float64 `json:"elapsed_s"`
	OK      bool    `json:"ok"`
	Error   string  `json:"error,omitempty"`
}
