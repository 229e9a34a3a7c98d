package engine

import "time"

// TaskError is one recorded per-file fault.
type TaskError struct {
	File    string `json:"file"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// Summary aggregates the outcome of a single Run or RunByName call.
// Files that load but do not define a handle appear in no list, so the
// three counts need not add up to the number of files scanned.
type Summary struct {
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
	Executed   []string    `json:"executed"`
	Skipped    []string    `json:"skipped"`
	Errors     []TaskError `json:"errors"`
}

func newSummary() *Summary {
	return &Summary{StartedAt: time.Now()}
}

// Success reports whether the run finished without a single fault.
// Skipped files do not count against success.
func (s *Summary) Success() bool {
	return len(s.Errors) == 0
}

func (s *Summary) addExecuted(file string) {
	s.Executed = append(s.Executed, file)
}

func (s *Summary) addSkipped(file string) {
	s.Skipped = append(s.Skipped, file)
}

func (s *Summary) addError(file string, err error, line int) {
	s.Errors = append(s.Errors, TaskError{File: file, Message: err.Error(), Line: line})
}
