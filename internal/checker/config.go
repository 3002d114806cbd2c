package checker

import "time"

// Config holds configuration for a checker run.
type Config struct {
	BaseURL    string        // Base URL of the service
	View       string        // View to check
	Level      string        // Level for level-scoped views; empty keeps the default
	Tournament int           // Tournament id for tournament-players
	Workers    int           // Concurrent page fetches
	Timeout    time.Duration // HTTP request timeout
	Verbose    bool          // Log every page
}

// Check is the outcome of one property check.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Report summarises a checker run.
type Report struct {
	View          string
	Pages         int
	Rows          int
	TotalFiltered int
	Checks        []Check
	Duration      time.Duration
}

// Failed counts the checks that did not pass.
func (r Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed {
			n++
		}
	}
	return n
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}
