// Package testjson decodes go test -json NDJSON streams and translates
// them into run lifecycle events.
package testjson

import "time"

// TestEvent is a single event from go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"` // start, run, pass, fail, skip, output, bench, pause, cont
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// ProcessFunc receives each decoded event in stream order.
type ProcessFunc func(TestEvent)
