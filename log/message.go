package log

import (
	"encoding/json"
	"fmt"
)

// Message is the interface all log payloads satisfy: a human-readable line
// and a JSON encoding, selected by the --json flag.
type Message interface {
	fmt.Stringer
	JSON() string
}

func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(b)
}

// InfoMessage reports a successfully retrieved file.
type InfoMessage struct {
	Operation   string `json:"operation"`
	Destination string `json:"destination"`
	Server      string `json:"server"`
	Tries       int    `json:"tries"`
}

func (i InfoMessage) String() string {
	return fmt.Sprintf("%s %s <- %s (%d tries)", i.Operation, i.Destination, i.Server, i.Tries)
}

func (i InfoMessage) JSON() string { return toJSON(i) }

// ErrorMessage reports a fatal failure, already cleaned up to a single
// line by the caller.
type ErrorMessage struct {
	Operation string `json:"operation,omitempty"`
	Err       string `json:"error"`
}

func (e ErrorMessage) String() string {
	if e.Operation == "" {
		return e.Err
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Err)
}

func (e ErrorMessage) JSON() string { return toJSON(e) }

// DebugMessage carries low-level trace detail, e.g. retry counts and
// fetch-attempted flags, visible only with --verbose.
type DebugMessage struct {
	Operation string `json:"operation,omitempty"`
	Detail    string `json:"detail"`
}

func (d DebugMessage) String() string {
	if d.Operation == "" {
		return d.Detail
	}
	return fmt.Sprintf("%s: %s", d.Operation, d.Detail)
}

func (d DebugMessage) JSON() string { return toJSON(d) }
