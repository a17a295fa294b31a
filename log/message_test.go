package log

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestInfoMessageString(t *testing.T) {
	msg := InfoMessage{Operation: "retrieve", Destination: "/out/f.dat", Server: "ngas1", Tries: 2}
	assert.Equal(t, "retrieve /out/f.dat <- ngas1 (2 tries)", msg.String())
}

func TestInfoMessageJSON(t *testing.T) {
	msg := InfoMessage{Operation: "retrieve", Destination: "/out/f.dat", Server: "ngas1", Tries: 1}
	j := msg.JSON()
	assert.Assert(t, strings.Contains(j, `"operation":"retrieve"`))
	assert.Assert(t, strings.Contains(j, `"tries":1`))
}

func TestErrorMessageStringWithoutOperation(t *testing.T) {
	msg := ErrorMessage{Err: "boom"}
	assert.Equal(t, "boom", msg.String())
}

func TestErrorMessageStringWithOperation(t *testing.T) {
	msg := ErrorMessage{Operation: "retrieve", Err: "boom"}
	assert.Equal(t, "retrieve: boom", msg.String())
}

func TestDebugMessageString(t *testing.T) {
	msg := DebugMessage{Operation: "stream-fetch", Detail: "dry run"}
	assert.Equal(t, "stream-fetch: dry run", msg.String())
}
