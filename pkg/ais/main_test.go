package ais

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutines leak across the package's tests
func TestMain(m *testing.M) {
	// Ignore HTTP transport goroutines from keep-alive connections
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
