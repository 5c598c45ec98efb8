package test

import (
	"github.com/lawnchairsociety/overworld/internal/server"
)

// =============================================================================
// Group 3: Errors
// =============================================================================

// expectError sends a raw message and checks for an error reply followed by
// a working connection.
func expectError(testName, serverAddr, raw string) TestResult {
	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	logAction(testName, "Sending "+raw)
	msg, err := client.RequestRaw(raw, replyTimeout)
	if err != nil {
		return fail(testName, "No reply: %v", err)
	}
	if msg.Type != "error" {
		return fail(testName, "Expected error reply, got %s", msg.Type)
	}
	var e server.ErrorMessage
	if err := msg.Decode(&e); err != nil {
		return fail(testName, "Bad error reply: %v", err)
	}
	logResult(testName, true, e.Message)

	if _, err := fetchChunk(client, 0, 0); err != nil {
		return fail(testName, "Connection unusable after error: %v", err)
	}

	return pass(testName, "Server replied %q and kept the connection", e.Message)
}

// TestOutOfBounds requests a chunk far outside the world
func TestOutOfBounds(serverAddr string) TestResult {
	return expectError("Out Of Bounds", serverAddr, `{"type":"chunk","x":-1,"y":100000}`)
}

// TestUnknownRequest sends a request type the server doesn't know
func TestUnknownRequest(serverAddr string) TestResult {
	return expectError("Unknown Request", serverAddr, `{"type":"teleport"}`)
}

// TestMalformedRequest sends invalid JSON
func TestMalformedRequest(serverAddr string) TestResult {
	return expectError("Malformed Request", serverAddr, `{"type":`)
}
