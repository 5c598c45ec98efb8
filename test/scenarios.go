// Package test holds integration scenarios run by cmd/testrunner against a
// live chunk service.
package test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lawnchairsociety/overworld/internal/server"
	"github.com/lawnchairsociety/overworld/internal/testclient"
)

// replyTimeout bounds every request; generating a chunk is well under it
const replyTimeout = 3 * time.Second

// uniqueCounter provides unique client names within a single run
var uniqueCounter uint64

func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// connect opens a client or returns a failed result
func connect(testName, serverAddr string) (*testclient.TestClient, *TestResult) {
	name := uniqueName("client")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		r := fail(testName, "Failed to connect: %v", err)
		return nil, &r
	}
	return client, nil
}

// fetchChunk requests and decodes one chunk
func fetchChunk(client *testclient.TestClient, x, y int) (server.ChunkMessage, error) {
	var chunk server.ChunkMessage
	msg, err := client.Request(server.Request{Type: server.RequestChunk, X: x, Y: y}, replyTimeout)
	if err != nil {
		return chunk, err
	}
	if msg.Type != server.RequestChunk {
		return chunk, fmt.Errorf("got %s reply: %s", msg.Type, msg.Raw)
	}
	err = msg.Decode(&chunk)
	return chunk, err
}

// fetchSettlements requests and decodes the settlement list
func fetchSettlements(client *testclient.TestClient) (server.SettlementsMessage, error) {
	var list server.SettlementsMessage
	msg, err := client.Request(server.Request{Type: server.RequestSettlements}, replyTimeout)
	if err != nil {
		return list, err
	}
	if msg.Type != server.RequestSettlements {
		return list, fmt.Errorf("got %s reply: %s", msg.Type, msg.Raw)
	}
	err = msg.Decode(&list)
	return list, err
}

// =============================================================================
// Test Runner
// =============================================================================

// RunAllTests runs all integration tests
func RunAllTests(serverAddr string) []TestResult {
	results := make([]TestResult, 0)

	// Group 1: Chunks
	results = append(results, TestChunkShape(serverAddr))
	results = append(results, TestChunkDeterminism(serverAddr))
	results = append(results, TestConcurrentClients(serverAddr))

	// Group 2: Settlements
	results = append(results, TestSettlementList(serverAddr))
	results = append(results, TestSettlementChunk(serverAddr))
	results = append(results, TestInteractionPoints(serverAddr))
	results = append(results, TestPropertiesTable(serverAddr))

	// Group 3: Errors
	results = append(results, TestOutOfBounds(serverAddr))
	results = append(results, TestUnknownRequest(serverAddr))
	results = append(results, TestMalformedRequest(serverAddr))

	return results
}

// PrintResults prints a summary of test results
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
