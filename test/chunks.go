package test

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// =============================================================================
// Group 1: Chunks
// =============================================================================

// TestChunkShape checks the origin chunk has the advertised dimensions
func TestChunkShape(serverAddr string) TestResult {
	const testName = "Chunk Shape"

	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	logAction(testName, "Requesting chunk (0,0)")
	chunk, err := fetchChunk(client, 0, 0)
	if err != nil {
		return fail(testName, "Chunk request failed: %v", err)
	}

	if len(chunk.Rows) != chunk.Height {
		return fail(testName, "Got %d rows for a chunk of height %d", len(chunk.Rows), chunk.Height)
	}
	for y, row := range chunk.Rows {
		if n := utf8.RuneCountInString(row); n != chunk.Width {
			return fail(testName, "Row %d has %d cells, want %d", y, n, chunk.Width)
		}
	}
	logResult(testName, true, fmt.Sprintf("%dx%d chunk", chunk.Width, chunk.Height))

	return pass(testName, "Chunk (0,0) is %dx%d", chunk.Width, chunk.Height)
}

// TestChunkDeterminism checks two clients see identical cells for a chunk,
// whether it comes from the cache or is generated again.
func TestChunkDeterminism(serverAddr string) TestResult {
	const testName = "Chunk Determinism"

	first, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer first.Close()

	second, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer second.Close()

	logAction(testName, "Requesting chunk (1,2) from both clients")
	a, err := fetchChunk(first, 1, 2)
	if err != nil {
		return fail(testName, "First request failed: %v", err)
	}
	b, err := fetchChunk(second, 1, 2)
	if err != nil {
		return fail(testName, "Second request failed: %v", err)
	}

	if strings.Join(a.Rows, "\n") != strings.Join(b.Rows, "\n") {
		return fail(testName, "Clients received different cells for chunk (1,2)")
	}
	logResult(testName, true, "rows identical")

	return pass(testName, "Both clients received identical cells")
}

// TestConcurrentClients hammers a handful of chunks from several clients at once
func TestConcurrentClients(serverAddr string) TestResult {
	const testName = "Concurrent Clients"
	const clients = 3

	var wg sync.WaitGroup
	rows := make([]string, clients)
	errs := make([]error, clients)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client, failed := connect(testName, serverAddr)
			if failed != nil {
				errs[i] = fmt.Errorf("%s", failed.Message)
				return
			}
			defer client.Close()

			var all []string
			for x := 0; x < 3; x++ {
				chunk, err := fetchChunk(client, x, 0)
				if err != nil {
					errs[i] = err
					return
				}
				all = append(all, chunk.Rows...)
			}
			rows[i] = strings.Join(all, "\n")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fail(testName, "Client %d failed: %v", i, err)
		}
		if rows[i] != rows[0] {
			return fail(testName, "Client %d saw different cells than client 0", i)
		}
	}

	return pass(testName, "%d clients received identical chunks", clients)
}
