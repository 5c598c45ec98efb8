package test

import (
	"fmt"

	"github.com/lawnchairsociety/overworld/internal/server"
)

// =============================================================================
// Group 2: Settlements
// =============================================================================

// TestSettlementList checks the world advertises at least one settlement
func TestSettlementList(serverAddr string) TestResult {
	const testName = "Settlement List"

	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	list, err := fetchSettlements(client)
	if err != nil {
		return fail(testName, "Settlements request failed: %v", err)
	}
	if len(list.Settlements) == 0 {
		return fail(testName, "World has no settlements")
	}

	seen := make(map[[2]int]bool)
	for _, s := range list.Settlements {
		key := [2]int{s.X, s.Y}
		if seen[key] {
			return fail(testName, "Two settlements share chunk (%d,%d)", s.X, s.Y)
		}
		seen[key] = true
		logAction(testName, fmt.Sprintf("%s [%s] at (%d,%d)", s.Name, s.Symbol, s.X, s.Y))
	}

	return pass(testName, "%d settlements, first is %s", len(list.Settlements), list.Settlements[0].Name)
}

// TestSettlementChunk checks the first settlement's chunk carries its buildings
func TestSettlementChunk(serverAddr string) TestResult {
	const testName = "Settlement Chunk"

	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	list, err := fetchSettlements(client)
	if err != nil || len(list.Settlements) == 0 {
		return fail(testName, "No settlement to inspect: %v", err)
	}
	home := list.Settlements[0]

	chunk, err := fetchChunk(client, home.X, home.Y)
	if err != nil {
		return fail(testName, "Chunk request failed: %v", err)
	}
	if !chunk.Settlement || chunk.Name != home.Name {
		return fail(testName, "Chunk (%d,%d) is not marked as %s", home.X, home.Y, home.Name)
	}
	if len(chunk.Buildings) != len(home.Archetypes) {
		return fail(testName, "Got %d buildings, plan has %d", len(chunk.Buildings), len(home.Archetypes))
	}
	logResult(testName, true, fmt.Sprintf("%d buildings", len(chunk.Buildings)))

	return pass(testName, "%s has %d buildings", home.Name, len(chunk.Buildings))
}

// TestInteractionPoints checks every advertised point reports its kind
func TestInteractionPoints(serverAddr string) TestResult {
	const testName = "Interaction Points"

	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	list, err := fetchSettlements(client)
	if err != nil || len(list.Settlements) == 0 {
		return fail(testName, "No settlement to inspect: %v", err)
	}
	home := list.Settlements[0]

	chunk, err := fetchChunk(client, home.X, home.Y)
	if err != nil {
		return fail(testName, "Chunk request failed: %v", err)
	}

	checked := 0
	for _, b := range chunk.Buildings {
		for kind, points := range b.Points {
			for _, p := range points {
				msg, err := client.Request(server.Request{
					Type: server.RequestCell, X: home.X, Y: home.Y, LX: p[0], LY: p[1],
				}, replyTimeout)
				if err != nil {
					return fail(testName, "Cell request failed: %v", err)
				}
				var cell server.CellMessage
				if err := msg.Decode(&cell); err != nil {
					return fail(testName, "Bad cell reply: %v", err)
				}
				if cell.Interaction != kind {
					return fail(testName, "%s point at (%d,%d) reports %q", kind, p[0], p[1], cell.Interaction)
				}
				checked++
			}
		}
	}
	if checked == 0 {
		return fail(testName, "%s has no interaction points", home.Name)
	}

	return pass(testName, "Checked %d interaction points", checked)
}

// TestPropertiesTable checks the movement table covers water and roads
func TestPropertiesTable(serverAddr string) TestResult {
	const testName = "Properties Table"

	client, failed := connect(testName, serverAddr)
	if failed != nil {
		return *failed
	}
	defer client.Close()

	msg, err := client.Request(server.Request{Type: server.RequestProperties}, replyTimeout)
	if err != nil {
		return fail(testName, "Properties request failed: %v", err)
	}
	var table server.PropertiesMessage
	if err := msg.Decode(&table); err != nil {
		return fail(testName, "Bad properties reply: %v", err)
	}

	if water, ok := table.Properties["water"]; !ok || water.Passable {
		return fail(testName, "Water missing or passable: %+v", water)
	}
	if road, ok := table.Properties["road"]; !ok || !road.Passable {
		return fail(testName, "Road missing or impassable: %+v", road)
	}

	return pass(testName, "%d cell categories", len(table.Properties))
}
