package server

import (
	"github.com/lawnchairsociety/overworld/internal/snapshot"
	"github.com/lawnchairsociety/overworld/internal/terrain"
)

// Request types a client may send.
const (
	RequestChunk       = "chunk"
	RequestCell        = "cell"
	RequestSettlements = "settlements"
	RequestProperties  = "properties"
)

// Request is an inbound client message, e.g. {"type":"chunk","x":1,"y":2}.
type Request struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	// LX and LY address a cell inside the chunk for "cell" requests
	LX int `json:"lx"`
	LY int `json:"ly"`
}

// ChunkMessage carries one generated chunk as glyph rows.
type ChunkMessage struct {
	Type       string                `json:"type"`
	X          int                   `json:"x"`
	Y          int                   `json:"y"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Rows       []string              `json:"rows"`
	Settlement bool                  `json:"settlement"`
	Name       string                `json:"name,omitempty"`
	Buildings  []snapshot.BuildingV1 `json:"buildings,omitempty"`
}

// CellMessage describes a single cell.
type CellMessage struct {
	Type        string             `json:"type"`
	X           int                `json:"x"`
	Y           int                `json:"y"`
	LX          int                `json:"lx"`
	LY          int                `json:"ly"`
	Cell        string             `json:"cell"`
	Properties  terrain.Properties `json:"properties"`
	Interaction string             `json:"interaction,omitempty"`
}

// SettlementsMessage lists every settlement of the world.
type SettlementsMessage struct {
	Type        string                  `json:"type"`
	Settlements []snapshot.SettlementV1 `json:"settlements"`
}

// PropertiesMessage carries the movement properties table keyed by cell name.
type PropertiesMessage struct {
	Type       string                        `json:"type"`
	Properties map[string]terrain.Properties `json:"properties"`
}

// ErrorMessage reports a failed request. The connection stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorMessage(msg string) ErrorMessage {
	return ErrorMessage{Type: "error", Message: msg}
}
