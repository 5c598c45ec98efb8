package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lawnchairsociety/overworld/internal/terrain"
)

var cellStyles = map[terrain.Cell]lipgloss.Style{
	terrain.Grass:          lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F")),
	terrain.Mountain:       lipgloss.NewStyle().Foreground(lipgloss.Color("#AF875F")).Bold(true),
	terrain.Water:          lipgloss.NewStyle().Foreground(lipgloss.Color("#5F87FF")),
	terrain.Tree:           lipgloss.NewStyle().Foreground(lipgloss.Color("#008700")),
	terrain.LargeTree:      lipgloss.NewStyle().Foreground(lipgloss.Color("#005F00")).Bold(true),
	terrain.Road:           lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
	terrain.SettlementWall: lipgloss.NewStyle().Foreground(lipgloss.Color("#D7AF87")).Bold(true),
	terrain.SettlementGate: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	terrain.BuildingWall:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D0D0D0")),
	terrain.BuildingGate:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
	terrain.DeliveryPoint:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
	terrain.PickupPoint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#AF5FFF")).Bold(true),
	terrain.RestPoint:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7D7")).Bold(true),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			Foreground(lipgloss.Color("#AAAAAA"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8787")).
			Italic(true)

	legendStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2)
)

func styleFor(c terrain.Cell) lipgloss.Style {
	if s, ok := cellStyles[c]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
