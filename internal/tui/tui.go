// Package tui is a terminal chunk browser for a generated world.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lawnchairsociety/overworld/internal/terrain"
	"github.com/lawnchairsociety/overworld/internal/world"
)

// Model browses the chunks of a world one at a time.
type Model struct {
	world  *world.World
	coord  terrain.Coord
	chunk  *world.Chunk
	notice string
	err    error

	help       help.Model
	showLegend bool
	width      int
	height     int
}

// NewModel opens the chunk at start.
func NewModel(w *world.World, start terrain.Coord) Model {
	m := Model{world: w, help: help.New()}
	m.load(start)
	return m
}

// Coord returns the chunk being shown.
func (m Model) Coord() terrain.Coord {
	return m.coord
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.move(terrain.North)
		case key.Matches(msg, keys.Down):
			m.move(terrain.South)
		case key.Matches(msg, keys.Left):
			m.move(terrain.West)
		case key.Matches(msg, keys.Right):
			m.move(terrain.East)
		case key.Matches(msg, keys.Next):
			s, ok := m.world.NextSettlement(m.coord)
			if !ok {
				m.notice = "this world has no settlements"
				break
			}
			m.load(s.Coord)
		case key.Matches(msg, keys.Legend):
			m.showLegend = !m.showLegend
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

func (m *Model) move(d terrain.Direction) {
	next := m.coord.Step(d)
	if !m.world.InBounds(next.X, next.Y) {
		m.notice = "edge of the world"
		return
	}
	m.load(next)
}

func (m *Model) load(c terrain.Coord) {
	chunk, err := m.world.GenerateOrFetchChunk(c.X, c.Y)
	if err != nil {
		m.err = err
		return
	}
	m.coord = c
	m.chunk = chunk
	m.err = nil
}

func (m Model) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Overworld seed %d", m.world.Seed())
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.chunk != nil {
		grid := renderGrid(m.chunk.Grid)
		if m.showLegend {
			grid = lipgloss.JoinHorizontal(lipgloss.Top, grid, legendStyle.Render(renderLegend()))
		}
		b.WriteString(grid)
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(noticeStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m Model) status() string {
	parts := []string{fmt.Sprintf("chunk %s", m.coord)}
	if m.chunk != nil && m.chunk.Settlement != nil {
		s := m.chunk.Settlement
		parts = append(parts, fmt.Sprintf("%s [%s] %d buildings", s.Name, s.Symbol, len(m.chunk.Buildings())))
	} else {
		parts = append(parts, "wilderness")
	}
	stats := m.world.CacheStats()
	parts = append(parts, fmt.Sprintf("cache %d/%d", stats.Entries, stats.Capacity))
	return strings.Join(parts, " | ")
}

// renderGrid styles runs of equal cells together.
func renderGrid(g *terrain.Grid) string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < g.Height(); y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		current := g.At(0, y)
		run.Reset()
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			if c != current {
				b.WriteString(styleFor(current).Render(run.String()))
				run.Reset()
				current = c
			}
			run.WriteRune(c.Glyph())
		}
		b.WriteString(styleFor(current).Render(run.String()))
	}
	return b.String()
}

func renderLegend() string {
	var lines []string
	for _, c := range terrain.AllCells() {
		if c == terrain.Empty {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", styleFor(c).Render(string(c.Glyph())), c))
	}
	return strings.Join(lines, "\n")
}
