package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/asimos-bot/software-watermark/pkg/watermark"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle       = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// nodeHeaders are the columns of every node table.
var nodeHeaders = []string{"Node", "Parity", "Bit", "Edge", "State"}

// nodeRow formats one node state as table cells.
func nodeRow(s watermark.NodeState) []string {
	bit := "·"
	if s.Bit >= 0 {
		bit = strconv.Itoa(s.Bit)
	}
	edge := "·"
	switch {
	case s.Target < 0:
	case s.Target < s.Node:
		edge = iconBack + " " + strconv.Itoa(s.Target)
	default:
		edge = iconArrow + " " + strconv.Itoa(s.Target)
	}
	state := "inner"
	switch {
	case !s.Pushed:
		state = "spliced"
	case s.Outer:
		state = "outer"
	}
	return []string{strconv.Itoa(s.Node), s.Parity, bit, edge, state}
}

// nodeTable renders states as a bordered table. cursor highlights one row;
// pass -1 for none.
func nodeTable(states []watermark.NodeState, cursor int) string {
	rows := make([][]string, len(states))
	for i, s := range states {
		rows[i] = nodeRow(s)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(nodeHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == cursor {
				return base.Inherit(listSelectedStyle)
			}
			if row < len(states) && !states[row].Outer {
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing the node states of a
// decoded watermark graph.
type NodeListModel struct {
	States []watermark.NodeState
	Cursor int
	Height int
	Offset int
}

// NewNodeListModel creates a new node list model.
func NewNodeListModel(states []watermark.NodeState) NodeListModel {
	return NodeListModel{States: states, Height: 15}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.States)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor, m.Offset = 0, 0
		case "G", "end":
			m.Cursor = len(m.States) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watermark Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.States))
	b.WriteString(nodeTable(m.States[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")

	if m.Cursor < len(m.States) {
		b.WriteString(describeNode(m.States[m.Cursor]))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.States))))
	return b.String()
}

// describeNode explains one node state in a sentence.
func describeNode(s watermark.NodeState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Node %d sits at an %s position", s.Node, s.Parity)
	switch {
	case s.Target < 0:
		b.WriteString(" with only its path edge")
	case s.Target < s.Node:
		fmt.Fprintf(&b, " with a backedge to %d (distance %d)", s.Target, s.Node-s.Target)
	default:
		fmt.Fprintf(&b, " with a forward edge to %d", s.Target)
	}
	if s.Bit >= 0 {
		fmt.Fprintf(&b, ", carries bit %d", s.Bit)
	} else {
		b.WriteString(", carries no bit")
	}
	switch {
	case !s.Pushed:
		b.WriteString(" and sits inside a forward splice.")
	case s.Outer:
		b.WriteString(" and can still be claimed.")
	default:
		b.WriteString(" and is inner.")
	}
	return listSelectedStyle.Render(b.String())
}
