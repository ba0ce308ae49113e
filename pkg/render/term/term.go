// Package term renders worlds to an ANSI terminal using lipgloss.
package term

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/go-frost/frost/pkg/core"
	"github.com/go-frost/frost/pkg/elements"
	"github.com/go-frost/frost/pkg/render"
)

// Backend is a render.Backend that draws the full tree to a terminal on
// every committed frame. It repaints the whole viewport; per-cell damage
// tracking is not worth it at board sizes.
type Backend struct {
	out      io.Writer
	root     *core.HostNode
	viewport render.Viewport
	theme    Theme
	lastDraw string
}

// Theme holds the colors and borders for element rendering.
type Theme struct {
	CardBorder lipgloss.Border
	CardTitle  lipgloss.Style
	Button     lipgloss.Style
	Disabled   lipgloss.Style
	InputLabel lipgloss.Style
}

// DefaultTheme returns the standard look.
func DefaultTheme() Theme {
	return Theme{
		CardBorder: lipgloss.RoundedBorder(),
		CardTitle:  lipgloss.NewStyle().Bold(true),
		Button:     lipgloss.NewStyle().Reverse(true).Padding(0, 1),
		Disabled:   lipgloss.NewStyle().Faint(true).Padding(0, 1),
		InputLabel: lipgloss.NewStyle().Faint(true),
	}
}

// New creates a terminal backend writing to out. Pass os.Stdout for
// interactive programs.
func New(out io.Writer) *Backend {
	return &Backend{out: out, theme: DefaultTheme()}
}

// DetectViewport returns the terminal size of stdout, or the fallback
// when stdout is not a terminal.
func DetectViewport(fallback render.Viewport) render.Viewport {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return fallback
	}
	return render.Viewport{Width: width, Height: height}
}

// BeginFrame resets per-frame state.
func (b *Backend) BeginFrame(viewport render.Viewport) {
	b.viewport = viewport
	b.root = nil
}

// PaintHost records the host to draw. Repaints are always drawn from the
// outermost dirty host's root, so only the tree root is kept.
func (b *Backend) PaintHost(host *core.HostNode) error {
	if b.root == nil {
		b.root = rootHost(host)
	}
	return nil
}

// EndFrame composes the frame and writes it, skipping the write when the
// output is identical to the previous frame.
func (b *Backend) EndFrame() error {
	if b.root == nil {
		return nil
	}
	frame := b.renderNode(b.root)
	if w, ok := b.root.Widget().(elements.Board); ok {
		frame = b.placeBoard(w, frame)
	}
	if frame == b.lastDraw {
		return nil
	}
	b.lastDraw = frame
	_, err := fmt.Fprint(b.out, "\x1b[H\x1b[2J"+frame)
	return err
}

func rootHost(host *core.HostNode) *core.HostNode {
	for {
		parent := host.AncestorHost()
		if parent == nil {
			return host
		}
		host = parent
	}
}

func (b *Backend) placeBoard(board elements.Board, content string) string {
	return lipgloss.Place(
		b.viewport.Width, b.viewport.Height,
		hPosition(board.HAlign), vPosition(board.VAlign),
		content,
	)
}

func hPosition(align elements.HAlign) lipgloss.Position {
	switch align {
	case elements.HAlignCenter:
		return lipgloss.Center
	case elements.HAlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}

func vPosition(align elements.VAlign) lipgloss.Position {
	switch align {
	case elements.VAlignMiddle:
		return lipgloss.Center
	case elements.VAlignBottom:
		return lipgloss.Bottom
	default:
		return lipgloss.Top
	}
}

// renderNode draws a node's subtree to a string. Composition nodes
// delegate to their built child; element hosts draw themselves.
func (b *Backend) renderNode(node core.Node) string {
	host, ok := node.(*core.HostNode)
	if !ok {
		// Stateless and stateful nodes have a single built child.
		out := ""
		node.VisitChildren(func(child core.Node) bool {
			out = b.renderNode(child)
			return false
		})
		return out
	}

	switch w := host.Widget().(type) {
	case elements.Text:
		if w.Bold {
			return lipgloss.NewStyle().Bold(true).Render(w.Content)
		}
		return w.Content
	case elements.Button:
		style := b.theme.Button
		if w.Disabled {
			style = b.theme.Disabled
		}
		return style.Render(w.Label)
	case elements.Card:
		return b.renderCard(w, host)
	case elements.Row:
		return b.renderRow(w, host)
	case elements.Switch:
		return b.renderSwitch(host)
	case elements.Board:
		return b.joinChildren(host)
	default:
		return b.joinChildren(host)
	}
}

func (b *Backend) renderCard(card elements.Card, host *core.HostNode) string {
	body := b.joinChildren(host)
	boxed := lipgloss.NewStyle().
		Border(b.theme.CardBorder).
		Padding(0, 1).
		Render(body)
	if card.Title == "" {
		return boxed
	}
	return overlayTitle(boxed, " "+card.Title+" ", b.theme.CardTitle)
}

func (b *Backend) renderRow(row elements.Row, host *core.HostNode) string {
	var parts []string
	gap := strings.Repeat(" ", max(row.Gap, 0))
	host.VisitChildren(func(child core.Node) bool {
		if len(parts) > 0 && gap != "" {
			parts = append(parts, gap)
		}
		parts = append(parts, b.renderNode(child))
		return true
	})
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderSwitch draws only the onstage child. Switched-out children stay
// mounted but produce no output.
func (b *Backend) renderSwitch(host *core.HostNode) string {
	out := ""
	index := 0
	active := -1
	if selector, ok := host.Widget().(core.ChildSelector); ok {
		active = selector.ActiveChildIndex()
	}
	host.VisitChildren(func(child core.Node) bool {
		if index == active {
			out = b.renderNode(child)
			return false
		}
		index++
		return true
	})
	return out
}

func (b *Backend) joinChildren(host *core.HostNode) string {
	var parts []string
	host.VisitChildren(func(child core.Node) bool {
		parts = append(parts, b.renderNode(child))
		return true
	})
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// overlayTitle writes the title into the top border line of a boxed
// render, two cells in from the left corner. The title is measured and
// spliced as plain text before styling so escape sequences never replace
// border cells.
func overlayTitle(boxed, title string, style lipgloss.Style) string {
	lines := strings.SplitN(boxed, "\n", 2)
	if len(lines) < 2 {
		return boxed
	}
	top := []rune(lines[0])
	width := lipgloss.Width(title)
	if width+3 >= len(top) {
		return boxed
	}
	return string(top[:2]) + style.Render(title) + string(top[2+width:]) + "\n" + lines[1]
}
