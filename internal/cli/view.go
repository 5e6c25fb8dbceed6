package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/skeinviz/skein/pkg/config"
	"github.com/skeinviz/skein/pkg/engine"
	"github.com/skeinviz/skein/pkg/graph"
)

// viewCommand creates the view command for live terminal animation.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		mode       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Animate a layout live in the terminal",
		Long: `Animate a layout live in the terminal.

The view command runs the layout engine interactively: the force solver
settles in front of you, and you can switch modes, pan, and zoom while
it runs.

Keys:
  m        toggle force/ring mode
  r        restart the solver
  f        fit all nodes in view
  arrows   pan
  +/-      zoom
  0        reset view
  space    pause/resume
  q        quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			tuning, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			eng := engine.New(tuning, mode)
			eng.Update(g.Nodes, g.Edges)
			eng.Start()

			p := tea.NewProgram(newViewModel(eng, g), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", graph.ModeForce, "layout mode: force (default), ring")
	cmd.Flags().StringVar(&configPath, "config", "", "tuning config file (TOML)")

	return cmd
}

// =============================================================================
// viewModel - Live Layout Animation
// =============================================================================

// Terminal cells are roughly twice as tall as wide, so the engine works
// in a world where one cell row counts as two units of height.
const cellAspect = 2.0

const (
	viewFPS       = 30
	statusLines   = 2
	panStep       = 4.0
	zoomInFactor  = 1.25
	zoomOutFactor = 0.8
)

var (
	styleHub    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	styleLeaf   = lipgloss.NewStyle().Foreground(colorBlue)
	styleStatus = lipgloss.NewStyle().Foreground(colorGray)
)

type viewTickMsg time.Time

// viewModel is the bubbletea model driving a live layout engine.
type viewModel struct {
	eng    *engine.Engine
	g      graph.Graph
	hubs   map[string]bool
	width  int
	height int
	last   time.Time
	paused bool
}

func newViewModel(eng *engine.Engine, g graph.Graph) viewModel {
	hubs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsHub() {
			hubs[n.ID] = true
		}
	}
	return viewModel{eng: eng, g: g, hubs: hubs, last: time.Now()}
}

func viewTick() tea.Cmd {
	return tea.Tick(time.Second/viewFPS, func(t time.Time) tea.Msg {
		return viewTickMsg(t)
	})
}

func (m viewModel) Init() tea.Cmd {
	return viewTick()
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewTickMsg:
		now := time.Time(msg)
		dt := now.Sub(m.last).Seconds()
		m.last = now
		if !m.paused {
			m.eng.Tick(dt)
		}
		return m, viewTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.eng.SetViewport(float64(m.width), float64(m.drawHeight())*cellAspect)
		m.fitAll()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if m.paused {
				m.eng.Stop()
			} else {
				m.eng.Start()
			}
		case "m":
			if m.eng.Mode() == graph.ModeForce {
				m.eng.SetMode(graph.ModeRing)
			} else {
				m.eng.SetMode(graph.ModeForce)
			}
		case "r":
			m.eng.Restart()
		case "f":
			m.fitAll()
		case "up":
			m.eng.Viewport().Pan(0, panStep)
		case "down":
			m.eng.Viewport().Pan(0, -panStep)
		case "left":
			m.eng.Viewport().Pan(panStep, 0)
		case "right":
			m.eng.Viewport().Pan(-panStep, 0)
		case "+", "=":
			m.zoom(zoomInFactor)
		case "-", "_":
			m.zoom(zoomOutFactor)
		case "0":
			m.eng.Viewport().Reset()
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	rows := m.drawHeight()
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, m.width)
	}

	tf := m.eng.Transform()
	for id, p := range m.eng.Positions() {
		s := tf.Apply(p)
		col := int(s.X)
		row := int(s.Y / cellAspect)
		if col < 0 || col >= m.width || row < 0 || row >= rows {
			continue
		}
		if m.hubs[id] {
			grid[row][col] = styleHub.Render("●")
		} else {
			grid[row][col] = styleLeaf.Render("·")
		}
	}

	var b strings.Builder
	for _, line := range grid {
		for _, cell := range line {
			if cell == "" {
				b.WriteString(" ")
			} else {
				b.WriteString(cell)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(styleStatus.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("m mode  r restart  f fit  arrows pan  +/- zoom  space pause  q quit"))
	return b.String()
}

// statusLine summarizes the engine state for the footer.
func (m viewModel) statusLine() string {
	state := "paused"
	if !m.paused {
		state = m.eng.SolverState().String()
	}
	line := fmt.Sprintf(" %s · %d nodes · %s", m.eng.Mode(), m.eng.NodeCount(), state)
	if m.eng.Mode() == graph.ModeForce && !m.paused {
		line += fmt.Sprintf(" · alpha %.3f · energy %.1f", m.eng.Alpha(), m.eng.KineticEnergy())
	}
	return line
}

func (m viewModel) drawHeight() int {
	h := m.height - statusLines
	if h < 1 {
		h = 1
	}
	return h
}

func (m viewModel) fitAll() {
	m.eng.SetFocus(m.g.NodeIDs())
}

func (m *viewModel) zoom(factor float64) {
	cx := float64(m.width) / 2
	cy := float64(m.drawHeight()) * cellAspect / 2
	m.eng.Viewport().Zoom(factor, cx, cy)
}
