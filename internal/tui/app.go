package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sparks/internal/config"
	"github.com/san-kum/sparks/internal/input"
	"github.com/san-kum/sparks/internal/loop"
	"github.com/san-kum/sparks/internal/metrics"
	"github.com/san-kum/sparks/internal/particle"
	"github.com/san-kum/sparks/internal/render"
)

var (
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("209"))
)

const (
	headerLines = 1
	footerLines = 1
	chartHeight = 4
	// asciigraph draws chartHeight+1 rows plus the caption.
	chartLines = chartHeight + 2

	maxStyles = 4096
)

type tickMsg time.Time

// Model is a terminal display for the frame loop. Every tick message runs
// the pending frame callback, and View draws the canvas device's grid.
type Model struct {
	cfg      *config.Config
	store    *particle.Store
	device   *render.CanvasDevice
	renderer *render.Renderer
	loop     *loop.Loop
	stats    *metrics.Population
	pointer  *input.Tracker

	pending func()
	styles  map[string]lipgloss.Style

	width, height int
	showChart     bool
}

// NewApp builds a Model whose frame loop has already been started.
func NewApp(cfg *config.Config) *Model {
	m := &Model{
		cfg:       cfg,
		store:     particle.New(cfg.Capacity, rand.New(rand.NewSource(cfg.Seed))),
		device:    render.NewCanvasDevice(0, 0),
		stats:     metrics.NewPopulation(cfg.Terminal.History),
		pointer:   input.NewTracker(),
		styles:    make(map[string]lipgloss.Style),
		showChart: true,
	}
	m.renderer = render.New(m.device)
	_ = m.renderer.Setup()

	m.loop = loop.New(m.store, m.renderer, m, cfg.SpawnPolicy())
	m.loop.AddObserver(m.stats)
	m.loop.Start()
	return m
}

func Run(ctx context.Context, cfg *config.Config) error {
	p := tea.NewProgram(NewApp(cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}

func (m *Model) RequestFrame(fn func()) { m.pending = fn }

// Size is the pixel surface covered by the canvas cells.
func (m *Model) Size() (int, int) {
	return m.device.Cols * m.cfg.Terminal.CellWidth, m.device.Rows * m.cfg.Terminal.CellHeight
}

func (m *Model) Input() input.Snapshot { return m.pointer.Snapshot() }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.Terminal.FPS), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.store.Reset()
			m.stats.Reset()
		case "g":
			m.showChart = !m.showChart
			m.resize()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tickMsg:
		if fn := m.pending; fn != nil {
			m.pending = nil
			fn()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize() {
	rows := m.height - headerLines - footerLines
	if m.showChart {
		rows -= chartLines
	}
	m.device.Resize(m.width, max(rows, 0))
}

// handleMouse converts a cell position into the center of that cell in
// pixel space.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := (float64(msg.X) + 0.5) * float64(m.cfg.Terminal.CellWidth)
	y := (float64(msg.Y-headerLines) + 0.5) * float64(m.cfg.Terminal.CellHeight)
	m.pointer.Move(x, y)

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pointer.Press()
	case msg.Action == tea.MouseActionRelease && releasesLeft(msg.Button):
		m.pointer.Release()
	}
}

// releasesLeft reports whether a release event ends a left drag. X10 mouse
// encoding reports releases without a button.
func releasesLeft(b tea.MouseButton) bool {
	return b == tea.MouseButtonLeft || b == tea.MouseButtonNone
}

func (m *Model) View() string {
	if m.width == 0 {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteByte('\n')
	b.WriteString(m.canvas())
	if m.showChart {
		b.WriteString(m.chart())
		b.WriteByte('\n')
	}
	b.WriteString(dimmer.Render("drag: spawn  r: reset  g: graph  q: quit"))
	return b.String()
}

func (m *Model) header() string {
	s := white.Render("sparks") + "  " +
		dim.Render(fmt.Sprintf("%d live  peak %d  cap %d  tick %d",
			m.store.Len(), m.stats.Peak, m.store.Cap(), m.loop.Ticks()))
	if m.stats.Dropped > 0 {
		s += "  " + warn.Render(fmt.Sprintf("dropped %d", m.stats.Dropped))
	}
	if !m.renderer.Ready() {
		s += "  " + warn.Render("renderer unavailable")
	}
	return s
}

func (m *Model) canvas() string {
	var b strings.Builder
	for r := 0; r < m.device.Rows; r++ {
		for c := 0; c < m.device.Cols; c++ {
			cell := m.device.Cell(c, r)
			if cell.Empty() {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(m.style(cell.Hex()).Render(string(cell.Glyph)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *Model) style(hex string) lipgloss.Style {
	s, ok := m.styles[hex]
	if !ok {
		if len(m.styles) >= maxStyles {
			clear(m.styles)
		}
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		m.styles[hex] = s
	}
	return s
}

func (m *Model) chart() string {
	history := m.stats.History()
	if len(history) == 0 {
		history = []float64{0}
	}
	return asciigraph.Plot(history,
		asciigraph.Height(chartHeight),
		asciigraph.Width(max(m.width-12, 10)),
		asciigraph.Caption("live particles"),
	)
}
