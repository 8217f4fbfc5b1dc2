package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/timeline/pkg/config"
	"github.com/matzehuels/timeline/pkg/layout"
	"github.com/matzehuels/timeline/pkg/pipeline"
	"github.com/matzehuels/timeline/pkg/scene"
	"github.com/matzehuels/timeline/pkg/source"
	"github.com/matzehuels/timeline/pkg/textmetrics"
	"github.com/matzehuels/timeline/pkg/timeline"
)

const (
	previewFrame    = 16 * time.Millisecond
	previewSizeStep = 40
	previewMinSize  = 120
)

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		opts   renderOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "preview [events]",
		Short: "Explore a timeline interactively",
		Long: `Explore a timeline interactively.

The timeline is kept live: changing the direction or size, or reloading
the events, runs a new render pass that animates from the previous one.
The table lists where every label was placed.

  d        cycle direction      r   reload events
  ←/→      narrower / wider     f   resize to fit labels
  ↓/↑      shorter / taller     s   save SVG
  j/k      scroll labels        q   quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runPreview(cmd.Context(), input, opts, output)
		},
	}

	opts.addInputFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "where s saves the SVG (default: next to the input)")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, opts renderOpts, output string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	src, _, closeSource, err := opts.source(ctx, input)
	if err != nil {
		return err
	}
	defer closeSource()

	prog := newProgress(loggerFromContext(ctx))
	events, err := src.Load(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d events from %s", len(events), src.ID()))

	fonts := textmetrics.New()
	defer fonts.Close()

	drawing, err := pipeline.Draw(events, cfg, fonts, scene.WithDuration(scene.DefaultDuration))
	if err != nil {
		return err
	}
	if output == "" {
		output = outputBase("", input, opts.collection) + ".svg"
	}

	m := newPreviewModel(ctx, src, cfg, drawing, output)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// previewModel - live timeline
// =============================================================================

type (
	frameMsg  time.Time
	loadedMsg struct {
		events []timeline.Event
		err    error
	}
)

// previewModel drives one drawing. Every key that changes the layout runs
// a pass on the same chart, so shapes animate between states.
type previewModel struct {
	ctx     context.Context
	src     source.Source
	cfg     config.File
	drawing *pipeline.Drawing
	output  string

	events int
	offset int
	rows   int
	status string
	err    error
}

func newPreviewModel(ctx context.Context, src source.Source, cfg config.File, d *pipeline.Drawing, output string) *previewModel {
	return &previewModel{
		ctx:     ctx,
		src:     src,
		cfg:     cfg,
		drawing: d,
		output:  output,
		events:  len(d.Chart.Data()),
		rows:    12,
	}
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.rows = max(msg.Height-12, 3)
		return m, nil

	case frameMsg:
		sc := m.drawing.Chart.Scene()
		sc.Advance(time.Time(msg))
		return m, m.animate()

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		data := timeline.Data(msg.events)
		if data == nil {
			data = []any{}
		}
		m.events = len(data)
		if err := m.applyOptions(data); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.pass(func() error { return m.drawing.Chart.SetData(data) },
			fmt.Sprintf("Reloaded %d events", m.events))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *previewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.drawing.Chart
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "d":
		m.cfg.Timeline.Direction = string(nextDirection(layout.Direction(m.cfg.Timeline.Direction)))
		if err := m.applyOptions(c.Data()); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.pass(func() error { return c.Resize(c.Width(), c.Height()) },
			"Direction "+m.cfg.Timeline.Direction)

	case "left", "right", "up", "down":
		w, h := c.Width(), c.Height()
		switch msg.String() {
		case "left":
			w = max(w-previewSizeStep, previewMinSize)
		case "right":
			w += previewSizeStep
		case "down":
			h = max(h-previewSizeStep, previewMinSize)
		case "up":
			h += previewSizeStep
		}
		return m, m.pass(func() error { return c.Resize(w, h) },
			fmt.Sprintf("Size %s×%s", formatNum(w), formatNum(h)))

	case "f":
		var fit layout.FitResult
		cmd := m.pass(func() (err error) {
			fit, err = m.drawing.Timeline.ResizeToFit()
			return err
		}, "")
		if m.err == nil {
			m.status = fmt.Sprintf("Fit to %s×%s", formatNum(fit.Width), formatNum(fit.Height))
		}
		return m, cmd

	case "r":
		m.status = "Reloading " + m.src.ID() + "..."
		return m, m.reload()

	case "s":
		m.save()
		return m, nil

	case "j":
		if m.offset+m.rows < len(m.drawing.Timeline.Nodes()) {
			m.offset++
		}
	case "k":
		if m.offset > 0 {
			m.offset--
		}
	}
	return m, nil
}

// applyOptions rebuilds the timeline options from the configuration. A
// fresh scale and end-time detection follow data.
func (m *previewModel) applyOptions(data []any) error {
	opts, err := m.cfg.TimelineOptions(data)
	if err != nil {
		return err
	}
	return m.drawing.Timeline.SetOptions(opts)
}

// pass runs fn, which triggers a render pass, and starts the animation.
func (m *previewModel) pass(fn func() error, status string) tea.Cmd {
	if err := fn(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	if status != "" {
		m.status = status
	}
	m.offset = min(m.offset, max(len(m.drawing.Timeline.Nodes())-m.rows, 0))
	return m.animate()
}

// animate schedules the next frame while transitions are running.
func (m *previewModel) animate() tea.Cmd {
	if m.drawing.Chart.Scene().Pending() == 0 {
		return nil
	}
	return tea.Tick(previewFrame, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *previewModel) reload() tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		events, err := src.Load(ctx)
		return loadedMsg{events: events, err: err}
	}
}

func (m *previewModel) save() {
	m.drawing.Chart.Scene().Settle()
	svg, err := m.drawing.SVG()
	if err == nil {
		err = os.WriteFile(m.output, svg, 0o644)
	}
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "Saved " + m.output
}

func nextDirection(d layout.Direction) layout.Direction {
	for i, x := range layout.Directions {
		if x == d {
			return layout.Directions[(i+1)%len(layout.Directions)]
		}
	}
	return layout.Directions[0]
}

// =============================================================================
// View
// =============================================================================

var (
	previewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

func (m *previewModel) View() string {
	var b strings.Builder
	c := m.drawing.Chart
	stats := m.drawing.Timeline.Stats()
	total := stats.Total()

	b.WriteString(StyleTitle.Render("Timeline preview"))
	b.WriteString(" " + StyleDim.Render(m.src.ID()))
	b.WriteString("\n")

	parts := []string{
		StyleHighlight.Render(m.cfg.Timeline.Direction),
		StyleNumber.Render(formatNum(c.Width())) + StyleDim.Render("×") + StyleNumber.Render(formatNum(c.Height())),
		StyleNumber.Render(strconv.Itoa(m.events)) + StyleDim.Render(" events"),
		StyleNumber.Render(strconv.Itoa(stats.Layers)) + StyleDim.Render(" layers"),
		StyleDim.Render(fmt.Sprintf("+%d ~%d -%d", total.Entered, total.Updated, total.Exited)),
	}
	if n := c.Scene().Pending(); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d animating", n)))
	}
	b.WriteString(strings.Join(parts, StyleDim.Render(" · ")))
	b.WriteString("\n\n")

	b.WriteString(m.labelTable())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(previewErrorStyle.Render(iconError + " " + m.err.Error()))
	case m.status != "":
		b.WriteString(StyleDim.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("d direction  ←→↑↓ size  f fit  r reload  s save  j/k scroll  q quit"))
	return b.String()
}

func (m *previewModel) labelTable() string {
	labels := m.drawing.Layout().Labels
	end := min(m.offset+m.rows, len(labels))

	rows := make([][]string, 0, end-m.offset)
	for _, l := range labels[m.offset:end] {
		when := l.Date
		if when == "" {
			when = formatNum(l.Time)
		}
		rows = append(rows, []string{
			l.Key,
			truncate(l.Text, 32),
			when,
			strconv.Itoa(l.Layer),
			formatNum(l.X),
			formatNum(l.Y),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Label", "Time", "Layer", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return previewHeaderStyle
			case col >= 3:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	out := t.Render()
	if len(labels) > m.rows {
		out += "\n" + StyleDim.Render(fmt.Sprintf("  [%d-%d/%d]", m.offset+1, end, len(labels)))
	}
	return out
}

func formatNum(v float64) string {
	return scene.FormatNum(float64(int64(v*10)) / 10)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
