package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/scheduler"
	"github.com/matzehuels/linkdrift/pkg/sink"
)

// Pixels per terminal cell when the terminal size stands in for the viewport.
const (
	cellWidthPx  = 10
	cellHeightPx = 22
)

var (
	previewStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	previewModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	previewErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// previewKeys are the preview's key bindings.
type previewKeys struct {
	Replace key.Binding
	Quit    key.Binding
}

func defaultPreviewKeys() previewKeys {
	return previewKeys{
		Replace: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-place"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k previewKeys) ShortHelp() []key.Binding { return []key.Binding{k.Replace, k.Quit} }

// FullHelp implements help.KeyMap.
func (k previewKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags sceneFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "preview [scene]",
		Short: "Interactively preview a scene in the terminal",
		Long: `Interactively preview a scene in the terminal.

The terminal stands in for the browser window: resizing it resizes the
viewport, and the links are re-placed on the next frame. Resize bursts are
coalesced into one pass. Narrow terminals switch the page to the rail.

With --watch the scene file is reloaded whenever it changes; links keep their
seeds for the session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd, args[0], &flags, watch)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the scene when the file changes")
	flags.register(cmd)
	return cmd
}

func (c *CLI) runPreview(cmd *cobra.Command, input string, flags *sceneFlags, watch bool) error {
	ctx := cmd.Context()

	sc, opts, runner, err := c.prepare(cmd, input, flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	// The alternate screen owns the terminal; logging would tear it.
	opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	build := func(doc *page.Document) (*engine.Context, error) {
		return runner.Engine(doc, opts)
	}
	m, err := newPreviewModel(ctx, build, opts.Measurer, sc)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if watch {
		stop, err := watchScene(ctx, input, p.Send)
		if err != nil {
			return err
		}
		defer stop()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("preview: %w", err)
	}

	runs, coalesced := m.sched.Stats()
	printSuccess("Preview closed")
	printDetail("%d passes, %d resize events coalesced", runs, coalesced)
	return ctx.Err()
}

type frameMsg time.Time

// sceneMsg carries a reloaded scene, or the error that stopped the reload.
type sceneMsg struct {
	scene *scene.Scene
	err   error
}

func frameTick() tea.Cmd {
	return tea.Tick(scheduler.DefaultFrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// watchScene reloads path on every write and hands the result to send.
// The directory is watched so editors that replace the file are seen.
func watchScene(ctx context.Context, path string, send func(tea.Msg)) (stop func(), err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch scene: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch scene: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				sc, err := scene.Load(abs)
				send(sceneMsg{scene: sc, err: err})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				send(sceneMsg{err: err})
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}, nil
}

// previewModel drives an engine from terminal events. It is used by
// pointer so the scheduler callback and the program share state.
type previewModel struct {
	ctx      context.Context
	build    func(*page.Document) (*engine.Context, error)
	eng      *engine.Context
	measurer page.Measurer
	frames   *scheduler.ManualFrames
	sched    *scheduler.Scheduler
	keys     previewKeys
	help     help.Model

	// colWidth is the scene's column width; the column is recentred on
	// every resize. Zero when the scene has no column.
	colWidth float64

	layout *scene.Layout
	err    error
	cols   int
	rows   int
}

func newPreviewModel(ctx context.Context, build func(*page.Document) (*engine.Context, error), m page.Measurer, sc *scene.Scene) (*previewModel, error) {
	pm := &previewModel{
		ctx:      ctx,
		build:    build,
		measurer: m,
		frames:   &scheduler.ManualFrames{},
		keys:     defaultPreviewKeys(),
		help:     help.New(),
	}
	pm.sched = scheduler.New(pm.recompute, pm.frames)
	if err := pm.load(sc); err != nil {
		return nil, err
	}
	return pm, nil
}

// load swaps in a fresh engine for sc, keeps the terminal viewport and
// places the links.
func (m *previewModel) load(sc *scene.Scene) error {
	eng, err := m.build(sc.Build())
	if err != nil {
		return err
	}
	m.eng = eng
	m.colWidth = 0
	if sc.Column != nil {
		m.colWidth = sc.Column.Width
	}
	if m.cols > 0 {
		m.resize(m.cols, m.rows)
	}
	m.sched.Notify(m.ctx, scheduler.LinksReady)
	return nil
}

func (m *previewModel) recompute(ctx context.Context, t scheduler.Trigger) {
	rep := m.eng.Recompute(ctx, t.String())
	m.layout = scene.Export(m.eng, rep, m.measurer)
}

// resize maps the terminal to a viewport and recentres the column.
func (m *previewModel) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	m.help.Width = cols
	vp := geometry.Size{Width: float64(cols * cellWidthPx), Height: float64(max(rows-1, 1) * cellHeightPx)}
	doc := m.eng.Document()
	doc.SetViewport(vp)
	if m.colWidth > 0 {
		w := min(m.colWidth, vp.Width)
		col, _ := doc.ColumnRect()
		doc.SetColumn(geometry.Rect{Left: (vp.Width - w) / 2, Top: col.Top, Width: w, Height: col.Height})
	}
}

func (m *previewModel) Init() tea.Cmd {
	return frameTick()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Replace):
			m.sched.Notify(m.ctx, scheduler.FontsReady)
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.sched.Notify(m.ctx, scheduler.Resize)
	case frameMsg:
		m.frames.Flush()
		return m, frameTick()
	case sceneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.err = m.load(msg.scene)
		}
	}
	return m, nil
}

func (m *previewModel) View() string {
	if m.layout == nil || m.cols == 0 {
		return "Loading..."
	}
	picture := sink.RenderText(m.layout, m.cols, m.rows-1)
	return picture + "\n" + m.status()
}

func (m *previewModel) status() string {
	if m.err != nil {
		return previewErrorStyle.Render(" " + m.err.Error())
	}
	runs, coalesced := m.sched.Stats()
	vp := m.layout.Viewport
	line := fmt.Sprintf(" %.0fx%.0f · %d links · %d passes · %d coalesced",
		vp.Width, vp.Height, len(m.layout.Links), runs, coalesced)
	if n := m.layout.Stats.Unresolved; n > 0 {
		line += fmt.Sprintf(" · %d dimmed", n)
	}
	return previewModeStyle.Render(" "+m.layout.Mode.String()) +
		previewStatusStyle.Render(line) + "  " +
		m.help.View(m.keys)
}
