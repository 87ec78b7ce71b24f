// Package tui renders a live departure or arrival board in the terminal.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

// FetchFunc loads the current board.
type FetchFunc func(ctx context.Context) ([]hafas.Alternative, error)

// Options configure a board.
type Options struct {
	Title string
	// Direction decides whether entries show their destination or origin.
	Direction hafas.Direction
	// Refresh reloads the board periodically; zero disables it.
	Refresh  time.Duration
	Location *time.Location
	Timeout  time.Duration
}

type boardState int

const (
	boardStateList boardState = iota
	boardStateDetail
)

type boardKeyMap struct {
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Refresh, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Back, k.Refresh},
		{k.Quit},
	}
}

var boardKeys = boardKeyMap{
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "details"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "b"),
		key.WithHelp("esc/b", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type boardItem struct {
	alt hafas.Alternative
	dir hafas.Direction
	loc *time.Location
}

func (i boardItem) Title() string {
	return fmt.Sprintf("%s  %-8s  %s", clock(i.alt.PlannedWhen, i.loc), lineName(i.alt.Line), i.headsign())
}

func (i boardItem) Description() string {
	parts := make([]string, 0, 3)
	switch {
	case i.alt.Cancelled:
		parts = append(parts, "cancelled")
	case i.alt.Delay != nil:
		parts = append(parts, formatDelay(*i.alt.Delay))
	}
	if i.alt.Platform != "" {
		p := "platform " + i.alt.Platform
		if i.alt.PlannedPlatform != "" && i.alt.PlannedPlatform != i.alt.Platform {
			p += " (planned " + i.alt.PlannedPlatform + ")"
		}
		parts = append(parts, p)
	}
	if len(i.alt.Remarks) > 0 {
		parts = append(parts, fmt.Sprintf("%d remarks", len(i.alt.Remarks)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "  ")
}

func (i boardItem) FilterValue() string {
	return strings.ToLower(lineName(i.alt.Line) + " " + i.headsign())
}

func (i boardItem) headsign() string {
	if i.dir == hafas.DirectionArrival {
		return "from " + i.alt.Provenance
	}
	return i.alt.Direction
}

type boardModel struct {
	fetch FetchFunc
	opts  Options

	state boardState
	list  list.Model
	vp    viewport.Model
	help  help.Model
	keys  boardKeyMap

	width  int
	height int

	lastLoaded time.Time
	loading    bool
	err        error
}

type boardMsg struct {
	alts []hafas.Alternative
	err  error
	at   time.Time
}

type tickMsg struct{}

// Run shows the board until the user quits.
func Run(fetch FetchFunc, opts Options, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(newBoardModel(fetch, opts), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui run failed: %w", err)
	}
	return nil
}

func newBoardModel(fetch FetchFunc, opts Options) boardModel {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Direction == "" {
		opts.Direction = hafas.DirectionDeparture
	}

	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	d.SetSpacing(0)

	l := list.New(nil, d, 0, 0)
	l.Title = opts.Title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	h := help.New()
	h.ShowAll = false

	return boardModel{
		fetch: fetch,
		opts:  opts,
		state: boardStateList,
		list:  l,
		vp:    viewport.New(0, 0),
		help:  h,
		keys:  boardKeys,
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.tickCmd())
}

func (m boardModel) loadCmd() tea.Cmd {
	fetch, timeout := m.fetch, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		alts, err := fetch(ctx)
		return boardMsg{alts: alts, err: err, at: time.Now()}
	}
}

func (m boardModel) tickCmd() tea.Cmd {
	if m.opts.Refresh <= 0 {
		return nil
	}
	return tea.Tick(m.opts.Refresh, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case boardMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.alts))
		for _, a := range msg.alts {
			items = append(items, boardItem{alt: a, dir: m.opts.Direction, loc: m.opts.Location})
		}
		cmd := m.list.SetItems(items)
		m.lastLoaded = msg.at
		m.err = nil
		return m, cmd

	case tickMsg:
		if m.loading {
			return m, m.tickCmd()
		}
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.tickCmd())

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.state == boardStateDetail && key.Matches(msg, m.keys.Back):
			m.state = boardStateList
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.loadCmd()
		case m.state == boardStateList && key.Matches(msg, m.keys.Open):
			it, ok := m.list.SelectedItem().(boardItem)
			if !ok {
				return m, nil
			}
			m.vp.SetContent(detail(it))
			m.vp.GotoTop()
			m.state = boardStateDetail
			m.resize()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.state == boardStateDetail {
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m boardModel) View() string {
	var b strings.Builder
	if m.state == boardStateDetail {
		b.WriteString(titleStyle.Render(m.opts.Title + "  details"))
		b.WriteString("\n")
		b.WriteString(m.vp.View())
		b.WriteString("\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m boardModel) statusLine() string {
	switch {
	case m.loading:
		return faintStyle.Render("loading...")
	case m.lastLoaded.IsZero():
		return faintStyle.Render("not loaded yet")
	default:
		return faintStyle.Render("updated " + m.lastLoaded.In(m.opts.Location).Format("15:04:05"))
	}
}

func (m *boardModel) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	// status(1) + help(1), plus the error line when shown
	reserved := 2
	if m.err != nil {
		reserved += 2
	}
	avail := m.height - reserved
	if avail < 5 {
		avail = 5
	}
	m.list.SetSize(m.width, avail)
	m.vp.Width = m.width
	m.vp.Height = avail
}

func detail(it boardItem) string {
	a := it.alt
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", lineName(a.Line), it.headsign())
	if a.Line != nil && a.Line.Operator != nil {
		fmt.Fprintf(&b, "operator: %s\n", a.Line.Operator.Name)
	}
	fmt.Fprintf(&b, "stop: %s\n", a.Stop.Name)
	fmt.Fprintf(&b, "planned: %s  expected: %s\n", clock(a.PlannedWhen, it.loc), clock(a.When, it.loc))
	if a.TripID != "" {
		fmt.Fprintf(&b, "trip: %s\n", a.TripID)
	}
	if len(a.Stopovers) > 0 {
		b.WriteString("\nstops:\n")
		for _, s := range a.Stopovers {
			t := s.PlannedDeparture
			if t == nil {
				t = s.PlannedArrival
			}
			fmt.Fprintf(&b, "  %s  %s\n", clock(t, it.loc), s.Stop.Name)
		}
	}
	if len(a.Remarks) > 0 {
		b.WriteString("\nremarks:\n")
		for _, r := range a.Remarks {
			fmt.Fprintf(&b, "  [%s] %s\n", r.Type, r.Text)
		}
	}
	return b.String()
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "--:--"
	}
	return t.In(loc).Format("15:04")
}

func lineName(l *hafas.Line) string {
	if l == nil || l.Name == "" {
		return "?"
	}
	return l.Name
}

func formatDelay(secs int) string {
	mins := secs / 60
	switch {
	case mins > 0:
		return fmt.Sprintf("+%d min", mins)
	case mins < 0:
		return fmt.Sprintf("%d min", mins)
	default:
		return "on time"
	}
}
