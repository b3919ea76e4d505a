// Package tui provides the interactive Bubble Tea dashboard for khata.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/khata/internal/advisor"
	"github.com/theirongolddev/khata/internal/backup"
	"github.com/theirongolddev/khata/internal/cli"
	"github.com/theirongolddev/khata/internal/config"
	"github.com/theirongolddev/khata/internal/export"
	"github.com/theirongolddev/khata/internal/ledger"
	"github.com/theirongolddev/khata/internal/model"
	"github.com/theirongolddev/khata/internal/pipeline"
	"github.com/theirongolddev/khata/internal/tui/components"
	"github.com/theirongolddev/khata/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	tabOverview = iota
	tabTransactions
	tabGoals
	tabLiabilities
	tabSettings
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	trendMonths      = 6
)

// ConfirmGate is the Confirmer the dashboard hands to its Book. It approves
// a destructive command only while the user's "y" answer is being applied.
type ConfirmGate struct {
	armed bool
}

// NewConfirmGate returns a gate that declines until armed.
func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{}
}

// Confirm implements ledger.Confirmer.
func (g *ConfirmGate) Confirm(string) (bool, error) {
	ok := g.armed
	g.armed = false
	return ok, nil
}

func (g *ConfirmGate) approve(run func() error) error {
	g.armed = true
	defer func() { g.armed = false }()
	return run()
}

// pendingConfirm is a destructive action waiting for y/n.
type pendingConfirm struct {
	prompt string
	run    func() error
	done   string
}

// Options wires the dashboard to the ledger and its collaborators.
type Options struct {
	Book      *ledger.Book
	Gate      *ConfirmGate
	Config    config.Config
	Syncer    *backup.Syncer
	Advisor   *advisor.Client // nil disables the advisor
	NeedSetup bool
	Now       func() time.Time
	Logger    zerolog.Logger
}

type syncDoneMsg struct {
	sink string
	err  error
}

type syncResetMsg struct{}

type adviceMsg struct {
	text string
	err  error
}

// App is the root Bubble Tea model.
type App struct {
	book    *ledger.Book
	gate    *ConfirmGate
	cfg     config.Config
	rate    decimal.Decimal
	syncer  *backup.Syncer
	advisor *advisor.Client
	now     func() time.Time
	log     zerolog.Logger

	// Derived from the book; refreshed after every command
	snap       model.Snapshot
	summary    model.Summary
	attainment model.Attainment
	months     []model.MonthTotal
	categories []model.CategoryTotal

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	message   string

	// Per-tab state
	txState  transactionsState
	goalCur  int
	liabCur  int
	settings settingsState
	confirm  *pendingConfirm

	// Entry forms
	form     *huh.Form
	formKind formKind
	formVals *formValues

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *SetupValues
	needSetup bool

	// Background work
	spinner  spinner.Model
	syncing  bool
	advising bool
	advice   string
}

// NewApp creates the dashboard model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Gate == nil {
		opts.Gate = NewConfirmGate()
	}
	if opts.Syncer == nil {
		opts.Syncer = backup.NewSyncer(backup.DefaultResetDelay, opts.Logger)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		book:      opts.Book,
		gate:      opts.Gate,
		cfg:       opts.Config,
		rate:      config.GetExchangeRate(opts.Config),
		syncer:    opts.Syncer,
		advisor:   opts.Advisor,
		now:       opts.Now,
		log:       opts.Logger.With().Str("component", "tui").Logger(),
		needSetup: opts.NeedSetup,
		spinner:   sp,
	}
	a.txState.searchInput = newSearchInput()
	a.refresh()
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion}
	if a.needSetup {
		vals := SetupValuesFrom(a.cfg)
		cmds = append(cmds, func() tea.Msg { return startSetupMsg{vals: &vals} })
	}
	return tea.Batch(cmds...)
}

type startSetupMsg struct {
	vals *SetupValues
}

// refresh recomputes every derived value from the book.
func (a *App) refresh() {
	now := a.now()
	a.snap = a.book.Snapshot()
	a.summary = pipeline.Summarize(a.snap.Transactions, now)
	a.attainment = pipeline.Attainment(a.summary, a.snap.Goals, a.snap.Liabilities)
	a.months = pipeline.AggregateMonths(a.snap.Transactions, now, trendMonths)
	a.categories = pipeline.CategoryBreakdown(a.snap.Transactions)

	a.txState.cursor = clampCursor(a.txState.cursor, len(a.visibleTransactions()))
	a.goalCur = clampCursor(a.goalCur, len(a.snap.Goals))
	a.liabCur = clampCursor(a.liabCur, len(a.snap.Liabilities))
}

func clampCursor(cur, n int) int {
	if cur >= n {
		cur = n - 1
	}
	if cur < 0 {
		cur = 0
	}
	return cur
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width-4, 72))
		}
		return a, nil

	case startSetupMsg:
		a.setupVals = msg.vals
		a.setupForm = NewSetupForm(a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()

	case tea.MouseMsg:
		if a.showHelp || a.form != nil || a.setupForm != nil || a.confirm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			a.moveCursor(1)
		case tea.MouseButtonLeft:
			// Tab bar is the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case syncDoneMsg:
		a.syncing = false
		if msg.err != nil {
			a.message = "Backup failed: " + msg.err.Error()
		} else {
			a.message = "Backed up to " + msg.sink
		}
		// Redraw once the syncer has reverted to idle.
		return a, tea.Tick(a.syncer.ResetDelay()+100*time.Millisecond, func(time.Time) tea.Msg { return syncResetMsg{} })

	case syncResetMsg:
		return a, nil

	case adviceMsg:
		a.advising = false
		if msg.err != nil {
			a.message = "Advisor: " + msg.err.Error()
			return a, nil
		}
		a.advice = msg.text
		return a, nil

	case spinner.TickMsg:
		if a.syncing || a.advising {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks etc.) to any open form.
	switch {
	case a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.form != nil:
		return a.updateForm(msg)
	case a.settings.editing:
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	case a.txState.searching:
		var cmd tea.Cmd
		a.txState.searchInput, cmd = a.txState.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Modal input intercepts all keys
	switch {
	case a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.form != nil:
		return a.updateForm(msg)
	case a.confirm != nil:
		return a.updateConfirm(key)
	case a.settings.editing:
		return a.updateSettingsInput(msg)
	case a.txState.searching:
		return a.updateSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	a.message = ""

	var (
		handled bool
		next    tea.Model
		cmd     tea.Cmd
	)
	switch a.activeTab {
	case tabOverview:
		next, cmd, handled = a.updateOverviewKey(key)
	case tabTransactions:
		next, cmd, handled = a.updateTransactionsKey(key)
	case tabGoals:
		next, cmd, handled = a.updateGoalsKey(key)
	case tabLiabilities:
		next, cmd, handled = a.updateLiabilitiesKey(key)
	case tabSettings:
		next, cmd, handled = a.updateSettingsKey(key)
	}
	if handled {
		return next, cmd
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "s":
		return a.startSync()
	case "j", "down":
		a.moveCursor(1)
	case "k", "up":
		a.moveCursor(-1)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

func (a *App) moveCursor(delta int) {
	switch a.activeTab {
	case tabTransactions:
		a.txState.cursor = clampCursor(a.txState.cursor+delta, len(a.visibleTransactions()))
	case tabGoals:
		a.goalCur = clampCursor(a.goalCur+delta, len(a.snap.Goals))
	case tabLiabilities:
		a.liabCur = clampCursor(a.liabCur+delta, len(a.snap.Liabilities))
	case tabSettings:
		a.settings.cursor = clampCursor(a.settings.cursor+delta, settingsFieldCount)
	}
}

// askConfirm arms a y/n prompt for a destructive command.
func (a App) askConfirm(prompt, done string, run func() error) (tea.Model, tea.Cmd, bool) {
	a.confirm = &pendingConfirm{prompt: prompt, run: run, done: done}
	return a, nil, true
}

func (a App) updateConfirm(key string) (tea.Model, tea.Cmd) {
	pending := a.confirm
	a.confirm = nil

	switch key {
	case "y", "Y":
		err := a.gate.approve(pending.run)
		if err != nil {
			a.message = errorText(err)
		} else {
			a.message = pending.done
		}
		a.refresh()
	default:
		a.message = "Cancelled"
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetup(); err != nil {
			a.log.Warn().Err(err).Msg("saving setup config")
			a.message = "Settings apply to this session only: " + err.Error()
		}
		a.needSetup = false
		a.setupForm = nil
		a.refresh()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// startSync persists and sends the payload to the configured sinks. The
// sink is resolved now so a webhook edited mid-sync is not picked up.
func (a App) startSync() (tea.Model, tea.Cmd) {
	if a.syncing || a.syncer.Status() == backup.StatusInProgress {
		return a, nil
	}

	snap := a.book.Snapshot()
	sink := backup.SinkFor(backup.Targets{
		WebhookURL:   snap.WebhookURL,
		AMQPURL:      config.GetAMQPURL(a.cfg),
		AMQPExchange: a.cfg.Backup.AMQPExchange,
		AMQPQueue:    a.cfg.Backup.AMQPQueue,
		DialTimeout:  config.BackupTimeout(a.cfg),
	})
	if sink == nil {
		a.message = "Set a webhook URL in Settings first"
		return a, nil
	}

	payload, err := export.NewPayload(snap, a.now()).Encode()
	if err != nil {
		a.message = "Backup failed: " + err.Error()
		return a, nil
	}

	// Local save happens here on the update loop; the background send
	// never touches the store.
	if err := a.book.Persist(); err != nil {
		a.log.Error().Err(err).Msg("local persist before sync failed")
	}

	syncer, timeout := a.syncer, config.BackupTimeout(a.cfg)
	a.syncing = true
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return syncDoneMsg{sink: sink.Name(), err: syncer.Sync(ctx, nil, sink, payload)}
	})
}

// startAdvice asks the advisor about the current ledger.
func (a App) startAdvice() (tea.Model, tea.Cmd) {
	if a.advisor == nil {
		a.message = "Advisor disabled: set [advisor] base_url"
		return a, nil
	}
	if a.advising {
		return a, nil
	}

	fc := advisor.BuildContext(a.snap, a.summary, a.attainment,
		a.cfg.Currency.Primary, a.cfg.Currency.Secondary, advisor.RecentLimit)
	client := a.advisor
	a.advising = true
	a.advice = ""
	return a, tea.Batch(a.spinner.Tick, func() tea.Msg {
		text, err := client.Analyze(context.Background(), fc)
		return adviceMsg{text: text, err: err}
	})
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// money formats an amount in the symbol of its currency.
func (a App) money(d decimal.Decimal, c model.Currency) string {
	return cli.FormatMoney(d, a.cfg.Currency.Symbol(c.IsSecondary()))
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.form != nil {
		return a.viewForm()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  khata needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(a.form.View() + "\n" + lipgloss.NewStyle().Foreground(t.TextDim).Render("esc to cancel"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o t g l x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move in lists"},
		}},
		{"Ledger", [][2]string{
			{"a", "Add to the current tab"},
			{"1-9", "Use quick preset (overview)"},
			{"P", "New quick preset (overview)"},
			{"enter", "Deposit / pay (goals, liabilities)"},
			{"1 5", "Quick deposit 100 / 500 (goals)"},
			{"5", "Quick payment 500 (liabilities)"},
			{"e", "Edit liability"},
			{"d", "Delete selected"},
			{"/", "Search transactions"},
			{"f", "Cycle type filter"},
		}},
		{"Other", [][2]string{
			{"s", "Back up now"},
			{"A", "Ask the advisor"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, a.statusHints(), a.statusMessage(), a.syncState())

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabTransactions:
		content = a.renderTransactionsTab(cw, contentH)
	case tabGoals:
		content = a.renderGoalsTab(cw)
	case tabLiabilities:
		content = a.renderLiabilitiesTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	if a.confirm != nil {
		return "[y] confirm  [n] cancel"
	}
	switch a.activeTab {
	case tabOverview:
		return "[a]dd  [1-9] preset  [A]dvisor  [?]help  [q]uit"
	case tabTransactions:
		return "[a]dd  [d]elete  [/]search  [f]ilter  [?]help"
	case tabGoals:
		return "[a]dd  [enter] deposit  [1/5] +100/+500  [d]elete  [?]help"
	case tabLiabilities:
		return "[a]dd  [enter] pay  [5] +500  [e]dit  [d]elete  [?]help"
	default:
		return "[enter] edit  [s]ync  [?]help  [q]uit"
	}
}

func (a App) statusMessage() string {
	switch {
	case a.confirm != nil:
		return a.confirm.prompt + " (y/n)"
	case a.syncing:
		return a.spinner.View() + " Backing up..."
	case a.advising:
		return a.spinner.View() + " Asking the advisor..."
	}
	return a.message
}

func (a App) syncState() components.SyncState {
	switch a.syncer.Status() {
	case backup.StatusInProgress:
		return components.SyncState{Label: "syncing"}
	case backup.StatusSuccess:
		return components.SyncState{Label: "synced"}
	case backup.StatusError:
		return components.SyncState{Label: "sync failed", Err: true}
	}
	if a.syncing {
		return components.SyncState{Label: "syncing"}
	}
	return components.SyncState{}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i := range components.Tabs {
		tabW := components.TabVisualWidth(i, a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description or category"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "/ "
	return ti
}
