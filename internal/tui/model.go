package tui

import (
	"context"
	"time"

	"github.com/Veraticus/cardspend/internal/common"
	"github.com/Veraticus/cardspend/internal/datekey"
	"github.com/Veraticus/cardspend/internal/edit"
	"github.com/Veraticus/cardspend/internal/filter"
	"github.com/Veraticus/cardspend/internal/grouping"
	"github.com/Veraticus/cardspend/internal/model"
	"github.com/Veraticus/cardspend/internal/store"
	"github.com/Veraticus/cardspend/internal/tui/components"
	"github.com/Veraticus/cardspend/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// screen is the page filling the body of the UI.
type screen int

const (
	screenTransactions screen = iota
	screenAdd
	screenSummary
	screenHelp
)

const (
	msgAdded          = "Transaction added"
	msgFiltersCleared = "Filters cleared"

	actionLoad    = "load transactions"
	actionAdd     = "add transaction"
	actionSummary = "load summary"
)

// Model holds the main TUI state. Every field is owned by the bubbletea
// update loop; network work happens in commands that report back as
// messages.
type Model struct {
	ctx     context.Context
	theme   themes.Theme
	config  Config
	keymap  KeyMap
	help    help.Model
	spinner spinner.Model

	store   *store.Store
	filters *filter.State
	engine  *grouping.Engine
	editor  *edit.Coordinator

	list    components.TransactionListModel
	panel   components.FilterPanelModel
	summary components.SummaryPanelModel
	form    components.FormModel
	addForm components.FormModel

	roster        []model.Person
	loadErr       string
	confirmPrompt string
	status        string

	formSession uint64
	statusSeq   int
	statusLevel edit.Level
	screen      screen
	width       int
	height      int

	editing  bool
	loading  bool
	creating bool
	quitting bool
}

// newModel creates a model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	st := store.New()
	m := Model{
		ctx:    ctx,
		theme:  cfg.Theme,
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(cfg.Theme.Primary)),
		),
		store:   st,
		filters: filter.New(ctx, cfg.Preferences),
		engine:  grouping.NewEngine(st),
		editor:  edit.NewCoordinator(st),
		list:    components.NewTransactionList(cfg.Theme),
		panel:   components.NewFilterPanel(cfg.Theme),
		summary: components.NewSummaryPanel(cfg.Theme),
		roster:  cfg.Roster,
		width:   cfg.Width,
		height:  cfg.Height,
		loading: true,
	}
	m.refresh()
	m.layout()
	return m
}

// Init starts the initial bulk load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTransactions(), m.loadRoster())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case spinner.TickMsg:
		if !m.busy() {
			break
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case transactionsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			common.LogError(msg.err, "Failed to load transactions", nil)
			m.loadErr = common.UserMessage(actionLoad, msg.err)
			cmds = append(cmds, m.setStatus(m.loadErr, edit.Failure))
			break
		}
		m.loadErr = ""
		m.store.Load(msg.transactions)
		m.refresh()
		common.LogDebug("Transactions loaded", common.Fields{"count": m.store.Len()})

	case rosterLoadedMsg:
		if msg.err != nil {
			common.LogWarn(msg.err, "Failed to load roster, using fallback", common.Fields{"fallback": model.Names(m.config.Roster)})
			break
		}
		if len(msg.roster) > 0 {
			m.roster = msg.roster
			m.refresh()
		}

	case summaryLoadedMsg:
		if msg.err != nil {
			common.LogWarn(msg.err, "Failed to load summary", nil)
			m.summary.SetError(common.UserMessage(actionSummary, msg.err))
			break
		}
		m.summary.SetSummary(msg.summary)

	case editResultMsg:
		cmds = append(cmds, m.dispatch(msg.event))

	case createdMsg:
		m.creating = false
		if msg.err != nil {
			cmds = append(cmds, m.setStatus(common.UserMessage(actionAdd, msg.err), edit.Failure))
			break
		}
		m.screen = screenTransactions
		m.loading = true
		cmds = append(cmds, m.setStatus(msgAdded, edit.Success), m.loadTransactions(), m.spinner.Tick)

	case components.FilterChangedMsg:
		m.applyFilter(msg)
		m.refresh()

	case components.FilterResetMsg:
		m.filters.Reset(m.ctx)
		m.refresh()
		cmds = append(cmds, m.setStatus(msgFiltersCleared, edit.Info))

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	default:
		cmds = append(cmds, m.forward(msg))
	}

	m.layout()
	m.syncInline()
	return m, tea.Batch(cmds...)
}

// handleKey routes a key press to whatever currently owns the keyboard.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return tea.Quit
	}

	switch m.screen {
	case screenHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Cancel, m.keymap.Quit) {
			m.screen = screenTransactions
		}
		return nil
	case screenSummary:
		switch {
		case key.Matches(msg, m.keymap.Summary, m.keymap.Cancel, m.keymap.Quit):
			m.screen = screenTransactions
		case key.Matches(msg, m.keymap.Refresh):
			return m.loadSummary()
		}
		return nil
	case screenAdd:
		return m.handleAddKey(msg)
	}

	if m.confirmPrompt != "" {
		switch {
		case key.Matches(msg, m.keymap.Confirm):
			return m.dispatch(edit.ConfirmDelete{Confirmed: true})
		case key.Matches(msg, m.keymap.Decline):
			return m.dispatch(edit.ConfirmDelete{Confirmed: false})
		}
		return nil
	}

	if m.editing {
		return m.handleEditKey(msg)
	}

	if m.panel.Focused() {
		switch {
		case key.Matches(msg, m.keymap.Cancel):
			m.panel.Blur()
			return nil
		case key.Matches(msg, m.keymap.ToggleFilter) && !m.panel.Editing():
			m.panel.Blur()
			m.filters.SetVisible(m.ctx, false)
			return nil
		}
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return cmd
	}

	return m.handleBrowseKey(msg)
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.screen = screenHelp
	case key.Matches(msg, m.keymap.Up):
		m.list.MoveBy(-1)
	case key.Matches(msg, m.keymap.Down):
		m.list.MoveBy(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.list.Page(-1)
	case key.Matches(msg, m.keymap.PageDown):
		m.list.Page(1)
	case key.Matches(msg, m.keymap.Home):
		m.list.Top()
	case key.Matches(msg, m.keymap.End):
		m.list.Bottom()

	case key.Matches(msg, m.keymap.Edit):
		if tx, ok := m.list.Selected(); ok {
			return m.dispatch(edit.StartEdit{Tx: tx})
		}
	case key.Matches(msg, m.keymap.Delete):
		if tx, ok := m.list.Selected(); ok {
			return tea.Batch(m.dispatch(edit.StartEdit{Tx: tx}), m.dispatch(edit.SubmitDelete{}))
		}
	case key.Matches(msg, m.keymap.Add):
		return m.openAdd()

	case key.Matches(msg, m.keymap.ToggleFilter):
		m.filters.ToggleVisible(m.ctx)
		if m.filters.Visible() {
			return m.panel.Focus()
		}
		m.panel.Blur()
	case key.Matches(msg, m.keymap.ResetFilter):
		m.filters.Reset(m.ctx)
		m.refresh()
		return m.setStatus(msgFiltersCleared, edit.Info)
	case key.Matches(msg, m.keymap.Summary):
		m.screen = screenSummary
		return m.loadSummary()
	case key.Matches(msg, m.keymap.Refresh):
		if m.loading {
			return nil
		}
		m.loading = true
		return tea.Batch(m.loadTransactions(), m.loadRoster(), m.spinner.Tick)
	}
	return nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		return m.dispatch(edit.Cancel{})
	case key.Matches(msg, m.keymap.Switch):
		if tx, ok := m.list.Selected(); ok {
			return m.dispatch(edit.StartEdit{Tx: tx})
		}
		return nil
	case key.Matches(msg, m.keymap.PrevRecord):
		return m.editAdjacent(-1)
	case key.Matches(msg, m.keymap.NextRecord):
		return m.editAdjacent(1)
	case m.editor.State().Busy():
		return nil
	case key.Matches(msg, m.keymap.Save):
		m.editor.Handle(edit.SetDraft{Draft: m.form.Draft()})
		return m.dispatch(edit.SubmitSave{})
	case key.Matches(msg, m.keymap.Remove):
		m.editor.Handle(edit.SetDraft{Draft: m.form.Draft()})
		return m.dispatch(edit.SubmitDelete{})
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	m.editor.Handle(edit.SetDraft{Draft: m.form.Draft()})
	return cmd
}

// editAdjacent moves the cursor by delta and opens the editor there. The
// open session, saving or not, is discarded.
func (m *Model) editAdjacent(delta int) tea.Cmd {
	m.list.MoveBy(delta)
	tx, ok := m.list.Selected()
	if !ok || tx.ID == m.editor.State().TxID {
		return nil
	}
	return m.dispatch(edit.StartEdit{Tx: tx})
}

func (m *Model) handleAddKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.screen = screenTransactions
		return nil
	case m.creating:
		return nil
	case key.Matches(msg, m.keymap.Save):
		record, err := m.addForm.Draft().Record("")
		if err != nil {
			return m.setStatus(common.UserMessage(actionAdd, err), edit.Failure)
		}
		m.creating = true
		return tea.Batch(m.createTransaction(record), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.addForm, cmd = m.addForm.Update(msg)
	return cmd
}

// openAdd shows an empty form dated today, prefilled from the active
// card and person filters.
func (m *Model) openAdd() tea.Cmd {
	c := m.filters.Criteria()
	d := edit.DraftForm{Date: datekey.FromTime(time.Now())}
	if !model.IsAll(c.Card) {
		d.Card = c.Card
	}
	if !model.IsAll(c.Who) {
		d.Who = c.Who
	} else if len(m.roster) > 0 {
		d.Who = m.roster[0].Name
	}

	m.addForm = components.NewForm(m.theme, "Add transaction", d, model.Names(m.roster), m.formSuggestions())
	m.addForm.Resize(m.width)
	m.screen = screenAdd
	return nil
}

// dispatch feeds an event to the coordinator and turns the resulting
// effects into commands and UI state.
func (m *Model) dispatch(ev edit.Event) tea.Cmd {
	effects := m.editor.Handle(ev)
	m.refresh()
	m.syncEditor()

	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff := eff.(type) {
		case edit.SendUpdate, edit.SendDelete:
			cmds = append(cmds, m.perform(eff), m.spinner.Tick)
		case edit.ScrollTo:
			if !m.list.FocusID(eff.ID) {
				common.LogDebug("Edited transaction is not visible", common.Fields{"id": eff.ID.String()})
			}
		case edit.AskConfirm:
			m.confirmPrompt = eff.Prompt
		case edit.Notify:
			cmds = append(cmds, m.setStatus(eff.Message, eff.Level))
		}
	}

	if m.editor.State().Phase != edit.ConfirmingDelete {
		m.confirmPrompt = ""
	}
	return tea.Batch(cmds...)
}

// syncEditor opens a fresh form when a new session starts and drops it
// when the session ends.
func (m *Model) syncEditor() {
	st := m.editor.State()
	if !st.Active() {
		m.editing = false
		return
	}
	if m.editing && m.formSession == st.Session {
		return
	}
	m.form = components.NewForm(m.theme, "", st.Draft, model.Names(m.roster), m.formSuggestions())
	m.form.Resize(m.width)
	m.formSession = st.Session
	m.editing = true
}

// syncInline attaches the editor below the row it edits.
func (m *Model) syncInline() {
	if !m.editing {
		m.list.SetInline("", "")
		return
	}

	st := m.editor.State()
	content := m.form.View()
	switch st.Phase {
	case edit.Saving:
		content += "\n" + m.spinner.View() + " Saving..."
	case edit.Deleting:
		content += "\n" + m.spinner.View() + " Deleting..."
	case edit.ConfirmingDelete:
		content += "\n" + m.theme.StatusWarning.Render(m.confirmPrompt+" (y/n)")
	}
	m.list.SetInline(st.TxID, content)
}

func (m *Model) applyFilter(msg components.FilterChangedMsg) {
	switch msg.Field {
	case components.FieldWho:
		m.filters.SetWho(m.ctx, msg.Value)
	case components.FieldCard:
		m.filters.SetCard(m.ctx, msg.Value)
	case components.FieldCategory:
		m.filters.SetCategory(m.ctx, msg.Value)
	case components.FieldMerchant:
		m.filters.SetMerchant(m.ctx, msg.Value)
	case components.FieldPaid:
		paid, err := model.ParsePaidFilter(msg.Value)
		if err != nil {
			common.LogWarn(err, "Ignoring paid filter", nil)
			return
		}
		m.filters.SetPaid(m.ctx, paid)
	case components.FieldStartDate:
		m.filters.SetStartDate(m.ctx, msg.Value)
	case components.FieldEndDate:
		m.filters.SetEndDate(m.ctx, msg.Value)
	}
}

// refresh recomputes the derived view and the filter choices.
func (m *Model) refresh() {
	criteria := m.filters.Criteria()
	m.list.SetView(m.engine.View(criteria))
	m.panel.SetOptions(filter.Options(m.store.All(), m.roster))
	m.panel.SetCriteria(criteria)
}

func (m Model) formSuggestions() components.FormSuggestions {
	opts := filter.Options(m.store.All(), m.roster)
	return components.FormSuggestions{
		Cards:      withoutAll(opts.Card),
		Categories: withoutAll(opts.Category),
		Merchants:  withoutAll(opts.Merchant),
	}
}

func withoutAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != model.All {
			out = append(out, v)
		}
	}
	return out
}

// forward passes non-key messages, such as cursor blinks, to the focused
// text inputs.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.screen == screenAdd:
		m.addForm, cmd = m.addForm.Update(msg)
	case m.editing:
		m.form, cmd = m.form.Update(msg)
	}
	return cmd
}

func (m *Model) setStatus(text string, level edit.Level) tea.Cmd {
	m.status = text
	m.statusLevel = level
	m.statusSeq++
	if m.config.StatusTimeout <= 0 {
		return nil
	}
	return clearStatusAfter(m.statusSeq, m.config.StatusTimeout)
}

func (m Model) busy() bool {
	return m.loading || m.creating || m.editor.State().Busy()
}

// layout sizes the components for the current terminal.
func (m *Model) layout() {
	m.help.Width = m.width
	m.panel.Resize(m.width - 2)

	// header + status line + help line
	listHeight := m.height - 3
	if m.filters.Visible() {
		listHeight -= lipgloss.Height(m.panel.View())
	}
	m.list.Resize(m.width, max(3, listHeight))
	m.summary.Resize(m.width, m.height-3)
	if m.editing {
		m.form.Resize(m.width)
	}
}
