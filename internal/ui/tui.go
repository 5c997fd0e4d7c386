// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/config"
	"taskpad/internal/session"
	"taskpad/internal/storage"
	"taskpad/internal/task"
)

// RunTUI starts the single-screen to-do interface over sess. The session
// must be uninitialized; hydration runs inside the program so the loading
// state is visible.
func RunTUI(ctx context.Context, cfg *config.Config, sess *session.Session) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	// A program-scoped context lets the notice listener wind down once the
	// screen closes, whatever made the program exit.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, cfg, sess)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	return finalError(finalModel)
}

// finalError extracts the load failure, if any, from the model a finished
// program returned.
func finalError(finalModel tea.Model) error {
	if fm, ok := finalModel.(*model); ok && fm.loadErr != nil {
		return fm.loadErr
	}
	return nil
}

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type model struct {
	ctx  context.Context
	cfg  *config.Config
	sess *session.Session

	input   textinput.Model
	spin    spinner.Model
	styles  styles
	focus   focusArea
	cursor  int
	confirm *int64 // task pending removal confirmation
	notice  string
	loadErr error
	list    task.List
	ready   bool
	width   int
}

type hydratedMsg struct {
	err error
}

type noticeMsg struct {
	notice session.Notice
}

func newModel(ctx context.Context, cfg *config.Config, sess *session.Session) *model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 500
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &model{
		ctx:    ctx,
		cfg:    cfg,
		sess:   sess,
		input:  input,
		spin:   spin,
		styles: newStyles(cfg.NoColor),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		textinput.Blink,
		m.hydrateCmd(),
		waitForNotice(m.ctx, m.sess.Notices()),
	)
}

func (m *model) hydrateCmd() tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{err: m.sess.Hydrate(m.ctx)}
	}
}

func waitForNotice(ctx context.Context, ch <-chan session.Notice) tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-ch:
			return noticeMsg{notice: n}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil

	case hydratedMsg:
		if msg.err != nil {
			// Stay on screen with the report; controls never appear, so
			// nothing can mutate or overwrite the stored data.
			m.loadErr = msg.err
			return m, nil
		}
		m.ready = true
		m.list = m.sess.List()
		return m, nil

	case noticeMsg:
		m.notice = msg.notice.Text
		return m, waitForNotice(m.ctx, m.sess.Notices())

	case spinner.TickMsg:
		if m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.ready && m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.sess.Flush()
		return m, tea.Quit
	}

	// Until the load finishes no controls exist, so nothing can mutate.
	if !m.ready {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.confirm != nil {
		return m.updateConfirmKeys(msg)
	}

	switch msg.String() {
	case "esc":
		if m.notice != "" {
			m.notice = ""
			return m, nil
		}
		if m.focus == focusInput {
			m.blurInput()
		}
		return m, nil
	case "tab":
		if m.focus == focusInput {
			m.blurInput()
		} else {
			m.focusInput()
		}
		return m, nil
	}

	if m.focus == focusInput {
		return m.updateInputKeys(msg)
	}
	return m.updateListKeys(msg)
}

func (m *model) updateConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := *m.confirm
		m.confirm = nil
		m.apply(session.RemoveIntent{ID: id})
		if m.cursor >= len(m.list) {
			m.cursor = len(m.list) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "n", "N", "esc", "q":
		m.confirm = nil
	}
	return m, nil
}

func (m *model) updateInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		m.apply(session.AddIntent{Text: m.input.Value()})
		m.input.Reset()
		m.cursor = len(m.list) - 1
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.sess.Flush()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case " ", "enter":
		if t := m.selected(); t != nil {
			m.apply(session.ToggleIntent{ID: t.ID})
		}
	case "d", "x", "backspace":
		if t := m.selected(); t != nil {
			id := t.ID
			m.confirm = &id
		}
	case "a", "i":
		m.focusInput()
	}
	return m, nil
}

// apply dispatches an intent and refreshes the visible list. The save runs
// in the background; failures come back as notices.
func (m *model) apply(intent session.Intent) {
	list, err := m.sess.Apply(m.ctx, intent)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.list = list
}

func (m *model) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return nil
	}
	return &m.list[m.cursor]
}

func (m *model) focusInput() {
	m.focus = focusInput
	m.input.Focus()
}

func (m *model) blurInput() {
	m.focus = focusList
	m.input.Blur()
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Taskpad") + "\n\n")

	if m.loadErr != nil {
		if errors.Is(m.loadErr, storage.ErrCorruptData) {
			b.WriteString("  " + m.styles.notice.Render("Your stored tasks could not be read:") + "\n")
			b.WriteString("    " + m.loadErr.Error() + "\n\n")
			b.WriteString("  Fix or move the stored data aside; it will not be overwritten.\n")
		} else {
			b.WriteString("  " + m.styles.notice.Render("Could not reach local storage:") + "\n")
			b.WriteString("    " + m.loadErr.Error() + "\n")
		}
		b.WriteString("\n  " + m.styles.help.Render("q to quit") + "\n")
		return b.String()
	}

	if !m.ready {
		b.WriteString(fmt.Sprintf("  %s Loading your tasks...\n", m.spin.View()))
		return b.String()
	}

	b.WriteString("  " + m.input.View() + "\n\n")
	m.writeList(&b)
	m.writeNotice(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *model) writeList(b *strings.Builder) {
	if len(m.list) == 0 {
		b.WriteString("  " + m.styles.empty.Render("Nothing to do. Add a task above.") + "\n\n")
		return
	}

	for i := range m.list {
		t := &m.list[i]
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}

		line := fmt.Sprintf("%s %s", check, t.Text)
		switch {
		case m.confirm != nil && *m.confirm == t.ID:
			line = m.styles.confirm.Render(fmt.Sprintf("%s %s  delete? (y/n)", check, t.Text))
		case t.Completed:
			line = m.styles.completed.Render(line)
		case i == m.cursor && m.focus == focusList:
			line = m.styles.selected.Render(line)
		default:
			line = m.styles.item.Render(line)
		}

		prefix := "  "
		if i == m.cursor && m.focus == focusList {
			prefix = "> "
		}
		b.WriteString(prefix + line + "\n")
	}
	b.WriteString("\n")
}

func (m *model) writeNotice(b *strings.Builder) {
	if m.notice == "" {
		return
	}
	b.WriteString("  " + m.styles.notice.Render(m.notice+" (esc to dismiss)") + "\n\n")
}

func (m *model) writeFooter(b *strings.Builder) {
	active, completed := m.list.Counts()
	counts := fmt.Sprintf("%d open, %d done", active, completed)

	var help string
	if m.focus == focusInput {
		help = "enter add | tab list | ctrl+c quit"
	} else {
		help = "space toggle | d delete | a add | tab input | q quit"
	}
	b.WriteString("  " + m.styles.help.Render(counts+"  ·  "+help) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
