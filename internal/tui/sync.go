package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/strapisync/internal/styles"
	"github.com/gerunddev/strapisync/internal/sync"
)

// syncModel is the Bubble Tea model for the sync progress display
type syncModel struct {
	spinner  spinner.Model
	status   string
	done     int
	total    int
	complete bool
	result   *sync.SyncResult
	err      error
	cancel   context.CancelFunc
}

// SyncMsg is sent when sync completes
type SyncMsg struct {
	Result *sync.SyncResult
	Err    error
}

// ProgressMsg is sent after each article is handled
type ProgressMsg sync.Event

// InitSyncModel creates a new sync progress model. cancel is called when the
// user interrupts the run.
func InitSyncModel(source string, cancel context.CancelFunc) syncModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return syncModel{
		spinner: s,
		status:  "Fetching articles from " + source + "...",
		cancel:  cancel,
	}
}

func (m syncModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m syncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			m.status = "Cancelling..."
			return m, nil
		}

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.status = fmt.Sprintf("Rendering [%d/%d] %s", msg.Done, msg.Total, msg.File)
		return m, nil

	case SyncMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m syncModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Sync failed: "+m.err.Error()) + "\n"
	}
	return Summary(m.result)
}

// Summary formats a finished run for the terminal
func Summary(r *sync.SyncResult) string {
	if r == nil {
		return ""
	}

	took := styles.DimStyle.Render(fmt.Sprintf("Completed in %v", r.EndTime.Sub(r.StartTime).Round(time.Millisecond)))

	if r.Fetched == 0 {
		return styles.SuccessStyle.Render("✓ No published articles, output left untouched") + "\n" + took + "\n"
	}

	var b strings.Builder
	verb := "Wrote"
	if r.DryRun {
		verb = "Would write"
	}
	b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s %d of %d article(s)", verb, len(r.Written), r.Fetched)))
	if len(r.Warnings) > 0 {
		b.WriteString(", " + styles.WarningStyle.Render(fmt.Sprintf("%d warning(s)", len(r.Warnings))))
	}
	if len(r.Errors) > 0 {
		b.WriteString(", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors))))
	}
	b.WriteString("\n")

	if c := r.Changes; len(c.Created)+len(c.Updated)+len(c.Removed) > 0 {
		b.WriteString(styles.DimStyle.Render(c.String()))
		b.WriteString("\n")
	}

	b.WriteString(took)
	b.WriteString("\n")
	return b.String()
}

// RunSync runs s under a spinner and returns its result once the program
// exits
func RunSync(ctx context.Context, s *sync.Syncer, source string, opts sync.Options) (*sync.SyncResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(InitSyncModel(source, cancel))

	s.OnEvent(func(e sync.Event) {
		p.Send(ProgressMsg(e))
	})

	go func() {
		result, err := s.Sync(ctx, opts)
		p.Send(SyncMsg{Result: result, Err: err})
	}()

	final, runErr := p.Run()
	if runErr != nil {
		return nil, runErr
	}

	m := final.(syncModel)
	return m.result, m.err
}
