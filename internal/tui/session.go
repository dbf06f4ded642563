package tui

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/resume"
	"github.com/amishk599/careerlens/internal/session"
)

// How long a notice stays in the status bar.
const noticeTTL = 4 * time.Second

// Options tunes the session screen.
type Options struct {
	Filter        model.JobFilter // nil disables the matched-only toggle
	QueryKeywords int
	AutoStart     bool // start the analysis as soon as the screen opens
}

type snapshotMsg session.Snapshot

type noticeMsg model.Notice

type clearNoticeMsg struct{ seq int }

type spinnerTickMsg struct{}

type opDoneMsg struct {
	op  string
	err error
}

const (
	opAnalyze = "analyze"
	opJobs    = "jobs"
)

const (
	paneAnalysis = iota
	paneJobs
)

// opTracker counts controller calls started by the screen. Once closed it
// refuses new calls, so a screen that has exited cannot start one late.
type opTracker struct {
	mu     sync.Mutex
	active sync.WaitGroup
	closed bool
}

func (t *opTracker) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.active.Add(1)
	return true
}

func (t *opTracker) end() { t.active.Done() }

// closeAndWait refuses further calls and waits for running ones to return.
func (t *opTracker) closeAndWait() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	t.active.Wait()
}

type sessionModel struct {
	ctrl *session.Controller
	ctx  context.Context
	opts Options
	ops  *opTracker

	snap     session.Snapshot
	listings []model.JobListing // all or matched, depending on matchedOnly
	matched  bool

	analysisViewport viewport.Model
	jobsViewport     viewport.Model
	activePane       int
	cursor           int
	width            int
	height           int
	ready            bool
	frame            int

	notice    *model.Notice
	noticeSeq int

	wantQuit bool
}

func newSessionModel(ctx context.Context, ctrl *session.Controller, opts Options) sessionModel {
	if opts.QueryKeywords <= 0 {
		opts.QueryKeywords = session.DefaultQueryKeywords
	}
	m := sessionModel{
		ctrl:    ctrl,
		ctx:     ctx,
		opts:    opts,
		ops:     &opTracker{},
		matched: opts.Filter != nil,
	}
	m.applySnapshot(ctrl.Snapshot())
	return m
}

func (m sessionModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.opts.AutoStart {
		cmds = append(cmds, m.startAnalysisCmd())
	}
	return tea.Batch(cmds...)
}

func (m sessionModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m sessionModel) startAnalysisCmd() tea.Cmd {
	ctrl, ctx, ops := m.ctrl, m.ctx, m.ops
	return func() tea.Msg {
		if !ops.begin() {
			return nil
		}
		defer ops.end()
		_, err := ctrl.StartAnalysis(ctx)
		return opDoneMsg{op: opAnalyze, err: err}
	}
}

func (m sessionModel) fetchJobsCmd() tea.Cmd {
	ctrl, ctx, ops := m.ctrl, m.ctx, m.ops
	return func() tea.Msg {
		if !ops.begin() {
			return nil
		}
		defer ops.end()
		_, err := ctrl.FetchJobs(ctx)
		return opDoneMsg{op: opJobs, err: err}
	}
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case snapshotMsg:
		// Listeners run outside the controller lock, so snapshots from
		// concurrent operations can arrive out of order.
		if msg.Seq < m.snap.Seq {
			return m, nil
		}
		m.applySnapshot(session.Snapshot(msg))
		m.recalcContent()
		return m, nil

	case noticeMsg:
		n := model.Notice(msg)
		m.notice = &n
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case opDoneMsg:
		// Failures already reached the status bar as notices; an analysis
		// replaced by a newer one has nothing to report.
		if errors.Is(msg.err, model.ErrSuperseded) {
			return m, nil
		}
		m.recalcContent()
		return m, nil

	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		if m.snap.Analyzing || m.snap.FetchingJobs {
			m.recalcContent()
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m sessionModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "a":
		if m.snap.Analyzing {
			return m, nil
		}
		return m, m.startAnalysisCmd()
	case "f":
		if m.snap.AnalysisResult == nil || m.snap.FetchingJobs {
			return m, nil
		}
		return m, m.fetchJobsCmd()
	case "m":
		if m.opts.Filter != nil {
			m.matched = !m.matched
			m.refreshListings()
			m.recalcContent()
		}
		return m, nil
	case "o", "enter":
		if m.activePane == paneJobs && m.cursor < len(m.listings) {
			if url := m.listings[m.cursor].ApplyURL; url != "" {
				openURL(url)
			}
		}
		return m, nil
	}

	if m.activePane == paneJobs {
		switch msg.String() {
		case "up", "k":
			m.cursor = clamp(m.cursor-1, 0, max(len(m.listings)-1, 0))
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		case "down", "j":
			m.cursor = clamp(m.cursor+1, 0, max(len(m.listings)-1, 0))
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		}
	}

	// Forward other keys (scrolling) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == paneAnalysis {
		m.analysisViewport, cmd = m.analysisViewport.Update(msg)
	} else {
		m.jobsViewport, cmd = m.jobsViewport.Update(msg)
	}
	return m, cmd
}

func (m *sessionModel) applySnapshot(s session.Snapshot) {
	m.snap = s
	m.refreshListings()
}

func (m *sessionModel) refreshListings() {
	m.listings = nil
	if m.snap.JobsResult != nil {
		m.listings = m.snap.JobsResult.Listings
		if m.matched && m.opts.Filter != nil {
			m.listings = filter.Apply(m.opts.Filter, m.listings)
		}
	}
	m.cursor = clamp(m.cursor, 0, max(len(m.listings)-1, 0))
}

func (m *sessionModel) ensureCursorVisible() {
	vp := &m.jobsViewport
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m *sessionModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Title (1) + pane headers (1) + border top/bottom (2) + status bar (1).
	paneHeight := max(m.height-5, 5)

	if !m.ready {
		m.analysisViewport = viewport.New(paneWidth, paneHeight)
		m.jobsViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.analysisViewport.Width = paneWidth
		m.analysisViewport.Height = paneHeight
		m.jobsViewport.Width = paneWidth
		m.jobsViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *sessionModel) recalcContent() {
	if !m.ready {
		return
	}
	m.analysisViewport.SetContent(renderAnalysisPane(m.snap, m.frame, m.analysisViewport.Width, m.opts.QueryKeywords))
	if m.snap.JobsResult == nil || m.snap.FetchingJobs {
		m.jobsViewport.SetContent(renderJobsPlaceholder(m.snap, m.frame, m.opts.QueryKeywords))
		return
	}
	m.jobsViewport.SetContent(renderListings(m.listings, m.cursor, m.activePane == paneJobs))
}

func (m sessionModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	paneWidth := m.analysisViewport.Width

	title := titleBarStyle.Render("CareerLens")
	if f := m.snap.SelectedFile; f != nil {
		title += fileInfoStyle.Render("  " + resume.Describe(*f))
	}
	title += fileInfoStyle.Render("  [" + string(m.snap.Phase) + "]")

	leftHeader := " Resume Analysis"
	rightHeader := " Job Recommendations"
	if m.snap.JobsResult != nil {
		label := "all"
		if m.matched {
			label = "matched"
		}
		rightHeader = fmt.Sprintf(" Job Recommendations (%d %s)", len(m.listings), label)
	}

	leftHeaderStyle, rightHeaderStyle := activeHeaderStyle, inactiveHeaderStyle
	leftBorder, rightBorder := activeBorderStyle, inactiveBorderStyle
	if m.activePane == paneJobs {
		leftHeaderStyle, rightHeaderStyle = inactiveHeaderStyle, activeHeaderStyle
		leftBorder, rightBorder = inactiveBorderStyle, activeBorderStyle
	}

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderStyle.Render(leftHeader)),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderStyle.Render(rightHeader)),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		leftBorder.Width(paneWidth).Render(m.analysisViewport.View()),
		" ",
		rightBorder.Width(paneWidth).Render(m.jobsViewport.View()),
	)

	return title + "\n" + headerRow + "\n" + panes + "\n" + m.statusBar()
}

func (m sessionModel) statusBar() string {
	if m.notice != nil {
		st := successNoticeStyle
		if m.notice.Level == model.NoticeError {
			st = errorNoticeStyle
		}
		return st.Width(m.width).Render(" " + m.notice.Message)
	}

	help := " a analyze  f find jobs  ←/→/Tab switch  ↑/↓ move  o open  esc new file  q quit"
	if m.opts.Filter != nil {
		help = " a analyze  f find jobs  m all/matched  ←/→/Tab switch  ↑/↓ move  o open  esc new file  q quit"
	}
	return statusBarStyle.Width(m.width).Render(help)
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunSession shows the analysis screen for the controller's selected file.
// relay must be the notifier the controller was built with. Returns
// wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc to
// pick another file.
func RunSession(ctrl *session.Controller, relay *NoticeRelay, opts Options) (bool, error) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newSessionModel(ctx, ctrl, opts)

	p := tea.NewProgram(m, tea.WithAltScreen())
	relay.attach(p)
	ctrl.SetOnChange(func(s session.Snapshot) { p.Send(snapshotMsg(s)) })

	result, err := p.Run()

	// Operations still in flight belong to this screen. Cancel them and wait,
	// so their notices and snapshots never reach the next screen.
	cancel()
	m.ops.closeAndWait()
	ctrl.SetOnChange(nil)
	relay.attach(nil)

	if err != nil {
		return false, err
	}
	return result.(sessionModel).wantQuit, nil
}
