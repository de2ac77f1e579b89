package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pixeldue/internal/engine"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
)

const refreshEvery = 250 * time.Millisecond

type boardModel struct {
	ctx  context.Context
	sess *engine.Session

	width  int
	height int

	profile storage.Profile
	board   engine.Board
	palMsg  *pal.Message

	selected int

	lastLog string
}

type tickMsg time.Time

type actionMsg struct {
	log string
	err error
}

func newBoardModel(ctx context.Context, sess *engine.Session) boardModel {
	m := boardModel{ctx: ctx, sess: sess, lastLog: "Loaded."}
	m.refresh()
	return m
}

func (m *boardModel) refresh() {
	m.profile = m.sess.Profile()
	m.board = m.sess.Board()
	m.palMsg = m.sess.Pal().Current()
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m boardModel) Init() tea.Cmd {
	return tickCmd()
}

// rows flattens the board sections into the selectable quest list, in
// display order.
func (m boardModel) rows() []storage.Quest {
	var out []storage.Quest
	out = append(out, m.board.Active...)
	out = append(out, m.board.Bounties...)
	out = append(out, m.board.DueToday...)
	out = append(out, m.board.Upcoming...)
	out = append(out, m.board.Someday...)
	out = append(out, m.board.Done...)
	return out
}

func (m *boardModel) selectedQuest() *storage.Quest {
	rows := m.rows()
	if m.selected < 0 || m.selected >= len(rows) {
		return nil
	}
	q := rows[m.selected]
	return &q
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.sess.CompleteQuest(m.ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		log := fmt.Sprintf("+%d XP", res.Quest.XPReward)
		if res.Delta.LeveledUp {
			log += fmt.Sprintf(" — level %d!", res.Delta.Level)
		}
		return actionMsg{log: log}
	}
}

func (m boardModel) startCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.sess.StartQuest(m.ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: "Timer started."}
	}
}

func (m boardModel) cancelCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.sess.CancelQuest(m.ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: "Timer stopped."}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.refresh()
		if n := len(m.rows()); m.selected >= n && n > 0 {
			m.selected = n - 1
		}
		return m, tickCmd()
	case actionMsg:
		if msg.err != nil {
			if engine.IsRefusal(msg.err) {
				m.lastLog = msg.err.Error()
			} else {
				m.lastLog = "Failed: " + msg.err.Error()
			}
			return m, nil
		}
		m.lastLog = msg.log
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.refresh()
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.rows())-1 {
				m.selected++
			}
			return m, nil
		case "s":
			if q := m.selectedQuest(); q != nil {
				m.lastLog = "Starting " + q.Title + "…"
				return m, m.startCmd(q.ID)
			}
			return m, nil
		case "x":
			if q := m.selectedQuest(); q != nil {
				return m, m.cancelCmd(q.ID)
			}
			return m, nil
		case "c", " ", "enter":
			q := m.selectedQuest()
			if q == nil {
				return m, nil
			}
			if q.IsCompleted {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = "Completing " + q.Title + "…"
			return m, m.completeCmd(q.ID)
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	header := m.renderHeader()
	palLine := m.renderPal()
	main := m.renderBoard()
	footer := m.renderFooter()
	return header + "\n" + palLine + "\n" + main + footer
}

func (m boardModel) renderHeader() string {
	lvl := m.profile.Level
	cur := engine.ThresholdForLevel(lvl)
	next := engine.ThresholdForLevel(lvl + 1)
	bar := progressBar(m.profile.XP-cur, next-cur, 30)
	if lvl >= engine.MaxLevel() {
		bar = "[MAX]"
	}
	return fmt.Sprintf("Pixel Due | %s | Level %d | XP %d %s | Credits %d",
		m.profile.DisplayName, lvl, m.profile.XP, bar, m.profile.Credits)
}

func (m boardModel) renderPal() string {
	if m.palMsg == nil {
		return "Pal: …"
	}
	return "Pal: " + m.palMsg.Text
}

func (m boardModel) renderBoard() string {
	sections := []struct {
		name   string
		quests []storage.Quest
	}{
		{"Active", m.board.Active},
		{"Bounties", m.board.Bounties},
		{"Due Today", m.board.DueToday},
		{"Upcoming", m.board.Upcoming},
		{"Someday", m.board.Someday},
		{"Done", m.board.Done},
	}

	var out []string
	idx := 0
	empty := true
	for _, sec := range sections {
		if len(sec.quests) == 0 {
			continue
		}
		empty = false
		out = append(out, sec.name)
		for _, q := range sec.quests {
			cursor := "  "
			if idx == m.selected {
				cursor = "> "
			}
			out = append(out, cursor+renderQuestLine(q))
			idx++
		}
		out = append(out, "")
	}
	if empty {
		return "(no quests yet — add one with `pixeldue add`)\n"
	}
	return strings.Join(out, "\n")
}

func renderQuestLine(q storage.Quest) string {
	var tags []string
	if q.IsBounty {
		tags = append(tags, fmt.Sprintf("bounty +%d credits", q.BountyCreditReward))
	}
	if q.IsStarted && q.StartTime != nil {
		tags = append(tags, "running since "+q.StartTime.Local().Format("15:04"))
	}
	if q.DueDate != "" {
		tags = append(tags, "due "+q.DueDate)
	}
	suffix := ""
	if len(tags) > 0 {
		suffix = " (" + strings.Join(tags, ", ") + ")"
	}
	return fmt.Sprintf("%s [%dm, %d XP]%s", q.Title, q.DurationMinutes, q.XPReward, suffix)
}

func (m boardModel) renderFooter() string {
	keys := "j/k: move | s: start | x: stop | c/space: complete | r: refresh | q: quit"
	return "\n" + keys + "\n" + m.lastLog
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
