package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/axgrid/ctrprep/cli/models"
	"github.com/axgrid/ctrprep/domain"
	"github.com/axgrid/ctrprep/script"
	"github.com/axgrid/ctrprep/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"strings"
	"time"
)

type CLI struct {
	ctx      context.Context
	counter  domain.Counter
	ledger   domain.Ledger
	interval time.Duration
	last     *models.Snapshot
	rate     float64
	table    string
}

func NewCLI(ctx context.Context, interval time.Duration, counter domain.Counter, ledger domain.Ledger) *CLI {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	c := &CLI{
		ctx:      ctx,
		counter:  counter,
		ledger:   ledger,
		interval: interval,
	}
	c.table = c.updateTable()
	return c
}

func (c *CLI) Init() tea.Cmd {
	return c.poll
}

func (c *CLI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return c, tea.Quit
		}
	case models.SnapshotMsg:
		s := models.Snapshot(msg)
		if c.last != nil && s.Err == nil && !s.Missing && !c.last.Missing && s.Value >= c.last.Value {
			if elapsed := s.At.Sub(c.last.At).Seconds(); elapsed > 0 {
				c.rate = float64(s.Value-c.last.Value) / elapsed
			}
		}
		if s.Err == nil {
			c.last = &s
		}
		c.table = c.updateTable()
		if s.Err != nil {
			c.table += errorStyle.Render(s.Err.Error()) + "\n"
		}
		return c, tea.Tick(c.interval, func(time.Time) tea.Msg { return c.poll() })
	}
	return c, nil
}

func (c *CLI) View() string {
	view := strings.Builder{}
	view.WriteString(c.table)
	view.WriteString(footerStyle.Render("q: quit") + "\n")
	return view.String()
}

func (c *CLI) poll() tea.Msg {
	s := models.Snapshot{Key: c.counter.Key(), At: time.Now()}
	v, err := c.counter.Get(c.ctx)
	switch {
	case errors.Is(err, domain.ErrCounterMissing):
		s.Missing = true
	case err != nil:
		s.Err = err
		return models.SnapshotMsg(s)
	default:
		s.Value = v
	}
	if s.ScriptLoaded, err = c.counter.ScriptLoaded(c.ctx); err != nil {
		s.Err = err
		return models.SnapshotMsg(s)
	}
	if c.ledger != nil {
		s.HasLedger = true
		if s.Ledger, err = c.ledger.MaxCounter(c.ctx); err != nil {
			s.Err = err
		}
	}
	return models.SnapshotMsg(s)
}

var (
	lagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#228B22"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

func (c *CLI) updateTable() string {
	row := []string{c.counter.Key(), "-", "-", "-", "-", "-"}
	if s := c.last; s != nil {
		if s.Missing {
			row[1] = lagStyle.Render("missing")
		} else {
			row[1] = fmt.Sprintf("%d", s.Value)
		}
		row[2] = fmt.Sprintf("%.1f", c.rate)
		if s.ScriptLoaded {
			row[3] = normalStyle.Render(utils.Shortener(script.Hash()))
		} else {
			row[3] = lagStyle.Render("not loaded")
		}
		if s.HasLedger {
			row[4] = fmt.Sprintf("%d", s.Ledger)
			lag := fmt.Sprintf("%d", utils.Diff(s.Value, s.Ledger))
			// ledger ahead of redis means the next INCR hands out a used value
			if s.Ledger > s.Value {
				row[5] = lagStyle.Render("-" + lag)
			} else {
				row[5] = normalStyle.Render(lag)
			}
		}
	}
	tableStr := &strings.Builder{}
	table := tablewriter.NewWriter(tableStr)
	table.SetHeader([]string{"KEY", "VALUE", "OP/SEC", "SCRIPT", "LEDGER", "LAG"})
	table.Append(row)
	table.Render()
	return tableStr.String()
}
