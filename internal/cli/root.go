package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pa/internal/app"
	"github.com/julianstephens/pa/internal/config"
	"github.com/julianstephens/pa/internal/duration"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/tracker"
)

type Context struct {
	App    *app.Controller
	Config config.Config
	Out    io.Writer
	In     io.Reader
}

// NewContext writes to stdout and reads confirmations from stdin.
func NewContext(a *app.Controller, cfg config.Config) *Context {
	return &Context{App: a, Config: cfg, Out: os.Stdout, In: os.Stdin}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question; anything but y/yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ParseDay accepts "mon", "Monday", "today" and similar.
func ParseDay(ctx *Context, s string) (models.Weekday, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return models.WeekdayOf(ctx.App.Now().Weekday()), nil
	}
	return models.ParseWeekday(s)
}

var (
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	onTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// StatusBadge renders a status for terminal output.
func StatusBadge(s tracker.Status) string {
	switch s {
	case tracker.StatusOnTrack:
		return onTrackStyle.Render("on track")
	case tracker.StatusOverdue:
		return overdueStyle.Render("overdue")
	default:
		return idleStyle.Render("idle")
	}
}

// FormatGoal renders an optional goal in minutes.
func FormatGoal(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return duration.Format(*minutes)
}

// FormatPriority renders an optional priority.
func FormatPriority(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("P%d", *p)
}

// ShortID trims a uuid for display; full ids are still accepted everywhere.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
