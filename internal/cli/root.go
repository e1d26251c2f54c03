package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/reflekt/internal/config"
	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/engine"
	"github.com/julianstephens/reflekt/internal/reflection"
	"github.com/julianstephens/reflekt/internal/storage"
	"github.com/julianstephens/reflekt/internal/utils"
)

type Context struct {
	Config      *config.Config
	Store       storage.Provider
	Engine      *engine.Engine
	Reflections *reflection.Service
	UserID      string
	// Out receives command output. Defaults to stdout.
	Out io.Writer
}

// NewContext wires the engine and submission service over store.
func NewContext(cfg *config.Config, store storage.Provider, loc *time.Location) *Context {
	eng := engine.New(store, store, engine.Options{
		Location:           loc,
		StoreTimeout:       cfg.Engine.StoreTimeout,
		MaxConflictRetries: cfg.Engine.MaxConflictRetries,
	})
	return &Context{
		Config:      cfg,
		Store:       store,
		Engine:      eng,
		Reflections: reflection.NewService(eng),
		UserID:      cfg.UserID,
		Out:         os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// parseWhen accepts a calendar date or an RFC 3339 timestamp. Bare dates
// resolve to noon in loc so they never straddle a day boundary.
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := utils.ParseDateInLocation(s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected %s or RFC 3339", s, constants.DateFormat)
	}
	return d.Add(12 * time.Hour), nil
}

func parsePeriod(s string) (constants.Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly", "week", "7":
		return constants.PeriodWeekly, nil
	case "monthly", "month", "30":
		return constants.PeriodMonthly, nil
	default:
		return 0, fmt.Errorf("invalid period %q: expected weekly or monthly", s)
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(constants.DateFormat)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
