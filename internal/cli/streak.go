package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/milestone"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/streak"
)

type StreakShowCmd struct {
	Calendar bool `help:"Show a day-by-day reflection calendar."`
	Days     int  `help:"Number of days in the calendar." default:"30"`
}

func (c *StreakShowCmd) Run(ctx *Context) error {
	bg := context.Background()
	now := ctx.Engine.Now()

	status, err := ctx.Engine.StreakStatus(bg, ctx.UserID, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			ctx.Println("No reflections yet. Run 'reflekt reflect' to start your streak.")
			return nil
		}
		return err
	}

	ctx.Println(title("Streak"))
	ctx.Println(row("Current streak", pluralDays(status.CurrentStreak)))
	ctx.Println(row("Longest streak", pluralDays(status.LongestStreak)))
	ctx.Println(row("Last reflection", formatDate(status.LastActiveDate)))
	ctx.Println(row("Status", describeStatus(status)))

	if !c.Calendar {
		return nil
	}

	cells, err := ctx.Engine.StreakCalendar(bg, ctx.UserID, now, c.Days)
	if err != nil {
		return err
	}
	ctx.Println()
	ctx.Println(renderCalendar(cells))
	ctx.Println(mutedStyle.Render(fmt.Sprintf("%d of %d days with a reflection", streak.ActiveDays(cells), len(cells))))
	return nil
}

func describeStatus(s streak.Status) string {
	switch {
	case s.DaysSinceActive == 0:
		return goodStyle.Render("reflected today")
	case s.AtRisk:
		return warnStyle.Render("reflect today to keep your streak")
	case s.CanRecover:
		return warnStyle.Render(fmt.Sprintf("missed %s, a reflection today keeps the streak", pluralDays(s.DaysSinceActive-1)))
	case s.CurrentStreak > 0:
		return mutedStyle.Render("streak will restart with your next reflection")
	default:
		return mutedStyle.Render("no active streak")
	}
}

// renderCalendar draws one row per week, oldest first.
func renderCalendar(cells []streak.Day) string {
	var b strings.Builder
	for i, cell := range cells {
		if i%7 == 0 {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(mutedStyle.Render(cell.Date.Format("Jan 02") + "  "))
		}
		if cell.HasReflection {
			b.WriteString(activeCell)
		} else {
			b.WriteString(inactiveCell)
		}
		b.WriteString(" ")
	}
	return b.String()
}

type StreakStatsCmd struct{}

func (c *StreakStatsCmd) Run(ctx *Context) error {
	st, err := ctx.Engine.StreakStats(context.Background(), ctx.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			ctx.Println("No reflections yet. Run 'reflekt reflect' to start your streak.")
			return nil
		}
		return err
	}

	ctx.Println(title(fmt.Sprintf("Streak stats (last %s)", pluralDays(streak.StatsWindow))))
	ctx.Println(row("Days active", fmt.Sprintf("%d of %d", st.DaysActive, st.PossibleDays)))
	ctx.Println(row("Consistency", fmt.Sprintf("%.0f%%  %s", st.ConsistencyRate, bar(st.ConsistencyRate))))
	ctx.Println(row("Average streak day", fmt.Sprintf("%.1f", st.AverageStreakDay)))
	ctx.Println(row("Longest this month", pluralDays(st.LongestInWindow)))
	return nil
}

type StreakResetCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *StreakResetCmd) Run(ctx *Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Reset your current streak?").
			Description("Your longest streak and milestones are kept.").
			Affirmative("Reset").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	if err := ctx.Engine.ResetStreak(context.Background(), ctx.UserID); err != nil {
		return err
	}
	ctx.Println("✓ Streak reset")
	return nil
}

type MilestonesCmd struct{}

func (c *MilestonesCmd) Run(ctx *Context) error {
	ov, err := ctx.Engine.MilestoneOverview(context.Background(), ctx.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		ov = milestone.Overview(models.NewConsistencyRecord(ctx.UserID))
	} else if err != nil {
		return err
	}

	ctx.Println(title(fmt.Sprintf("Milestones (%d/%d)", ov.Achieved, ov.Total)))
	for _, m := range ov.Milestones {
		if m.Achieved {
			ctx.Printf("%s %s  %s\n", m.Badge, badgeStyle.Render(m.Title), mutedStyle.Render(m.Description))
			continue
		}
		ctx.Printf("%s %s  %s\n", inactiveCell, m.Title, mutedStyle.Render(fmt.Sprintf("%s to go", pluralDays(m.DaysToGo))))
	}

	if ov.Next != nil {
		ctx.Println()
		ctx.Println(row("Next: "+ov.Next.Title, bar(ov.ProgressToNext)))
	}
	return nil
}

type HistoryCmd struct {
	Limit int `short:"n" help:"Number of reflections to show." default:"5"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	events, err := ctx.Reflections.History(context.Background(), ctx.UserID, c.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		ctx.Println("No reflections yet.")
		return nil
	}

	loc := ctx.Engine.Location()
	for _, e := range events {
		header := e.OccurredAt.In(loc).Format(constants.DateFormat + " 15:04")
		meta := pluralWords(e.WordCount)
		if e.MoodScore != nil {
			meta += fmt.Sprintf(", mood %d", *e.MoodScore)
		}
		ctx.Println(titleStyle.Render(header) + mutedStyle.Render("  "+meta))
		if e.Text != "" {
			ctx.Println(e.Text)
		}
		ctx.Println()
	}
	return nil
}
