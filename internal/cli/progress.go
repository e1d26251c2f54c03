package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
)

type ProgressCmd struct {
	Window   int  `help:"Scoring window in days." default:"30"`
	Timeline bool `help:"Also list the per-reflection score timeline."`
}

func (c *ProgressCmd) Run(ctx *Context) error {
	bg := context.Background()
	snap, err := ctx.Engine.ComputeProgress(bg, ctx.UserID, c.Window)
	if err != nil {
		return err
	}

	ctx.Println(title(fmt.Sprintf("Progress (last %s)", pluralDays(snap.WindowDays))))
	ctx.Println(row("Overall", fmt.Sprintf("%3d  %s", snap.CumulativeProgress, bar(float64(snap.CumulativeProgress)))))
	ctx.Println(row("Habit maturity", fmt.Sprintf("%3d  %s", snap.HabitMaturity, bar(float64(snap.HabitMaturity)))))
	ctx.Println(row("Stage", snap.MaturityStage))
	ctx.Println(row("Level", snap.AchievementLevel))
	ctx.Println(row("Reflections", snap.ReflectionCount))
	ctx.Println()
	ctx.Println(row("Week over week", formatPct(snap.WeeklyImprovementPct)))
	ctx.Println(row("Month over month", formatPct(snap.MonthlyImprovementPct)))
	ctx.Println(row("Trend", trendArrow(string(snap.TrendDirection))))
	ctx.Println()
	ctx.Println(mutedStyle.Render(formatComponents(snap.Components)))

	if !c.Timeline {
		return nil
	}

	points, err := ctx.Engine.ProgressTimeline(bg, ctx.UserID, c.Window)
	if err != nil {
		return err
	}
	ctx.Println()
	ctx.Println(title("Timeline"))
	if len(points) == 0 {
		ctx.Println(mutedStyle.Render("No reflections in this window."))
		return nil
	}
	for _, p := range points {
		ctx.Printf("%s  %3d  %s\n", p.OccurredAt, p.Score, bar(float64(p.Score)))
	}
	return nil
}

func formatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func formatComponents(c models.ProgressComponents) string {
	return fmt.Sprintf("consistency %.0f · mood %.0f · engagement %.0f · streak bonus %.0f",
		c.Consistency, c.MoodImprovement, c.Engagement, c.StreakBonus)
}

type StatsCmd struct {
	Period string `help:"Reporting period: weekly or monthly." default:"weekly"`
}

func (c *StatsCmd) Run(ctx *Context) error {
	period, err := parsePeriod(c.Period)
	if err != nil {
		return err
	}

	report, err := ctx.Engine.ComputeKPIs(context.Background(), ctx.UserID, period)
	if err != nil {
		return err
	}
	ctx.Println(renderKPIs(report, ctx.Engine.Location()))
	return nil
}

func renderKPIs(r models.KPIReport, loc *time.Location) string {
	var b strings.Builder
	last := r.PeriodEnd.In(loc).AddDate(0, 0, -1)
	fmt.Fprintf(&b, "%s\n", title(fmt.Sprintf("%s stats  %s → %s",
		periodName(r.Period),
		r.PeriodStart.In(loc).Format(constants.DateFormat),
		last.Format(constants.DateFormat))))

	fmt.Fprintln(&b, row("Reflections", r.ReflectionCount))
	fmt.Fprintln(&b, row("Consistency", fmt.Sprintf("%.1f%%", r.ConsistencyPercentage)))
	fmt.Fprintln(&b, row("Words", r.TotalWords))
	fmt.Fprintln(&b, row("Words per day", fmt.Sprintf("%.1f", r.AverageWordsPerDay)))

	weekday := "n/a"
	if r.HasMostActiveWeekday {
		weekday = r.MostActiveWeekday.String()
	}
	fmt.Fprintln(&b, row("Most active day", weekday))

	mood := "n/a"
	if r.AverageMoodScore != nil {
		mood = fmt.Sprintf("%.1f", *r.AverageMoodScore)
	}
	fmt.Fprintln(&b, row("Average mood", mood))
	fmt.Fprintln(&b, row("Mood trend", describeMoodTrend(r.MoodTrend)))
	fmt.Fprintln(&b, row("Frequency", describeFrequency(r.Frequency)))
	fmt.Fprint(&b, row("vs previous period", fmt.Sprintf("%s (%d before)", trendArrow(string(r.FrequencyTrend)), r.PreviousPeriodSize)))
	return b.String()
}

func periodName(p constants.Period) string {
	if p == constants.PeriodMonthly {
		return "Monthly"
	}
	return "Weekly"
}

func describeMoodTrend(t models.MoodTrend) string {
	switch t.Status {
	case models.MoodTrendNoData:
		return mutedStyle.Render("no mood data")
	case models.MoodTrendInsufficient:
		return mutedStyle.Render(fmt.Sprintf("not enough data (%d scores)", t.Samples))
	default:
		return trendArrow(string(t.Status)) + mutedStyle.Render(" "+formatPct(t.ChangePct))
	}
}

func describeFrequency(f models.Frequency) string {
	switch f.Kind {
	case models.FrequencyNone:
		return "no reflections"
	case models.FrequencySingle:
		return "a single day"
	case models.FrequencyAlmostDaily:
		return "almost daily"
	default:
		return fmt.Sprintf("every %s", pluralDays(f.EveryNDays))
	}
}
