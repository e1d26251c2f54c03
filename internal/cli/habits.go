package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/reflekt/internal/habits"
)

type HabitsCmd struct {
	Days int `help:"Number of days of reflections to analyse." default:"7"`
}

func (c *HabitsCmd) Run(ctx *Context) error {
	r, err := ctx.Engine.AnalyzeHabits(context.Background(), ctx.UserID, c.Days)
	if err != nil {
		return err
	}

	ctx.Println(title(fmt.Sprintf("Habits (last %s)", pluralDays(r.Days))))
	if r.Reflections == 0 {
		ctx.Println(mutedStyle.Render("No reflections in this window."))
		return nil
	}

	ctx.Println(row("Mentioned", listOrNone(r.Habits)))
	ctx.Println(row("Anchor habits", listOrNone(r.Anchors)))
	ctx.Println(row("Days reflected", fmt.Sprintf("%d%%", r.Consistency.Overall)))
	ctx.Println(row("Streak depth", fmt.Sprintf("%d%%", r.Consistency.Reflection)))

	if len(r.Success) == 0 {
		return nil
	}
	ctx.Println()
	for _, s := range r.Success {
		ctx.Println(row(categoryName(s.Category), fmt.Sprintf("%3d%%  %s",
			s.Rate,
			mutedStyle.Render(fmt.Sprintf("%d of %d reflections, best run %d", s.Mentions, s.Attempts, s.LongestRun)))))
	}
	return nil
}

func categoryName(c habits.Category) string {
	return strings.ReplaceAll(string(c), "_", " ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
