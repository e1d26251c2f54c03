package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/habits"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/reflection"
)

type ReflectCmd struct {
	Text     string `arg:"" optional:"" help:"Reflection text. Prompts for it when omitted."`
	Analysis string `help:"Feedback on the reflection. A 'moodScore: N' label or a bare number 1-100 is recorded as the mood."`
	At       string `help:"When the reflection happened (YYYY-MM-DD or RFC 3339). Defaults to now."`
}

func (c *ReflectCmd) Run(ctx *Context) error {
	at, err := parseWhen(c.At, ctx.Engine.Location())
	if err != nil {
		return err
	}

	text := c.Text
	if strings.TrimSpace(text) == "" {
		text, err = promptReflection()
		if err != nil {
			return err
		}
	}

	res, err := ctx.Reflections.Submit(context.Background(), reflection.Submission{
		UserID:   ctx.UserID,
		Text:     text,
		Analysis: c.Analysis,
		At:       at,
	})
	if err != nil {
		return err
	}

	if res.Duplicate {
		ctx.Println(mutedStyle.Render("This reflection was already recorded."))
	} else {
		ctx.Println(goodStyle.Render("✓ Reflection saved") + mutedStyle.Render(" ("+pluralWords(res.Event.WordCount)+")"))
	}
	printStreakUpdate(ctx, res.Streak)
	if res.Event.MoodScore != nil {
		ctx.Println(row("Mood", *res.Event.MoodScore))
	}
	if found := habits.Extract(res.Event.Text); len(found) > 0 {
		ctx.Println(row("Habits", strings.Join(found, ", ")))
	}
	if res.Analysis != "" {
		ctx.Println()
		ctx.Println(res.Analysis)
	}
	printUnlocked(ctx, res.Unlocked)
	return nil
}

func promptReflection() (string, error) {
	var text string
	err := huh.NewText().
		Title("How did today go?").
		Description("Write a few sentences about your day.").
		CharLimit(constants.MaxReflectionLength).
		Validate(func(s string) error {
			_, err := reflection.Validate(s)
			return err
		}).
		Value(&text).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errors.New("reflection cancelled")
		}
		return "", err
	}
	return text, nil
}

func printStreakUpdate(ctx *Context, upd models.StreakUpdate) {
	streakLine := pluralDays(upd.CurrentStreak)
	if upd.StreakMaintained {
		streakLine += goodStyle.Render(" 🔥")
	} else if upd.CurrentStreak == 1 {
		streakLine += mutedStyle.Render(" (new streak)")
	}
	ctx.Println(row("Current streak", streakLine))
	ctx.Println(row("Longest streak", pluralDays(upd.LongestStreak)))
}

func printUnlocked(ctx *Context, unlocked []models.MilestoneDefinition) {
	for _, m := range unlocked {
		ctx.Println()
		ctx.Printf("%s %s  %s\n", m.Badge, badgeStyle.Render(m.Title), m.Description)
	}
}

func pluralWords(n int) string {
	if n == 1 {
		return "1 word"
	}
	return fmt.Sprintf("%d words", n)
}
