// Package habits finds recurring habits in reflection text by keyword and
// measures how regularly each habit category shows up.
package habits

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

type Category string

const (
	Fitness        Category = "fitness"
	Mindfulness    Category = "mindfulness"
	Learning       Category = "learning"
	Productivity   Category = "productivity"
	Nutrition      Category = "nutrition"
	Sleep          Category = "sleep"
	MorningRoutine Category = "morning_routine"
	Social         Category = "social"
)

type habit struct {
	name     string
	category Category
	re       *regexp.Regexp
}

func h(name string, c Category, pattern string) habit {
	return habit{name: name, category: c, re: regexp.MustCompile(`\b(?:` + pattern + `)\b`)}
}

// known is ordered; extraction reports habits in this order.
var known = []habit{
	h("exercise", Fitness, `exercis(?:e|ed|ing)|workout|worked out`),
	h("gym", Fitness, `gym`),
	h("running", Fitness, `ran|run|running|jog|jogged|jogging`),
	h("yoga", Fitness, `yoga|stretch(?:ed|ing)?`),
	h("walk", Fitness, `walk(?:ed|ing)?`),
	h("meditation", Mindfulness, `meditat(?:e|ed|ion|ing)|mindfulness`),
	h("prayer", Mindfulness, `pray(?:ed|ing)?|prayers?`),
	h("journaling", Mindfulness, `journal(?:ed|ing)?|gratitude`),
	h("reading", Learning, `read|reading|books?`),
	h("studying", Learning, `stud(?:y|ied|ying)|course|lessons?|learn(?:ed|ing|t)?`),
	h("work", Productivity, `work(?:ed|ing)?|office`),
	h("meeting", Productivity, `meetings?`),
	h("project", Productivity, `projects?|presentation|deadline`),
	h("commute", Productivity, `commut(?:e|ed|ing)`),
	h("breakfast", Nutrition, `breakfast`),
	h("lunch", Nutrition, `lunch`),
	h("dinner", Nutrition, `dinner`),
	h("coffee", Nutrition, `coffee|tea`),
	h("water", Nutrition, `water|hydrat(?:e|ed|ing)`),
	h("vitamins", Nutrition, `vitamins?|supplements?`),
	h("sleep", Sleep, `sleep|slept|nap|napped`),
	h("bedtime", Sleep, `bed|bedtime`),
	h("wake up", MorningRoutine, `wake up|woke up|woke early`),
	h("shower", MorningRoutine, `shower(?:ed)?`),
	h("teeth", MorningRoutine, `teeth`),
	h("family", Social, `family|kids|parents`),
	h("friends", Social, `friends?`),
	h("partner", Social, `partner|wife|husband`),
}

// anchors are everyday routines a new habit can be stacked onto.
var anchors = []string{
	"wake up",
	"coffee",
	"shower",
	"teeth",
	"breakfast",
	"commute",
	"lunch",
	"dinner",
	"prayer",
	"bedtime",
}

// Consistency is how regularly the user reflected over the analysed window.
type Consistency struct {
	// Reflection is the mean streak day of the window's reflections relative
	// to their count, capped at 100.
	Reflection int
	// Overall is the share of the window's days with a reflection.
	Overall int
}

type Analysis struct {
	Days        int
	Reflections int
	Habits      []string
	Anchors     []string
	Categories  []Category
	Consistency Consistency
}

// Success tracks one category across the window's reflections.
type Success struct {
	Category Category
	// Rate is the percentage of reflections mentioning the category.
	Rate     int
	Mentions int
	// LongestRun is the most consecutive reflections mentioning it.
	LongestRun int
	Attempts   int
}

// Analyze extracts habits from events, which must all fall inside a window
// of days calendar days.
func Analyze(events []models.ReflectionEvent, days int, loc *time.Location) Analysis {
	a := Analysis{Days: days, Reflections: len(events)}
	if len(events) == 0 {
		return a
	}

	texts := make([]string, len(events))
	for i, e := range events {
		texts[i] = e.Text
	}
	found := extract(strings.Join(texts, "\n\n"))

	a.Habits = make([]string, 0, len(found))
	for _, f := range found {
		a.Habits = append(a.Habits, f.name)
		if !slices.Contains(a.Categories, f.category) {
			a.Categories = append(a.Categories, f.category)
		}
	}
	for _, anchor := range anchors {
		if slices.Contains(a.Habits, anchor) {
			a.Anchors = append(a.Anchors, anchor)
		}
	}
	a.Consistency = consistency(events, days, loc)
	return a
}

// Extract returns the names of the habits mentioned in text.
func Extract(text string) []string {
	found := extract(text)
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

func extract(text string) []habit {
	lower := strings.ToLower(text)
	var out []habit
	for _, k := range known {
		if k.re.MatchString(lower) {
			out = append(out, k)
		}
	}
	return out
}

func consistency(events []models.ReflectionEvent, days int, loc *time.Location) Consistency {
	var c Consistency
	n := len(events)
	if n == 0 {
		return c
	}

	sum := 0
	active := map[time.Time]bool{}
	for _, e := range events {
		sum += e.StreakDay
		active[utils.DateIn(e.OccurredAt, loc)] = true
	}
	avg := float64(sum) / float64(n)
	c.Reflection = min(100, int(math.Round(avg/float64(n)*100)))
	if days > 0 {
		c.Overall = min(100, int(math.Round(float64(len(active))/float64(days)*100)))
	}
	return c
}

// Track measures how often category appears across events, taken in
// chronological order.
func Track(events []models.ReflectionEvent, category Category) Success {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b models.ReflectionEvent) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	s := Success{Category: category, Attempts: len(sorted)}
	run := 0
	for _, e := range sorted {
		if mentions(e.Text, category) {
			s.Mentions++
			run++
			s.LongestRun = max(s.LongestRun, run)
		} else {
			run = 0
		}
	}
	if s.Attempts > 0 {
		s.Rate = int(math.Round(100 * float64(s.Mentions) / float64(s.Attempts)))
	}
	return s
}

func mentions(text string, category Category) bool {
	lower := strings.ToLower(text)
	for _, k := range known {
		if k.category == category && k.re.MatchString(lower) {
			return true
		}
	}
	return false
}
