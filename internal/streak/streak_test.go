package streak

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

var day0 = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

func at(days int) time.Time {
	return day0.AddDate(0, 0, days)
}

func recordWith(cur, longest int, lastActiveDay int) models.ConsistencyRecord {
	rec := models.NewConsistencyRecord("u1")
	rec.CurrentStreak = cur
	rec.LongestStreak = longest
	d := utils.DateIn(at(lastActiveDay), time.UTC)
	rec.LastActiveDate = &d
	return rec
}

func TestAdvanceTransitions(t *testing.T) {
	tests := []struct {
		name           string
		rec            models.ConsistencyRecord
		gap            int
		wantStreak     int
		wantMaintained bool
	}{
		{"first activity", models.NewConsistencyRecord("u1"), 0, 1, true},
		{"same day", recordWith(4, 4, 0), 0, 4, true},
		{"consecutive day", recordWith(4, 4, 0), 1, 5, true},
		{"gap 2 with one week forgiveness", recordWith(7, 7, 0), 2, 1, false},
		{"gap 2 at fourteen is forgiven", recordWith(14, 14, 0), 2, 13, true},
		{"gap 2 at thirteen resets", recordWith(13, 13, 0), 2, 1, false},
		{"gap 3 always resets", recordWith(40, 40, 0), 3, 1, false},
		{"gap 5 at fourteen resets", recordWith(14, 14, 0), 5, 1, false},
		{"after reset next day counts from zero", recordWith(0, 9, 0), 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, upd := Advance(tt.rec, at(tt.gap), time.UTC)
			assert.Equal(t, tt.wantStreak, next.CurrentStreak)
			assert.Equal(t, tt.wantStreak, upd.CurrentStreak)
			assert.Equal(t, tt.wantMaintained, upd.StreakMaintained)
			require.NotNil(t, next.LastActiveDate)
			assert.Equal(t, utils.DateIn(at(tt.gap), time.UTC), *next.LastActiveDate)
			assert.GreaterOrEqual(t, next.LongestStreak, next.CurrentStreak)
		})
	}
}

func TestAdvanceIsIdempotentWithinADay(t *testing.T) {
	rec := recordWith(3, 3, 0)
	first, _ := Advance(rec, at(1), time.UTC)
	second, upd := Advance(first, at(1).Add(5*time.Hour), time.UTC)

	assert.Equal(t, 4, first.CurrentStreak)
	assert.Equal(t, 4, second.CurrentStreak)
	assert.True(t, upd.StreakMaintained)
}

func TestAdvanceBackdatedKeepsLastActive(t *testing.T) {
	rec := recordWith(5, 5, 3)
	next, upd := Advance(rec, at(1), time.UTC)

	assert.Equal(t, 5, next.CurrentStreak)
	assert.Equal(t, *rec.LastActiveDate, *next.LastActiveDate)
	assert.True(t, upd.StreakMaintained)
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	rec := recordWith(2, 2, 0)
	_, _ = Advance(rec, at(1), time.UTC)

	assert.Equal(t, 2, rec.CurrentStreak)
	assert.Equal(t, utils.DateIn(at(0), time.UTC), *rec.LastActiveDate)
}

func TestAdvanceUsesLocationCalendar(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	// 23:00 UTC on day 0 is already day 1 in UTC+10
	rec := recordWith(1, 1, 0)
	next, _ := Advance(rec, time.Date(2025, 1, 6, 23, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, 2, next.CurrentStreak)
}

func TestLongestStreakIsMonotonic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	rec := models.NewConsistencyRecord("u1")
	day := 0
	longest := 0

	for i := 0; i < 500; i++ {
		day += r.Intn(4)
		rec, _ = Advance(rec, at(day), time.UTC)
		require.GreaterOrEqual(t, rec.LongestStreak, longest)
		require.GreaterOrEqual(t, rec.LongestStreak, rec.CurrentStreak)
		require.GreaterOrEqual(t, rec.CurrentStreak, 1)
		longest = rec.LongestStreak
	}
}

func TestReset(t *testing.T) {
	rec := recordWith(8, 10, 0)
	rec.UnlockedMilestones["3d"] = true
	rec.UnlockedMilestones["7d"] = true

	next := Reset(rec)
	assert.Equal(t, 0, next.CurrentStreak)
	assert.Equal(t, 10, next.LongestStreak)
	assert.Equal(t, rec.LastActiveDate, next.LastActiveDate)
	assert.True(t, next.HasMilestone("7d"))
	assert.Equal(t, 8, rec.CurrentStreak)
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		rec  models.ConsistencyRecord
		day  int
		want Status
	}{
		{
			name: "never active",
			rec:  models.NewConsistencyRecord("u1"),
			day:  0,
			want: Status{},
		},
		{
			name: "active today",
			rec:  recordWith(3, 3, 0),
			day:  0,
			want: Status{CurrentStreak: 3, LongestStreak: 3, Maintained: true},
		},
		{
			name: "active yesterday",
			rec:  recordWith(3, 3, 0),
			day:  1,
			want: Status{CurrentStreak: 3, LongestStreak: 3, DaysSinceActive: 1, Maintained: true, AtRisk: true, CanRecover: true},
		},
		{
			name: "two days with two weeks of streak",
			rec:  recordWith(14, 14, 0),
			day:  2,
			want: Status{CurrentStreak: 14, LongestStreak: 14, DaysSinceActive: 2, CanRecover: true},
		},
		{
			name: "broken",
			rec:  recordWith(6, 6, 0),
			day:  5,
			want: Status{CurrentStreak: 6, LongestStreak: 6, DaysSinceActive: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusOf(tt.rec, at(tt.day), time.UTC)
			got.LastActiveDate = nil
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedMissedDays(t *testing.T) {
	assert.Equal(t, 1, AllowedMissedDays(0))
	assert.Equal(t, 1, AllowedMissedDays(13))
	assert.Equal(t, 2, AllowedMissedDays(14))
	assert.Equal(t, 4, AllowedMissedDays(30))
}
