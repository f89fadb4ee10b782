package calendar

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/caltracker/internal/models"
)

// streakWindow bounds how far back the current streak is searched.
const streakWindow = 30

// Summary is the headline history statistics.
type Summary struct {
	TotalWorkouts      int     `json:"totalWorkouts"`
	TotalExercises     int     `json:"totalExercises"`
	TotalSets          int     `json:"totalSets"`
	AvgWorkoutsPerWeek float64 `json:"avgWorkoutsPerWeek"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
}

// Stats summarises history as of today.
func Stats(history models.History, today time.Time) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	s := Summary{TotalWorkouts: len(history)}
	for _, entry := range history {
		s.TotalExercises += len(entry.Exercises)
		for _, e := range entry.Exercises {
			s.TotalSets += e.CompletedCount()
		}
	}

	dates := sortedDates(history)
	if len(dates) > 0 {
		days := math.Ceil(dates[len(dates)-1].Sub(dates[0]).Hours() / 24)
		days = math.Max(1, days)
		s.AvgWorkoutsPerWeek = math.Round(float64(s.TotalWorkouts)/days*7*10) / 10
	}

	s.CurrentStreak = CurrentStreak(history, today)
	s.LongestStreak = LongestStreak(history)
	return s
}

// sortedDates parses the history keys in ascending order, skipping malformed ones.
func sortedDates(history models.History) []time.Time {
	out := make([]time.Time, 0, len(history))
	for key := range history {
		if d, err := models.ParseDate(key); err == nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// CurrentStreak counts consecutive days with an entry ending today, or ending
// yesterday when today has none yet. Only the last 30 days are examined.
func CurrentStreak(history models.History, today time.Time) int {
	day, err := models.ParseDate(models.FormatDate(today))
	if err != nil {
		return 0
	}
	streak := 0
	for i := 0; i < streakWindow; i++ {
		d := day.AddDate(0, 0, -i)
		if _, ok := history[models.FormatDate(d)]; ok {
			streak++
			continue
		}
		if i == 0 {
			continue
		}
		break
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days with an entry.
func LongestStreak(history models.History) int {
	dates := sortedDates(history)
	longest, run := 0, 0
	for i, d := range dates {
		if i > 0 && d.Equal(dates[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}

// Record is the best performance logged for one exercise.
type Record struct {
	Exercise  string  `json:"exercise"`
	BestReps  int     `json:"bestReps"`
	BestLoad  float64 `json:"bestLoad,omitempty"`
	LoadLabel string  `json:"loadLabel,omitempty"`
	Sessions  int     `json:"sessions"`
	LastDate  string  `json:"lastDate"`
}

// PersonalRecords derives per-exercise bests from completed sets, sorted by name.
func PersonalRecords(history models.History) []Record {
	byName := map[string]*Record{}
	for date, entry := range history {
		for _, e := range entry.Exercises {
			done := false
			for _, set := range e.CompletedSets {
				if set == nil || !set.Completed {
					continue
				}
				done = true
				r := byName[e.Name]
				if r == nil {
					r = &Record{Exercise: e.Name}
					byName[e.Name] = r
				}
				reps := set.Reps
				if reps == 0 {
					reps = e.TargetReps
				}
				r.BestReps = max(r.BestReps, reps)

				label := set.Weight
				if label == "" {
					label = e.Weight
				}
				if load := parseLoad(label); load > r.BestLoad {
					r.BestLoad, r.LoadLabel = load, label
				}
			}
			if done {
				r := byName[e.Name]
				r.Sessions++
				if date > r.LastDate {
					r.LastDate = date
				}
			}
		}
	}

	out := make([]Record, 0, len(byName))
	for _, r := range byName {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Exercise < out[j].Exercise })
	return out
}

// parseLoad reads the leading number of a weight label such as "25lbs" or "12.5 kg".
func parseLoad(label string) float64 {
	label = strings.TrimSpace(label)
	end := 0
	for end < len(label) && (label[end] == '.' || (label[end] >= '0' && label[end] <= '9')) {
		end++
	}
	v, err := strconv.ParseFloat(label[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
