package history

import "math"

const (
	DaysInWeek = 7
	today      = DaysInWeek - 1

	dayLayout = "2006-01-02"
)

// Weekly is the last seven days of daily goal percentages, today last.
type Weekly struct {
	Days                   [DaysInWeek]int `json:"weekly"`
	Rings                  [3]int          `json:"dailyRings"`
	Streak                 int             `json:"streak"`
	TodayCompletedWorkouts int             `json:"todayCompletedWorkouts"`
	// Day is the date of the last slot, empty until the first sample
	Day string `json:"day,omitempty"`
}

// DaySample is what the progress totals contribute to today's slot.
type DaySample struct {
	Percent            int
	CompletedWorkouts  int
	WeeklyWorkoutGoal  int
	CompletedExercises int
	TotalExercises     int
}

type Summary struct {
	Weekly
	Average int `json:"average"`
	BestDay int `json:"bestDay"`
}

func (w *Weekly) apply(sample DaySample) {
	w.Days[today] = sample.Percent
	w.TodayCompletedWorkouts = sample.CompletedWorkouts
	w.Rings = [3]int{
		clampPercent(float64(sample.Percent)),
		ratioPercent(sample.CompletedWorkouts, sample.WeeklyWorkoutGoal),
		ratioPercent(sample.CompletedExercises, sample.TotalExercises),
	}
	w.Streak = streak(w.Days)
}

// shift moves the window n days forward, opening empty slots.
func (w *Weekly) shift(n int) {
	if n <= 0 {
		return
	}
	if n >= DaysInWeek {
		w.Days = [DaysInWeek]int{}
	} else {
		copy(w.Days[:], w.Days[n:])
		for i := DaysInWeek - n; i < DaysInWeek; i++ {
			w.Days[i] = 0
		}
	}
	w.Rings = [3]int{}
	w.TodayCompletedWorkouts = 0
	w.Streak = streak(w.Days)
}

func (w Weekly) Summary() Summary {
	return Summary{
		Weekly:  w,
		Average: average(w.Days),
		BestDay: bestDay(w.Days),
	}
}

// streak counts consecutive active days ending today. An empty today does
// not break the streak, counting then starts at yesterday.
func streak(days [DaysInWeek]int) int {
	start := today
	if days[today] == 0 {
		start--
	}
	count := 0
	for i := start; i >= 0; i-- {
		if days[i] <= 0 {
			break
		}
		count++
	}
	return count
}

func average(days [DaysInWeek]int) int {
	sum := 0
	for _, d := range days {
		sum += d
	}
	return int(math.Round(float64(sum) / DaysInWeek))
}

func bestDay(days [DaysInWeek]int) int {
	best := days[0]
	for _, d := range days[1:] {
		best = max(best, d)
	}
	return best
}

func ratioPercent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return clampPercent(math.Round(float64(done) / float64(total) * 100))
}

func clampPercent(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
