package core

const (
	// DefaultDailyLimit is used on first run and as the fallback when a
	// configured limit is not positive.
	DefaultDailyLimit = 2000

	warnRatio   = 0.8
	dangerRatio = 1.0
)

const (
	LevelSafe    = "safe"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

// LimitStatus compares today's intake to the daily limit.
type LimitStatus struct {
	Percent   float64 `json:"percent"`
	Remaining float64 `json:"remaining"`
	Limit     float64 `json:"limit"`
	Level     string  `json:"level"`
}

// ComputeLimitStatus derives the intake warning level from totalIn. The
// percentage is capped at 100 while remaining may go negative.
func ComputeLimitStatus(totalIn, limit float64) LimitStatus {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	ratio := totalIn / limit
	percent := ratio * 100
	if percent > 100 {
		percent = 100
	}
	level := LevelSafe
	switch {
	case ratio >= dangerRatio:
		level = LevelDanger
	case ratio >= warnRatio:
		level = LevelWarning
	}
	return LimitStatus{
		Percent:   percent,
		Remaining: limit - totalIn,
		Limit:     limit,
		Level:     level,
	}
}
