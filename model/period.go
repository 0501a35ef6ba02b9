package model

// PeriodMetrics aggregates a player's scoring while one owner held them.
type PeriodMetrics struct {
	PPG          float64
	StarterPct   float64
	PPGStarter   float64
	PPGBench     float64
	GamesPlayed  int
	GamesStarted int
}

// PerformancePeriod is the span between two consecutive asset events during
// which one owner held the asset. Periods are derived at read time and never
// stored. A Current period belongs to the present holder and its EndWeek is
// the latest played week of the ongoing season.
type PerformancePeriod struct {
	Asset          AssetID
	LeagueID       string
	Season         string
	RosterID       int
	OwnerUserID    string
	StartWeek      int
	EndWeek        int
	Current        bool
	IsContinuation bool
	Metrics        PeriodMetrics
}

// WeeklyBenchmark is the distribution of starter scores at one position
// across a league family for one week.
type WeeklyBenchmark struct {
	Season     string
	Week       int
	Median     float64
	TopDecile  float64
	SampleSize int
}
