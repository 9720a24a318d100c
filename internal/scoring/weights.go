package scoring

// Weights holds the signed magnitude of every scoring factor.
// Ordering of magnitudes, not the exact values, is the contract.
type Weights struct {
	DaySpread               float64
	WeekBalance             float64
	ResourceUtilization     float64
	TimeQuality             float64
	DayGap                  float64
	TimeAdjacency           float64
	GameDayPreference       float64
	EarliestTime            float64
	FieldPreference         float64
	HomeAwayBalance         float64
	MatchupHomeAwayBalance  float64
	ShortRestBalance        float64
	WeekendMorningPractice  float64
	SameDayEvent            float64
	Scarcity                float64
	SameDayCageFieldGap     float64
}

// DefaultWeights returns the default weight table.
func DefaultWeights() Weights {
	return Weights{
		DaySpread:              1.0,
		WeekBalance:            1.2,
		ResourceUtilization:    0.8,
		TimeQuality:            0.6,
		DayGap:                 1.0,
		TimeAdjacency:          0.5,
		GameDayPreference:      1.5,
		EarliestTime:           0.3,
		FieldPreference:        0.7,
		HomeAwayBalance:        1.3,
		MatchupHomeAwayBalance: 1.1,
		ShortRestBalance:       -1.2,
		WeekendMorningPractice: -0.6,
		SameDayEvent:           -1.0,
		Scarcity:               -0.9,
		SameDayCageFieldGap:    -0.8,
	}
}
