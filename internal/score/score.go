package score

const (
	// Min and Max bound the SmartScore.
	Min = 0
	Max = 100

	// BaseGain is added for every correct answer, on top of the difficulty.
	BaseGain = 3

	// BasePenalty is subtracted for every wrong answer, plus PenaltyPerDifficulty
	// for each difficulty level.
	BasePenalty          = 5
	PenaltyPerDifficulty = 2

	// StreakBonusThreshold is the streak (counted after the current answer)
	// from which StreakBonus is awarded.
	StreakBonusThreshold = 3
	StreakBonus          = 2

	// CelebrationThreshold is the score at or above which a correct answer
	// triggers a celebration.
	CelebrationThreshold = 90
)

// Next returns the SmartScore after one answer.
//
// streakAfter is the streak already updated for this answer, so the bonus
// first applies on the third consecutive correct answer. The result is
// clamped to [Min, Max] for any input.
func Next(current, difficulty int, correct bool, streakAfter int) int {
	if correct {
		gain := BaseGain + difficulty
		if streakAfter >= StreakBonusThreshold {
			gain += StreakBonus
		}
		return Clamp(current + gain)
	}
	penalty := BasePenalty + PenaltyPerDifficulty*difficulty
	return Clamp(current - penalty)
}

// Clamp bounds s to [Min, Max].
func Clamp(s int) int {
	if s < Min {
		return Min
	}
	if s > Max {
		return Max
	}
	return s
}
