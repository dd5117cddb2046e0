package game

import "math"

// K-factor thresholds for the seasonal ladder. Established players (2000+)
// move half as fast as everyone else.
const (
	kFactorDefault     = 32
	kFactorHigh        = 16
	kFactorRatingSplit = 2000
)

// KFactor returns the K-factor applied to a result for a player at the
// given rating.
func KFactor(rating int) int {
	if rating >= kFactorRatingSplit {
		return kFactorHigh
	}
	return kFactorDefault
}

// ExpectedScore is the classic pairwise expectation: the probability that
// a player rated `rating` beats one rated `opponent`.
func ExpectedScore(rating, opponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(opponent-rating)/400.0))
}

// EloDelta computes the rating points transferred from loser to winner.
// The K-factor is keyed off the reporting account's pre-match rating
// regardless of which side it played, so an established reporter moves
// the ladder half as fast whether they win or lose. Two fresh 1200s
// produce round(32*0.5) = 16.
func EloDelta(winnerRating, loserRating, reporterRating int) int {
	expected := ExpectedScore(winnerRating, loserRating)
	return int(math.Round(float64(KFactor(reporterRating)) * (1.0 - expected)))
}

// ClampRating floors a rating at zero. Negative ratings are only reachable
// in pathological cases; deployment policy is to clamp on write.
func ClampRating(r int) int {
	if r < 0 {
		return 0
	}
	return r
}

// RankLabel maps a rating to its ladder rank via a fixed lookup.
func RankLabel(rating int) string {
	switch {
	case rating < 1000:
		return "Bronze"
	case rating < 1200:
		return "Silver"
	case rating < 1400:
		return "Gold"
	case rating < 1600:
		return "Platinum"
	case rating < 1800:
		return "Diamond"
	case rating < 2000:
		return "Master"
	default:
		return "Grandmaster"
	}
}
