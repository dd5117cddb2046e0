package reward

import (
	"math"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

// Baselines for PvE boss rewards: xp = level*50, gold = level*25, both
// scaled by the tier multiplier and floored to integers.
const (
	bossXPPerLevel   = 50
	bossGoldPerLevel = 25
)

// Duel grant constants. Losers receive a smaller but non-zero grant to
// soften variance.
const (
	duelWinXP    = 100
	duelWinGold  = 50
	duelLossXP   = 25
	duelLossGold = 10
)

// ForBossVictory converts a defeated boss into a grant.
func ForBossVictory(bossLevel int, tier game.Tier) game.Rewards {
	mult := tier.RewardMultiplier()
	r := game.Rewards{
		Experience: int(math.Floor(float64(bossLevel*bossXPPerLevel) * mult)),
		Gold:       int(math.Floor(float64(bossLevel*bossGoldPerLevel) * mult)),
	}
	if tier != game.TierEasy {
		r.Gems = bossLevel / 5
	}
	return r
}

// ForDuel converts a duel outcome into a grant. Winners scale with the
// score margin (capped at 2x) and gain a bonus for beating a higher-rated
// opponent; ratingDiff is opponent rating minus own rating at completion
// time (zero when either side is unrated). The winner's grant never drops
// below the loser floor.
func ForDuel(isWin bool, ownScore, opponentScore float64, ratingDiff int) game.Rewards {
	if !isWin {
		return game.Rewards{Experience: duelLossXP, Gold: duelLossGold}
	}

	margin := 1.0
	if opponentScore > 0 {
		margin = ownScore / opponentScore
	} else if ownScore > 0 {
		margin = 2.0
	}
	if margin < 1.0 {
		margin = 1.0
	}
	if margin > 2.0 {
		margin = 2.0
	}

	bonus := clamp(ratingDiff, -400, 400) / 10
	xp := int(math.Floor(duelWinXP*margin)) + bonus
	gold := int(math.Floor(duelWinGold * margin))
	if xp < duelLossXP {
		xp = duelLossXP
	}
	return game.Rewards{Experience: xp, Gold: gold, Gems: 1}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
