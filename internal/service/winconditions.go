package service

import "github.com/Techlemariam/IronForge-sub002/internal/game"

// winEvaluator inspects a duel after a progress update and reports the
// winning side, if any. One evaluator per variant; the closed map below is
// the single extension point for new variants.
type winEvaluator func(d *game.DuelChallenge) (game.DuelSide, bool)

var winEvaluators = map[game.DuelVariant]winEvaluator{
	game.VariantDistanceRace:   evaluateDistanceRace,
	game.VariantSpeedDemon:     evaluateSpeedDemon,
	game.VariantElevationGrind: evaluateElevationGrind,
	game.VariantTitanVsTitan:   evaluateTitanVsTitan,
}

// evaluateDistanceRace: first side whose accumulated distance reaches the
// target wins. If both cross within one evaluation, the challenger wins.
func evaluateDistanceRace(d *game.DuelChallenge) (game.DuelSide, bool) {
	if d.ChallengerDistanceKm >= d.TargetValue {
		return game.SideChallenger, true
	}
	if d.DefenderDistanceKm >= d.TargetValue {
		return game.SideDefender, true
	}
	return "", false
}

// evaluateSpeedDemon: the duel completes only once both sides have
// finished; the side whose duration total was lower at the moment it
// reached the target wins. Workouts a finisher logs while waiting for
// the opponent do not count against it. An exact tie goes to the
// challenger.
func evaluateSpeedDemon(d *game.DuelChallenge) (game.DuelSide, bool) {
	if !d.ChallengerFinished || !d.DefenderFinished {
		return "", false
	}
	if d.DefenderDurationAtFinish < d.ChallengerDurationAtFinish {
		return game.SideDefender, true
	}
	return game.SideChallenger, true
}

// evaluateElevationGrind: first side whose accumulated elevation gain
// reaches the target wins, challenger first on a simultaneous crossing.
func evaluateElevationGrind(d *game.DuelChallenge) (game.DuelSide, bool) {
	if d.ChallengerElevationM >= d.TargetValue {
		return game.SideChallenger, true
	}
	if d.DefenderElevationM >= d.TargetValue {
		return game.SideDefender, true
	}
	return "", false
}

// evaluateTitanVsTitan: a side wins when its score chews through the
// opponent's effective HP pool. Simultaneous crossings resolve challenger
// first.
func evaluateTitanVsTitan(d *game.DuelChallenge) (game.DuelSide, bool) {
	if d.DefenderHP > 0 && d.ChallengerScore >= d.DefenderHP {
		return game.SideChallenger, true
	}
	if d.ChallengerHP > 0 && d.DefenderScore >= d.ChallengerHP {
		return game.SideDefender, true
	}
	return "", false
}

// leadingSide compares accumulated progress for the variant's metric when
// a duel must be force-resolved at expiry. Exact ties go to the
// challenger.
func leadingSide(d *game.DuelChallenge) game.DuelSide {
	var c, f float64
	switch d.Variant {
	case game.VariantDistanceRace:
		c, f = d.ChallengerDistanceKm, d.DefenderDistanceKm
	case game.VariantSpeedDemon:
		// More distance covered leads; duration only matters once both
		// sides have finished, which expiry short-circuits.
		c, f = d.ChallengerDistanceKm, d.DefenderDistanceKm
	case game.VariantElevationGrind:
		c, f = d.ChallengerElevationM, d.DefenderElevationM
	case game.VariantTitanVsTitan:
		c, f = float64(d.ChallengerScore), float64(d.DefenderScore)
	}
	if f > c {
		return game.SideDefender
	}
	return game.SideChallenger
}
