package game

// DuelStatus is the lifecycle state of a duel challenge.
type DuelStatus string

const (
	DuelStatusPending   DuelStatus = "pending"
	DuelStatusActive    DuelStatus = "active"
	DuelStatusDeclined  DuelStatus = "declined"
	DuelStatusCompleted DuelStatus = "completed"
)

// Unresolved reports whether the duel still blocks a new challenge between
// the same pair.
func (s DuelStatus) Unresolved() bool {
	return s == DuelStatusPending || s == DuelStatusActive
}

// DuelVariant is one of the closed set of asynchronous competition modes.
// Each variant maps to its own win-condition evaluator; adding a variant
// means adding an evaluator, not scattering new branches across call sites.
type DuelVariant string

const (
	// VariantTitanVsTitan resolves turn-by-turn combat exchanges; each
	// attack adds to the acting side's score and the duel ends when a
	// score crosses the opponent's effective HP.
	VariantTitanVsTitan DuelVariant = "titan_vs_titan"
	// VariantDistanceRace is won by the first side to accumulate the
	// target distance.
	VariantDistanceRace DuelVariant = "distance_race"
	// VariantSpeedDemon completes once both sides reach the target
	// distance; the side that took less total duration wins.
	VariantSpeedDemon DuelVariant = "speed_demon"
	// VariantElevationGrind is won by the first side to accumulate the
	// target elevation gain.
	VariantElevationGrind DuelVariant = "elevation_grind"
)

// Valid reports whether the variant is known.
func (v DuelVariant) Valid() bool {
	switch v {
	case VariantTitanVsTitan, VariantDistanceRace, VariantSpeedDemon, VariantElevationGrind:
		return true
	}
	return false
}

// DefaultElevationTargetM is used for elevation_grind duels created
// without an explicit target.
const DefaultElevationTargetM = 1000.0

// DuelSide identifies which accumulator column set a progress report
// lands in.
type DuelSide string

const (
	SideChallenger DuelSide = "challenger"
	SideDefender   DuelSide = "defender"
)

// SideOf returns the side the account plays in the duel, or "" if the
// account is not a participant.
func (d *DuelChallenge) SideOf(accountID uint) DuelSide {
	switch accountID {
	case d.ChallengerID:
		return SideChallenger
	case d.DefenderID:
		return SideDefender
	}
	return ""
}

// DistanceOf returns the accumulated distance for a side.
func (d *DuelChallenge) DistanceOf(side DuelSide) float64 {
	if side == SideChallenger {
		return d.ChallengerDistanceKm
	}
	return d.DefenderDistanceKm
}

// DurationOf returns the accumulated duration for a side.
func (d *DuelChallenge) DurationOf(side DuelSide) float64 {
	if side == SideChallenger {
		return d.ChallengerDurationMin
	}
	return d.DefenderDurationMin
}

// DurationAtFinishOf returns the side's duration total frozen at the
// report that reached the target distance.
func (d *DuelChallenge) DurationAtFinishOf(side DuelSide) float64 {
	if side == SideChallenger {
		return d.ChallengerDurationAtFinish
	}
	return d.DefenderDurationAtFinish
}

// ElevationOf returns the accumulated elevation gain for a side.
func (d *DuelChallenge) ElevationOf(side DuelSide) float64 {
	if side == SideChallenger {
		return d.ChallengerElevationM
	}
	return d.DefenderElevationM
}

// ScoreOf returns the titan combat score for a side.
func (d *DuelChallenge) ScoreOf(side DuelSide) int {
	if side == SideChallenger {
		return d.ChallengerScore
	}
	return d.DefenderScore
}

// AccountOf returns the account id playing the given side.
func (d *DuelChallenge) AccountOf(side DuelSide) uint {
	if side == SideChallenger {
		return d.ChallengerID
	}
	return d.DefenderID
}
