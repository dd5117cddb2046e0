package game

import "math"

// Attributes are the combat scalars derived from a player's unlocked
// progression. They are produced by an AttributeProvider collaborator;
// this engine only consumes them.
type Attributes struct {
	Offense  int `json:"offense"`
	Defense  int `json:"defense"`
	Vitality int `json:"vitality"`
	Level    int `json:"level"`
}

// MaxHP derives a player's hit point pool from vitality plus a level bonus.
func (a Attributes) MaxHP() int {
	return a.Vitality*10 + a.Level*20
}

// CombatAction is a string alias representing a player's chosen combat
// action. Using a dedicated type instead of plain string makes code safer
// and self-documenting.
type CombatAction string

const (
	ActionNone     CombatAction = ""
	ActionAttack   CombatAction = "attack"
	ActionDefend   CombatAction = "defend"
	ActionHeal     CombatAction = "heal"
	ActionUltimate CombatAction = "ultimate"
)

// Valid reports whether the action is one of the playable actions.
func (a CombatAction) Valid() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionHeal, ActionUltimate:
		return true
	}
	return false
}

// UltimateChargeCost is the charge required to unleash an ultimate. Charge
// builds by one per resolved turn.
const UltimateChargeCost = 3

// Tier is a named difficulty multiplier scaling opponent HP and rewards.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierNormal Tier = "normal"
	TierHard   Tier = "hard"
)

// Valid reports whether the tier is a known difficulty.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierNormal, TierHard:
		return true
	}
	return false
}

// HPMultiplier scales opponent hit points for the tier.
func (t Tier) HPMultiplier() float64 {
	switch t {
	case TierEasy:
		return 0.7
	case TierHard:
		return 1.5
	default:
		return 1.0
	}
}

// RewardMultiplier scales reward output for the tier.
func (t Tier) RewardMultiplier() float64 {
	switch t {
	case TierEasy:
		return 0.5
	case TierHard:
		return 2.0
	default:
		return 1.0
	}
}

// ScaledBossHP returns the opponent HP pool after applying the tier
// multiplier, floored to an integer.
func ScaledBossHP(maxHP int, tier Tier) int {
	return int(math.Floor(float64(maxHP) * tier.HPMultiplier()))
}

// CombatState is the ephemeral state of one player-vs-environment
// encounter. It is owned exclusively by the session store for the duration
// of the encounter and is not durable across process restart (unless the
// database-backed store is configured).
//
// Invariants: at most one of IsVictory/IsDefeat is set; HP values stay in
// [0, max]; Turn increases by exactly one per resolved turn. Once a
// terminal flag is set the owning session is removed.
type CombatState struct {
	OpponentID     uint     `json:"opponent_id"`
	OpponentName   string   `json:"opponent_name"`
	OpponentLevel  int      `json:"opponent_level"`
	Tier           Tier     `json:"tier"`
	PlayerHP       int      `json:"player_hp"`
	PlayerMaxHP    int      `json:"player_max_hp"`
	OpponentHP     int      `json:"opponent_hp"`
	OpponentMaxHP  int      `json:"opponent_max_hp"`
	Turn           int      `json:"turn"`
	UltimateCharge int      `json:"ultimate_charge"`
	DefendActive   bool     `json:"defend_active"`
	Log            []string `json:"log"`
	IsVictory      bool     `json:"is_victory"`
	IsDefeat       bool     `json:"is_defeat"`
}

// Terminal reports whether the encounter has reached a terminal state.
func (s *CombatState) Terminal() bool {
	return s.IsVictory || s.IsDefeat
}

// NewCombatState seeds an encounter against the given opponent at the
// given tier. Player HP comes from the attribute-derived pool; opponent HP
// is the catalog value scaled by the tier multiplier.
func NewCombatState(attrs Attributes, opp Opponent, tier Tier) *CombatState {
	maxHP := attrs.MaxHP()
	oppHP := ScaledBossHP(opp.MaxHP, tier)
	return &CombatState{
		OpponentID:    opp.ID,
		OpponentName:  opp.Name,
		OpponentLevel: opp.Level,
		Tier:          tier,
		PlayerHP:      maxHP,
		PlayerMaxHP:   maxHP,
		OpponentHP:    oppHP,
		OpponentMaxHP: oppHP,
		Log:           make([]string, 0, 16),
	}
}
