package engine

import (
	"errors"
	"fmt"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

var (
	// ErrEncounterOver is returned when a turn is submitted against a
	// state that already reached victory or defeat. Callers are expected
	// to check the terminal flags before resolving again.
	ErrEncounterOver = errors.New("encounter already resolved")
	// ErrUltimateNotReady rejects an ultimate before its charge is built.
	// The state is not mutated.
	ErrUltimateNotReady = errors.New("ultimate is not charged")
	// ErrUnknownAction rejects an action outside the playable set.
	ErrUnknownAction = errors.New("unknown combat action")
)

// OpponentPower derives a boss's damage basis from its level and bulk.
// Stronger and tankier opponents hit proportionally harder without
// carrying a separate stat block.
func OpponentPower(opp game.Opponent) int {
	return opp.Level*15 + opp.MaxHP/100
}

// ResolveTurn advances one encounter turn: the player's chosen action is
// applied first, then, if the opponent survives, an automatic
// retaliation. Exactly one log line is appended per actor that acted and
// the turn counter increments exactly once. Victory is checked after the
// player's half-turn, so a lethal blow on a lethal turn still wins.
func ResolveTurn(st *game.CombatState, action game.CombatAction, attrs game.Attributes, opp game.Opponent, src Source) error {
	if st.Terminal() {
		return ErrEncounterOver
	}

	switch action {
	case game.ActionAttack:
		dmg := attackDamage(attrs, src)
		st.OpponentHP = floorHP(st.OpponentHP - dmg)
		st.Log = append(st.Log, fmt.Sprintf("You strike %s for %d damage.", st.OpponentName, dmg))
	case game.ActionDefend:
		st.DefendActive = true
		st.Log = append(st.Log, "You brace for the next blow.")
	case game.ActionHeal:
		healed := st.PlayerMaxHP / 4
		if st.PlayerHP+healed > st.PlayerMaxHP {
			healed = st.PlayerMaxHP - st.PlayerHP
		}
		st.PlayerHP += healed
		st.Log = append(st.Log, fmt.Sprintf("You recover %d HP.", healed))
	case game.ActionUltimate:
		if st.UltimateCharge < game.UltimateChargeCost {
			return ErrUltimateNotReady
		}
		dmg := ultimateDamage(attrs, src)
		st.OpponentHP = floorHP(st.OpponentHP - dmg)
		st.UltimateCharge = 0
		st.Log = append(st.Log, fmt.Sprintf("You unleash your ultimate on %s for %d damage!", st.OpponentName, dmg))
	default:
		return ErrUnknownAction
	}

	st.Turn++
	if action != game.ActionUltimate && st.UltimateCharge < game.UltimateChargeCost {
		st.UltimateCharge++
	}

	if st.OpponentHP <= 0 {
		st.IsVictory = true
		st.DefendActive = false
		return nil
	}

	retaliate(st, attrs, opp, src)
	if st.PlayerHP <= 0 {
		st.IsDefeat = true
	}
	return nil
}

// attackDamage is the basic attack roll: offense plus bounded randomness.
func attackDamage(attrs game.Attributes, src Source) int {
	return attrs.Offense + src.Intn(attrs.Offense/2+1)
}

// ultimateDamage doubles the offense basis with the same variance bound.
func ultimateDamage(attrs game.Attributes, src Source) int {
	return attrs.Offense*2 + src.Intn(attrs.Offense/2+1)
}

// retaliate applies the opponent's automatic counter-attack. Power varies
// ±20%, is softened by half the player's defense attribute, and is halved
// again when a defend stance is active (consuming it). Damage never drops
// below 1.
func retaliate(st *game.CombatState, attrs game.Attributes, opp game.Opponent, src Source) {
	power := OpponentPower(opp)
	dmg := power * (80 + src.Intn(41)) / 100
	dmg -= attrs.Defense / 2
	blocked := false
	if st.DefendActive {
		dmg /= 2
		st.DefendActive = false
		blocked = true
	}
	if dmg < 1 {
		dmg = 1
	}
	st.PlayerHP = floorHP(st.PlayerHP - dmg)
	if blocked {
		st.Log = append(st.Log, fmt.Sprintf("%s retaliates for %d damage (blocked).", st.OpponentName, dmg))
	} else {
		st.Log = append(st.Log, fmt.Sprintf("%s retaliates for %d damage.", st.OpponentName, dmg))
	}
}

func floorHP(hp int) int {
	if hp < 0 {
		return 0
	}
	return hp
}
