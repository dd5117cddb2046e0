package service

import (
	"errors"

	"github.com/Techlemariam/IronForge-sub002/internal/engine"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/reward"
	"github.com/Techlemariam/IronForge-sub002/internal/session"
	"github.com/Techlemariam/IronForge-sub002/internal/storage"

	"gorm.io/gorm"
)

// DefaultFleeCost is the flat gold cost of abandoning an encounter.
const DefaultFleeCost int64 = 50

// EncounterRepo is the slice of the repository the PvE encounter flow
// needs.
type EncounterRepo interface {
	GetBossByID(id uint) (*game.Opponent, error)
	GrantRewards(accountID uint, r game.Rewards) error
	SpendGold(accountID uint, amount int64) error
}

// StartEncounter seeds a new encounter against a catalog boss at the
// chosen tier. An empty tier means baseline difficulty.
func StartEncounter(repo EncounterRepo, store session.Store, provider AttributeProvider, accountID, opponentID uint, tier game.Tier) (*game.CombatState, *game.Opponent, error) {
	if tier == "" {
		tier = game.TierNormal
	}
	if !tier.Valid() {
		return nil, nil, ErrInvalidTier
	}
	boss, err := repo.GetBossByID(opponentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOpponentNotFound
		}
		return nil, nil, err
	}
	attrs, err := provider.GetAttributes(accountID)
	if err != nil {
		return nil, nil, err
	}

	st := game.NewCombatState(attrs, *boss, tier)
	err = store.WithLock(accountID, func() error {
		return store.Start(accountID, st)
	})
	if err != nil {
		if errors.Is(err, session.ErrSessionExists) {
			return nil, nil, ErrEncounterActive
		}
		return nil, nil, err
	}
	return st, boss, nil
}

// SubmitAction resolves one encounter turn for the player. On victory the
// reward grant is applied exactly once and the session is cleared before
// returning; a retried call then fails with ErrNoActiveEncounter instead
// of double-counting. A failed grant leaves the pre-turn state in place so
// the same action can be retried safely.
func SubmitAction(repo EncounterRepo, store session.Store, provider AttributeProvider, accountID uint, action game.CombatAction, src engine.Source) (*game.CombatState, *game.Rewards, error) {
	if !action.Valid() {
		return nil, nil, ErrInvalidAction
	}

	var out *game.CombatState
	var grant *game.Rewards
	err := store.WithLock(accountID, func() error {
		st, err := store.Get(accountID)
		if err != nil {
			return err
		}
		boss, err := repo.GetBossByID(st.OpponentID)
		if err != nil {
			return err
		}
		attrs, err := provider.GetAttributes(accountID)
		if err != nil {
			return err
		}

		// Resolve against a copy; the stored state only moves forward
		// once this turn's side effects are safely applied.
		work := *st
		work.Log = append([]string(nil), st.Log...)
		if err := engine.ResolveTurn(&work, action, attrs, *boss, src); err != nil {
			return err
		}

		switch {
		case work.IsVictory:
			rw := reward.ForBossVictory(boss.Level, work.Tier)
			if err := repo.GrantRewards(accountID, rw); err != nil {
				return err
			}
			grant = &rw
			if err := store.Clear(accountID); err != nil {
				return err
			}
		case work.IsDefeat:
			if err := store.Clear(accountID); err != nil {
				return err
			}
		default:
			if err := store.Save(accountID, &work); err != nil {
				return err
			}
		}
		out = &work
		return nil
	})
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return nil, nil, ErrNoActiveEncounter
		}
		return nil, nil, err
	}
	return out, grant, nil
}

// Flee abandons the live encounter for a flat gold cost. The deduction is
// conditional at the storage layer, so a short balance fails cleanly with
// the session left intact.
func Flee(repo EncounterRepo, store session.Store, accountID uint, cost int64) (int64, error) {
	if cost < 0 {
		cost = DefaultFleeCost
	}
	err := store.WithLock(accountID, func() error {
		if _, err := store.Get(accountID); err != nil {
			return err
		}
		if err := repo.SpendGold(accountID, cost); err != nil {
			return err
		}
		return store.Clear(accountID)
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoActiveSession):
			return 0, ErrNoActiveEncounter
		case errors.Is(err, storage.ErrInsufficientGold):
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	return cost, nil
}
