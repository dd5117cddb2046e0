package session

// Package session owns live player-vs-environment encounters, keyed by
// account id. A player has at most one live encounter at any time.
//
// The in-memory store is the pragmatic single-process default; deployments
// that cannot guarantee sticky routing configure the database-backed store
// so any replica can serve a turn.

import (
	"errors"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

var (
	// ErrSessionExists rejects starting a second encounter while one is
	// live for the account.
	ErrSessionExists = errors.New("combat session already active")
	// ErrNoActiveSession is the server-side integrity check preventing a
	// client from submitting actions without having started an encounter.
	ErrNoActiveSession = errors.New("no active combat session")
)

// Store keeps at most one live encounter per account.
//
// WithLock serializes work for a single account: concurrent advances for
// the same account must not both read the same pre-turn HP. Calls for
// different accounts proceed fully in parallel.
type Store interface {
	Start(accountID uint, st *game.CombatState) error
	Get(accountID uint) (*game.CombatState, error)
	Save(accountID uint, st *game.CombatState) error
	Clear(accountID uint) error
	WithLock(accountID uint, fn func() error) error
}
