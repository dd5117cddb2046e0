package service

import "errors"

// Sentinel errors returned by the use-case layer. Handlers map these onto
// HTTP statuses; anything else is treated as an infrastructure failure.
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrOpponentNotFound = errors.New("opponent not found")

	ErrInvalidTier       = errors.New("unknown difficulty tier")
	ErrInvalidAction     = errors.New("invalid combat action")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEncounterActive   = errors.New("an encounter is already active")
	ErrNoActiveEncounter = errors.New("no active encounter")

	ErrSelfChallenge      = errors.New("cannot challenge yourself")
	ErrDuplicateChallenge = errors.New("an unresolved challenge already exists for this pair")
	ErrUnknownVariant     = errors.New("unknown duel variant")
	ErrInvalidTarget      = errors.New("invalid duel target")
	ErrDuelNotFound       = errors.New("duel not found")
	ErrNotDefender        = errors.New("only the defender may respond to a challenge")
	ErrNotPending         = errors.New("duel is not pending")
	ErrDuelNotActive      = errors.New("duel is not active")
	ErrNotAParticipant    = errors.New("account is not a duel participant")
	ErrInvalidProgress    = errors.New("invalid progress delta")

	ErrSelfMatch      = errors.New("cannot report a match against yourself")
	ErrNoActiveSeason = errors.New("no active season")
)
