package storage

import (
	"errors"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

var (
	// ErrDuplicateDuel signals an unresolved challenge already exists
	// between the pair.
	ErrDuplicateDuel = errors.New("unresolved duel already exists for this pair")
	// ErrInsufficientGold signals a conditional debit found too small a
	// balance. Nothing is deducted.
	ErrInsufficientGold = errors.New("insufficient gold")
)

type Repository interface {
	// Accounts
	GetAccountByID(id uint) (*game.Account, error)
	GetAccountByUsername(username string) (*game.Account, error)
	CreateAccount(a *game.Account) error
	// GrantRewards atomically adds a reward bundle to the account wallet.
	GrantRewards(accountID uint, r game.Rewards) error
	// SpendGold debits the account only when the balance covers the
	// amount; otherwise ErrInsufficientGold and no partial deduction.
	SpendGold(accountID uint, amount int64) error

	// Boss catalog
	GetBosses() ([]game.Opponent, error)
	GetBossByID(id uint) (*game.Opponent, error)

	// Duels
	CreateDuel(d *game.DuelChallenge) error
	GetDuelByID(id uint) (*game.DuelChallenge, error)
	GetDuelByPublicID(publicID string) (*game.DuelChallenge, error)
	UpdateDuel(d *game.DuelChallenge) error
	ListDuelsForAccount(accountID uint) ([]game.DuelChallenge, error)
	// AddDuelProgress applies an additive-only delta to one side's
	// accumulators as an atomic SQL increment; concurrent reports from
	// the two duelists commute.
	AddDuelProgress(duelID uint, side game.DuelSide, distanceKm, durationMin, elevationM float64) error
	// AddDuelScore atomically adds combat points to one side (titan
	// variant).
	AddDuelScore(duelID uint, side game.DuelSide, points int) error
	// MarkDuelSideFinished records that one side reached the target
	// distance (speed demon variant), freezing the duration total the
	// finish ranking compares. Touches only that side's columns so it
	// cannot clobber the opponent's concurrent progress.
	MarkDuelSideFinished(duelID uint, side game.DuelSide, at time.Time, durationAtFinish float64) error
	// CompleteDuel freezes the duel and grants both reward bundles inside
	// one transaction.
	CompleteDuel(duelID uint, winnerID uint, winnerReward game.Rewards, loserID uint, loserReward game.Rewards) error
	// FindExpiredDuels returns ACTIVE duels past their end date plus
	// PENDING duels created before pendingCutoff.
	FindExpiredDuels(now, pendingCutoff time.Time) ([]game.DuelChallenge, error)

	// Ratings
	GetOrCreateRating(accountID, seasonID uint) (*game.PvpRating, error)
	// ApplyMatchResult executes the whole rating update as one atomic
	// unit: both rows and the match record persist together or not at
	// all. The K-factor is keyed off the reporting account's pre-match
	// rating; the reporter must be one of the two sides.
	ApplyMatchResult(seasonID, winnerAccountID, loserAccountID, reporterAccountID uint) (winner, loser *game.PvpRating, match *game.PvpMatch, err error)
	FindCandidates(seasonID, excludeAccountID uint, minRating, maxRating int) ([]game.PvpRating, error)
	HighestRated(seasonID, excludeAccountID uint) (*game.PvpRating, error)
	TopRatings(seasonID uint, limit int) ([]game.PvpRating, error)

	// Seasons
	GetActiveSeason(now time.Time) (*game.PvpSeason, error)
	CountSeasons() (int64, error)
	CreateSeason(s *game.PvpSeason) error
}
