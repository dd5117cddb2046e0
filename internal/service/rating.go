package service

import (
	"errors"

	"github.com/Techlemariam/IronForge-sub002/internal/game"

	"gorm.io/gorm"
)

// RatingWindow is the half-width of the matchmaking rating filter.
const RatingWindow = 200

// RatingRepo is the slice of the repository the ranked ladder needs.
type RatingRepo interface {
	SeasonRepo
	GetAccountByID(id uint) (*game.Account, error)
	GetOrCreateRating(accountID, seasonID uint) (*game.PvpRating, error)
	ApplyMatchResult(seasonID, winnerAccountID, loserAccountID, reporterAccountID uint) (winner, loser *game.PvpRating, match *game.PvpMatch, err error)
	FindCandidates(seasonID, excludeAccountID uint, minRating, maxRating int) ([]game.PvpRating, error)
	HighestRated(seasonID, excludeAccountID uint) (*game.PvpRating, error)
	TopRatings(seasonID uint, limit int) ([]game.PvpRating, error)
}

// MatchSummary is the caller-perspective outcome of a ranked result.
type MatchSummary struct {
	NewRating         int    `json:"new_rating"`
	Delta             int    `json:"delta"`
	RankLabel         string `json:"rank_label"`
	OpponentNewRating int    `json:"opponent_new_rating"`
}

// SubmitMatchResult records a ranked result for the caller against the
// opponent. The K factor is keyed to the caller's rating regardless of who
// won. Both rating rows and the immutable match record are written in one
// atomic unit at the storage layer; no partial update can be observed.
func SubmitMatchResult(repo RatingRepo, accountID, opponentID uint, won bool) (*MatchSummary, error) {
	if accountID == opponentID {
		return nil, ErrSelfMatch
	}
	if _, err := repo.GetAccountByID(opponentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	season, err := GetOrCreateActiveSeason(repo)
	if err != nil {
		return nil, err
	}

	winnerID, loserID := accountID, opponentID
	if !won {
		winnerID, loserID = opponentID, accountID
	}
	winner, loser, match, err := repo.ApplyMatchResult(season.ID, winnerID, loserID, accountID)
	if err != nil {
		return nil, err
	}

	mine, theirs := winner, loser
	delta := match.Delta
	if !won {
		mine, theirs = loser, winner
		delta = -match.Delta
	}
	return &MatchSummary{
		NewRating:         mine.Rating,
		Delta:             delta,
		RankLabel:         game.RankLabel(mine.Rating),
		OpponentNewRating: theirs.Rating,
	}, nil
}

// RankedOpponent is a matchmaking candidate projection.
type RankedOpponent struct {
	AccountID uint   `json:"account_id"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	RankLabel string `json:"rank_label"`
}

// FindOpponent offers a ranked opponent within the rating window,
// preferring the closest rating. When the window is empty it falls back to
// the single highest-rated other account in the season, so a match is
// always offered once any other rated account exists. A nil result with a
// nil error means nobody else is rated yet.
func FindOpponent(repo RatingRepo, accountID uint) (*RankedOpponent, error) {
	season, err := GetOrCreateActiveSeason(repo)
	if err != nil {
		return nil, err
	}
	own, err := repo.GetOrCreateRating(accountID, season.ID)
	if err != nil {
		return nil, err
	}

	candidates, err := repo.FindCandidates(season.ID, accountID, own.Rating-RatingWindow, own.Rating+RatingWindow)
	if err != nil {
		return nil, err
	}
	var pick *game.PvpRating
	for i := range candidates {
		if pick == nil || abs(candidates[i].Rating-own.Rating) < abs(pick.Rating-own.Rating) {
			pick = &candidates[i]
		}
	}
	if pick == nil {
		pick, err = repo.HighestRated(season.ID, accountID)
		if err != nil {
			return nil, err
		}
		if pick == nil {
			return nil, nil
		}
	}

	acct, err := repo.GetAccountByID(pick.AccountID)
	if err != nil {
		return nil, err
	}
	return &RankedOpponent{
		AccountID: pick.AccountID,
		Username:  acct.Username,
		Rating:    pick.Rating,
		RankLabel: game.RankLabel(pick.Rating),
	}, nil
}

// LeaderboardEntry is the read projection consumed by ranking displays.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID uint   `json:"account_id"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"`
	RankLabel string `json:"rank_label"`
	Wins      int    `json:"wins"`
	Losses    int    `json:"losses"`
}

// Leaderboard projects the season's top ratings for display. Accounts that
// vanished mid-season are skipped rather than failing the whole board.
func Leaderboard(repo RatingRepo, limit int) ([]LeaderboardEntry, error) {
	season, err := GetOrCreateActiveSeason(repo)
	if err != nil {
		return nil, err
	}
	rows, err := repo.TopRatings(season.ID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(rows))
	for i := range rows {
		acct, err := repo.GetAccountByID(rows[i].AccountID)
		if err != nil {
			continue
		}
		out = append(out, LeaderboardEntry{
			Rank:      len(out) + 1,
			AccountID: rows[i].AccountID,
			Username:  acct.Username,
			Rating:    rows[i].Rating,
			RankLabel: game.RankLabel(rows[i].Rating),
			Wins:      rows[i].Wins,
			Losses:    rows[i].Losses,
		})
	}
	return out, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
