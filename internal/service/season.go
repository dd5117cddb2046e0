package service

import (
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/dedupe"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/logging"
)

// SeasonLength is the fixed duration of a bootstrapped season.
const SeasonLength = 28 * 24 * time.Hour

// SeasonRepo is the slice of the repository the season lifecycle needs.
type SeasonRepo interface {
	GetActiveSeason(now time.Time) (*game.PvpSeason, error)
	CountSeasons() (int64, error)
	CreateSeason(s *game.PvpSeason) error
}

// GetOrCreateActiveSeason returns the season bracketing the current time.
// On a fresh deployment it bootstraps "Season 1"; the singleflight group
// plus the unique season name make concurrent bootstrap idempotent:
// whichever create wins, every caller observes the same row. If seasons
// exist but none is active, the boundary policy is external and callers
// get ErrNoActiveSeason.
func GetOrCreateActiveSeason(repo SeasonRepo) (*game.PvpSeason, error) {
	v, err, _ := dedupe.SeasonGroup.Do("active-season", func() (interface{}, error) {
		now := time.Now()
		s, err := repo.GetActiveSeason(now)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
		count, err := repo.CountSeasons()
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrNoActiveSeason
		}

		s = &game.PvpSeason{
			Name:      "Season 1",
			StartDate: now,
			EndDate:   now.Add(SeasonLength),
			Active:    true,
		}
		if err := repo.CreateSeason(s); err != nil {
			// Lost the bootstrap race; the winner's row is authoritative.
			existing, getErr := repo.GetActiveSeason(time.Now())
			if getErr == nil && existing != nil {
				return existing, nil
			}
			return nil, err
		}
		logging.Info("bootstrapped season", logging.Fields{"season": s.Name})
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*game.PvpSeason), nil
}
