package storage

import (
	"errors"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// ratingTxHook, when set, runs between the two rating-row writes of
	// ApplyMatchResult. Tests use it to prove a failure mid-transaction
	// leaves both rows untouched.
	ratingTxHook func(tx *gorm.DB) error
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

// --- Accounts ----------------------------------------------------------

func (r *sqliteRepository) GetAccountByID(id uint) (*game.Account, error) {
	var a game.Account
	if err := r.db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepository) GetAccountByUsername(username string) (*game.Account, error) {
	var a game.Account
	if err := r.db.Where("username = ?", username).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepository) CreateAccount(a *game.Account) error {
	return r.db.Create(a).Error
}

func (r *sqliteRepository) GrantRewards(accountID uint, rw game.Rewards) error {
	return r.db.Model(&game.Account{}).Where("id = ?", accountID).UpdateColumns(map[string]interface{}{
		"experience": gorm.Expr("experience + ?", rw.Experience),
		"gold":       gorm.Expr("gold + ?", rw.Gold),
		"gems":       gorm.Expr("gems + ?", rw.Gems),
	}).Error
}

func (r *sqliteRepository) SpendGold(accountID uint, amount int64) error {
	res := r.db.Model(&game.Account{}).
		Where("id = ? AND gold >= ?", accountID, amount).
		UpdateColumn("gold", gorm.Expr("gold - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientGold
	}
	return nil
}

// --- Boss catalog ------------------------------------------------------

func (r *sqliteRepository) GetBosses() ([]game.Opponent, error) {
	var bosses []game.Opponent
	if err := r.db.Order("level asc").Find(&bosses).Error; err != nil {
		return nil, err
	}
	return bosses, nil
}

func (r *sqliteRepository) GetBossByID(id uint) (*game.Opponent, error) {
	var b game.Opponent
	if err := r.db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// --- Duels -------------------------------------------------------------

func (r *sqliteRepository) CreateDuel(d *game.DuelChallenge) error {
	// Check-then-insert inside a transaction; the partial unique index on
	// pair_key is the backstop if two creates race.
	return r.db.Transaction(func(tx *gorm.DB) error {
		lo, hi := d.ChallengerID, d.DefenderID
		if lo > hi {
			lo, hi = hi, lo
		}
		var count int64
		err := tx.Model(&game.DuelChallenge{}).
			Where("pair_key = ? AND status IN ?", pairKey(lo, hi),
				[]game.DuelStatus{game.DuelStatusPending, game.DuelStatusActive}).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateDuel
		}
		return tx.Create(d).Error
	})
}

func pairKey(lo, hi uint) string {
	d := game.DuelChallenge{ChallengerID: lo, DefenderID: hi}
	_ = d.BeforeSave(nil)
	return d.PairKey
}

func (r *sqliteRepository) GetDuelByID(id uint) (*game.DuelChallenge, error) {
	var d game.DuelChallenge
	if err := r.db.First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *sqliteRepository) GetDuelByPublicID(publicID string) (*game.DuelChallenge, error) {
	var d game.DuelChallenge
	if err := r.db.Where("public_id = ?", publicID).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *sqliteRepository) UpdateDuel(d *game.DuelChallenge) error {
	return r.db.Save(d).Error
}

func (r *sqliteRepository) ListDuelsForAccount(accountID uint) ([]game.DuelChallenge, error) {
	var duels []game.DuelChallenge
	err := r.db.
		Where("challenger_id = ? OR defender_id = ?", accountID, accountID).
		Order("created_at desc").
		Find(&duels).Error
	if err != nil {
		return nil, err
	}
	return duels, nil
}

func (r *sqliteRepository) AddDuelProgress(duelID uint, side game.DuelSide, distanceKm, durationMin, elevationM float64) error {
	cols := map[string]interface{}{
		"challenger_distance_km":  gorm.Expr("challenger_distance_km + ?", distanceKm),
		"challenger_duration_min": gorm.Expr("challenger_duration_min + ?", durationMin),
		"challenger_elevation_m":  gorm.Expr("challenger_elevation_m + ?", elevationM),
	}
	if side == game.SideDefender {
		cols = map[string]interface{}{
			"defender_distance_km":  gorm.Expr("defender_distance_km + ?", distanceKm),
			"defender_duration_min": gorm.Expr("defender_duration_min + ?", durationMin),
			"defender_elevation_m":  gorm.Expr("defender_elevation_m + ?", elevationM),
		}
	}
	return r.db.Model(&game.DuelChallenge{}).Where("id = ?", duelID).UpdateColumns(cols).Error
}

func (r *sqliteRepository) AddDuelScore(duelID uint, side game.DuelSide, points int) error {
	col := "challenger_score"
	if side == game.SideDefender {
		col = "defender_score"
	}
	return r.db.Model(&game.DuelChallenge{}).Where("id = ?", duelID).
		UpdateColumn(col, gorm.Expr(col+" + ?", points)).Error
}

func (r *sqliteRepository) MarkDuelSideFinished(duelID uint, side game.DuelSide, at time.Time, durationAtFinish float64) error {
	cols := map[string]interface{}{
		"challenger_finished":           true,
		"challenger_finished_at":        at,
		"challenger_duration_at_finish": durationAtFinish,
	}
	if side == game.SideDefender {
		cols = map[string]interface{}{
			"defender_finished":           true,
			"defender_finished_at":        at,
			"defender_duration_at_finish": durationAtFinish,
		}
	}
	return r.db.Model(&game.DuelChallenge{}).Where("id = ?", duelID).UpdateColumns(cols).Error
}

func (r *sqliteRepository) CompleteDuel(duelID uint, winnerID uint, winnerReward game.Rewards, loserID uint, loserReward game.Rewards) error {
	now := time.Now()
	return r.db.Transaction(func(tx *gorm.DB) error {
		var d game.DuelChallenge
		if err := tx.First(&d, duelID).Error; err != nil {
			return err
		}
		if d.Status == game.DuelStatusCompleted {
			// already resolved by a concurrent report; nothing to do
			return nil
		}
		d.Status = game.DuelStatusCompleted
		d.WinnerID = &winnerID
		d.EndDate = &now
		if err := tx.Save(&d).Error; err != nil {
			return err
		}
		if err := grantInTx(tx, winnerID, winnerReward); err != nil {
			return err
		}
		return grantInTx(tx, loserID, loserReward)
	})
}

func grantInTx(tx *gorm.DB, accountID uint, rw game.Rewards) error {
	return tx.Model(&game.Account{}).Where("id = ?", accountID).UpdateColumns(map[string]interface{}{
		"experience": gorm.Expr("experience + ?", rw.Experience),
		"gold":       gorm.Expr("gold + ?", rw.Gold),
		"gems":       gorm.Expr("gems + ?", rw.Gems),
	}).Error
}

func (r *sqliteRepository) FindExpiredDuels(now, pendingCutoff time.Time) ([]game.DuelChallenge, error) {
	var duels []game.DuelChallenge
	err := r.db.
		Where("(status = ? AND end_date <= ?) OR (status = ? AND created_at <= ?)",
			game.DuelStatusActive, now, game.DuelStatusPending, pendingCutoff).
		Find(&duels).Error
	if err != nil {
		return nil, err
	}
	return duels, nil
}

// --- Ratings -----------------------------------------------------------

func (r *sqliteRepository) GetOrCreateRating(accountID, seasonID uint) (*game.PvpRating, error) {
	return getOrCreateRating(r.db, accountID, seasonID)
}

func getOrCreateRating(db *gorm.DB, accountID, seasonID uint) (*game.PvpRating, error) {
	var p game.PvpRating
	err := db.Where("account_id = ? AND season_id = ?", accountID, seasonID).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	p = game.PvpRating{
		AccountID:  accountID,
		SeasonID:   seasonID,
		Rating:     game.DefaultRating,
		PeakRating: game.DefaultRating,
	}
	// DoNothing + re-fetch tolerates a concurrent lazy create.
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&p).Error; err != nil {
		return nil, err
	}
	if p.ID == 0 {
		if err := db.Where("account_id = ? AND season_id = ?", accountID, seasonID).First(&p).Error; err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func (r *sqliteRepository) ApplyMatchResult(seasonID, winnerAccountID, loserAccountID, reporterAccountID uint) (*game.PvpRating, *game.PvpRating, *game.PvpMatch, error) {
	var winner, loser *game.PvpRating
	var match *game.PvpMatch
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		winner, err = getOrCreateRating(tx, winnerAccountID, seasonID)
		if err != nil {
			return err
		}
		loser, err = getOrCreateRating(tx, loserAccountID, seasonID)
		if err != nil {
			return err
		}

		reporterRating := winner.Rating
		if reporterAccountID == loserAccountID {
			reporterRating = loser.Rating
		}
		delta := game.EloDelta(winner.Rating, loser.Rating, reporterRating)
		match = &game.PvpMatch{
			SeasonID:           seasonID,
			WinnerID:           winnerAccountID,
			LoserID:            loserAccountID,
			WinnerRatingBefore: winner.Rating,
			LoserRatingBefore:  loser.Rating,
			Delta:              delta,
		}

		winner.Rating = game.ClampRating(winner.Rating + delta)
		if winner.Rating > winner.PeakRating {
			winner.PeakRating = winner.Rating
		}
		winner.Wins++
		if err := tx.Save(winner).Error; err != nil {
			return err
		}

		if r.ratingTxHook != nil {
			if err := r.ratingTxHook(tx); err != nil {
				return err
			}
		}

		loser.Rating = game.ClampRating(loser.Rating - delta)
		loser.Losses++
		if err := tx.Save(loser).Error; err != nil {
			return err
		}

		return tx.Create(match).Error
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return winner, loser, match, nil
}

func (r *sqliteRepository) FindCandidates(seasonID, excludeAccountID uint, minRating, maxRating int) ([]game.PvpRating, error) {
	var out []game.PvpRating
	err := r.db.
		Where("season_id = ? AND account_id != ? AND rating BETWEEN ? AND ?",
			seasonID, excludeAccountID, minRating, maxRating).
		Order("rating desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) HighestRated(seasonID, excludeAccountID uint) (*game.PvpRating, error) {
	var p game.PvpRating
	err := r.db.
		Where("season_id = ? AND account_id != ?", seasonID, excludeAccountID).
		Order("rating desc").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) TopRatings(seasonID uint, limit int) ([]game.PvpRating, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.PvpRating
	err := r.db.
		Where("season_id = ?", seasonID).
		Order("rating DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Seasons -----------------------------------------------------------

func (r *sqliteRepository) GetActiveSeason(now time.Time) (*game.PvpSeason, error) {
	var s game.PvpSeason
	err := r.db.
		Where("active = ? AND start_date <= ? AND end_date > ?", true, now, now).
		First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sqliteRepository) CountSeasons() (int64, error) {
	var count int64
	err := r.db.Model(&game.PvpSeason{}).Count(&count).Error
	return count, err
}

func (r *sqliteRepository) CreateSeason(s *game.PvpSeason) error {
	// The unique name index turns a concurrent duplicate bootstrap into a
	// constraint error the caller resolves by re-fetching.
	return r.db.Create(s).Error
}
