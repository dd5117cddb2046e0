package game

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Account stores unique player identity plus the wallet and progression
// counters this engine mutates (reward grants, flee costs).
type Account struct {
	gorm.Model
	Username   string `json:"username" gorm:"uniqueIndex"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Level      int    `json:"level"`
	Gold       int64  `json:"gold"`
	Gems       int64  `json:"gems"`
	Experience int64  `json:"experience"`
}

func (Account) TableName() string { return "accounts" }

// Opponent is a boss descriptor from the catalog. Combat stats are derived
// from Level and MaxHP (see engine.OpponentPower); there is no separate
// stat block.
type Opponent struct {
	gorm.Model
	Name  string `json:"name" gorm:"uniqueIndex"`
	Level int    `json:"level"`
	MaxHP int    `json:"max_hp"`
}

// TableName overrides the default GORM table name so the persisted table
// is `boss_catalog` instead of the default `opponents`.
func (Opponent) TableName() string { return "boss_catalog" }

// DuelChallenge is the durable record shared by the two sides of an
// asynchronous duel. Rows are frozen on COMPLETED/DECLINED and never
// deleted; they double as match history.
type DuelChallenge struct {
	gorm.Model
	PublicID     string      `json:"public_id" gorm:"uniqueIndex;size:36"`
	ChallengerID uint        `json:"challenger_id"`
	DefenderID   uint        `json:"defender_id"`
	Status       DuelStatus  `json:"status" gorm:"index"`
	Variant      DuelVariant `json:"variant"`
	// ActivityFilter optionally restricts which workout types may report
	// progress (empty = any).
	ActivityFilter string `json:"activity_filter"`
	// TargetValue is the distance (km) or elevation (m) threshold,
	// depending on the variant. Unused for titan_vs_titan.
	TargetValue float64 `json:"target_value"`

	// Per-side accumulators. Monotonically non-decreasing; mutated only
	// through atomic SQL increments, never read-modify-write.
	ChallengerDistanceKm  float64 `json:"challenger_distance_km"`
	ChallengerDurationMin float64 `json:"challenger_duration_min"`
	ChallengerElevationM  float64 `json:"challenger_elevation_m"`
	DefenderDistanceKm    float64 `json:"defender_distance_km"`
	DefenderDurationMin   float64 `json:"defender_duration_min"`
	DefenderElevationM    float64 `json:"defender_elevation_m"`

	// Titan variant only: combat scores and the effective HP pools they
	// must overcome, seeded at acceptance.
	ChallengerScore int `json:"challenger_score"`
	DefenderScore   int `json:"defender_score"`
	ChallengerHP    int `json:"challenger_hp"`
	DefenderHP      int `json:"defender_hp"`

	// Speed demon variant only: set once when a side reaches the target
	// distance. The duel completes only after both sides finish. The
	// duration snapshot freezes the side's total at the finishing report;
	// workouts logged while waiting for the opponent do not count against
	// the finisher.
	ChallengerFinished         bool       `json:"challenger_finished"`
	ChallengerFinishedAt       *time.Time `json:"challenger_finished_at"`
	ChallengerDurationAtFinish float64    `json:"challenger_duration_at_finish"`
	DefenderFinished           bool       `json:"defender_finished"`
	DefenderFinishedAt         *time.Time `json:"defender_finished_at"`
	DefenderDurationAtFinish   float64    `json:"defender_duration_at_finish"`

	WinnerID  *uint      `json:"winner_id"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	// PairKey is the canonical unordered pair "minID_maxID". A partial
	// unique index over (pair_key) WHERE status IN (pending, active)
	// enforces at most one unresolved duel per pair.
	PairKey string `json:"-" gorm:"index"`
}

func (DuelChallenge) TableName() string { return "duel_challenges" }

// BeforeSave canonicalizes the unordered participant pair so the database
// uniqueness rule applies regardless of who challenged whom.
func (d *DuelChallenge) BeforeSave(tx *gorm.DB) error {
	lo, hi := d.ChallengerID, d.DefenderID
	if lo > hi {
		lo, hi = hi, lo
	}
	d.PairKey = fmt.Sprintf("%d_%d", lo, hi)
	return nil
}

// IsParticipant reports whether the account is one of the duel's sides.
func (d *DuelChallenge) IsParticipant(accountID uint) bool {
	return accountID == d.ChallengerID || accountID == d.DefenderID
}

// OpponentOf returns the other side's account id. The caller must be a
// participant.
func (d *DuelChallenge) OpponentOf(accountID uint) uint {
	if accountID == d.ChallengerID {
		return d.DefenderID
	}
	return d.ChallengerID
}

// PvpRating is one account's seasonal ladder row, lazily created with the
// 1200 defaults on first access. Updated only inside the rating engine's
// atomic transaction.
type PvpRating struct {
	gorm.Model
	AccountID  uint `json:"account_id" gorm:"uniqueIndex:idx_pvp_ratings_account_season"`
	SeasonID   uint `json:"season_id" gorm:"uniqueIndex:idx_pvp_ratings_account_season"`
	Rating     int  `json:"rating"`
	PeakRating int  `json:"peak_rating"`
	Wins       int  `json:"wins"`
	Losses     int  `json:"losses"`
}

func (PvpRating) TableName() string { return "pvp_ratings" }

// DefaultRating is the seed for lazily created rating rows.
const DefaultRating = 1200

// PvpSeason is a fixed calendar window during which ratings accumulate.
type PvpSeason struct {
	gorm.Model
	Name      string    `json:"name" gorm:"uniqueIndex"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Active    bool      `json:"active"`
}

func (PvpSeason) TableName() string { return "pvp_seasons" }

// PvpMatch is the immutable record appended for every ranked result. It
// captures both pre-match ratings and the applied delta.
type PvpMatch struct {
	gorm.Model
	SeasonID           uint `json:"season_id" gorm:"index"`
	WinnerID           uint `json:"winner_id" gorm:"index"`
	LoserID            uint `json:"loser_id" gorm:"index"`
	WinnerRatingBefore int  `json:"winner_rating_before"`
	LoserRatingBefore  int  `json:"loser_rating_before"`
	Delta              int  `json:"delta"`
}

func (PvpMatch) TableName() string { return "pvp_matches" }

// Rewards is a currency/experience grant computed by the reward calculator.
type Rewards struct {
	Experience int `json:"experience"`
	Gold       int `json:"gold"`
	Gems       int `json:"gems"`
}

// IsZero reports whether the grant carries nothing.
func (r Rewards) IsZero() bool { return r.Experience == 0 && r.Gold == 0 && r.Gems == 0 }
