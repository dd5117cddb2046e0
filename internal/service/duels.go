package service

import (
	"errors"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/engine"
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/logging"
	"github.com/Techlemariam/IronForge-sub002/internal/reward"
	"github.com/Techlemariam/IronForge-sub002/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DuelWindow is the calendar window set on acceptance.
	DuelWindow = 7 * 24 * time.Hour
	// PendingDuelTTL is how long an unanswered challenge lingers before
	// the sweeper declines it.
	PendingDuelTTL = 7 * 24 * time.Hour

	// Per-report sanity caps. A single workout cannot plausibly exceed
	// these; anything larger is rejected before any state mutation.
	maxReportDistanceKm  = 500
	maxReportDurationMin = 1440
	maxReportElevationM  = 10000

	// Target caps are wider than the per-report ones: a target is
	// accumulated over the whole duel window, not a single workout.
	maxTargetDistanceKm = 5000
	maxTargetElevationM = 100000
)

// DuelRepo is the slice of the repository the duel lifecycle needs.
type DuelRepo interface {
	GetAccountByID(id uint) (*game.Account, error)
	CreateDuel(d *game.DuelChallenge) error
	GetDuelByID(id uint) (*game.DuelChallenge, error)
	GetDuelByPublicID(publicID string) (*game.DuelChallenge, error)
	UpdateDuel(d *game.DuelChallenge) error
	ListDuelsForAccount(accountID uint) ([]game.DuelChallenge, error)
	AddDuelProgress(duelID uint, side game.DuelSide, distanceKm, durationMin, elevationM float64) error
	AddDuelScore(duelID uint, side game.DuelSide, points int) error
	MarkDuelSideFinished(duelID uint, side game.DuelSide, at time.Time, durationAtFinish float64) error
	CompleteDuel(duelID uint, winnerID uint, winnerReward game.Rewards, loserID uint, loserReward game.Rewards) error

	GetActiveSeason(now time.Time) (*game.PvpSeason, error)
	GetOrCreateRating(accountID, seasonID uint) (*game.PvpRating, error)
}

// CreateChallenge opens a pending duel between two accounts. At most one
// unresolved challenge may exist per unordered pair.
func CreateChallenge(repo DuelRepo, challengerID, defenderID uint, variant game.DuelVariant, activityFilter string, target float64) (*game.DuelChallenge, error) {
	if challengerID == defenderID {
		return nil, ErrSelfChallenge
	}
	if !variant.Valid() {
		return nil, ErrUnknownVariant
	}
	if target < 0 {
		return nil, ErrInvalidTarget
	}
	switch variant {
	case game.VariantDistanceRace, game.VariantSpeedDemon:
		if target <= 0 || target > maxTargetDistanceKm {
			return nil, ErrInvalidTarget
		}
	case game.VariantElevationGrind:
		if target == 0 {
			target = game.DefaultElevationTargetM
		}
		if target > maxTargetElevationM {
			return nil, ErrInvalidTarget
		}
	case game.VariantTitanVsTitan:
		target = 0
	}
	if _, err := repo.GetAccountByID(defenderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	d := &game.DuelChallenge{
		PublicID:       uuid.NewString(),
		ChallengerID:   challengerID,
		DefenderID:     defenderID,
		Status:         game.DuelStatusPending,
		Variant:        variant,
		ActivityFilter: activityFilter,
		TargetValue:    target,
	}
	if err := repo.CreateDuel(d); err != nil {
		if errors.Is(err, storage.ErrDuplicateDuel) {
			return nil, ErrDuplicateChallenge
		}
		return nil, err
	}
	return d, nil
}

// AcceptChallenge activates a pending duel. Only the defender may accept.
// The 7-day window starts now; the titan variant additionally seeds both
// sides' effective HP pools from their current attributes.
func AcceptChallenge(repo DuelRepo, provider AttributeProvider, duelID, accountID uint) (*game.DuelChallenge, error) {
	d, err := loadDuel(repo, duelID)
	if err != nil {
		return nil, err
	}
	if d.Status != game.DuelStatusPending {
		return nil, ErrNotPending
	}
	if accountID != d.DefenderID {
		return nil, ErrNotDefender
	}

	now := time.Now()
	end := now.Add(DuelWindow)
	d.Status = game.DuelStatusActive
	d.StartDate = &now
	d.EndDate = &end

	if d.Variant == game.VariantTitanVsTitan {
		cAttrs, err := provider.GetAttributes(d.ChallengerID)
		if err != nil {
			return nil, err
		}
		fAttrs, err := provider.GetAttributes(d.DefenderID)
		if err != nil {
			return nil, err
		}
		d.ChallengerHP = engine.EffectiveHP(cAttrs)
		d.DefenderHP = engine.EffectiveHP(fAttrs)
	}

	if err := repo.UpdateDuel(d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeclineChallenge terminally declines a pending duel. No rewards.
func DeclineChallenge(repo DuelRepo, duelID, accountID uint) (*game.DuelChallenge, error) {
	d, err := loadDuel(repo, duelID)
	if err != nil {
		return nil, err
	}
	if d.Status != game.DuelStatusPending {
		return nil, ErrNotPending
	}
	if accountID != d.DefenderID {
		return nil, ErrNotDefender
	}
	now := time.Now()
	d.Status = game.DuelStatusDeclined
	d.EndDate = &now
	if err := repo.UpdateDuel(d); err != nil {
		return nil, err
	}
	return d, nil
}

// ReportProgress applies an additive workout delta to the reporting side
// and evaluates the duel's win condition. The accumulation is an atomic
// increment at the storage layer; two concurrent reports commute.
func ReportProgress(repo DuelRepo, duelID, accountID uint, distanceKm, durationMin, elevationM float64) (*game.DuelChallenge, error) {
	if distanceKm < 0 || durationMin < 0 || elevationM < 0 {
		return nil, ErrInvalidProgress
	}
	if distanceKm > maxReportDistanceKm || durationMin > maxReportDurationMin || elevationM > maxReportElevationM {
		return nil, ErrInvalidProgress
	}

	d, err := loadDuel(repo, duelID)
	if err != nil {
		return nil, err
	}
	if d.Status != game.DuelStatusActive {
		return nil, ErrDuelNotActive
	}
	side := d.SideOf(accountID)
	if side == "" {
		return nil, ErrNotAParticipant
	}

	if err := repo.AddDuelProgress(duelID, side, distanceKm, durationMin, elevationM); err != nil {
		return nil, err
	}
	d, err = repo.GetDuelByID(duelID)
	if err != nil {
		return nil, err
	}

	// Speed demon: record the finish once, freezing the duration total at
	// the finishing report. A finished side waiting on the opponent keeps
	// accumulating but records no further win check until the opponent
	// finishes.
	if d.Variant == game.VariantSpeedDemon {
		if side == game.SideChallenger && !d.ChallengerFinished && d.ChallengerDistanceKm >= d.TargetValue {
			now := time.Now()
			if err := repo.MarkDuelSideFinished(duelID, side, now, d.ChallengerDurationMin); err != nil {
				return nil, err
			}
			d.ChallengerFinished = true
			d.ChallengerFinishedAt = &now
			d.ChallengerDurationAtFinish = d.ChallengerDurationMin
		}
		if side == game.SideDefender && !d.DefenderFinished && d.DefenderDistanceKm >= d.TargetValue {
			now := time.Now()
			if err := repo.MarkDuelSideFinished(duelID, side, now, d.DefenderDurationMin); err != nil {
				return nil, err
			}
			d.DefenderFinished = true
			d.DefenderFinishedAt = &now
			d.DefenderDurationAtFinish = d.DefenderDurationMin
		}
	}

	return finishIfDecided(repo, d)
}

// ReportDuelAction resolves one titan-vs-titan exchange: the acting side's
// attack damage is added to its score, then the win condition runs.
func ReportDuelAction(repo DuelRepo, provider AttributeProvider, duelID, accountID uint, src engine.Source) (*game.DuelChallenge, error) {
	d, err := loadDuel(repo, duelID)
	if err != nil {
		return nil, err
	}
	if d.Variant != game.VariantTitanVsTitan {
		return nil, ErrUnknownVariant
	}
	if d.Status != game.DuelStatusActive {
		return nil, ErrDuelNotActive
	}
	side := d.SideOf(accountID)
	if side == "" {
		return nil, ErrNotAParticipant
	}

	attrs, err := provider.GetAttributes(accountID)
	if err != nil {
		return nil, err
	}
	dmg := engine.DuelAttackDamage(attrs, src)
	if err := repo.AddDuelScore(duelID, side, dmg); err != nil {
		return nil, err
	}
	d, err = repo.GetDuelByID(duelID)
	if err != nil {
		return nil, err
	}
	return finishIfDecided(repo, d)
}

// finishIfDecided runs the variant's evaluator and, on a decisive result,
// completes the duel and grants both sides their rewards in one
// transaction.
func finishIfDecided(repo DuelRepo, d *game.DuelChallenge) (*game.DuelChallenge, error) {
	evaluate, ok := winEvaluators[d.Variant]
	if !ok {
		return nil, ErrUnknownVariant
	}
	winSide, decided := evaluate(d)
	if !decided {
		return d, nil
	}
	if err := completeWithWinner(repo, d, winSide); err != nil {
		return nil, err
	}
	return repo.GetDuelByID(d.ID)
}

// completeWithWinner freezes the duel and grants scaled rewards to both
// sides. Beating a higher-rated opponent yields a larger grant.
func completeWithWinner(repo DuelRepo, d *game.DuelChallenge, winSide game.DuelSide) error {
	loseSide := game.SideDefender
	if winSide == game.SideDefender {
		loseSide = game.SideChallenger
	}
	winnerID := d.AccountOf(winSide)
	loserID := d.AccountOf(loseSide)

	winScore, loseScore := metricScores(d, winSide)
	diff := ratingDiff(repo, winnerID, loserID)
	winReward := reward.ForDuel(true, winScore, loseScore, diff)
	loseReward := reward.ForDuel(false, loseScore, winScore, -diff)

	return repo.CompleteDuel(d.ID, winnerID, winReward, loserID, loseReward)
}

// metricScores projects the variant's metric into (winner, loser) scores
// for reward scaling.
func metricScores(d *game.DuelChallenge, winSide game.DuelSide) (float64, float64) {
	loseSide := game.SideDefender
	if winSide == game.SideDefender {
		loseSide = game.SideChallenger
	}
	switch d.Variant {
	case game.VariantDistanceRace:
		return d.DistanceOf(winSide), d.DistanceOf(loseSide)
	case game.VariantSpeedDemon:
		// Lower duration at finish won; invert so the faster side scores higher.
		return d.DurationAtFinishOf(loseSide), d.DurationAtFinishOf(winSide)
	case game.VariantElevationGrind:
		return d.ElevationOf(winSide), d.ElevationOf(loseSide)
	default:
		return float64(d.ScoreOf(winSide)), float64(d.ScoreOf(loseSide))
	}
}

// ratingDiff returns loser rating minus winner rating when both sides
// have ladder rows this season, zero otherwise. Lookup failures only cost
// the bonus, never the completion.
func ratingDiff(repo DuelRepo, winnerID, loserID uint) int {
	season, err := repo.GetActiveSeason(time.Now())
	if err != nil || season == nil {
		return 0
	}
	w, err := repo.GetOrCreateRating(winnerID, season.ID)
	if err != nil {
		return 0
	}
	l, err := repo.GetOrCreateRating(loserID, season.ID)
	if err != nil {
		return 0
	}
	return l.Rating - w.Rating
}

// SweepExpiredDuels force-resolves duels past their calendar window:
// stale pending challenges are declined, expired active duels go to the
// side leading the variant's metric (ties to the challenger), with
// rewards granted as for a normal completion.
func SweepExpiredDuels(repo DuelRepo, finder interface {
	FindExpiredDuels(now, pendingCutoff time.Time) ([]game.DuelChallenge, error)
}, now time.Time) {
	duels, err := finder.FindExpiredDuels(now, now.Add(-PendingDuelTTL))
	if err != nil {
		logging.Error("duel sweep failed to list expired duels", err, nil)
		return
	}
	for i := range duels {
		d := &duels[i]
		switch d.Status {
		case game.DuelStatusPending:
			d.Status = game.DuelStatusDeclined
			end := now
			d.EndDate = &end
			if err := repo.UpdateDuel(d); err != nil {
				logging.Error("failed to decline stale duel", err, logging.Fields{"duel_id": d.ID})
				continue
			}
			logging.Info("declined stale pending duel", logging.Fields{"duel_id": d.ID})
		case game.DuelStatusActive:
			if err := completeWithWinner(repo, d, leadingSide(d)); err != nil {
				logging.Error("failed to force-resolve expired duel", err, logging.Fields{"duel_id": d.ID})
				continue
			}
			logging.Warn("force-resolved expired duel", logging.Fields{"duel_id": d.ID})
		}
	}
}

func loadDuel(repo DuelRepo, duelID uint) (*game.DuelChallenge, error) {
	d, err := repo.GetDuelByID(duelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDuelNotFound
		}
		return nil, err
	}
	return d, nil
}
