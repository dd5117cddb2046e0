package service

import (
	"testing"
	"time"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/storage"

	"gorm.io/gorm"
)

type mockDuelRepo struct {
	accounts map[uint]*game.Account
	duels    map[uint]*game.DuelChallenge
	nextID   uint

	season  *game.PvpSeason
	ratings map[uint]*game.PvpRating

	completed     int
	winnerRewards game.Rewards
	loserRewards  game.Rewards
	lastWinnerID  uint
	lastLoserID   uint
}

func newMockDuelRepo() *mockDuelRepo {
	return &mockDuelRepo{
		accounts: map[uint]*game.Account{},
		duels:    map[uint]*game.DuelChallenge{},
		ratings:  map[uint]*game.PvpRating{},
		nextID:   1,
	}
}

func (m *mockDuelRepo) addAccount(id uint, username string) {
	a := &game.Account{Username: username, Level: 5}
	a.ID = id
	m.accounts[id] = a
}

func (m *mockDuelRepo) GetAccountByID(id uint) (*game.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDuelRepo) CreateDuel(d *game.DuelChallenge) error {
	for _, existing := range m.duels {
		samePair := (existing.ChallengerID == d.ChallengerID && existing.DefenderID == d.DefenderID) ||
			(existing.ChallengerID == d.DefenderID && existing.DefenderID == d.ChallengerID)
		if samePair && existing.Status.Unresolved() {
			return storage.ErrDuplicateDuel
		}
	}
	d.ID = m.nextID
	m.nextID++
	cp := *d
	m.duels[d.ID] = &cp
	return nil
}

func (m *mockDuelRepo) GetDuelByID(id uint) (*game.DuelChallenge, error) {
	if d, ok := m.duels[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDuelRepo) GetDuelByPublicID(publicID string) (*game.DuelChallenge, error) {
	for _, d := range m.duels {
		if d.PublicID == publicID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDuelRepo) UpdateDuel(d *game.DuelChallenge) error {
	cp := *d
	m.duels[d.ID] = &cp
	return nil
}

func (m *mockDuelRepo) ListDuelsForAccount(accountID uint) ([]game.DuelChallenge, error) {
	var out []game.DuelChallenge
	for _, d := range m.duels {
		if d.IsParticipant(accountID) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (m *mockDuelRepo) AddDuelProgress(duelID uint, side game.DuelSide, distanceKm, durationMin, elevationM float64) error {
	d, ok := m.duels[duelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if side == game.SideChallenger {
		d.ChallengerDistanceKm += distanceKm
		d.ChallengerDurationMin += durationMin
		d.ChallengerElevationM += elevationM
	} else {
		d.DefenderDistanceKm += distanceKm
		d.DefenderDurationMin += durationMin
		d.DefenderElevationM += elevationM
	}
	return nil
}

func (m *mockDuelRepo) AddDuelScore(duelID uint, side game.DuelSide, points int) error {
	d, ok := m.duels[duelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if side == game.SideChallenger {
		d.ChallengerScore += points
	} else {
		d.DefenderScore += points
	}
	return nil
}

func (m *mockDuelRepo) MarkDuelSideFinished(duelID uint, side game.DuelSide, at time.Time, durationAtFinish float64) error {
	d, ok := m.duels[duelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if side == game.SideChallenger {
		d.ChallengerFinished = true
		d.ChallengerFinishedAt = &at
		d.ChallengerDurationAtFinish = durationAtFinish
	} else {
		d.DefenderFinished = true
		d.DefenderFinishedAt = &at
		d.DefenderDurationAtFinish = durationAtFinish
	}
	return nil
}

func (m *mockDuelRepo) CompleteDuel(duelID uint, winnerID uint, winnerReward game.Rewards, loserID uint, loserReward game.Rewards) error {
	d, ok := m.duels[duelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if d.Status == game.DuelStatusCompleted {
		return nil
	}
	now := time.Now()
	d.Status = game.DuelStatusCompleted
	d.WinnerID = &winnerID
	d.EndDate = &now
	m.completed++
	m.lastWinnerID = winnerID
	m.lastLoserID = loserID
	m.winnerRewards = winnerReward
	m.loserRewards = loserReward
	return nil
}

func (m *mockDuelRepo) GetActiveSeason(now time.Time) (*game.PvpSeason, error) {
	return m.season, nil
}

func (m *mockDuelRepo) GetOrCreateRating(accountID, seasonID uint) (*game.PvpRating, error) {
	if r, ok := m.ratings[accountID]; ok {
		return r, nil
	}
	r := &game.PvpRating{AccountID: accountID, SeasonID: seasonID, Rating: game.DefaultRating, PeakRating: game.DefaultRating}
	m.ratings[accountID] = r
	return r, nil
}

func (m *mockDuelRepo) FindExpiredDuels(now, pendingCutoff time.Time) ([]game.DuelChallenge, error) {
	var out []game.DuelChallenge
	for _, d := range m.duels {
		if d.Status == game.DuelStatusActive && d.EndDate != nil && !d.EndDate.After(now) {
			out = append(out, *d)
		}
		if d.Status == game.DuelStatusPending && !d.CreatedAt.After(pendingCutoff) {
			out = append(out, *d)
		}
	}
	return out, nil
}

func testDuelProvider() stubProvider {
	return stubProvider{attrs: game.Attributes{Offense: 20, Defense: 10, Vitality: 20, Level: 5}}
}

func activeDuel(t *testing.T, repo *mockDuelRepo, variant game.DuelVariant, target float64) *game.DuelChallenge {
	t.Helper()
	d, err := CreateChallenge(repo, 1, 2, variant, "", target)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	d, err = AcceptChallenge(repo, testDuelProvider(), d.ID, 2)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return d
}

func TestCreateChallenge_Validation(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	if _, err := CreateChallenge(repo, 1, 1, game.VariantDistanceRace, "", 10); err != ErrSelfChallenge {
		t.Fatalf("expected ErrSelfChallenge, got %v", err)
	}
	if _, err := CreateChallenge(repo, 1, 2, game.DuelVariant("arm_wrestle"), "", 10); err != ErrUnknownVariant {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 0); err != ErrInvalidTarget {
		t.Fatalf("expected ErrInvalidTarget for zero distance, got %v", err)
	}
	if _, err := CreateChallenge(repo, 1, 99, game.VariantDistanceRace, "", 10); err != ErrAccountNotFound {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestCreateChallenge_MultiDayTargetsAllowed(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	// Week-long accumulated targets exceed any single workout.
	d, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 600)
	if err != nil {
		t.Fatalf("unexpected error for a 600 km target: %v", err)
	}
	if d.TargetValue != 600 {
		t.Fatalf("expected target 600, got %v", d.TargetValue)
	}
	if _, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", maxTargetDistanceKm+1); err != ErrInvalidTarget {
		t.Fatalf("expected ErrInvalidTarget past the target cap, got %v", err)
	}
}

func TestCreateChallenge_DuplicatePairRejected(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	if _, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Same pair in the reverse direction is still blocked.
	if _, err := CreateChallenge(repo, 2, 1, game.VariantElevationGrind, "", 0); err != ErrDuplicateChallenge {
		t.Fatalf("expected ErrDuplicateChallenge, got %v", err)
	}
}

func TestCreateChallenge_ElevationDefaultTarget(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	d, err := CreateChallenge(repo, 1, 2, game.VariantElevationGrind, "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TargetValue != game.DefaultElevationTargetM {
		t.Fatalf("expected default elevation target %v, got %v", game.DefaultElevationTargetM, d.TargetValue)
	}
	if d.PublicID == "" {
		t.Fatalf("expected a public id to be assigned")
	}
}

func TestAcceptChallenge_DefenderOnly(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	d, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := AcceptChallenge(repo, testDuelProvider(), d.ID, 1); err != ErrNotDefender {
		t.Fatalf("expected ErrNotDefender, got %v", err)
	}

	accepted, err := AcceptChallenge(repo, testDuelProvider(), d.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Status != game.DuelStatusActive {
		t.Fatalf("expected active status, got %q", accepted.Status)
	}
	if accepted.StartDate == nil || accepted.EndDate == nil {
		t.Fatalf("expected the duel window to be set")
	}

	// A resolved challenge cannot be accepted again.
	if _, err := AcceptChallenge(repo, testDuelProvider(), d.ID, 2); err != ErrNotPending {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
}

func TestAcceptChallenge_TitanSeedsHPPools(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	d := activeDuel(t, repo, game.VariantTitanVsTitan, 0)
	if d.ChallengerHP != 300 || d.DefenderHP != 300 {
		t.Fatalf("expected both HP pools seeded to 300, got %d/%d", d.ChallengerHP, d.DefenderHP)
	}
}

func TestDeclineChallenge(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	d, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	declined, err := DeclineChallenge(repo, d.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if declined.Status != game.DuelStatusDeclined {
		t.Fatalf("expected declined status, got %q", declined.Status)
	}
	if repo.completed != 0 {
		t.Fatalf("declines must not grant rewards")
	}
}

func TestReportProgress_DistanceRaceThreshold(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantDistanceRace, 10.0)

	// 9.99 km accumulated: no winner yet.
	out, err := ReportProgress(repo, d.ID, 1, 9.99, 60, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusActive {
		t.Fatalf("9.99 of 10 km must not complete the duel, got %q", out.Status)
	}

	// Exactly 10.0 km wins.
	out, err = ReportProgress(repo, d.ID, 1, 0.01, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusCompleted {
		t.Fatalf("expected completion at exactly the target, got %q", out.Status)
	}
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("expected challenger to win, got %v", out.WinnerID)
	}
	if repo.loserRewards.Experience != 25 || repo.loserRewards.Gold != 10 {
		t.Fatalf("expected loser floor grant, got %+v", repo.loserRewards)
	}
}

func TestReportProgress_SpeedDemonBothMustFinish(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantSpeedDemon, 10.0)

	// Challenger finishes first in 50 minutes; duel stays open.
	out, err := ReportProgress(repo, d.ID, 1, 10.0, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusActive {
		t.Fatalf("one finished side must not complete a speed duel, got %q", out.Status)
	}
	if !out.ChallengerFinished {
		t.Fatalf("expected challenger marked finished")
	}

	// Defender finishes in 45 minutes: faster, defender wins.
	out, err = ReportProgress(repo, d.ID, 2, 10.0, 45, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusCompleted {
		t.Fatalf("expected completion once both finished, got %q", out.Status)
	}
	if out.WinnerID == nil || *out.WinnerID != 2 {
		t.Fatalf("expected the faster defender to win, got %v", out.WinnerID)
	}
}

func TestReportProgress_SpeedDemonTieGoesToChallenger(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantSpeedDemon, 10.0)

	if _, err := ReportProgress(repo, d.ID, 1, 10.0, 50, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := ReportProgress(repo, d.ID, 2, 10.0, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("expected duration tie to go to the challenger, got %v", out.WinnerID)
	}
}

func TestReportProgress_SpeedDemonIgnoresWorkoutsAfterFinish(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantSpeedDemon, 10.0)

	// Challenger reaches the target in 50 minutes, then keeps riding.
	if _, err := ReportProgress(repo, d.ID, 1, 10.0, 50, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := ReportProgress(repo, d.ID, 1, 2.0, 100, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ChallengerDurationAtFinish != 50 {
		t.Fatalf("expected frozen finish duration 50, got %v", out.ChallengerDurationAtFinish)
	}
	if out.DurationOf(game.SideChallenger) != 150 {
		t.Fatalf("expected the running total to keep accumulating, got %v", out.DurationOf(game.SideChallenger))
	}

	// Defender finishes in 120 minutes. Only the 50-minute finish counts
	// for the challenger, not the 150 accumulated minutes.
	out, err = ReportProgress(repo, d.ID, 2, 10.0, 120, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusCompleted {
		t.Fatalf("expected completion once both finished, got %q", out.Status)
	}
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("expected the challenger's finish time to win, got %v", out.WinnerID)
	}
}

func TestReportProgress_Validation(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantDistanceRace, 10.0)

	if _, err := ReportProgress(repo, d.ID, 1, -1, 0, 0); err != ErrInvalidProgress {
		t.Fatalf("expected ErrInvalidProgress for negative delta, got %v", err)
	}
	if _, err := ReportProgress(repo, d.ID, 1, 9999, 0, 0); err != ErrInvalidProgress {
		t.Fatalf("expected ErrInvalidProgress for implausible delta, got %v", err)
	}
	if _, err := ReportProgress(repo, d.ID, 3, 1, 1, 0); err != ErrNotAParticipant {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}
	if _, err := ReportProgress(repo, 99, 1, 1, 1, 0); err != ErrDuelNotFound {
		t.Fatalf("expected ErrDuelNotFound, got %v", err)
	}
}

func TestReportProgress_PendingDuelRejected(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")

	d, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ReportProgress(repo, d.ID, 1, 1, 1, 0); err != ErrDuelNotActive {
		t.Fatalf("expected ErrDuelNotActive, got %v", err)
	}
}

func TestReportDuelAction_TitanCombat(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantTitanVsTitan, 0)

	// Offense 20 with zero variance rolls 20 per exchange against a 300
	// HP pool: fourteen attacks leave it standing, the fifteenth ends it.
	for i := 0; i < 14; i++ {
		out, err := ReportDuelAction(repo, testDuelProvider(), d.ID, 1, fixedSource{})
		if err != nil {
			t.Fatalf("unexpected error on exchange %d: %v", i, err)
		}
		if out.Status != game.DuelStatusActive {
			t.Fatalf("duel ended early on exchange %d", i)
		}
	}
	out, err := ReportDuelAction(repo, testDuelProvider(), d.ID, 1, fixedSource{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != game.DuelStatusCompleted {
		t.Fatalf("expected completion once score crossed the HP pool, got %q", out.Status)
	}
	if out.WinnerID == nil || *out.WinnerID != 1 {
		t.Fatalf("expected challenger victory, got %v", out.WinnerID)
	}
}

func TestReportDuelAction_WrongVariant(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	d := activeDuel(t, repo, game.VariantDistanceRace, 10.0)

	if _, err := ReportDuelAction(repo, testDuelProvider(), d.ID, 1, fixedSource{}); err != ErrUnknownVariant {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestSweepExpiredDuels(t *testing.T) {
	repo := newMockDuelRepo()
	repo.addAccount(1, "ana")
	repo.addAccount(2, "bo")
	repo.addAccount(3, "cy")
	repo.addAccount(4, "di")

	// Stale pending challenge.
	pending, err := CreateChallenge(repo, 1, 2, game.VariantDistanceRace, "", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repo.duels[pending.ID].CreatedAt = time.Now().Add(-8 * 24 * time.Hour)

	// Active duel past its window with the defender in the lead.
	active, err := CreateChallenge(repo, 3, 4, game.VariantDistanceRace, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := AcceptChallenge(repo, testDuelProvider(), active.ID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ReportProgress(repo, active.ID, 3, 5, 30, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ReportProgress(repo, active.ID, 4, 12, 70, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	repo.duels[active.ID].EndDate = &past

	SweepExpiredDuels(repo, repo, time.Now())

	if repo.duels[pending.ID].Status != game.DuelStatusDeclined {
		t.Fatalf("expected stale pending duel declined, got %q", repo.duels[pending.ID].Status)
	}
	if repo.duels[active.ID].Status != game.DuelStatusCompleted {
		t.Fatalf("expected expired active duel completed, got %q", repo.duels[active.ID].Status)
	}
	if repo.lastWinnerID != 4 {
		t.Fatalf("expected the leading defender to win, got account %d", repo.lastWinnerID)
	}
}
