package reward

import (
	"testing"

	"github.com/Techlemariam/IronForge-sub002/internal/game"
)

func TestForBossVictory_NormalTier(t *testing.T) {
	r := ForBossVictory(5, game.TierNormal)
	if r.Experience != 250 {
		t.Fatalf("expected 250 XP for a level 5 boss at normal, got %d", r.Experience)
	}
	if r.Gold != 125 {
		t.Fatalf("expected 125 gold for a level 5 boss at normal, got %d", r.Gold)
	}
	if r.Gems != 1 {
		t.Fatalf("expected 1 gem for a level 5 boss, got %d", r.Gems)
	}
}

func TestForBossVictory_TierMultipliers(t *testing.T) {
	easy := ForBossVictory(5, game.TierEasy)
	hard := ForBossVictory(5, game.TierHard)
	if easy.Experience != 125 || easy.Gold != 62 {
		t.Fatalf("expected 125/62 at easy, got %d/%d", easy.Experience, easy.Gold)
	}
	if easy.Gems != 0 {
		t.Fatalf("easy tier must not grant gems, got %d", easy.Gems)
	}
	if hard.Experience != 500 || hard.Gold != 250 {
		t.Fatalf("expected 500/250 at hard, got %d/%d", hard.Experience, hard.Gold)
	}
}

func TestForDuel_MarginScalesAndCaps(t *testing.T) {
	narrow := ForDuel(true, 10.0, 9.5, 0)
	blowout := ForDuel(true, 50.0, 10.0, 0)
	if narrow.Experience >= blowout.Experience {
		t.Fatalf("a wider margin must pay more: narrow=%d blowout=%d", narrow.Experience, blowout.Experience)
	}
	if blowout.Experience != 200 || blowout.Gold != 100 {
		t.Fatalf("margin must cap at 2x: got %d/%d", blowout.Experience, blowout.Gold)
	}
}

func TestForDuel_RatingBonus(t *testing.T) {
	upset := ForDuel(true, 10.0, 9.0, 300)
	even := ForDuel(true, 10.0, 9.0, 0)
	if upset.Experience-even.Experience != 30 {
		t.Fatalf("expected +30 XP for a 300 point upset, got %d vs %d", upset.Experience, even.Experience)
	}

	extreme := ForDuel(true, 10.0, 9.0, 10000)
	if extreme.Experience-even.Experience != 40 {
		t.Fatalf("rating bonus must clamp at 400 diff: got %d vs %d", extreme.Experience, even.Experience)
	}
}

func TestForDuel_LoserFloor(t *testing.T) {
	r := ForDuel(false, 0, 100.0, -300)
	if r.Experience != 25 || r.Gold != 10 {
		t.Fatalf("expected loser floor 25/10, got %d/%d", r.Experience, r.Gold)
	}
	if r.Gems != 0 {
		t.Fatalf("losers earn no gems, got %d", r.Gems)
	}
}

func TestForDuel_WinnerNeverBelowFloor(t *testing.T) {
	r := ForDuel(true, 1.0, 1.0, -4000)
	if r.Experience < 25 {
		t.Fatalf("winner XP must not drop below the loser floor, got %d", r.Experience)
	}
}
