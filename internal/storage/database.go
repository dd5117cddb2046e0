package storage

import (
	"github.com/Techlemariam/IronForge-sub002/internal/game"
	"github.com/Techlemariam/IronForge-sub002/internal/session"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database, keeps the schema updated via
// AutoMigrate and seeds the boss catalog from configuration on first run.
func OpenAndMigrate(dataSourceName string, bossesFromConfig []game.Opponent) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.Account{},
		&game.Opponent{},
		&game.DuelChallenge{},
		&game.PvpRating{},
		&game.PvpSeason{},
		&game.PvpMatch{},
		&session.CombatSessionRow{},
	)
	if err != nil {
		return nil, err
	}

	// At most one unresolved duel per unordered pair. The pair_key column
	// is canonicalized in a BeforeSave hook; the partial index enforces
	// the invariant even if two creates race past the application check.
	if execErr := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_duels_unresolved_pair ON duel_challenges(pair_key) WHERE status IN ('pending','active');").Error; execErr != nil {
		return nil, execErr
	}

	seedBossCatalog(db, bossesFromConfig)
	return db, nil
}

// seedBossCatalog inserts the configured bosses on an empty catalog only.
// Level/HP tuning for existing rows is applied from config at read time by
// the repository, keeping the config the single source of truth.
func seedBossCatalog(db *gorm.DB, bossesFromConfig []game.Opponent) {
	var count int64
	db.Model(&game.Opponent{}).Count(&count)
	if count > 0 {
		return
	}
	if len(bossesFromConfig) == 0 {
		return
	}
	bosses := make([]game.Opponent, 0, len(bossesFromConfig))
	bosses = append(bosses, bossesFromConfig...)
	db.Create(&bosses)
}
