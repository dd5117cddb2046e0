package session

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/Techlemariam/IronForge-sub002/internal/game"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CombatSessionRow persists one serialized encounter per account for the
// database-backed store.
type CombatSessionRow struct {
	gorm.Model
	AccountID uint   `gorm:"uniqueIndex"`
	State     []byte `gorm:"type:blob"`
}

func (CombatSessionRow) TableName() string { return "combat_sessions" }

// DBStore externalizes encounters to the shared database so a turn can be
// served by any replica. Turn serialization for a given account is still
// per-process; deployments running several replicas behind non-sticky
// routing additionally rely on the unique account row.
type DBStore struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

// NewDBStore returns a store backed by the given database handle.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, locks: make(map[uint]*sync.Mutex)}
}

func (s *DBStore) Start(accountID uint, st *game.CombatState) error {
	var count int64
	if err := s.db.Model(&CombatSessionRow{}).Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSessionExists
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.Create(&CombatSessionRow{AccountID: accountID, State: b}).Error
}

func (s *DBStore) Get(accountID uint) (*game.CombatState, error) {
	var row CombatSessionRow
	if err := s.db.Where("account_id = ?", accountID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}
	var st game.CombatState
	if err := json.Unmarshal(row.State, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *DBStore) Save(accountID uint, st *game.CombatState) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
	}).Create(&CombatSessionRow{AccountID: accountID, State: b}).Error
}

func (s *DBStore) Clear(accountID uint) error {
	return s.db.Unscoped().Where("account_id = ?", accountID).Delete(&CombatSessionRow{}).Error
}

func (s *DBStore) WithLock(accountID uint, fn func() error) error {
	s.mu.Lock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn()
}
