package service

import "github.com/Techlemariam/IronForge-sub002/internal/game"

// AttributeProvider returns the combat attributes derived from a player's
// unlocked progression. The derivation itself (workout history, unlocks)
// lives outside this engine; combat only consumes the scalars.
type AttributeProvider interface {
	GetAttributes(accountID uint) (game.Attributes, error)
}

// AccountRepo is the narrow account lookup used by the default provider.
type AccountRepo interface {
	GetAccountByID(id uint) (*game.Account, error)
}

// AccountAttributeProvider is the deployment's provider: it derives the
// scalars from the account's progression level.
type AccountAttributeProvider struct {
	Repo AccountRepo
}

func (p *AccountAttributeProvider) GetAttributes(accountID uint) (game.Attributes, error) {
	a, err := p.Repo.GetAccountByID(accountID)
	if err != nil {
		return game.Attributes{}, err
	}
	lvl := a.Level
	if lvl < 1 {
		lvl = 1
	}
	return game.Attributes{
		Offense:  10 + lvl*2,
		Defense:  5 + lvl,
		Vitality: 10 + lvl*2,
		Level:    lvl,
	}, nil
}
