package engine

import "github.com/Techlemariam/IronForge-sub002/internal/game"

// DuelAttackDamage is one titan-vs-titan exchange. Unlike PvE turns, both
// duelists act independently on their own schedule; each attack simply
// adds damage to the acting side's score, so the roll carries no defend or
// retaliation mechanics.
func DuelAttackDamage(attrs game.Attributes, src Source) int {
	return attackDamage(attrs, src)
}

// EffectiveHP is the pool a titan duelist's opponent must chew through,
// seeded into the challenge at acceptance. Mirrors the PvE player pool.
func EffectiveHP(attrs game.Attributes) int {
	return attrs.MaxHP()
}
