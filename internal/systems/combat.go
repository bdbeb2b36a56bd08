package systems

import (
	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Бросок кубика - целое из [0, DiceSides)
const (
	DiceSides = 12
	// MaxWoundPenalty - насколько раны атакующего могут ухудшить бросок
	MaxWoundPenalty = 3
)

// Dice - источник случайности для атак. *rand.Rand подходит.
type Dice interface {
	Intn(n int) int
}

// HitRange возвращает границы (k_min, k_max) для броска атаки.
// Удар попадает, если бросок <= k_max; k_min нужен детерминированному режиму.
func HitRange(st *state.State, attackerID, targetID domain.ObjID) (kMin, kMax int) {
	parts := st.Parts()
	attacker := parts.Agent.Get(attackerID)
	target := parts.Agent.Get(targetID)

	wounds := 0
	if s, ok := parts.Strength.GetOpt(attackerID); ok {
		wounds = min(s.Wounds(), MaxWoundPenalty)
	}
	kMin = attacker.AttackAccuracy - target.Dodge - wounds
	kMax = kMin + attacker.AttackStrength
	return kMin, kMax
}

// TryAttack бросает кубик и возвращает исход атаки: Dodge, Wound или Kill.
func TryAttack(st *state.State, dice Dice, attackerID, targetID domain.ObjID) domain.Effect {
	kMin, kMax := HitRange(st, attackerID, targetID)

	var roll int
	if st.IsDeterministic() {
		domain.Invariant(kMin < 0 || kMin > 10, "ambiguous roll in deterministic mode: k_min=%d", kMin)
		if kMin > 10 {
			roll = 0
		} else {
			roll = DiceSides - 1
		}
	} else {
		roll = dice.Intn(DiceSides)
	}

	parts := st.Parts()
	attackerPos := st.PosOf(attackerID)
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attackerID,
		"target_id":   targetID,
		"k_min":       kMin,
		"k_max":       kMax,
		"roll":        roll,
	})

	raw := kMax - roll
	if raw < 0 {
		combatLogger.Debug("Attack missed")
		return domain.EffectDodge{AttackerPos: attackerPos}
	}
	damage := min(raw, parts.Agent.Get(attackerID).AttackStrength)

	armor := 0
	if a, ok := parts.Armor.GetOpt(targetID); ok {
		armor = a.Armor
	}
	armorBreak := min(parts.Agent.Get(attackerID).AttackBreak, armor)
	damage = max(damage-(armor-armorBreak), 0)

	strength := parts.Strength.Get(targetID).Strength
	combatLogger.WithFields(logrus.Fields{
		"damage":      damage,
		"armor":       armor,
		"armor_break": armorBreak,
		"strength":    strength,
	}).Debug("Attack hit")

	if damage >= strength {
		return domain.EffectKill{Pos: st.PosOf(targetID)}
	}
	return domain.EffectWound{Damage: damage, ArmorBreak: armorBreak, AttackerPos: attackerPos}
}

// IsHit - атака нанесла урон (прерывает движение цели)
func IsHit(effect domain.Effect) bool {
	switch e := effect.(type) {
	case domain.EffectKill:
		return true
	case domain.EffectWound:
		return e.Damage > 0
	}
	return false
}
