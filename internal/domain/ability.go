package domain

import (
	"fmt"
	"strings"
)

// AbilityKind - внутренний числовой идентификатор активной способности
type AbilityKind uint8

const (
	AbilityUnknown AbilityKind = iota
	AbilityKnockback
	AbilityClub
	AbilityJump
	AbilityDash
	AbilityRage
	AbilityHeal
	AbilityGreatHeal
	AbilityBloodlust
	AbilityPoison
	AbilitySummon
	AbilityVanish
	AbilityBombPush
	AbilityBombDamage
	AbilityBombFire
	AbilityBombPoison
	AbilityExplodePush
	AbilityExplodeDamage
	AbilityExplodeFire
	AbilityExplodePoison
)

var abilityStringTo = map[string]AbilityKind{
	"knockback":      AbilityKnockback,
	"club":           AbilityClub,
	"jump":           AbilityJump,
	"dash":           AbilityDash,
	"rage":           AbilityRage,
	"heal":           AbilityHeal,
	"great_heal":     AbilityGreatHeal,
	"bloodlust":      AbilityBloodlust,
	"poison":         AbilityPoison,
	"summon":         AbilitySummon,
	"vanish":         AbilityVanish,
	"bomb_push":      AbilityBombPush,
	"bomb_damage":    AbilityBombDamage,
	"bomb_fire":      AbilityBombFire,
	"bomb_poison":    AbilityBombPoison,
	"explode_push":   AbilityExplodePush,
	"explode_damage": AbilityExplodeDamage,
	"explode_fire":   AbilityExplodeFire,
	"explode_poison": AbilityExplodePoison,
}

var abilityToString = func() map[AbilityKind]string {
	m := make(map[AbilityKind]string, len(abilityStringTo))
	for s, k := range abilityStringTo {
		m[k] = s
	}
	return m
}()

// ParseAbilityKind конвертирует строку из файла прототипов в AbilityKind
func ParseAbilityKind(s string) (AbilityKind, error) {
	if k, ok := abilityStringTo[strings.ToLower(s)]; ok {
		return k, nil
	}
	return AbilityUnknown, fmt.Errorf("unknown ability %q", s)
}

func (k AbilityKind) String() string {
	if s, ok := abilityToString[k]; ok {
		return s
	}
	return "unknown"
}

func (k AbilityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *AbilityKind) UnmarshalText(data []byte) error {
	v, err := ParseAbilityKind(string(data))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Ability - активная способность с параметрами.
// Значение сравнимо (==), по нему ищутся способности в расписании.
type Ability struct {
	Kind     AbilityKind `yaml:"kind"`
	Distance int         `yaml:"distance,omitempty"` // jump, bomb_*
	Strength int         `yaml:"strength,omitempty"` // knockback (вес), heal, great_heal
	Attacks  int         `yaml:"attacks,omitempty"`  // rage
}

func (a Ability) String() string {
	switch {
	case a.Distance != 0:
		return fmt.Sprintf("%s(distance=%d)", a.Kind, a.Distance)
	case a.Strength != 0:
		return fmt.Sprintf("%s(strength=%d)", a.Kind, a.Strength)
	case a.Attacks != 0:
		return fmt.Sprintf("%s(attacks=%d)", a.Kind, a.Attacks)
	}
	return a.Kind.String()
}

// IsBomb - способность бросает бомбу
func (k AbilityKind) IsBomb() bool {
	switch k {
	case AbilityBombPush, AbilityBombDamage, AbilityBombFire, AbilityBombPoison:
		return true
	}
	return false
}

// IsExplosion - способность самой бомбы
func (k AbilityKind) IsExplosion() bool {
	switch k {
	case AbilityExplodePush, AbilityExplodeDamage, AbilityExplodeFire, AbilityExplodePoison:
		return true
	}
	return false
}

// bombInfo: какой объект создает бросок и какой взрыв ему запланирован
type bombInfo struct {
	prototype string
	explosion AbilityKind
	fuse      int
}

var bombs = map[AbilityKind]bombInfo{
	AbilityBombPush:   {prototype: "bomb_push", explosion: AbilityExplodePush, fuse: 0},
	AbilityBombDamage: {prototype: "bomb_damage", explosion: AbilityExplodeDamage, fuse: 1},
	AbilityBombFire:   {prototype: "bomb_fire", explosion: AbilityExplodeFire, fuse: 1},
	AbilityBombPoison: {prototype: "bomb_poison", explosion: AbilityExplodePoison, fuse: 1},
}

// BombPrototype - имя прототипа бомбы
func (k AbilityKind) BombPrototype() string {
	return bombs[k].prototype
}

// BombExplosion - взрыв, который будет запланирован брошенной бомбе
func (k AbilityKind) BombExplosion() Ability {
	return Ability{Kind: bombs[k].explosion}
}

// BombFuse - через сколько раундов взрывается бомба (0 - сразу после броска)
func (k AbilityKind) BombFuse() int {
	return bombs[k].fuse
}

// RechargeableAbility - способность с перезарядкой.
// Cooldown == 0 означает "готова" (Ready).
type RechargeableAbility struct {
	Ability      Ability `yaml:"ability"`
	Cooldown     int     `yaml:"cooldown,omitempty"`
	BaseCooldown int     `yaml:"base_cooldown"`
}

// IsReady - способность не на перезарядке
func (r RechargeableAbility) IsReady() bool {
	return r.Cooldown <= 0
}

// PassiveKind - пассивная способность
type PassiveKind uint8

const (
	PassiveUnknown PassiveKind = iota
	PassiveHeavyImpact
	PassiveSpawnPoisonCloudOnDeath
	PassiveBurn
	PassivePoison
	PassiveSpikeTrap
	PassivePoisonAttack
	PassiveRegenerate
)

var passiveStringTo = map[string]PassiveKind{
	"heavy_impact":                PassiveHeavyImpact,
	"spawn_poison_cloud_on_death": PassiveSpawnPoisonCloudOnDeath,
	"burn":                        PassiveBurn,
	"poison":                      PassivePoison,
	"spike_trap":                  PassiveSpikeTrap,
	"poison_attack":               PassivePoisonAttack,
	"regenerate":                  PassiveRegenerate,
}

var passiveToString = func() map[PassiveKind]string {
	m := make(map[PassiveKind]string, len(passiveStringTo))
	for s, k := range passiveStringTo {
		m[k] = s
	}
	return m
}()

func ParsePassiveKind(s string) (PassiveKind, error) {
	if k, ok := passiveStringTo[strings.ToLower(s)]; ok {
		return k, nil
	}
	return PassiveUnknown, fmt.Errorf("unknown passive ability %q", s)
}

func (k PassiveKind) String() string {
	if s, ok := passiveToString[k]; ok {
		return s
	}
	return "unknown"
}

func (k PassiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PassiveKind) UnmarshalText(data []byte) error {
	v, err := ParsePassiveKind(string(data))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsHazard - опасность клетки: срабатывает на тех, кто на ней стоит
func (k PassiveKind) IsHazard() bool {
	return k == PassiveBurn || k == PassivePoison || k == PassiveSpikeTrap
}

// PassiveAbility - пассивная способность с параметром
type PassiveAbility struct {
	Kind     PassiveKind `yaml:"kind"`
	Strength int         `yaml:"strength,omitempty"` // regenerate
}

func (p PassiveAbility) String() string {
	return p.Kind.String()
}

// PlannedAbility - способность, которая сама сработает через Rounds раундов
// (фитиль бомбы, исчезновение огня).
type PlannedAbility struct {
	Rounds  int
	Phase   PlayerID // в начале чьего хода уменьшается счетчик
	Ability Ability
}

// IsDue - пора срабатывать
func (p PlannedAbility) IsDue() bool {
	return p.Rounds <= 0
}
