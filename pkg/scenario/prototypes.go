package scenario

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"

	"gopkg.in/yaml.v3"
)

var ErrBadPrototype = errors.New("bad prototype")

// LoadPrototypesFile читает таблицу прототипов из YAML-файла
func LoadPrototypesFile(path string) (state.Prototypes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prototypes: %w", err)
	}
	return LoadPrototypes(data)
}

// LoadPrototypes разбирает таблицу прототипов.
// Каждый прототип - список компонентов, каждый компонент - словарь из одного ключа:
//
//	swordsman:
//	  - strength: {base_strength: 3}
//	  - blocker: {weight: normal}
func LoadPrototypes(data []byte) (state.Prototypes, error) {
	var raw map[string][]map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse prototypes: %w", err)
	}

	protos := make(state.Prototypes, len(raw))
	for name, items := range raw {
		components, err := decodeComponents(items)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadPrototype, name, err)
		}
		if err := validatePrototype(components); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadPrototype, name, err)
		}
		protos[name] = normalize(components)
	}
	return protos, nil
}

func decodeComponents(items []map[string]yaml.Node) ([]domain.Component, error) {
	components := make([]domain.Component, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if len(item) != 1 {
			return nil, fmt.Errorf("component #%d must have exactly one key, got %d", i, len(item))
		}
		for key, node := range item {
			if seen[key] {
				return nil, fmt.Errorf("duplicate component %q", key)
			}
			seen[key] = true
			c, err := decodeComponent(key, &node)
			if err != nil {
				return nil, fmt.Errorf("component %q: %w", key, err)
			}
			components = append(components, c)
		}
	}
	return components, nil
}

func decodeComponent(key string, node *yaml.Node) (domain.Component, error) {
	switch key {
	case "strength":
		return decodeInto[domain.Strength](node)
	case "armor":
		return decodeInto[domain.Armor](node)
	case "agent":
		return decodeInto[domain.Agent](node)
	case "blocker":
		return decodeInto[domain.Blocker](node)
	case "summoner":
		return decodeInto[domain.Summoner](node)
	case "abilities":
		var list []domain.RechargeableAbility
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return domain.Abilities{Abilities: list}, nil
	case "passive_abilities":
		var list []domain.PassiveAbility
		if err := node.Decode(&list); err != nil {
			return nil, err
		}
		return domain.PassiveAbilities{Abilities: list}, nil
	case "pos", "meta", "belongs_to", "effects", "schedule":
		// Эти компоненты выдаются при создании объекта
		return nil, fmt.Errorf("component is assigned at creation and cannot be in a prototype")
	}
	return nil, fmt.Errorf("unknown component")
}

func decodeInto[T domain.Component](node *yaml.Node) (domain.Component, error) {
	var c T
	if err := node.Decode(&c); err != nil {
		return nil, err
	}
	return c, nil
}

func validatePrototype(components []domain.Component) error {
	var hasAgent, hasStrength bool
	for _, c := range components {
		switch v := c.(type) {
		case domain.Agent:
			hasAgent = true
			if v.BaseMoves < 0 || v.BaseAttacks < 0 || v.BaseJokers < 0 {
				return errors.New("agent base resources must not be negative")
			}
			if v.AttackDistance < 1 {
				return errors.New("agent attack_distance must be at least 1")
			}
		case domain.Strength:
			hasStrength = true
			if v.BaseStrength <= 0 {
				return errors.New("base_strength must be positive")
			}
		case domain.Abilities:
			for _, r := range v.Abilities {
				if r.Ability.Kind == domain.AbilityUnknown {
					return errors.New("ability kind is required")
				}
			}
		}
	}
	if hasAgent && !hasStrength {
		return errors.New("agent without strength")
	}
	return nil
}

// normalize: текущие значения равны базовым, способности готовы
func normalize(components []domain.Component) []domain.Component {
	out := slices.Clone(components)
	for i, c := range out {
		switch v := c.(type) {
		case domain.Agent:
			v.Moves = v.BaseMoves
			v.Attacks = v.BaseAttacks
			v.Jokers = v.BaseJokers
			out[i] = v
		case domain.Strength:
			v.Strength = v.BaseStrength
			out[i] = v
		case domain.Abilities:
			v = domain.CloneComponent(v).(domain.Abilities)
			for j := range v.Abilities {
				v.Abilities[j].Cooldown = 0
			}
			out[i] = v
		}
	}
	return out
}
