package state

import (
	"slices"

	"zemeroth-core/internal/domain"
)

// Storage - контейнер компонентов одного типа, ключ - ID объекта.
// Читать может кто угодно, менять - только код пакета state (Apply).
type Storage[T any] struct {
	name string
	data map[domain.ObjID]T
}

func newStorage[T any](name string) *Storage[T] {
	return &Storage[T]{name: name, data: make(map[domain.ObjID]T)}
}

// Get возвращает компонент. Паникует, если его нет: вызывающий обязан проверить.
func (s *Storage[T]) Get(id domain.ObjID) T {
	v, ok := s.data[id]
	domain.Invariant(ok, "no %s component for %s", s.name, id)
	return v
}

// GetOpt - безопасная форма Get
func (s *Storage[T]) GetOpt(id domain.ObjID) (T, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *Storage[T]) Has(id domain.ObjID) bool {
	_, ok := s.data[id]
	return ok
}

// IDs возвращает отсортированный список владельцев компонента.
// Сортировка нужна для детерминизма: порядок обхода map случайный.
func (s *Storage[T]) IDs() []domain.ObjID {
	ids := make([]domain.ObjID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Storage[T]) Len() int {
	return len(s.data)
}

// insert кладет новый компонент. Перезапись - ошибка вызывающего.
func (s *Storage[T]) insert(id domain.ObjID, v T) {
	_, exists := s.data[id]
	domain.Invariant(!exists, "%s component for %s already exists", s.name, id)
	s.data[id] = v
}

// update меняет существующий компонент
func (s *Storage[T]) update(id domain.ObjID, fn func(v *T)) {
	v := s.Get(id)
	fn(&v)
	s.data[id] = v
}

// set - вставка или замена
func (s *Storage[T]) set(id domain.ObjID, v T) {
	s.data[id] = v
}

func (s *Storage[T]) remove(id domain.ObjID) {
	delete(s.data, id)
}

// Parts - все контейнеры компонентов
type Parts struct {
	Pos              *Storage[domain.Pos]
	Strength         *Storage[domain.Strength]
	Armor            *Storage[domain.Armor]
	Meta             *Storage[domain.Meta]
	BelongsTo        *Storage[domain.BelongsTo]
	Agent            *Storage[domain.Agent]
	Blocker          *Storage[domain.Blocker]
	Abilities        *Storage[domain.Abilities]
	PassiveAbilities *Storage[domain.PassiveAbilities]
	Effects          *Storage[domain.Effects]
	Schedule         *Storage[domain.Schedule]
	Summoner         *Storage[domain.Summoner]

	// removers - для атомарного удаления всех компонентов объекта
	removers []func(domain.ObjID)
	checkers []func(domain.ObjID) bool
}

func newParts() *Parts {
	p := &Parts{
		Pos:              newStorage[domain.Pos]("pos"),
		Strength:         newStorage[domain.Strength]("strength"),
		Armor:            newStorage[domain.Armor]("armor"),
		Meta:             newStorage[domain.Meta]("meta"),
		BelongsTo:        newStorage[domain.BelongsTo]("belongs_to"),
		Agent:            newStorage[domain.Agent]("agent"),
		Blocker:          newStorage[domain.Blocker]("blocker"),
		Abilities:        newStorage[domain.Abilities]("abilities"),
		PassiveAbilities: newStorage[domain.PassiveAbilities]("passive_abilities"),
		Effects:          newStorage[domain.Effects]("effects"),
		Schedule:         newStorage[domain.Schedule]("schedule"),
		Summoner:         newStorage[domain.Summoner]("summoner"),
	}
	register(p, p.Pos)
	register(p, p.Strength)
	register(p, p.Armor)
	register(p, p.Meta)
	register(p, p.BelongsTo)
	register(p, p.Agent)
	register(p, p.Blocker)
	register(p, p.Abilities)
	register(p, p.PassiveAbilities)
	register(p, p.Effects)
	register(p, p.Schedule)
	register(p, p.Summoner)
	return p
}

func register[T any](p *Parts, s *Storage[T]) {
	p.removers = append(p.removers, s.remove)
	p.checkers = append(p.checkers, s.Has)
}

// IsExist - у объекта есть хотя бы один компонент
func (p *Parts) IsExist(id domain.ObjID) bool {
	for _, has := range p.checkers {
		if has(id) {
			return true
		}
	}
	return false
}

// removeAll удаляет все компоненты объекта разом (гибель, исчезновение)
func (p *Parts) removeAll(id domain.ObjID) {
	for _, rm := range p.removers {
		rm(id)
	}
}

// insertComponent раскладывает компонент по нужному контейнеру
func (p *Parts) insertComponent(id domain.ObjID, c domain.Component) {
	switch v := c.(type) {
	case domain.Pos:
		p.Pos.insert(id, v)
	case domain.Strength:
		p.Strength.insert(id, v)
	case domain.Armor:
		p.Armor.insert(id, v)
	case domain.Meta:
		p.Meta.insert(id, v)
	case domain.BelongsTo:
		p.BelongsTo.insert(id, v)
	case domain.Agent:
		p.Agent.insert(id, v)
	case domain.Blocker:
		p.Blocker.insert(id, v)
	case domain.Abilities:
		p.Abilities.insert(id, v)
	case domain.PassiveAbilities:
		p.PassiveAbilities.insert(id, v)
	case domain.Effects:
		p.Effects.insert(id, v)
	case domain.Schedule:
		p.Schedule.insert(id, v)
	case domain.Summoner:
		p.Summoner.insert(id, v)
	default:
		domain.Invariant(false, "unknown component type %T", c)
	}
}

// Components собирает все компоненты объекта в порядке контейнеров
func (p *Parts) Components(id domain.ObjID) []domain.Component {
	var out []domain.Component
	if v, ok := p.Pos.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Strength.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Armor.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Meta.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.BelongsTo.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Agent.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Blocker.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Abilities.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.PassiveAbilities.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Effects.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Schedule.GetOpt(id); ok {
		out = append(out, v)
	}
	if v, ok := p.Summoner.GetOpt(id); ok {
		out = append(out, v)
	}
	return out
}
