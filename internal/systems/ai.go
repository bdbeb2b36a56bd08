package systems

import (
	"container/heap"
	"math/rand"
	"slices"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/state"
	"zemeroth-core/pkg/hexmap"
	"zemeroth-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DistanceBand - на каком расстоянии от врагов агенту удобно стоять.
// Min - не ближе ни к одному врагу, Max - хотя бы один враг не дальше.
type DistanceBand struct {
	Min int
	Max int
}

// Дистанция для призывателей: держатся подальше, но в зоне видимости
var summonerBand = DistanceBand{Min: 3, Max: 4}

// BandFor возвращает желаемую дистанцию для агентов дальнего боя,
// метателей бомб и призывателей. false - агент идет в ближний бой.
func BandFor(st *state.State, id domain.ObjID) (DistanceBand, bool) {
	if abilities, ok := st.Parts().Abilities.GetOpt(id); ok {
		for _, r := range abilities.Abilities {
			if r.Ability.Kind == domain.AbilitySummon {
				return summonerBand, true
			}
		}
		for _, r := range abilities.Abilities {
			if r.Ability.Kind.IsBomb() {
				return DistanceBand{Min: 2, Max: max(r.Ability.Distance, 2)}, true
			}
		}
	}
	if agent, ok := st.Parts().Agent.GetOpt(id); ok && agent.AttackDistance > 1 {
		return DistanceBand{Min: 2, Max: agent.AttackDistance}, true
	}
	return DistanceBand{}, false
}

// AI - автоматический игрок. Pathfinder и карта дистанций принадлежат ему одному.
type AI struct {
	playerID   domain.PlayerID
	pathfinder *Pathfinder
	goodTiles  *hexmap.HexMap[bool]
	rng        *rand.Rand
	log        *logrus.Entry
}

func NewAI(playerID domain.PlayerID, mapRadius int, rng *rand.Rand) *AI {
	return &AI{
		playerID:   playerID,
		pathfinder: NewPathfinder(mapRadius),
		goodTiles:  hexmap.New[bool](mapRadius),
		rng:        rng,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "ai",
			"player_id": playerID,
		}),
	}
}

func (ai *AI) PlayerID() domain.PlayerID {
	return ai.playerID
}

// Command выбирает следующую команду. Каждая возвращенная команда проходит Check;
// если никто из агентов ничего не может, возвращается EndTurn.
func (ai *AI) Command(st *state.State) domain.Command {
	if st.PlayerID() != ai.playerID {
		ai.log.WithField("current_player", st.PlayerID()).Warn("AI asked for a command on someone else's turn")
		return domain.CommandEndTurn{}
	}
	for _, id := range ai.orderedAgents(st) {
		if cmd, ok := ai.commandFor(st, id); ok {
			ai.log.WithFields(logrus.Fields{
				"agent_id": id,
				"command":  cmd.Kind().String(),
			}).Debug("AI command chosen")
			return cmd
		}
	}
	return domain.CommandEndTurn{}
}

// orderedAgents - свои агенты по возрастанию расстояния до ближайшего врага
func (ai *AI) orderedAgents(st *state.State) []domain.ObjID {
	enemies := st.EnemyAgentIDs(ai.playerID)
	queue := make(AgentQueue, 0)
	for _, id := range st.AgentIDsOf(ai.playerID) {
		heap.Push(&queue, &AgentItem{ID: id, Priority: nearestDistance(st, st.PosOf(id), enemies)})
	}
	return queue.Drain()
}

func nearestDistance(st *state.State, pos hexmap.PosHex, ids []domain.ObjID) int {
	best := unreachable
	for _, id := range ids {
		best = min(best, hexmap.Distance(pos, st.PosOf(id)))
	}
	if best == unreachable {
		return 0
	}
	return best
}

func (ai *AI) commandFor(st *state.State, id domain.ObjID) (domain.Command, bool) {
	if cmd, ok := ai.trySummon(st, id); ok {
		return cmd, true
	}
	if cmd, ok := ai.tryThrowBomb(st, id); ok {
		return cmd, true
	}
	if cmd, ok := ai.tryAttack(st, id); ok {
		return cmd, true
	}
	return ai.tryMove(st, id)
}

// shuffledEnemies - враги в случайном порядке, чтобы не было перекоса по ID
func (ai *AI) shuffledEnemies(st *state.State) []domain.ObjID {
	enemies := st.EnemyAgentIDs(ai.playerID)
	ai.rng.Shuffle(len(enemies), func(i, j int) {
		enemies[i], enemies[j] = enemies[j], enemies[i]
	})
	return enemies
}

func (ai *AI) abilitiesOf(st *state.State, id domain.ObjID) []domain.RechargeableAbility {
	abilities, _ := st.Parts().Abilities.GetOpt(id)
	return abilities.Abilities
}

func (ai *AI) trySummon(st *state.State, id domain.ObjID) (domain.Command, bool) {
	for _, r := range ai.abilitiesOf(st, id) {
		if r.Ability.Kind != domain.AbilitySummon {
			continue
		}
		cmd := domain.CommandUseAbility{ID: id, Pos: st.PosOf(id), Ability: r.Ability}
		if Check(st, cmd) == nil {
			return cmd, true
		}
	}
	return nil, false
}

// tryThrowBomb бросает бомбу на клетку рядом с врагом, но не рядом с собой
func (ai *AI) tryThrowBomb(st *state.State, id domain.ObjID) (domain.Command, bool) {
	self := st.PosOf(id)
	for _, r := range ai.abilitiesOf(st, id) {
		if !r.Ability.Kind.IsBomb() || !r.IsReady() {
			continue
		}
		for _, enemy := range ai.shuffledEnemies(st) {
			for _, pos := range hexmap.Neighbors(st.PosOf(enemy)) {
				if hexmap.Distance(self, pos) <= 1 && r.Ability.Kind != domain.AbilityBombPush {
					continue
				}
				cmd := domain.CommandUseAbility{ID: id, Pos: pos, Ability: r.Ability}
				if Check(st, cmd) == nil {
					return cmd, true
				}
			}
		}
	}
	return nil, false
}

// tryAttack атакует ближайшего врага, до которого можно дотянуться
func (ai *AI) tryAttack(st *state.State, id domain.ObjID) (domain.Command, bool) {
	self := st.PosOf(id)
	enemies := ai.shuffledEnemies(st)
	slices.SortStableFunc(enemies, func(a, b domain.ObjID) int {
		return hexmap.Distance(self, st.PosOf(a)) - hexmap.Distance(self, st.PosOf(b))
	})
	for _, enemy := range enemies {
		cmd := domain.CommandAttack{AttackerID: id, TargetID: enemy}
		if Check(st, cmd) == nil {
			return cmd, true
		}
	}
	return nil, false
}

func (ai *AI) tryMove(st *state.State, id domain.ObjID) (domain.Command, bool) {
	agent := st.Parts().Agent.Get(id)
	if agent.Moves <= 0 && agent.Jokers <= 0 {
		return nil, false
	}

	ai.pathfinder.FillMap(st, id)

	var path domain.Path
	var ok bool
	if band, hasBand := BandFor(st, id); hasBand {
		path, ok = ai.pathToBand(st, id, band)
	} else {
		path, ok = ai.pathToNearestEnemy(st)
	}
	if !ok {
		return nil, false
	}

	path, ok = TruncatePath(st, id, path)
	if !ok {
		return nil, false
	}
	cmd := domain.CommandMoveTo{ID: id, Path: path}
	if err := Check(st, cmd); err != nil {
		ai.log.WithError(err).WithField("agent_id", id).Debug("AI move rejected")
		return nil, false
	}
	return cmd, true
}

// pathToNearestEnemy - самый дешевый путь до клетки рядом с каким-нибудь врагом
func (ai *AI) pathToNearestEnemy(st *state.State) (domain.Path, bool) {
	bestCost := unreachable
	var best hexmap.PosHex
	for _, enemy := range ai.shuffledEnemies(st) {
		for _, pos := range hexmap.Neighbors(st.PosOf(enemy)) {
			if cost, ok := ai.pathfinder.Cost(pos); ok && cost < bestCost {
				bestCost = cost
				best = pos
			}
		}
	}
	if bestCost == unreachable {
		return domain.Path{}, false
	}
	return ai.pathfinder.Path(best)
}

// pathToBand - путь до ближайшей клетки, удовлетворяющей дистанции band
func (ai *AI) pathToBand(st *state.State, id domain.ObjID, band DistanceBand) (domain.Path, bool) {
	ai.fillGoodTiles(st, id, band)
	if ai.goodTiles.Get(st.PosOf(id)) {
		return domain.Path{}, false // уже на месте
	}

	bestCost := unreachable
	var best hexmap.PosHex
	for _, pos := range ai.goodTiles.Iter() {
		if !ai.goodTiles.Get(pos) {
			continue
		}
		if cost, ok := ai.pathfinder.Cost(pos); ok && cost < bestCost {
			bestCost = cost
			best = pos
		}
	}
	if bestCost == unreachable {
		return domain.Path{}, false
	}
	return ai.pathfinder.Path(best)
}

// fillGoodTiles строит булеву карту клеток, подходящих по дистанции
func (ai *AI) fillGoodTiles(st *state.State, id domain.ObjID, band DistanceBand) {
	enemies := st.EnemyAgentIDs(ai.playerID)
	self := st.PosOf(id)
	for _, pos := range ai.goodTiles.Iter() {
		ai.goodTiles.Set(pos, isGoodTile(st, pos, self, enemies, band))
	}
}

func isGoodTile(st *state.State, pos, self hexmap.PosHex, enemies []domain.ObjID, band DistanceBand) bool {
	if pos != self && st.IsTileBlocked(pos) {
		return false
	}
	inReach := false
	for _, enemy := range enemies {
		dist := hexmap.Distance(pos, st.PosOf(enemy))
		if dist < band.Min {
			return false
		}
		if dist <= band.Max {
			inReach = true
		}
	}
	return inReach
}
