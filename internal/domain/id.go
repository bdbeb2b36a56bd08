package domain

import (
	"fmt"
	"strconv"
)

// ObjID - непрозрачный идентификатор объекта на поле боя.
// Выдается только State, монотонно растет и никогда не переиспользуется.
type ObjID int32

// NilObjID - "нет объекта"
const NilObjID ObjID = 0

// String для логов: #12
func (id ObjID) String() string {
	return "#" + strconv.Itoa(int(id))
}

// PlayerID - номер стороны конфликта (0 или 1)
type PlayerID int

func (p PlayerID) String() string {
	return fmt.Sprintf("P%d", int(p))
}

// Next возвращает игрока, который ходит после p
func (p PlayerID) Next(playersCount int) PlayerID {
	return PlayerID((int(p) + 1) % playersCount)
}
