package services

import (
	"math/rand"
	"time"

	"github.com/mituwo-320/asket-entry/live"
)

// Broadcaster рассылает сообщения зрителям турнира (live.Hub в продакшене).
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

func broadcast(b Broadcaster, tournamentID, msgType string, payload interface{}) {
	if b == nil {
		return
	}
	room := live.RoomForTournament(tournamentID)
	b.BroadcastToRoom(room, live.Message{Type: msgType, Payload: payload, RoomID: room})
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
