package service

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/slices"
)

type QueuedPlayer struct {
	PlayerID string
	JoinedAt time.Time
}

// Queue is the matchmaking waiting list, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if slices.IndexFunc(q.players, func(p QueuedPlayer) bool { return p.PlayerID == playerID }) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, playerID)
	}
	q.players = append(q.players, QueuedPlayer{
		PlayerID: playerID,
		JoinedAt: time.Now(),
	})
	return nil
}

// RemovePlayer drops a player who stopped waiting. It reports whether the
// player was queued.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	i := slices.IndexFunc(q.players, func(p QueuedPlayer) bool { return p.PlayerID == playerID })
	if i < 0 {
		return false
	}
	q.players = slices.Delete(q.players, i, i+1)
	return true
}

// NextPair pops the two players who have been waiting longest.
func (q *Queue) NextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.players) < 2 {
		return QueuedPlayer{}, QueuedPlayer{}, false
	}
	first, second := q.players[0], q.players[1]
	q.players = slices.Delete(q.players, 0, 2)
	return first, second, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
