package model

import (
	"errors"
	"sync"
	"time"
)

var ErrPlayerAlreadyQueued = errors.New("player already in queue")

type QueuedPlayer struct {
	Player   Player
	JoinedAt time.Time
}

type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(player Player) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.Player.ID == player.ID {
			return ErrPlayerAlreadyQueued
		}
	}

	q.players = append(q.players, QueuedPlayer{
		Player:   player,
		JoinedAt: time.Now(),
	})
	return nil
}

// RemovePlayer drops a player who stopped waiting. It reports whether the
// player was queued.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.Player.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// GetNextPair pops the two longest-waiting players for which ready reports
// true. Players that are not ready keep their place.
func (q *Queue) GetNextPair(ready func(playerID string) bool) (Player, Player, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	picked := make([]int, 0, 2)
	for i, p := range q.players {
		if ready(p.Player.ID) {
			picked = append(picked, i)
			if len(picked) == 2 {
				break
			}
		}
	}
	if len(picked) < 2 {
		return Player{}, Player{}, false
	}
	player1 := q.players[picked[0]].Player
	player2 := q.players[picked[1]].Player

	remaining := make([]QueuedPlayer, 0, len(q.players)-2)
	for i, p := range q.players {
		if i != picked[0] && i != picked[1] {
			remaining = append(remaining, p)
		}
	}
	q.players = remaining

	return player1, player2, true
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
