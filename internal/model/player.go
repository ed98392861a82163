package model

import "github.com/benbeisheim/chessrules-backend/internal/engine"

// Player is a queued matchmaking entry. Colors are assigned when the game
// seats the pair.
type Player struct {
	ID string
}

type ClientPlayer struct {
	ID    string       `json:"name"`
	Color engine.Color `json:"color"`
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p Players) colorOf(playerID string) (engine.Color, bool) {
	switch {
	case playerID == "":
		return "", false
	case p.White.ID == playerID:
		return engine.White, true
	case p.Black.ID == playerID:
		return engine.Black, true
	}
	return "", false
}

func (p Players) hasOpenSeat() bool {
	return p.White.ID == "" || p.Black.ID == ""
}

// MatchFoundEvent is sent to each matched player.
type MatchFoundEvent struct {
	GameID string       `json:"gameId"`
	Color  engine.Color `json:"color"`
}
