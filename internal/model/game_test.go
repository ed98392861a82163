package model

import (
	"encoding/json"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/engine"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	messages []ws.Message
	failing  bool
	closed   bool
}

func (f *fakeSubscriber) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeSubscriber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSubscriber) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeSubscriber) lastState(t *testing.T) ClientState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatalf("no messages received")
	}
	msg := f.messages[len(f.messages)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("expected %s, got %s", ws.MessageTypeGameState, msg.Type)
	}
	var state ClientState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func square(t *testing.T, s string) engine.Square {
	t.Helper()
	sq, err := engine.ParseSquare(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return sq
}

func seatedGame(t *testing.T) *Game {
	t.Helper()
	g := NewGame("g1")
	if c, err := g.AddPlayer("alice"); err != nil || c != engine.White {
		t.Fatalf("alice: expected white, got %s %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != engine.Black {
		t.Fatalf("bob: expected black, got %s %v", c, err)
	}
	return g
}

func TestAddPlayer(t *testing.T) {
	g := seatedGame(t)
	if c, err := g.AddPlayer("alice"); err != nil || c != engine.White {
		t.Fatalf("rejoin: expected white, got %s %v", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") || g.IsPlayerInGame("") {
		t.Fatalf("unexpected membership")
	}
	if g.CanSpectate() {
		t.Fatalf("full game must not accept spectators")
	}
}

func TestAttemptMoveTurnOwnership(t *testing.T) {
	g := seatedGame(t)
	if _, err := g.AttemptMove("bob", square(t, "e7"), square(t, "e5")); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := g.AttemptMove("carol", square(t, "e2"), square(t, "e4")); !errors.Is(err, ErrPlayerNotInGame) {
		t.Fatalf("expected ErrPlayerNotInGame, got %v", err)
	}

	r, err := g.AttemptMove("alice", square(t, "e2"), square(t, "e5"))
	if err != nil {
		t.Fatalf("illegal move must not be an error: %v", err)
	}
	if r.Status != engine.StatusRejected {
		t.Fatalf("expected rejected, got %s", r.Status)
	}

	r, err = g.AttemptMove("alice", square(t, "e2"), square(t, "e4"))
	if err != nil || r.Status != engine.StatusExecuted {
		t.Fatalf("expected executed, got %s %v", r.Status, err)
	}
	state := g.GetState()
	if state.ToMove != engine.Black {
		t.Fatalf("expected black to move, got %s", state.ToMove)
	}
	if state.LastMove == nil || state.LastMove.To != square(t, "e4") {
		t.Fatalf("unexpected last move %+v", state.LastMove)
	}
}

func TestBroadcastAfterExecutedMovesOnly(t *testing.T) {
	g := seatedGame(t)
	white, black := &fakeSubscriber{}, &fakeSubscriber{}
	if err := g.RegisterConnection("alice", white); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if err := g.RegisterConnection("bob", black); err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if white.count() != 1 || black.count() != 1 {
		t.Fatalf("expected an initial state push for each connection")
	}

	g.AttemptMove("alice", square(t, "e2"), square(t, "e5"))
	if white.count() != 1 || black.count() != 1 {
		t.Fatalf("rejected move must not broadcast")
	}

	g.AttemptMove("alice", square(t, "g1"), square(t, "f3"))
	if white.count() != 2 || black.count() != 2 {
		t.Fatalf("executed move must broadcast to everyone")
	}
	pushed := black.lastState(t)
	if got := pushed.Board.PieceAt(square(t, "f3")); got != (engine.Piece{Type: engine.Knight, Color: engine.White}) {
		t.Fatalf("expected knight on f3 in pushed state, got %+v", got)
	}
}

func TestConcurrentMovesBroadcastLatestState(t *testing.T) {
	const rounds = 50
	g := seatedGame(t)
	white, black := &fakeSubscriber{}, &fakeSubscriber{}
	if err := g.RegisterConnection("alice", white); err != nil {
		t.Fatalf("register alice: %v", err)
	}

	shuffle := func(playerID string, from, to engine.Square) error {
		for i := 0; i < rounds; {
			r, err := g.AttemptMove(playerID, from, to)
			if errors.Is(err, ErrNotYourTurn) {
				runtime.Gosched()
				continue
			}
			if err != nil {
				return err
			}
			if r.Status != engine.StatusExecuted {
				return errors.New(playerID + ": move " + string(r.Status))
			}
			from, to = to, from
			i++
		}
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	// black subscribes while moves are in flight
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- g.RegisterConnection("bob", black)
	}()
	for _, p := range []struct{ id, home, away string }{
		{"alice", "g1", "f3"},
		{"bob", "b8", "c6"},
	} {
		wg.Add(1)
		go func(id string, from, to engine.Square) {
			defer wg.Done()
			errs <- shuffle(id, from, to)
		}(p.id, square(t, p.home), square(t, p.away))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent step failed: %v", err)
		}
	}

	want, err := json.Marshal(g.GetState())
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	if white.count() != 1+2*rounds {
		t.Fatalf("white: expected %d pushes, got %d", 1+2*rounds, white.count())
	}
	for name, sub := range map[string]*fakeSubscriber{"white": white, "black": black} {
		got, err := json.Marshal(sub.lastState(t))
		if err != nil {
			t.Fatalf("%s: marshal pushed state: %v", name, err)
		}
		if string(got) != string(want) {
			t.Fatalf("%s: last pushed state is stale\n got %s\nwant %s", name, got, want)
		}
	}
}

func TestDuplicateAndFailingConnections(t *testing.T) {
	g := seatedGame(t)
	first, second := &fakeSubscriber{}, &fakeSubscriber{}
	if err := g.RegisterConnection("alice", first); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := g.RegisterConnection("alice", second); err != nil {
		t.Fatalf("duplicate register: %v", err)
	}
	if !second.closed || first.closed {
		t.Fatalf("expected the duplicate connection to be closed")
	}

	if err := g.RegisterConnection("carol", &fakeSubscriber{}); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	// a stale connection must not remove the live one
	g.UnregisterConnection("alice", second)
	first.failing = true
	g.AttemptMove("alice", square(t, "d2"), square(t, "d4"))
	if err := g.Notify("alice", ws.MessageTypeError, ws.ErrorPayload{Error: "x"}); !errors.Is(err, ErrPlayerNotInGame) {
		t.Fatalf("failed connection should have been dropped, got %v", err)
	}
}

func TestSpectatorWhileSeatOpen(t *testing.T) {
	g := NewGame("g2")
	if _, err := g.AddPlayer("alice"); err != nil {
		t.Fatalf("add: %v", err)
	}
	watcher := &fakeSubscriber{}
	if err := g.RegisterConnection("watcher", watcher); err != nil {
		t.Fatalf("spectator should be allowed while a seat is open: %v", err)
	}
	if watcher.lastState(t).Players.White.ID != "alice" {
		t.Fatalf("expected alice seated as white")
	}
}

func TestPromotionFlow(t *testing.T) {
	g := NewGameFromState("g3", promotionState(t))
	g.AddPlayer("alice")
	g.AddPlayer("bob")
	sub := &fakeSubscriber{}
	g.RegisterConnection("bob", sub)

	r, err := g.AttemptMove("alice", square(t, "a7"), square(t, "a8"))
	if err != nil || r.Status != engine.StatusPromotionRequired {
		t.Fatalf("expected promotion required, got %s %v", r.Status, err)
	}
	pushed := sub.lastState(t)
	if pushed.PendingPromotion == nil || len(pushed.PromotionCandidates) != 4 {
		t.Fatalf("pending promotion missing from pushed state: %+v", pushed)
	}
	if _, err := g.ResolvePromotion("bob", engine.Queen); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	r, err = g.CancelPromotion("alice")
	if err != nil || r.Status != engine.StatusPromotionCancelled || r.ToMove != engine.White {
		t.Fatalf("cancel: %+v %v", r, err)
	}
	if _, err := g.CancelPromotion("alice"); !errors.Is(err, engine.ErrNoPendingPromotion) {
		t.Fatalf("expected ErrNoPendingPromotion, got %v", err)
	}

	g.AttemptMove("alice", square(t, "a7"), square(t, "a8"))
	r, err = g.ResolvePromotion("alice", engine.Knight)
	if err != nil || r.Status != engine.StatusExecuted || r.ToMove != engine.Black {
		t.Fatalf("resolve: %+v %v", r, err)
	}
	final := g.GetState()
	if got := final.Board.PieceAt(square(t, "a8")); got != (engine.Piece{Type: engine.Knight, Color: engine.White}) {
		t.Fatalf("expected white knight on a8, got %+v", got)
	}
}

func TestLegalDestinations(t *testing.T) {
	g := seatedGame(t)
	if got := g.LegalDestinations(square(t, "b1")); len(got) != 2 {
		t.Fatalf("expected two knight moves, got %v", got)
	}
}

func promotionState(t *testing.T) engine.GameState {
	t.Helper()
	state := engine.NewGameState()
	state.Board = engine.Board{}
	state.Board.Place(square(t, "a7"), engine.Piece{Type: engine.Pawn, Color: engine.White})
	state.Board.Place(square(t, "e1"), engine.Piece{Type: engine.King, Color: engine.White})
	state.Board.Place(square(t, "e8"), engine.Piece{Type: engine.King, Color: engine.Black})
	return state
}
