package engine

type Status string

const (
	StatusRejected           Status = "rejected"
	StatusExecuted           Status = "executed"
	StatusPromotionRequired  Status = "promotionRequired"
	StatusPromotionCancelled Status = "promotionCancelled"
)

type MoveResult struct {
	Status     Status      `json:"status"`
	Board      Board       `json:"board"`
	ToMove     Color       `json:"toMove"`
	Candidates []PieceType `json:"candidates,omitempty"`
}

// Engine holds one game and applies moves to it. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	state GameState
}

func NewEngine() *Engine {
	return &Engine{state: NewGameState()}
}

func NewEngineFromState(state GameState) *Engine {
	return &Engine{state: state}
}

func (e *Engine) State() GameState {
	return e.state
}

func (e *Engine) result(status Status) MoveResult {
	r := MoveResult{Status: status, Board: e.state.Board, ToMove: e.state.ToMove}
	if status == StatusPromotionRequired {
		r.Candidates = PromotionCandidates()
	}
	return r
}

func (e *Engine) AttemptMove(from, to Square) MoveResult {
	d := Evaluate(e.state, Move{From: from, To: to})
	e.state = Apply(e.state, d)
	switch d.Outcome {
	case Accepted:
		return e.result(StatusExecuted)
	case AcceptedWithPromotionPending:
		return e.result(StatusPromotionRequired)
	}
	return e.result(StatusRejected)
}

func (e *Engine) ResolvePromotion(kind PieceType) (MoveResult, error) {
	next, err := ResolvePromotion(e.state, kind)
	if err != nil {
		return e.result(StatusRejected), err
	}
	e.state = next
	return e.result(StatusExecuted), nil
}

func (e *Engine) CancelPromotion() (MoveResult, error) {
	next, err := CancelPromotion(e.state)
	if err != nil {
		return e.result(StatusRejected), err
	}
	e.state = next
	return e.result(StatusPromotionCancelled), nil
}

func (e *Engine) LegalDestinations(from Square) []Square {
	return LegalDestinations(e.state, from)
}
