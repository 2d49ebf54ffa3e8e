package bot

import (
	"context"
	"fmt"
	"math"

	"github.com/rocketscienceinc/vectorox/internal/apperror"
	"github.com/rocketscienceinc/vectorox/internal/board"
)

// MinimaxBot searches the full remaining game tree with alpha-beta pruning.
// It does not bound depth, so it is only suitable for boards small enough
// to search exhaustively.
//
// Terminal positions are scored against the mark that would move next,
// which ranks ties above decided games; see evaluate.
//
// The board is mutated and restored during the search; on return it is
// identical to its pre-call state.
type MinimaxBot struct{}

func NewMinimaxBot() *MinimaxBot {
	return &MinimaxBot{}
}

func (that *MinimaxBot) SelectMove(_ context.Context, gameBoard *board.Board) (board.Move, error) {
	if gameBoard.IsTerminal() {
		return board.Move{}, apperror.ErrNoAvailableMoves
	}

	availableMoves := gameBoard.AvailableMoves()
	if len(availableMoves) == 0 {
		return board.Move{}, apperror.ErrNoAvailableMoves
	}

	mover := gameBoard.Turn()
	alpha := math.Inf(-1)
	beta := math.Inf(1)
	bestScore := math.Inf(-1)
	bestMove := availableMoves[0]

	for _, move := range availableMoves {
		gameBoard.MakeMove(move.Row, move.Col, mover)
		score := that.evaluate(gameBoard, 0, false, alpha, beta)
		mustUndo(gameBoard)

		// Strictly greater: ties keep the earliest move in row-major order.
		if score > bestScore {
			bestScore = score
			bestMove = move
		}

		alpha = math.Max(alpha, bestScore)
		if beta <= alpha {
			break
		}
	}

	return bestMove, nil
}

// evaluate scores the current position for the alternating minimax walk.
// Terminal positions compare the winner against the mark that would move
// next, not against the root mover. Since a win always belongs to the mark
// that just moved, decided games score depth-10 and only full-board ties
// reach 0.
func (that *MinimaxBot) evaluate(gameBoard *board.Board, depth int, maximizing bool, alpha, beta float64) float64 {
	if gameBoard.IsTerminal() {
		switch winner := gameBoard.Winner(); winner {
		case board.EmptyCell:
			return 0
		case gameBoard.Turn():
			return float64(10 - depth)
		default:
			return float64(depth - 10)
		}
	}

	if maximizing {
		maxEval := math.Inf(-1)
		for _, move := range gameBoard.AvailableMoves() {
			gameBoard.MakeMove(move.Row, move.Col, gameBoard.Turn())
			value := that.evaluate(gameBoard, depth+1, false, alpha, beta)
			mustUndo(gameBoard)

			maxEval = math.Max(maxEval, value)
			alpha = math.Max(alpha, value)
			if beta <= alpha {
				break
			}
		}

		return maxEval
	}

	minEval := math.Inf(1)
	for _, move := range gameBoard.AvailableMoves() {
		gameBoard.MakeMove(move.Row, move.Col, gameBoard.Turn())
		value := that.evaluate(gameBoard, depth+1, true, alpha, beta)
		mustUndo(gameBoard)

		minEval = math.Min(minEval, value)
		beta = math.Min(beta, value)
		if beta <= alpha {
			break
		}
	}

	return minEval
}

// mustUndo reverses the move just applied by the search. Failure here means
// the mutate/undo pairing is broken, which is unrecoverable.
func mustUndo(gameBoard *board.Board) {
	if err := gameBoard.UndoLast(); err != nil {
		panic(fmt.Errorf("minimax: search corrupted the board: %w", err))
	}
}
