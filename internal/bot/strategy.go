package bot

import (
	"context"

	"github.com/rocketscienceinc/vectorox/internal/board"
)

// Strategy selects the next move for the mark whose turn it is on the
// given board. Implementations must not leave the board modified.
type Strategy interface {
	SelectMove(ctx context.Context, gameBoard *board.Board) (board.Move, error)
}
