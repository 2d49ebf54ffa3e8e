package bot

import (
	"context"
	"math/rand"

	"github.com/rocketscienceinc/vectorox/internal/apperror"
	"github.com/rocketscienceinc/vectorox/internal/board"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct{}

func NewRandomBot() *RandomBot {
	return &RandomBot{}
}

func (that *RandomBot) SelectMove(_ context.Context, gameBoard *board.Board) (board.Move, error) {
	availableMoves := gameBoard.AvailableMoves()
	if len(availableMoves) == 0 {
		return board.Move{}, apperror.ErrNoAvailableMoves
	}

	return availableMoves[rand.Intn(len(availableMoves))], nil //nolint: gosec // it's ok
}
