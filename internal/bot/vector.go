package bot

import (
	"context"
	"log/slog"

	"github.com/rocketscienceinc/vectorox/internal/board"
	"github.com/rocketscienceinc/vectorox/internal/entity"
)

const defaultNeighborLimit = 5

// SimilaritySearcher returns the recorded moves whose board states are
// closest to the given embedding.
type SimilaritySearcher interface {
	Query(ctx context.Context, vector []float64, limit int) ([]entity.MoveRecord, error)
}

// VectorBot picks the move most often played from positions similar to the
// current one, looked up in an external similarity store. Any failure, an
// unreachable store, a query error, no usable neighbor, degrades to a
// uniform random move; the bot itself never fails on a playable board.
type VectorBot struct {
	logger   *slog.Logger
	searcher SimilaritySearcher
	fallback *RandomBot
}

func NewVectorBot(logger *slog.Logger, searcher SimilaritySearcher) *VectorBot {
	return &VectorBot{
		logger:   logger.With("component", "vector_bot"),
		searcher: searcher,
		fallback: NewRandomBot(),
	}
}

func (that *VectorBot) SelectMove(ctx context.Context, gameBoard *board.Board) (board.Move, error) {
	if that.searcher == nil {
		return that.fallback.SelectMove(ctx, gameBoard)
	}

	records, err := that.searcher.Query(ctx, gameBoard.StateVector(), defaultNeighborLimit)
	if err != nil {
		that.logger.Warn("similarity lookup failed, falling back to random", "error", err)
		return that.fallback.SelectMove(ctx, gameBoard)
	}

	if move, ok := that.mostCommonMove(gameBoard, records); ok {
		return move, nil
	}

	return that.fallback.SelectMove(ctx, gameBoard)
}

// mostCommonMove tallies the neighbors' moves, keeps only the ones legal on
// the current board and returns the most frequent; earlier neighbors win
// frequency ties.
func (that *VectorBot) mostCommonMove(gameBoard *board.Board, records []entity.MoveRecord) (board.Move, bool) {
	counts := make(map[board.Move]int)

	var bestMove board.Move
	bestCount := 0

	for _, record := range records {
		move := board.Move{Row: record.Row, Col: record.Col}
		if !gameBoard.IsValidMove(move.Row, move.Col) {
			continue
		}

		counts[move]++
		if counts[move] > bestCount {
			bestCount = counts[move]
			bestMove = move
		}
	}

	return bestMove, bestCount > 0
}
