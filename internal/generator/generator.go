package generator

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/rocketscienceinc/vectorox/internal/board"
	"github.com/rocketscienceinc/vectorox/internal/bot"
	"github.com/rocketscienceinc/vectorox/internal/entity"
)

// Generator produces training data by self-play: both sides are drawn at
// random from the random and minimax bots, so the corpus mixes optimal
// lines with blunders and their punishments.
type Generator struct {
	logger    *slog.Logger
	boardSize int

	randomBot  *bot.RandomBot
	minimaxBot *bot.MinimaxBot
}

func New(logger *slog.Logger, boardSize int) *Generator {
	return &Generator{
		logger:     logger.With("component", "generator"),
		boardSize:  boardSize,
		randomBot:  bot.NewRandomBot(),
		minimaxBot: bot.NewMinimaxBot(),
	}
}

// Generate plays numGames games and returns one record per ply, each
// stamped with the final outcome of its game.
func (that *Generator) Generate(ctx context.Context, numGames int) ([]entity.MoveRecord, error) {
	that.logger.Info("generating games", "games", numGames, "board_size", that.boardSize)

	var records []entity.MoveRecord

	for i := 0; i < numGames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation interrupted: %w", err)
		}

		gameRecords, err := that.playSingleGame(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to play game %d: %w", i+1, err)
		}

		records = append(records, gameRecords...)
	}

	that.logger.Info("generated board states", "states", len(records))

	return records, nil
}

func (that *Generator) playSingleGame(ctx context.Context) ([]entity.MoveRecord, error) {
	gameBoard := board.New(that.boardSize)

	strategies := map[string]bot.Strategy{
		board.PlayerX: that.pickStrategy(),
		board.PlayerO: that.pickStrategy(),
	}

	var records []entity.MoveRecord

	for !gameBoard.IsTerminal() {
		mover := gameBoard.Turn()

		move, err := strategies[mover].SelectMove(ctx, gameBoard)
		if err != nil {
			return nil, fmt.Errorf("strategy failed for %s: %w", mover, err)
		}

		records = append(records, entity.MoveRecord{
			State:     gameBoard.StateString(),
			Row:       move.Row,
			Col:       move.Col,
			Player:    mover,
			BoardSize: that.boardSize,
		})

		gameBoard.MakeMove(move.Row, move.Col, mover)
	}

	outcome := gameBoard.Winner()
	if outcome == board.EmptyCell {
		outcome = board.PlayerTie
	}

	for i := range records {
		records[i].Outcome = outcome
	}

	return records, nil
}

func (that *Generator) pickStrategy() bot.Strategy {
	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		return that.randomBot
	}
	return that.minimaxBot
}

// SaveToFile writes records in the pipe-delimited text format
// "state|row,col|outcome", one record per line.
func (that *Generator) SaveToFile(records []entity.MoveRecord, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		if _, err = fmt.Fprintf(writer, "%s|%d,%d|%s\n", record.State, record.Row, record.Col, record.Outcome); err != nil {
			return fmt.Errorf("could not write record: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("could not flush %s: %w", filename, err)
	}

	that.logger.Info("saved training data", "states", len(records), "file", filename)

	return nil
}
