package terminal

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/rocketscienceinc/vectorox/internal/board"
	"github.com/rocketscienceinc/vectorox/internal/bot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestGame(t *testing.T, input string) (*Game, *bytes.Buffer) {
	t.Helper()

	var output bytes.Buffer
	game := NewGame(testLogger(), &output, strings.NewReader(input), bot.NewMinimaxBot(), "minimax", 3)

	return game, &output
}

func TestGame_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies a human move and lets the bot answer", func(t *testing.T) {
		// Given: the human takes the center, then quits
		game, output := newTestGame(t, "5\nq\n")

		// When: running the loop
		require.NoError(t, game.Run(ctx))

		// Then: the board holds the human X, the bot's O reply and it is X's turn
		cell, err := game.gameBoard.GetCell(1, 1)
		require.NoError(t, err)
		assert.Equal(t, board.PlayerX, cell)

		assert.Len(t, game.gameBoard.History(), 2)
		assert.Equal(t, board.PlayerX, game.gameBoard.Turn())
		assert.NotEmpty(t, output.String())
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: the human tries the bot's cell right after it is taken
		game, output := newTestGame(t, "5\n1\nq\n")

		// The minimax reply to a center opening is the earliest corner.
		require.NoError(t, game.Run(ctx))

		assert.Contains(t, output.String(), "already taken")
		assert.Len(t, game.gameBoard.History(), 2)
	})

	t.Run("Resets on r", func(t *testing.T) {
		// Given: a move followed by a reset
		game, _ := newTestGame(t, "5\nr\nq\n")

		require.NoError(t, game.Run(ctx))

		assert.Equal(t, ".........", game.gameBoard.StateString())
		assert.Empty(t, game.gameBoard.History())
	})

	t.Run("Walks the history without mutating the live board", func(t *testing.T) {
		// Given: a move, a step back and a jump to the latest state
		game, output := newTestGame(t, "5\n[\n>\nq\n")

		require.NoError(t, game.Run(ctx))

		assert.Contains(t, output.String(), "viewing move")
		assert.Len(t, game.gameBoard.History(), 2)
	})

	t.Run("Stops cleanly on end of input", func(t *testing.T) {
		game, _ := newTestGame(t, "")

		require.NoError(t, game.Run(ctx))
	})
}

func TestGame_ParseMove(t *testing.T) {
	game, _ := newTestGame(t, "")

	t.Run("Accepts 1-9 on a 3x3 board", func(t *testing.T) {
		move, err := game.parseMove("5")
		require.NoError(t, err)
		assert.Equal(t, board.Move{Row: 1, Col: 1}, move)

		move, err = game.parseMove("1")
		require.NoError(t, err)
		assert.Equal(t, board.Move{Row: 0, Col: 0}, move)

		move, err = game.parseMove("9")
		require.NoError(t, err)
		assert.Equal(t, board.Move{Row: 2, Col: 2}, move)
	})

	t.Run("Accepts 1-based row,col", func(t *testing.T) {
		move, err := game.parseMove("2,3")
		require.NoError(t, err)
		assert.Equal(t, board.Move{Row: 1, Col: 2}, move)

		move, err = game.parseMove(" 1 , 1 ")
		require.NoError(t, err)
		assert.Equal(t, board.Move{Row: 0, Col: 0}, move)
	})

	t.Run("Rejects out-of-range and junk input", func(t *testing.T) {
		for _, input := range []string{"0", "10", "abc", "4,1", "1,4", "0,1"} {
			_, err := game.parseMove(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}
