package board

import (
	"testing"

	"github.com/rocketscienceinc/vectorox/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	// Given: a new 3x3 board
	gameBoard := New(3)

	// Then: it is empty, X opens and every cell is available
	assert.Equal(t, 3, gameBoard.Size())
	assert.Equal(t, PlayerX, gameBoard.Turn())
	assert.Equal(t, ".........", gameBoard.StateString())
	assert.Len(t, gameBoard.AvailableMoves(), 9)
	assert.Empty(t, gameBoard.History())
}

func TestBoard_GetCell(t *testing.T) {
	t.Run("Returns the mark at a cell", func(t *testing.T) {
		// Given: a board with X at (0,1)
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 1, PlayerX))

		// When: reading the cell
		cell, err := gameBoard.GetCell(0, 1)

		// Then: the mark is returned
		require.NoError(t, err)
		assert.Equal(t, PlayerX, cell)
	})

	t.Run("Returns ErrOutOfBounds for indices outside the grid", func(t *testing.T) {
		gameBoard := New(3)

		for _, coords := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
			_, err := gameBoard.GetCell(coords[0], coords[1])
			assert.ErrorIs(t, err, apperror.ErrOutOfBounds)
		}
	})
}

func TestBoard_MakeMove(t *testing.T) {
	t.Run("Places the mark, records history and flips the turn", func(t *testing.T) {
		// Given: a fresh board
		gameBoard := New(3)

		// When: X plays (1,1)
		ok := gameBoard.MakeMove(1, 1, PlayerX)

		// Then: the cell is set, O is to move and history has one entry
		require.True(t, ok)
		assert.Equal(t, "....X....", gameBoard.StateString())
		assert.Equal(t, PlayerO, gameBoard.Turn())
		assert.Equal(t, []HistoryEntry{{Row: 1, Col: 1, Mark: PlayerX}}, gameBoard.History())
	})

	t.Run("Reports false on an occupied cell and leaves the board unchanged", func(t *testing.T) {
		// Given: a board with X at (1,1)
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(1, 1, PlayerX))
		before := gameBoard.StateString()

		// When: O probes the same cell
		ok := gameBoard.MakeMove(1, 1, PlayerO)

		// Then: the move is rejected without mutating anything
		assert.False(t, ok)
		assert.Equal(t, before, gameBoard.StateString())
		assert.Equal(t, PlayerO, gameBoard.Turn())
		assert.Len(t, gameBoard.History(), 1)
	})

	t.Run("Reports false out of range", func(t *testing.T) {
		gameBoard := New(3)

		assert.False(t, gameBoard.MakeMove(3, 0, PlayerX))
		assert.False(t, gameBoard.MakeMove(0, -1, PlayerX))
		assert.Equal(t, PlayerX, gameBoard.Turn())
	})

	t.Run("Does not validate the mark against the turn", func(t *testing.T) {
		// Given: a fresh board where X is to move
		gameBoard := New(3)

		// When: O plays out of turn (the search engine does this during lookahead)
		ok := gameBoard.MakeMove(0, 0, PlayerO)

		// Then: the move is applied and the turn follows the played mark
		require.True(t, ok)
		assert.Equal(t, PlayerX, gameBoard.Turn())
	})
}

func TestBoard_UndoLast(t *testing.T) {
	t.Run("Restores state and turn to their pre-move values", func(t *testing.T) {
		// Given: a board with one move played
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
		require.True(t, gameBoard.MakeMove(1, 1, PlayerO))

		stateBefore := "X........"

		// When: undoing the last move
		err := gameBoard.UndoLast()

		// Then: the cell is cleared, the turn is back to O and history shrank
		require.NoError(t, err)
		assert.Equal(t, stateBefore, gameBoard.StateString())
		assert.Equal(t, PlayerO, gameBoard.Turn())
		assert.Len(t, gameBoard.History(), 1)
	})

	t.Run("Round-trips any valid move", func(t *testing.T) {
		// Given: a mid-game position
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
		require.True(t, gameBoard.MakeMove(2, 2, PlayerO))

		stateBefore := gameBoard.StateString()
		turnBefore := gameBoard.Turn()

		// When: making and undoing every available move
		for _, move := range gameBoard.AvailableMoves() {
			require.True(t, gameBoard.MakeMove(move.Row, move.Col, gameBoard.Turn()))
			require.NoError(t, gameBoard.UndoLast())

			// Then: the board is bit-for-bit restored
			assert.Equal(t, stateBefore, gameBoard.StateString())
			assert.Equal(t, turnBefore, gameBoard.Turn())
		}
	})

	t.Run("Returns ErrEmptyHistory with nothing to undo", func(t *testing.T) {
		gameBoard := New(3)

		err := gameBoard.UndoLast()

		assert.ErrorIs(t, err, apperror.ErrEmptyHistory)
	})
}

func TestBoard_AvailableMoves(t *testing.T) {
	t.Run("Enumerates empty cells in row-major order", func(t *testing.T) {
		// Given: a board with (0,1) and (1,0) occupied
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 1, PlayerX))
		require.True(t, gameBoard.MakeMove(1, 0, PlayerO))

		// When: listing available moves
		moves := gameBoard.AvailableMoves()

		// Then: the remaining cells come back row ascending, then column ascending
		expected := []Move{
			{0, 0}, {0, 2},
			{1, 1}, {1, 2},
			{2, 0}, {2, 1}, {2, 2},
		}
		assert.Equal(t, expected, moves)
	})

	t.Run("Length tracks the number of empty cells and every move is valid", func(t *testing.T) {
		gameBoard := New(4)
		require.True(t, gameBoard.MakeMove(3, 3, PlayerX))

		moves := gameBoard.AvailableMoves()

		assert.Len(t, moves, 4*4-1)
		for _, move := range moves {
			assert.True(t, gameBoard.IsValidMove(move.Row, move.Col))
		}
	})
}

func TestBoard_Winner(t *testing.T) {
	t.Run("Detects a full row", func(t *testing.T) {
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(1, 0, PlayerX))
		require.True(t, gameBoard.MakeMove(0, 0, PlayerO))
		require.True(t, gameBoard.MakeMove(1, 1, PlayerX))
		require.True(t, gameBoard.MakeMove(0, 1, PlayerO))
		require.True(t, gameBoard.MakeMove(1, 2, PlayerX))

		assert.Equal(t, PlayerX, gameBoard.Winner())
		assert.True(t, gameBoard.IsTerminal())
	})

	t.Run("Detects a full column", func(t *testing.T) {
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 2, PlayerO))
		require.True(t, gameBoard.MakeMove(1, 2, PlayerO))
		require.True(t, gameBoard.MakeMove(2, 2, PlayerO))

		assert.Equal(t, PlayerO, gameBoard.Winner())
	})

	t.Run("Detects the main diagonal", func(t *testing.T) {
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
		require.True(t, gameBoard.MakeMove(1, 1, PlayerX))
		require.True(t, gameBoard.MakeMove(2, 2, PlayerX))

		assert.Equal(t, PlayerX, gameBoard.Winner())
	})

	t.Run("Detects the anti-diagonal", func(t *testing.T) {
		gameBoard := New(3)
		require.True(t, gameBoard.MakeMove(0, 2, PlayerO))
		require.True(t, gameBoard.MakeMove(1, 1, PlayerO))
		require.True(t, gameBoard.MakeMove(2, 0, PlayerO))

		assert.Equal(t, PlayerO, gameBoard.Winner())
	})

	t.Run("Works on a 4x4 board", func(t *testing.T) {
		gameBoard := New(4)
		for col := 0; col < 4; col++ {
			require.True(t, gameBoard.MakeMove(2, col, PlayerX))
		}

		assert.Equal(t, PlayerX, gameBoard.Winner())
	})

	t.Run("Three in a row is not enough on 4x4", func(t *testing.T) {
		// The win rule requires an entire line, not k-in-a-row.
		gameBoard := New(4)
		for col := 0; col < 3; col++ {
			require.True(t, gameBoard.MakeMove(0, col, PlayerX))
		}

		assert.Equal(t, EmptyCell, gameBoard.Winner())
		assert.False(t, gameBoard.IsTerminal())
	})

	t.Run("Returns no winner on an empty or undecided board", func(t *testing.T) {
		gameBoard := New(3)
		assert.Equal(t, EmptyCell, gameBoard.Winner())

		require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
		assert.Equal(t, EmptyCell, gameBoard.Winner())
	})
}

func TestBoard_FullWithoutWinner(t *testing.T) {
	// Given: a full board with no three in a row
	// X O X
	// X O O
	// O X X
	gameBoard := New(3)
	marks := []string{
		PlayerX, PlayerO, PlayerX,
		PlayerX, PlayerO, PlayerO,
		PlayerO, PlayerX, PlayerX,
	}
	for i, mark := range marks {
		require.True(t, gameBoard.MakeMove(i/3, i%3, mark))
	}

	// Then: it is a terminal tie
	assert.Equal(t, EmptyCell, gameBoard.Winner())
	assert.True(t, gameBoard.IsFull())
	assert.True(t, gameBoard.IsTerminal())
	assert.Empty(t, gameBoard.AvailableMoves())
}

func TestBoard_StateRepresentations(t *testing.T) {
	// Given: a 3x3 board with X at (0,0) and O at (1,1)
	gameBoard := New(3)
	require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
	require.True(t, gameBoard.MakeMove(1, 1, PlayerO))

	// Then: the flattened representations match cell for cell
	assert.Equal(t, []float64{1, 0, 0, 0, -1, 0, 0, 0, 0}, gameBoard.StateVector())
	assert.Equal(t, "X...O....", gameBoard.StateString())
}

func TestBoard_Clone(t *testing.T) {
	// Given: a board with some moves and its clone
	gameBoard := New(3)
	require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
	require.True(t, gameBoard.MakeMove(1, 1, PlayerO))

	cloned := gameBoard.Clone()
	original := gameBoard.StateString()

	// When: mutating the clone
	require.True(t, cloned.MakeMove(2, 2, PlayerX))
	require.NoError(t, cloned.UndoLast())
	require.NoError(t, cloned.UndoLast())

	// Then: the original is untouched and the clone matched before mutation
	assert.Equal(t, original, gameBoard.StateString())
	assert.Equal(t, PlayerX, gameBoard.Turn())
	assert.Len(t, gameBoard.History(), 2)
}

func TestBoard_Reset(t *testing.T) {
	// Given: a board mid-game
	gameBoard := New(3)
	require.True(t, gameBoard.MakeMove(0, 0, PlayerX))
	require.True(t, gameBoard.MakeMove(1, 1, PlayerO))

	// When: resetting
	gameBoard.Reset()

	// Then: the board is back to its initial state
	assert.Equal(t, ".........", gameBoard.StateString())
	assert.Equal(t, PlayerX, gameBoard.Turn())
	assert.Empty(t, gameBoard.History())
}
