package board

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/vectorox/internal/apperror"
)

const (
	PlayerX   = "X"
	PlayerO   = "O"
	PlayerTie = "-"

	EmptyCell = ""
)

// Move is a single cell coordinate, row-major addressable.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// HistoryEntry records one applied move together with the mark that made it.
type HistoryEntry struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Mark string `json:"mark"`
}

// Board owns the grid, the turn state and win detection for an NxN game.
// It is mutated only through MakeMove, UndoLast and Reset; the search
// engine relies on that to keep mutate/undo symmetric.
type Board struct {
	size    int
	cells   []string
	turn    string
	history []HistoryEntry
}

func New(size int) *Board {
	if size <= 0 {
		panic(fmt.Errorf("board: invalid size %d", size))
	}

	return &Board{
		size:  size,
		cells: make([]string, size*size),
		turn:  PlayerX,
	}
}

func (that *Board) Size() int {
	return that.size
}

// Turn returns the mark that moves next. X always opens.
func (that *Board) Turn() string {
	return that.turn
}

func (that *Board) GetCell(row, col int) (string, error) {
	if !that.inBounds(row, col) {
		return EmptyCell, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, row, col)
	}

	return that.cells[row*that.size+col], nil
}

func (that *Board) IsValidMove(row, col int) bool {
	return that.inBounds(row, col) && that.cells[row*that.size+col] == EmptyCell
}

// MakeMove places mark at (row, col) and flips the turn. It reports false
// and leaves the board untouched when the cell is out of range or occupied;
// callers use that to probe legality. The mark is deliberately not checked
// against Turn, the search engine plays hypothetical moves out of turn.
func (that *Board) MakeMove(row, col int, mark string) bool {
	if !that.IsValidMove(row, col) {
		return false
	}

	that.cells[row*that.size+col] = mark
	that.history = append(that.history, HistoryEntry{Row: row, Col: col, Mark: mark})
	that.turn = toggleMark(mark)

	return true
}

// UndoLast reverses the most recent MakeMove: the cell is cleared, the turn
// is restored to the mark that made the move and the history entry is popped.
func (that *Board) UndoLast() error {
	if len(that.history) == 0 {
		return apperror.ErrEmptyHistory
	}

	last := that.history[len(that.history)-1]
	that.history = that.history[:len(that.history)-1]
	that.cells[last.Row*that.size+last.Col] = EmptyCell
	that.turn = last.Mark

	return nil
}

// AvailableMoves enumerates every empty cell in row-major order. The order
// is load-bearing: it fixes the search exploration order and therefore the
// tie-break between equally scored moves.
func (that *Board) AvailableMoves() []Move {
	moves := make([]Move, 0, len(that.cells))
	for row := 0; row < that.size; row++ {
		for col := 0; col < that.size; col++ {
			if that.cells[row*that.size+col] == EmptyCell {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Winner returns the mark that occupies a full row, column or main diagonal,
// or an empty string when there is none. Lines are checked rows, then
// columns, then the diagonal, then the anti-diagonal so that hand-built
// positions resolve deterministically.
func (that *Board) Winner() string {
	for row := 0; row < that.size; row++ {
		if mark := that.lineOwner(row*that.size, 1); mark != EmptyCell {
			return mark
		}
	}

	for col := 0; col < that.size; col++ {
		if mark := that.lineOwner(col, that.size); mark != EmptyCell {
			return mark
		}
	}

	if mark := that.lineOwner(0, that.size+1); mark != EmptyCell {
		return mark
	}

	return that.lineOwner(that.size-1, that.size-1)
}

// lineOwner walks size cells from start with the given stride and returns
// the mark if they are all equal and non-empty.
func (that *Board) lineOwner(start, stride int) string {
	first := that.cells[start]
	if first == EmptyCell {
		return EmptyCell
	}

	for i := 1; i < that.size; i++ {
		if that.cells[start+i*stride] != first {
			return EmptyCell
		}
	}

	return first
}

func (that *Board) IsFull() bool {
	for _, cell := range that.cells {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) IsTerminal() bool {
	return that.Winner() != EmptyCell || that.IsFull()
}

// StateVector flattens the grid row-major with X as 1, O as -1 and empty
// cells as 0. This is the embedding fed to the similarity store.
func (that *Board) StateVector() []float64 {
	vector := make([]float64, len(that.cells))
	for i, cell := range that.cells {
		switch cell {
		case PlayerX:
			vector[i] = 1
		case PlayerO:
			vector[i] = -1
		}
	}

	return vector
}

// StateString flattens the grid row-major with '.' for empty cells.
func (that *Board) StateString() string {
	var sb strings.Builder
	sb.Grow(len(that.cells))

	for _, cell := range that.cells {
		if cell == EmptyCell {
			sb.WriteByte('.')
		} else {
			sb.WriteString(cell)
		}
	}

	return sb.String()
}

// Clone returns a deep copy: mutating the copy never touches the original.
func (that *Board) Clone() *Board {
	cloned := &Board{
		size:  that.size,
		cells: make([]string, len(that.cells)),
		turn:  that.turn,
	}
	copy(cloned.cells, that.cells)

	if len(that.history) > 0 {
		cloned.history = make([]HistoryEntry, len(that.history))
		copy(cloned.history, that.history)
	}

	return cloned
}

// History returns a copy of the applied moves in order.
func (that *Board) History() []HistoryEntry {
	history := make([]HistoryEntry, len(that.history))
	copy(history, that.history)

	return history
}

func (that *Board) Reset() {
	for i := range that.cells {
		that.cells[i] = EmptyCell
	}
	that.turn = PlayerX
	that.history = nil
}

func (that *Board) inBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

func toggleMark(currentMark string) string {
	if currentMark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
