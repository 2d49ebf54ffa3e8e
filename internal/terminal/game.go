package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/vectorox/internal/board"
	"github.com/rocketscienceinc/vectorox/internal/bot"
)

// Game is the interactive terminal loop: the human plays X against the
// configured bot. Besides moves it understands a few commands:
//
//	[  step back through the move history (view only)
//	]  step forward
//	>  jump to the latest position
//	r  reset the game
//	q  quit
type Game struct {
	logger   *slog.Logger
	output   *termenv.Output
	input    *bufio.Reader
	opponent bot.Strategy
	botName  string

	gameBoard *board.Board
	snapshots []*board.Board
	viewIndex int
}

func NewGame(logger *slog.Logger, out io.Writer, in io.Reader, opponent bot.Strategy, botName string, boardSize int) *Game {
	game := &Game{
		logger:   logger.With("component", "terminal"),
		output:   termenv.NewOutput(out),
		input:    bufio.NewReader(in),
		opponent: opponent,
		botName:  botName,
	}
	game.reset(boardSize)

	return game
}

func (that *Game) reset(boardSize int) {
	that.gameBoard = board.New(boardSize)
	that.snapshots = []*board.Board{that.gameBoard.Clone()}
	that.viewIndex = 0
}

// Run blocks until the player quits or the context is cancelled.
func (that *Game) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("game interrupted: %w", err)
		}

		that.render()

		line, err := that.input.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("could not read input: %w", err)
		}

		quit, err := that.handleInput(ctx, strings.TrimSpace(line))
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (that *Game) handleInput(ctx context.Context, line string) (bool, error) {
	switch line {
	case "q":
		return true, nil
	case "r":
		that.reset(that.gameBoard.Size())
		return false, nil
	case "[":
		if that.viewIndex > 0 {
			that.viewIndex--
		}
		return false, nil
	case "]":
		if that.viewIndex < len(that.snapshots)-1 {
			that.viewIndex++
		}
		return false, nil
	case ">":
		that.viewIndex = len(that.snapshots) - 1
		return false, nil
	case "":
		return false, nil
	}

	if that.gameBoard.IsTerminal() {
		that.println(that.styled("Game is over, press r to reset or q to quit.", "3"))
		return false, nil
	}

	move, err := that.parseMove(line)
	if err != nil {
		that.println(that.styled(err.Error(), "1"))
		return false, nil
	}

	if !that.gameBoard.MakeMove(move.Row, move.Col, board.PlayerX) {
		that.println(that.styled("That position is already taken!", "1"))
		return false, nil
	}
	that.snapshot()

	if that.gameBoard.IsTerminal() {
		return false, nil
	}

	botMove, err := that.opponent.SelectMove(ctx, that.gameBoard)
	if err != nil {
		return false, fmt.Errorf("bot failed to move: %w", err)
	}

	that.gameBoard.MakeMove(botMove.Row, botMove.Col, board.PlayerO)
	that.snapshot()
	that.logger.Debug("bot moved", "row", botMove.Row, "col", botMove.Col)

	return false, nil
}

func (that *Game) snapshot() {
	that.snapshots = append(that.snapshots, that.gameBoard.Clone())
	that.viewIndex = len(that.snapshots) - 1
}

// parseMove accepts "5" style cell numbers on a 3x3 board and the 1-based
// "row,col" form on any size.
func (that *Game) parseMove(line string) (board.Move, error) {
	size := that.gameBoard.Size()

	if size == 3 && !strings.Contains(line, ",") {
		num, err := strconv.Atoi(line)
		if err != nil || num < 1 || num > 9 {
			return board.Move{}, fmt.Errorf("invalid input, use 1-9 or row,col")
		}
		return board.Move{Row: (num - 1) / 3, Col: (num - 1) % 3}, nil
	}

	rowStr, colStr, ok := strings.Cut(line, ",")
	if !ok {
		return board.Move{}, fmt.Errorf("invalid input, use row,col")
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return board.Move{}, fmt.Errorf("invalid row, use 1-%d", size)
	}

	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return board.Move{}, fmt.Errorf("invalid column, use 1-%d", size)
	}

	if row < 1 || row > size || col < 1 || col > size {
		return board.Move{}, fmt.Errorf("position out of range, use 1-%d", size)
	}

	return board.Move{Row: row - 1, Col: col - 1}, nil
}

func (that *Game) render() {
	view := that.snapshots[that.viewIndex]
	size := view.Size()

	that.println("")
	for row := 0; row < size; row++ {
		var cells []string
		for col := 0; col < size; col++ {
			cell, _ := view.GetCell(row, col)
			cells = append(cells, that.renderCell(cell, row, col, size))
		}
		that.println(" " + strings.Join(cells, " │ "))

		if row < size-1 {
			that.println(strings.Repeat("─", size*4))
		}
	}
	that.println("")
	that.println(that.statusLine(view))
	that.output.WriteString("> ")
}

func (that *Game) renderCell(cell string, row, col, size int) string {
	switch cell {
	case board.PlayerX:
		return that.output.String(cell).Foreground(that.output.Color("1")).Bold().String()
	case board.PlayerO:
		return that.output.String(cell).Foreground(that.output.Color("4")).Bold().String()
	}

	// Position hints keep the 1-9 input form discoverable on 3x3.
	if size == 3 {
		return that.output.String(strconv.Itoa(row*3 + col + 1)).Faint().String()
	}
	return that.output.String("·").Faint().String()
}

func (that *Game) statusLine(view *board.Board) string {
	if that.viewIndex < len(that.snapshots)-1 {
		return fmt.Sprintf("viewing move %d of %d, ] to advance, > for latest", that.viewIndex, len(that.snapshots)-1)
	}

	if view.IsTerminal() {
		switch view.Winner() {
		case board.PlayerX:
			return that.styled("You win!", "2")
		case board.PlayerO:
			return that.styled(fmt.Sprintf("Bot (%s) wins!", that.botName), "1")
		default:
			return that.styled("Tie!", "3")
		}
	}

	return fmt.Sprintf("Your turn (X) against %s. Move, or [ ] > r q.", that.botName)
}

func (that *Game) styled(text, color string) string {
	return that.output.String(text).Foreground(that.output.Color(color)).String()
}

func (that *Game) println(line string) {
	that.output.WriteString(line + "\n")
}
