package apperror

import "errors"

var (
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrEmptyHistory     = errors.New("move history is empty")
	ErrNoAvailableMoves = errors.New("no available moves")
)
