package entity

// MoveRecord is one recorded ply of a finished game: the board state the
// mover saw, the move it chose and the final outcome of that game
// ("X", "O" or "-" for a tie).
type MoveRecord struct {
	State     string `json:"state"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Player    string `json:"player,omitempty"`
	Outcome   string `json:"outcome"`
	BoardSize int    `json:"board_size,omitempty"`
}

// Embedding maps the state string to the numeric vector used for
// similarity lookups: X cells become 1, O cells -1, empty cells 0.
func (that *MoveRecord) Embedding() []float64 {
	vector := make([]float64, len(that.State))
	for i := range that.State {
		switch that.State[i] {
		case 'X':
			vector[i] = 1
		case 'O':
			vector[i] = -1
		}
	}

	return vector
}
