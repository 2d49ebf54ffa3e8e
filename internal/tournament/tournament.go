package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rocketscienceinc/vectorox/internal/board"
	"github.com/rocketscienceinc/vectorox/internal/bot"
)

// MatchupResult tallies one ordered pairing; the first named bot played X.
type MatchupResult struct {
	BotX  string
	BotO  string
	XWins int
	OWins int
	Ties  int
	Games int
}

// BotStats aggregates a bot's results over every matchup it played.
type BotStats struct {
	Games  int
	Wins   int
	Losses int
	Ties   int
}

func (that BotStats) WinRate() float64 {
	if that.Games == 0 {
		return 0
	}
	return float64(that.Wins) / float64(that.Games)
}

func (that BotStats) TieRate() float64 {
	if that.Games == 0 {
		return 0
	}
	return float64(that.Ties) / float64(that.Games)
}

// Tournament plays every ordered pair of distinct registered bots against
// each other for a fixed number of games per matchup. Ordered pairs mean
// every bot gets to play both marks against every opponent.
type Tournament struct {
	logger          *slog.Logger
	registry        *bot.Registry
	boardSize       int
	gamesPerMatchup int

	results []MatchupResult
}

func New(logger *slog.Logger, registry *bot.Registry, boardSize, gamesPerMatchup int) *Tournament {
	return &Tournament{
		logger:          logger.With("component", "tournament"),
		registry:        registry,
		boardSize:       boardSize,
		gamesPerMatchup: gamesPerMatchup,
	}
}

func (that *Tournament) Run(ctx context.Context) error {
	names := that.registry.Names()

	that.logger.Info("starting tournament",
		"bots", len(names), "board_size", that.boardSize, "games_per_matchup", that.gamesPerMatchup)

	for _, nameX := range names {
		for _, nameO := range names {
			if nameX == nameO {
				continue
			}

			result, err := that.playMatchup(ctx, nameX, nameO)
			if err != nil {
				return fmt.Errorf("matchup %s vs %s failed: %w", nameX, nameO, err)
			}

			that.results = append(that.results, result)
		}
	}

	return nil
}

func (that *Tournament) playMatchup(ctx context.Context, nameX, nameO string) (MatchupResult, error) {
	botX, err := that.registry.Get(nameX)
	if err != nil {
		return MatchupResult{}, err
	}

	botO, err := that.registry.Get(nameO)
	if err != nil {
		return MatchupResult{}, err
	}

	result := MatchupResult{BotX: nameX, BotO: nameO}

	for i := 0; i < that.gamesPerMatchup; i++ {
		if err = ctx.Err(); err != nil {
			return MatchupResult{}, fmt.Errorf("tournament interrupted: %w", err)
		}

		winner, err := that.playSingleGame(ctx, botX, botO)
		if err != nil {
			return MatchupResult{}, err
		}

		switch winner {
		case board.PlayerX:
			result.XWins++
		case board.PlayerO:
			result.OWins++
		default:
			result.Ties++
		}
		result.Games++
	}

	that.logger.Info("matchup finished",
		"x", nameX, "o", nameO, "x_wins", result.XWins, "o_wins", result.OWins, "ties", result.Ties)

	return result, nil
}

func (that *Tournament) playSingleGame(ctx context.Context, botX, botO bot.Strategy) (string, error) {
	gameBoard := board.New(that.boardSize)

	for !gameBoard.IsTerminal() {
		strategy := botX
		if gameBoard.Turn() == board.PlayerO {
			strategy = botO
		}

		move, err := strategy.SelectMove(ctx, gameBoard)
		if err != nil {
			return "", fmt.Errorf("strategy failed: %w", err)
		}

		if !gameBoard.MakeMove(move.Row, move.Col, gameBoard.Turn()) {
			return "", fmt.Errorf("strategy returned illegal move (%d,%d)", move.Row, move.Col)
		}
	}

	return gameBoard.Winner(), nil
}

func (that *Tournament) Results() []MatchupResult {
	return that.results
}

// Stats aggregates wins, losses and ties per bot across all matchups.
func (that *Tournament) Stats() map[string]BotStats {
	stats := make(map[string]BotStats)

	for _, result := range that.results {
		x := stats[result.BotX]
		x.Games += result.Games
		x.Wins += result.XWins
		x.Losses += result.OWins
		x.Ties += result.Ties
		stats[result.BotX] = x

		o := stats[result.BotO]
		o.Games += result.Games
		o.Wins += result.OWins
		o.Losses += result.XWins
		o.Ties += result.Ties
		stats[result.BotO] = o
	}

	return stats
}

// Report renders a plain-text summary, bots sorted by win rate.
func (that *Tournament) Report() string {
	stats := that.Stats()

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if stats[names[i]].WinRate() != stats[names[j]].WinRate() {
			return stats[names[i]].WinRate() > stats[names[j]].WinRate()
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tournament results (%dx%d board, %d games per matchup)\n",
		that.boardSize, that.boardSize, that.gamesPerMatchup)
	fmt.Fprintf(&sb, "%-12s %8s %8s %8s %8s %9s %9s\n",
		"bot", "games", "wins", "losses", "ties", "win_rate", "tie_rate")

	for _, name := range names {
		s := stats[name]
		fmt.Fprintf(&sb, "%-12s %8d %8d %8d %8d %8.1f%% %8.1f%%\n",
			name, s.Games, s.Wins, s.Losses, s.Ties, s.WinRate()*100, s.TieRate()*100)
	}

	return sb.String()
}
