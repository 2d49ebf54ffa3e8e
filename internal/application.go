package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/vectorox/internal/bot"
	"github.com/rocketscienceinc/vectorox/internal/config"
	"github.com/rocketscienceinc/vectorox/internal/generator"
	"github.com/rocketscienceinc/vectorox/internal/repository"
	"github.com/rocketscienceinc/vectorox/internal/repository/storage"
	"github.com/rocketscienceinc/vectorox/internal/terminal"
	"github.com/rocketscienceinc/vectorox/internal/tournament"
)

const (
	CommandPlay       = "play"
	CommandGenerate   = "generate"
	CommandBuild      = "build"
	CommandTournament = "tournament"
)

// RunApp - runs the requested command.
func RunApp(logger *slog.Logger, conf *config.Config, command string) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	switch command {
	case CommandPlay:
		return runPlay(ctx, logger, conf)
	case CommandGenerate:
		return runGenerate(ctx, logger, conf)
	case CommandBuild:
		return runBuild(ctx, logger, conf)
	case CommandTournament:
		return runTournament(ctx, logger, conf)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runPlay(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	registry := buildRegistry(ctx, logger, conf)

	strategy, err := registry.Get(conf.Bot)
	if err != nil {
		return fmt.Errorf("could not pick opponent: %w", err)
	}

	game := terminal.NewGame(logger, os.Stdout, os.Stdin, strategy, conf.Bot, conf.BoardSize)

	return game.Run(ctx)
}

func runGenerate(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	gen := generator.New(logger, conf.BoardSize)

	records, err := gen.Generate(ctx, conf.Training.NumGames)
	if err != nil {
		return fmt.Errorf("could not generate training data: %w", err)
	}

	if err = gen.SaveToFile(records, conf.Training.OutputFile); err != nil {
		return fmt.Errorf("could not save training data: %w", err)
	}

	if conf.SQLiteStoragePath == "" {
		return nil
	}

	conn, err := storage.NewSQLite(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open game archive: %w", err)
	}
	defer conn.Close()

	archive := repository.NewArchiveRepository(conn)
	if err = archive.Init(ctx); err != nil {
		return fmt.Errorf("could not init game archive: %w", err)
	}

	if err = archive.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("could not archive training data: %w", err)
	}

	log.Info("archived training data", "states", len(records), "path", conf.SQLiteStoragePath)

	return nil
}

func runBuild(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	client, err := storage.NewRedis(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}
	defer client.Close()

	knowledge := repository.NewKnowledgeRepository(client)
	loader := generator.NewLoader(logger, knowledge)

	loaded, err := loader.Load(ctx, conf.Training.OutputFile)
	if err != nil {
		return fmt.Errorf("could not build knowledge store: %w", err)
	}

	total, err := knowledge.Count(ctx)
	if err != nil {
		return fmt.Errorf("could not count knowledge records: %w", err)
	}

	log.Info("knowledge store built", "loaded", loaded, "total", total)

	return nil
}

func runTournament(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	registry := buildRegistry(ctx, logger, conf)

	runner := tournament.New(logger, registry, conf.BoardSize, conf.Tournament.GamesPerMatchup)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("tournament failed: %w", err)
	}

	fmt.Fprint(os.Stdout, runner.Report())

	return nil
}

// buildRegistry registers the three bots. The vector bot is wired to the
// Redis knowledge store when it is reachable and degrades to its random
// fallback otherwise, an unreachable store must not prevent playing.
func buildRegistry(ctx context.Context, logger *slog.Logger, conf *config.Config) *bot.Registry {
	log := logger.With("component", "app")

	registry := bot.NewRegistry()
	registry.Register("random", bot.NewRandomBot())
	registry.Register("minimax", bot.NewMinimaxBot())

	var searcher bot.SimilaritySearcher
	if client, err := storage.NewRedis(ctx, conf.Redis.GetRedisAddr()); err != nil {
		log.Warn("could not initialize knowledge store, vector bot will play random", "error", err)
	} else {
		searcher = repository.NewKnowledgeRepository(client)
	}
	registry.Register("vector", bot.NewVectorBot(logger, searcher))

	return registry
}
