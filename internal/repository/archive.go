package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/vectorox/internal/entity"
)

// ArchiveRepository keeps every generated training ply in SQLite so that
// self-play batches survive regeneration of the knowledge store.
type ArchiveRepository interface {
	Init(ctx context.Context) error
	SaveBatch(ctx context.Context, records []entity.MoveRecord) error
	CountMoves(ctx context.Context) (int64, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS training_moves (
		state TEXT NOT NULL,
		move_row INTEGER NOT NULL,
		move_col INTEGER NOT NULL,
		player TEXT NOT NULL,
		outcome TEXT NOT NULL,
		board_size INTEGER NOT NULL
	)`

	if _, err := that.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *dbArchive) SaveBatch(ctx context.Context, records []entity.MoveRecord) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint: errcheck // rollback after commit is a no-op

	query := `INSERT INTO training_moves (state, move_row, move_col, player, outcome, board_size) VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if _, err = stmt.ExecContext(ctx, record.State, record.Row, record.Col, record.Player, record.Outcome, record.BoardSize); err != nil {
			return fmt.Errorf("can't save training move: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}

func (that *dbArchive) CountMoves(ctx context.Context) (int64, error) {
	var count int64

	err := that.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_moves`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("can't count training moves: %w", err)
	}

	return count, nil
}
