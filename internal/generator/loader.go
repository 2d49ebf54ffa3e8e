package generator

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/vectorox/internal/entity"
	"github.com/rocketscienceinc/vectorox/internal/repository"
)

// Loader reads the pipe-delimited training format and feeds the knowledge
// store. Malformed lines are logged and skipped, a partially corrupt file
// still loads.
type Loader struct {
	logger    *slog.Logger
	knowledge repository.KnowledgeRepository
}

func NewLoader(logger *slog.Logger, knowledge repository.KnowledgeRepository) *Loader {
	return &Loader{
		logger:    logger.With("component", "loader"),
		knowledge: knowledge,
	}
}

// Load parses filename and stores every valid record; it returns the number
// of records stored.
func (that *Loader) Load(ctx context.Context, filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer file.Close()

	var records []entity.MoveRecord

	scanner := bufio.NewScanner(file)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record, err := parseLine(line)
		if err != nil {
			that.logger.Warn("skipping malformed line", "line", lineNumber, "error", err)
			continue
		}

		records = append(records, record)
	}

	if err = scanner.Err(); err != nil {
		return 0, fmt.Errorf("could not read %s: %w", filename, err)
	}

	if len(records) == 0 {
		return 0, nil
	}

	if err = that.knowledge.AddBatch(ctx, records); err != nil {
		return 0, fmt.Errorf("could not store records: %w", err)
	}

	that.logger.Info("loaded training data", "states", len(records), "file", filename)

	return len(records), nil
}

// parseLine decodes "state|row,col|outcome". The board size is recovered
// from the state length.
func parseLine(line string) (entity.MoveRecord, error) {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return entity.MoveRecord{}, fmt.Errorf("expected 3 fields, got %d", len(parts))
	}

	state := parts[0]

	size := int(math.Sqrt(float64(len(state))))
	if size*size != len(state) {
		return entity.MoveRecord{}, fmt.Errorf("state length %d is not a square", len(state))
	}

	rowStr, colStr, ok := strings.Cut(parts[1], ",")
	if !ok {
		return entity.MoveRecord{}, fmt.Errorf("malformed move %q", parts[1])
	}

	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("malformed row: %w", err)
	}

	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return entity.MoveRecord{}, fmt.Errorf("malformed col: %w", err)
	}

	return entity.MoveRecord{
		State:     state,
		Row:       row,
		Col:       col,
		Outcome:   parts[2],
		BoardSize: size,
	}, nil
}
