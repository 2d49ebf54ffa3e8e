package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/vectorox/internal/entity"
)

const (
	knowledgeKeyPrefix  = "knowledge:"
	knowledgeKeyPattern = knowledgeKeyPrefix + "*"

	scanBatchSize = 200
)

// KnowledgeRepository stores recorded moves keyed by the position they were
// played from and answers nearest-neighbor queries over the position
// embeddings. The whole keyspace is scanned per query, which is fine for
// the self-play corpora this serves.
type KnowledgeRepository interface {
	Add(ctx context.Context, record entity.MoveRecord) error
	AddBatch(ctx context.Context, records []entity.MoveRecord) error
	Query(ctx context.Context, vector []float64, limit int) ([]entity.MoveRecord, error)
	Count(ctx context.Context) (int64, error)
}

type dbKnowledge struct {
	client *redis.Client
}

func NewKnowledgeRepository(client *redis.Client) KnowledgeRepository {
	return &dbKnowledge{
		client: client,
	}
}

func (that *dbKnowledge) Add(ctx context.Context, record entity.MoveRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal move record: %w", err)
	}

	if err = that.client.Set(ctx, recordKey(record), recordJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set move record: %w", err)
	}

	return nil
}

func (that *dbKnowledge) AddBatch(ctx context.Context, records []entity.MoveRecord) error {
	pipe := that.client.Pipeline()

	for _, record := range records {
		recordJSON, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("could not marshal move record: %w", err)
		}

		pipe.Set(ctx, recordKey(record), recordJSON, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store move records: %w", err)
	}

	return nil
}

// Query ranks every stored record by cosine similarity to the given vector
// and returns the top limit records, most similar first.
func (that *dbKnowledge) Query(ctx context.Context, vector []float64, limit int) ([]entity.MoveRecord, error) {
	type scored struct {
		record     entity.MoveRecord
		similarity float64
	}

	var ranked []scored

	var cursor uint64
	for {
		keys, nextCursor, err := that.client.Scan(ctx, cursor, knowledgeKeyPattern, scanBatchSize).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan knowledge keys: %w", err)
		}

		if len(keys) > 0 {
			values, err := that.client.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, fmt.Errorf("failed to get move records: %w", err)
			}

			for _, value := range values {
				raw, ok := value.(string)
				if !ok {
					continue
				}

				var record entity.MoveRecord
				if err = json.Unmarshal([]byte(raw), &record); err != nil {
					return nil, fmt.Errorf("failed to unmarshal move record: %w", err)
				}

				ranked = append(ranked, scored{
					record:     record,
					similarity: cosineSimilarity(vector, record.Embedding()),
				})
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}

	records := make([]entity.MoveRecord, 0, limit)
	for _, item := range ranked[:limit] {
		records = append(records, item.record)
	}

	return records, nil
}

func (that *dbKnowledge) Count(ctx context.Context) (int64, error) {
	var count int64

	var cursor uint64
	for {
		keys, nextCursor, err := that.client.Scan(ctx, cursor, knowledgeKeyPattern, scanBatchSize).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan knowledge keys: %w", err)
		}

		count += int64(len(keys))

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return count, nil
}

// recordKey deduplicates records naturally: the same move from the same
// position overwrites itself.
func recordKey(record entity.MoveRecord) string {
	return fmt.Sprintf("%s%s:%d:%d", knowledgeKeyPrefix, record.State, record.Row, record.Col)
}

// cosineSimilarity returns 0 for vectors of different lengths or zero
// magnitude, so an empty board simply matches nothing in particular.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
