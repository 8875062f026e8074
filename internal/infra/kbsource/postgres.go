package kbsource

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/faq-assistant/internal/domain/faq"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Querier is the subset of *pgxpool.Pool the source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads entries, with optional pgvector embeddings, from a table.
type PostgresSource struct {
	pool  Querier
	table string
}

// NewPostgresSource constructs the source. table must be a plain identifier.
func NewPostgresSource(pool Querier, table string) (*PostgresSource, error) {
	if table == "" {
		table = "faq_entries"
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid knowledge base table %q", table)
	}
	return &PostgresSource{pool: pool, table: table}, nil
}

// Load implements faq.Source.
func (s *PostgresSource) Load(ctx context.Context) ([]faq.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT question, answer, embedding FROM `+s.table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}
	defer rows.Close()

	records := make([]faq.Record, 0)
	for rows.Next() {
		var (
			record    faq.Record
			embedding *pgvector.Vector
		)
		if err := rows.Scan(&record.Entry.Question, &record.Entry.Answer, &embedding); err != nil {
			return nil, fmt.Errorf("scan knowledge base row: %w", err)
		}
		if embedding != nil {
			record.Vector = embedding.Slice()
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

var _ faq.Source = (*PostgresSource)(nil)
