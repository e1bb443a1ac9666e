package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tradeRouter/internal/model"
)

// Store provides Postgres persistence for computed quotes.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InsertQuotes appends quote records.
func (s *Store) InsertQuotes(ctx context.Context, quotes []model.QuoteRecord) error {
	if len(quotes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(`
			INSERT INTO quotes (
				kind, chain_id, block_number, created_at, token_in, token_out,
				usd_in, usd_out, amount_out, swap_path, total_fee_usd,
				price_impact_usd, acceptable_price
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`,
			q.Kind,
			int64(q.ChainID),
			int64(q.BlockNumber),
			q.CreatedAt,
			q.TokenIn,
			q.TokenOut,
			q.UsdIn,
			q.UsdOut,
			q.AmountOut,
			q.SwapPath,
			q.TotalFeeUsd,
			q.PriceImpactUsd,
			nullIfEmpty(q.AcceptablePrice),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
