package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"sku-pricing-lab/internal/domain"
	"sku-pricing-lab/internal/storage"
)

// DecisionStore implements storage.DecisionStore using PostgreSQL.
// Decisions are keyed by (run_id, sku_id).
type DecisionStore struct {
	pool *Pool
}

// NewDecisionStore creates a new DecisionStore.
func NewDecisionStore(pool *Pool) *DecisionStore {
	return &DecisionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// Insert adds one decision. Returns ErrDuplicateKey if (run_id, sku_id) exists.
func (s *DecisionStore) Insert(ctx context.Context, runID string, d *domain.PricingDecision) error {
	query := `
		INSERT INTO pricing_decisions (run_id, sku_id, suggested_price, reason)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, runID, d.SKUID, d.SuggestedPrice, d.Reason)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert pricing decision: %w", err)
	}
	return nil
}

// InsertBulk adds multiple decisions atomically. Fails entire batch on any duplicate.
func (s *DecisionStore) InsertBulk(ctx context.Context, runID string, ds []*domain.PricingDecision) error {
	if len(ds) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO pricing_decisions (run_id, sku_id, suggested_price, reason)
		VALUES ($1, $2, $3, $4)
	`

	for _, d := range ds {
		_, err := tx.Exec(ctx, query, runID, d.SKUID, d.SuggestedPrice, d.Reason)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pricing decision in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByRun retrieves all decisions for a run ordered by sku_id.
func (s *DecisionStore) GetByRun(ctx context.Context, runID string) ([]*domain.PricingDecision, error) {
	query := `
		SELECT sku_id, suggested_price, reason
		FROM pricing_decisions
		WHERE run_id = $1
		ORDER BY sku_id ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get pricing decisions by run: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

func scanDecisions(rows pgx.Rows) ([]*domain.PricingDecision, error) {
	var decisions []*domain.PricingDecision

	for rows.Next() {
		var d domain.PricingDecision

		if err := rows.Scan(&d.SKUID, &d.SuggestedPrice, &d.Reason); err != nil {
			return nil, fmt.Errorf("scan pricing decision row: %w", err)
		}

		decisions = append(decisions, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing decision rows: %w", err)
	}

	return decisions, nil
}
