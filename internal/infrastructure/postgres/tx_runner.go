package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/control-equipos-api/internal/application/inventory"
	"github.com/jhoicas/control-equipos-api/internal/application/licensing"
	"github.com/jhoicas/control-equipos-api/internal/domain"
	"github.com/jhoicas/control-equipos-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and licensing.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ licensing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Si la transacción falla por
// serialización o deadlock la repite hasta maxRetries veces.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemTypeRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewStockRepository(tx), NewItemTypeRepository(tx))
	})
}

// RunLicensing inicia una transacción con los repos de lotes y asignaciones de licencia.
func (r *TxRunner) RunLicensing(ctx context.Context, fn func(
	poolRepo repository.LicensePoolRepository,
	asgRepo repository.AssignmentRepository,
) error) error {
	return r.withRetry(ctx, func(tx pgx.Tx) error {
		return fn(NewLicensePoolRepository(tx), NewAssignmentRepository(tx))
	})
}

func (r *TxRunner) withRetry(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			r.log.Debug().Int("intento", attempt).Err(err).Msg("reintentando transacción")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt*attempt) * 10 * time.Millisecond):
			}
		}
		err = r.once(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	r.log.Warn().Err(err).Int("reintentos", r.maxRetries).Msg("transacción abortada por concurrencia")
	return domain.Conflict("la operación entró en conflicto con otra transacción concurrente; reintente")
}

func (r *TxRunner) once(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
