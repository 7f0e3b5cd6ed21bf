package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/placeshare/api/internal/metrics"
	"github.com/placeshare/api/internal/model"
)

// DefaultTxTimeout bounds a coordinator transaction when none is configured
const DefaultTxTimeout = 10 * time.Second

// PlaceTx stages the writes of one place/user transaction.
// Nothing is visible until Commit succeeds; Rollback discards staged writes.
type PlaceTx interface {
	InsertPlace(ctx context.Context, place *model.Place) error
	AddUserPlace(ctx context.Context, userID, placeID string) error
	DeletePlace(ctx context.Context, placeID string) error
	RemoveUserPlace(ctx context.Context, userID, placeID string) error
	Commit(ctx context.Context) error
	Rollback() error
}

// UnitOfWork opens place/user transactions
type UnitOfWork interface {
	Begin(ctx context.Context) (PlaceTx, error)
}

// Coordinator keeps a place and its creator's place list consistent.
// Each operation writes both documents or neither.
type Coordinator struct {
	uow     UnitOfWork
	timeout time.Duration
	logger  *slog.Logger
}

// CoordinatorConfig holds configuration for the coordinator
type CoordinatorConfig struct {
	UnitOfWork UnitOfWork
	Timeout    time.Duration
	Logger     *slog.Logger
}

// NewCoordinator creates a new coordinator
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		uow:     cfg.UnitOfWork,
		timeout: timeout,
		logger:  logger,
	}
}

// CreatePlace inserts place and appends its id to the creator's places.
// Any failure is ErrCreationFailed and leaves both documents unchanged.
func (c *Coordinator) CreatePlace(ctx context.Context, place *model.Place) error {
	err := c.run(ctx, "create_place", func(ctx context.Context, tx PlaceTx) error {
		if err := tx.InsertPlace(ctx, place); err != nil {
			return err
		}
		return tx.AddUserPlace(ctx, place.Creator, place.ID)
	})
	if err != nil {
		return internalError(ErrCreationFailed, "PLACE_CREATE_TX_FAILED", err,
			"place_id", place.ID, "creator", place.Creator)
	}
	return nil
}

// DeletePlace removes place and pulls its id from the creator's places.
// Any failure is ErrDeletionFailed and leaves both documents unchanged.
func (c *Coordinator) DeletePlace(ctx context.Context, place *model.Place) error {
	err := c.run(ctx, "delete_place", func(ctx context.Context, tx PlaceTx) error {
		if err := tx.DeletePlace(ctx, place.ID); err != nil {
			return err
		}
		return tx.RemoveUserPlace(ctx, place.Creator, place.ID)
	})
	if err != nil {
		return internalError(ErrDeletionFailed, "PLACE_DELETE_TX_FAILED", err,
			"place_id", place.ID, "creator", place.Creator)
	}
	return nil
}

// run stages writes and commits them under the coordinator timeout.
// There is no retry.
func (c *Coordinator) run(ctx context.Context, op string, stage func(context.Context, PlaceTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	tx, err := c.uow.Begin(ctx)
	if err != nil {
		c.record(op, start, err)
		return err
	}

	if err := stage(ctx, tx); err != nil {
		_ = tx.Rollback()
		c.record(op, start, err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback()
		c.record(op, start, err)
		return err
	}

	c.record(op, start, nil)
	return nil
}

func (c *Coordinator) record(op string, start time.Time, err error) {
	outcome := metrics.OutcomeCommitted
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outcome = metrics.OutcomeTimeout
	default:
		outcome = metrics.OutcomeRolledBack
	}
	metrics.RecordTransaction(op, outcome, time.Since(start))

	if err != nil {
		c.logger.Warn("place transaction failed", "operation", op, "outcome", outcome, "error", err)
	}
}
