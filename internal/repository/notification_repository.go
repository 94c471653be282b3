package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foundit/lostfound-service/internal/domain"
)

// NotificationRepository manages per-account inbox entries.
type NotificationRepository interface {
	// Append inserts n. When keep > 0 only the newest keep entries of the account survive.
	Append(ctx context.Context, n *domain.Notification, keep int) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error)
	ClearByAccount(ctx context.Context, accountID string) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Append(ctx context.Context, n *domain.Notification, keep int) error {
	const insert = `
        INSERT INTO notifications (account_id, message)
        VALUES ($1,$2)
        RETURNING id, created_at`
	q := conn(ctx, r.pool)
	if err := q.QueryRow(ctx, insert, n.AccountID, n.Message).Scan(&n.ID, &n.Date); err != nil {
		return mapError(err)
	}
	if keep <= 0 {
		return nil
	}

	const trim = `
        DELETE FROM notifications
        WHERE account_id=$1 AND id NOT IN (
            SELECT id FROM notifications WHERE account_id=$1
            ORDER BY seq DESC LIMIT $2)`
	_, err := q.Exec(ctx, trim, n.AccountID, keep)
	return mapError(err)
}

func (r *notificationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, account_id, message, created_at
        FROM notifications WHERE account_id=$1 ORDER BY seq ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.Date); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, mapError(rows.Err())
}

func (r *notificationRepository) ClearByAccount(ctx context.Context, accountID string) (int64, error) {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM notifications WHERE account_id=$1`, accountID)
	if err != nil {
		return 0, mapError(err)
	}
	return cmd.RowsAffected(), nil
}
