package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"vidtube/internal/domain"
	"vidtube/internal/repository"
)

const createSubscriptionsTable = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	subscriber_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	channel_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at DATETIME NOT NULL,
	UNIQUE (subscriber_id, channel_id)
);
`

type SubscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSubscriptionsTable); err != nil {
		return fmt.Errorf("create subscriptions table: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`,
		subscriberID, channelID,
	)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unsubscribe rows: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO subscriptions (subscriber_id, channel_id, created_at)
VALUES (?, ?, ?)`,
		subscriberID, channelID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("subscribe: %w", err)
	}
	return true, nil
}

func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ? AND channel_id = ?`,
		subscriberID, channelID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check subscription: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM subscriptions WHERE channel_id = ?`,
		channelID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = ?`,
		subscriberID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]domain.User, error) {
	return r.listUsers(ctx, `
SELECT u.id, u.username, u.full_name, u.avatar_url
FROM subscriptions s
JOIN users u ON u.id = s.subscriber_id
WHERE s.channel_id = ?
ORDER BY s.created_at DESC`,
		channelID,
	)
}

func (r *SubscriptionRepository) ListChannels(ctx context.Context, subscriberID int64) ([]domain.User, error) {
	return r.listUsers(ctx, `
SELECT u.id, u.username, u.full_name, u.avatar_url
FROM subscriptions s
JOIN users u ON u.id = s.channel_id
WHERE s.subscriber_id = ?
ORDER BY s.created_at DESC`,
		subscriberID,
	)
}

func (r *SubscriptionRepository) listUsers(ctx context.Context, query string, arg int64) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list subscription users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.FullName, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan subscription user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscription users: %w", err)
	}
	return users, nil
}
