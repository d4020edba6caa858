package operator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// PostgresStore reads groups and account memberships from PostgreSQL via
// database/sql. Membership lives in an account_groups join table; the
// queries stay read-only because this service never administers operators.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByIDAndShop(ctx context.Context, groupID, shopID string) (*Group, error) {
	var group Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id, shop_id, name FROM operator_groups WHERE id = $1 AND shop_id = $2`,
		groupID, shopID,
	).Scan(&group.ID, &group.ShopID, &group.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &group, nil
}

func (s *PostgresStore) FindByIDInGroup(ctx context.Context, accountID, groupID string) (*Account, error) {
	var (
		account  Account
		groupIDs pq.StringArray
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, COALESCE(array_agg(m.group_id), '{}')
		FROM accounts a
		JOIN account_groups m ON m.account_id = a.id
		WHERE a.id = $1
		GROUP BY a.id
		HAVING bool_or(m.group_id = $2)`,
		accountID, groupID,
	).Scan(&account.ID, &groupIDs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account in group: %w", err)
	}
	account.GroupIDs = groupIDs
	return &account, nil
}
