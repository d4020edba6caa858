package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orderflow/internal/order/models"
)

// Postgres persists orders in PostgreSQL via pgx. Every mutation is a single
// conditional UPDATE ... RETURNING keyed by order id, which is what gives the
// engine its no-interleaving guarantee for concurrent writers.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const orderColumns = `id, shop_id, account_id, email, alternative_phone,
	preferred_delivery_date, delivery_urgency, fulfillment_manager,
	delivery_representative, custom_fields, notes, workflow_status,
	workflow_history, language, created_at, updated_at`

func (s *Postgres) Insert(ctx context.Context, order *models.Order) error {
	customFields, err := json.Marshal(order.CustomFields)
	if err != nil {
		return fmt.Errorf("marshal custom fields: %w", err)
	}
	notes, err := json.Marshal(order.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	history, err := json.Marshal(order.Workflow.History)
	if err != nil {
		return fmt.Errorf("marshal workflow history: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		order.ID, order.ShopID, order.AccountID, order.Email, order.AlternativePhone,
		order.PreferredDeliveryDate, order.DeliveryUrgency, order.FulfillmentManager,
		order.DeliveryRepresentative, customFields, notes, order.Workflow.Status,
		history, order.Language, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *Postgres) UpdateOne(ctx context.Context, id string, patch *models.Patch) (*models.Order, error) {
	set, args, err := buildSet(patch)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d RETURNING `+orderColumns,
		strings.Join(set, ", "), len(args))

	row := s.pool.QueryRow(ctx, query, args...)
	order, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// buildSet translates a patch into SET clauses. Workflow history appends use
// jsonb concatenation so the append happens inside the same atomic UPDATE.
func buildSet(patch *models.Patch) ([]string, []any, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("updated_at", patch.UpdatedAt)
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.AccountID != nil {
		add("account_id", *patch.AccountID)
	}
	if patch.AlternativePhone != nil {
		add("alternative_phone", *patch.AlternativePhone)
	}
	if patch.PreferredDeliveryDate != nil {
		add("preferred_delivery_date", *patch.PreferredDeliveryDate)
	}
	if patch.DeliveryUrgency != nil {
		add("delivery_urgency", *patch.DeliveryUrgency)
	}
	if patch.CustomFields != nil {
		raw, err := json.Marshal(patch.CustomFields)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal custom fields: %w", err)
		}
		add("custom_fields", raw)
	}
	if patch.Notes != nil {
		raw, err := json.Marshal(patch.Notes)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal notes: %w", err)
		}
		add("notes", raw)
	}
	if patch.Status != nil {
		add("workflow_status", *patch.Status)
		if patch.AppendWorkflow {
			args = append(args, *patch.Status)
			set = append(set, fmt.Sprintf("workflow_history = workflow_history || to_jsonb($%d::text)", len(args)))
		}
	}
	if patch.FulfillmentManager != nil {
		add("fulfillment_manager", *patch.FulfillmentManager)
	}
	if patch.DeliveryRepresentative != nil {
		add("delivery_representative", *patch.DeliveryRepresentative)
	}
	return set, args, nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	var (
		order        models.Order
		deliveryDate *time.Time
		customFields []byte
		notes        []byte
		history      []byte
	)
	err := row.Scan(
		&order.ID, &order.ShopID, &order.AccountID, &order.Email, &order.AlternativePhone,
		&deliveryDate, &order.DeliveryUrgency, &order.FulfillmentManager,
		&order.DeliveryRepresentative, &customFields, &notes, &order.Workflow.Status,
		&history, &order.Language, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.PreferredDeliveryDate = deliveryDate
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &order.CustomFields); err != nil {
			return nil, fmt.Errorf("unmarshal custom fields: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &order.Notes); err != nil {
			return nil, fmt.Errorf("unmarshal notes: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &order.Workflow.History); err != nil {
			return nil, fmt.Errorf("unmarshal workflow history: %w", err)
		}
	}
	return &order, nil
}
