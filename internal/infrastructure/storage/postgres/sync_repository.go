package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"vitaltrack/internal/domain/inventory"
)

// SyncRepository persists per-user inventory entities keyed by
// (user_id, sync_key) so repeated pushes of the same logical entity
// converge on one row.
type SyncRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSyncRepository(pool *pgxpool.Pool, log *slog.Logger) *SyncRepository {
	return &SyncRepository{
		pool: pool,
		log:  log,
	}
}

func normalizeTimes(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = now
	}
	return createdAt, updatedAt
}

func (r *SyncRepository) UpsertCategory(ctx context.Context, userID int, c inventory.Category) (string, error) {
	createdAt, updatedAt := normalizeTimes(c.CreatedAt, c.UpdatedAt)

	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories
			(user_id, sync_key, client_id, name, description, display_order,
			 is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, sync_key) DO UPDATE SET
			name          = EXCLUDED.name,
			description   = EXCLUDED.description,
			display_order = EXCLUDED.display_order,
			is_default    = EXCLUDED.is_default,
			is_active     = EXCLUDED.is_active,
			updated_at    = EXCLUDED.updated_at
		RETURNING id`,
		userID, c.SyncKey, c.ID, c.Name, c.Description, c.DisplayOrder,
		c.IsDefault, c.IsActive, createdAt, updatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert category: %w", err)
	}
	return strconv.Itoa(id), nil
}

func (r *SyncRepository) UpsertItem(ctx context.Context, userID int, it inventory.Item) (string, error) {
	createdAt, updatedAt := normalizeTimes(it.CreatedAt, it.UpdatedAt)

	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO items
			(user_id, sync_key, client_id, category_key, name, description,
			 quantity, unit, minimum_stock, expiry_date, brand, notes,
			 supplier_name, supplier_contact, purchase_link, image_uri,
			 is_critical, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (user_id, sync_key) DO UPDATE SET
			category_key     = EXCLUDED.category_key,
			name             = EXCLUDED.name,
			description      = EXCLUDED.description,
			quantity         = EXCLUDED.quantity,
			unit             = EXCLUDED.unit,
			minimum_stock    = EXCLUDED.minimum_stock,
			expiry_date      = EXCLUDED.expiry_date,
			brand            = EXCLUDED.brand,
			notes            = EXCLUDED.notes,
			supplier_name    = EXCLUDED.supplier_name,
			supplier_contact = EXCLUDED.supplier_contact,
			purchase_link    = EXCLUDED.purchase_link,
			image_uri        = EXCLUDED.image_uri,
			is_critical      = EXCLUDED.is_critical,
			is_active        = EXCLUDED.is_active,
			updated_at       = EXCLUDED.updated_at
		RETURNING id`,
		userID, it.SyncKey, it.ID, it.CategoryID, it.Name, it.Description,
		it.Quantity, it.Unit, it.MinimumStock, it.ExpiryDate, it.Brand, it.Notes,
		it.SupplierName, it.SupplierContact, it.PurchaseLink, it.ImageURI,
		it.IsCritical, it.IsActive, createdAt, updatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert item: %w", err)
	}
	return strconv.Itoa(id), nil
}

func (r *SyncRepository) UpsertOrder(ctx context.Context, userID int, o inventory.Order) (string, error) {
	createdAt, updatedAt := normalizeTimes(o.CreatedAt, o.UpdatedAt)

	lines, err := json.Marshal(o.Items)
	if err != nil {
		return "", fmt.Errorf("failed to encode order lines: %w", err)
	}

	var id int
	err = r.pool.QueryRow(ctx, `
		INSERT INTO orders
			(user_id, sync_key, client_id, order_ref, status, lines,
			 total_items, total_units, exported_at, ordered_at, received_at,
			 applied_at, declined_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16)
		ON CONFLICT (user_id, sync_key) DO UPDATE SET
			order_ref   = EXCLUDED.order_ref,
			status      = EXCLUDED.status,
			lines       = EXCLUDED.lines,
			total_items = EXCLUDED.total_items,
			total_units = EXCLUDED.total_units,
			exported_at = EXCLUDED.exported_at,
			ordered_at  = EXCLUDED.ordered_at,
			received_at = EXCLUDED.received_at,
			applied_at  = EXCLUDED.applied_at,
			declined_at = EXCLUDED.declined_at,
			is_active   = EXCLUDED.is_active,
			updated_at  = EXCLUDED.updated_at
		RETURNING id`,
		userID, o.SyncKey, o.ID, o.OrderID, string(o.Status), lines,
		o.TotalItems, o.TotalUnits, o.ExportedAt, o.OrderedAt, o.ReceivedAt,
		o.AppliedAt, o.DeclinedAt, o.IsActive, createdAt, updatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert order: %w", err)
	}
	return strconv.Itoa(id), nil
}

// DeleteEntity soft-deletes and records a tombstone. Both statements
// are no-ops for already-deleted entities, keeping deletes idempotent.
func (r *SyncRepository) DeleteEntity(ctx context.Context, userID int, kind inventory.Kind, syncKey string) error {
	var table string
	switch kind {
	case inventory.KindCategory:
		table = "categories"
	case inventory.KindItem:
		table = "items"
	case inventory.KindOrder:
		table = "orders"
	default:
		return inventory.ErrUnknownKind
	}

	_, err := r.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND sync_key = $2`, table),
		userID, syncKey)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s: %w", kind, err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tombstones (user_id, entity_kind, sync_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, entity_kind, sync_key) DO NOTHING`,
		userID, string(kind), syncKey)
	if err != nil {
		return fmt.Errorf("failed to record tombstone: %w", err)
	}
	return nil
}

func (r *SyncRepository) ListCategories(ctx context.Context, userID int, since *time.Time) ([]inventory.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, sync_key, name, description, display_order,
		       is_default, is_active, created_at, updated_at
		FROM categories
		WHERE user_id = $1 AND is_active = TRUE
		  AND ($2::timestamptz IS NULL OR updated_at > $2)
		ORDER BY display_order, name`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []inventory.Category
	for rows.Next() {
		var c inventory.Category
		if err := rows.Scan(&c.ID, &c.SyncKey, &c.Name, &c.Description,
			&c.DisplayOrder, &c.IsDefault, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListItems(ctx context.Context, userID int, since *time.Time) ([]inventory.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, sync_key, category_key, name, description,
		       quantity, unit, minimum_stock, expiry_date, brand, notes,
		       supplier_name, supplier_contact, purchase_link, image_uri,
		       is_critical, is_active, created_at, updated_at
		FROM items
		WHERE user_id = $1 AND is_active = TRUE
		  AND ($2::timestamptz IS NULL OR updated_at > $2)
		ORDER BY name`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var out []inventory.Item
	for rows.Next() {
		var it inventory.Item
		if err := rows.Scan(&it.ID, &it.SyncKey, &it.CategoryID, &it.Name, &it.Description,
			&it.Quantity, &it.Unit, &it.MinimumStock, &it.ExpiryDate, &it.Brand, &it.Notes,
			&it.SupplierName, &it.SupplierContact, &it.PurchaseLink, &it.ImageURI,
			&it.IsCritical, &it.IsActive, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListOrders(ctx context.Context, userID int, since *time.Time) ([]inventory.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT client_id, sync_key, order_ref, status, lines,
		       total_items, total_units, exported_at, ordered_at,
		       received_at, applied_at, declined_at, is_active,
		       created_at, updated_at
		FROM orders
		WHERE user_id = $1 AND is_active = TRUE
		  AND ($2::timestamptz IS NULL OR updated_at > $2)
		ORDER BY created_at DESC`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var out []inventory.Order
	for rows.Next() {
		var (
			o      inventory.Order
			status string
			lines  []byte
		)
		if err := rows.Scan(&o.ID, &o.SyncKey, &o.OrderID, &status, &lines,
			&o.TotalItems, &o.TotalUnits, &o.ExportedAt, &o.OrderedAt,
			&o.ReceivedAt, &o.AppliedAt, &o.DeclinedAt, &o.IsActive,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		o.Status = inventory.OrderStatus(status)
		if len(lines) > 0 {
			if err := json.Unmarshal(lines, &o.Items); err != nil {
				return nil, fmt.Errorf("failed to decode order lines: %w", err)
			}
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SyncRepository) ListDeleted(ctx context.Context, userID int, since *time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT sync_key FROM tombstones
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR deleted_at > $2)`,
		userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query tombstones: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan tombstone: %w", err)
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func (r *SyncRepository) RecordActivity(ctx context.Context, userID int, e inventory.ActivityEntry) error {
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_log (id, user_id, action, entity_kind, entity_id, detail, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, userID, e.Action, string(e.EntityKind), e.EntityID, e.Detail, occurredAt)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}
