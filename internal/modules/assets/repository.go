// Package assets provides storage for holdings of every asset class.
// Rows live in wealth.db (assets table); class-specific attributes are kept
// as a JSON object in the meta column.
package assets

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aetherwealth/aether/internal/database"
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Repository handles asset database operations.
// Every query is scoped by user_id so one user never reads another's rows.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new asset repository over wealth.db.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "assets").Logger(),
	}
}

const assetColumns = "id, user_id, type, name, value, cost_basis, quantity, meta, created_at, updated_at"

// ListByType returns the user's holdings of one class, highest value first.
func (r *Repository) ListByType(ctx context.Context, userID string, t domain.AssetType) ([]domain.Asset, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE user_id = ? AND type = ?",
		userID, string(t))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s assets: %w", t, err)
	}
	defer rows.Close()

	result := make([]domain.Asset, 0)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s assets: %w", t, err)
	}

	// Values are stored as decimal strings, so order in Go rather than SQL.
	sortByValueDesc(result)
	return result, nil
}

// Get returns one asset owned by userID.
func (r *Repository) Get(ctx context.Context, userID, id string) (*domain.Asset, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE user_id = ? AND id = ?", userID, id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a new asset, assigning ID and timestamps.
func (r *Repository) Create(ctx context.Context, a *domain.Asset) error {
	return r.insert(ctx, r.db, a)
}

func (r *Repository) insert(ctx context.Context, db execer, a *domain.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	a.CreatedAt, a.UpdatedAt = now, now

	meta, err := encodeMeta(a.Meta)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO assets (id, user_id, type, name, value, cost_basis, quantity, meta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.UserID, string(a.Type), a.Name, a.Value.String(), a.CostBasis, a.Quantity, meta,
		now.Unix(), now.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert asset %s: %w", a.ID, err)
	}

	r.log.Debug().Str("id", a.ID).Str("type", string(a.Type)).Msg("Asset created")
	return nil
}

// Update rewrites the mutable fields of an existing asset of the same class.
func (r *Repository) Update(ctx context.Context, a *domain.Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	meta, err := encodeMeta(a.Meta)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Truncate(time.Second)

	res, err := r.db.ExecContext(ctx, `
		UPDATE assets
		SET name = ?, value = ?, cost_basis = ?, quantity = ?, meta = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND type = ?
	`, a.Name, a.Value.String(), a.CostBasis, a.Quantity, meta, now.Unix(),
		a.ID, a.UserID, string(a.Type))
	if err != nil {
		return fmt.Errorf("failed to update asset %s: %w", a.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

// Delete removes one asset of class t owned by userID.
func (r *Repository) Delete(ctx context.Context, userID string, t domain.AssetType, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM assets WHERE id = ? AND user_id = ? AND type = ?", id, userID, string(t))
	if err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TotalsByType sums current value per class for the user.
// Classes without holdings are present with a zero total.
func (r *Repository) TotalsByType(ctx context.Context, userID string) (map[domain.AssetType]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT type, value FROM assets WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to total assets: %w", err)
	}
	defer rows.Close()

	totals := make(map[domain.AssetType]decimal.Decimal, len(domain.AllAssetTypes))
	for _, t := range domain.AllAssetTypes {
		totals[t] = decimal.Zero
	}
	for rows.Next() {
		var t string
		var v decimal.Decimal
		if err := rows.Scan(&t, &v); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan asset value")
			continue
		}
		totals[domain.AssetType(t)] = totals[domain.AssetType(t)].Add(v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset totals: %w", err)
	}
	return totals, nil
}

// MarkSeeded records that demo data was seeded for (user, class).
// It reports false when the pair had already been seeded.
func (r *Repository) MarkSeeded(ctx context.Context, userID string, t domain.AssetType) (bool, error) {
	return markSeeded(ctx, r.db, userID, t)
}

// SeedDemo marks (user, class) seeded and inserts demo in one transaction.
// When any insert fails nothing is kept, so a later call seeds again. It
// reports false without inserting when the pair had already been seeded.
func (r *Repository) SeedDemo(ctx context.Context, userID string, t domain.AssetType, demo []domain.Asset) (bool, error) {
	seeded := false
	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		first, err := markSeeded(ctx, tx, userID, t)
		if err != nil || !first {
			return err
		}
		for i := range demo {
			a := demo[i]
			a.UserID = userID
			a.Type = t
			if err := r.insert(ctx, tx, &a); err != nil {
				return fmt.Errorf("failed to seed %s demo data: %w", t, err)
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}

func markSeeded(ctx context.Context, db execer, userID string, t domain.AssetType) (bool, error) {
	res, err := db.ExecContext(ctx,
		"INSERT OR IGNORE INTO asset_seeds (user_id, type, seeded_at) VALUES (?, ?, ?)",
		userID, string(t), time.Now().Unix())
	if err != nil {
		return false, fmt.Errorf("failed to mark %s seeded: %w", t, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (domain.Asset, error) {
	var (
		a                    domain.Asset
		typ, meta            string
		createdAt, updatedAt int64
	)
	err := row.Scan(&a.ID, &a.UserID, &typ, &a.Name, &a.Value, &a.CostBasis, &a.Quantity,
		&meta, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return a, err
		}
		return a, fmt.Errorf("failed to scan asset: %w", err)
	}
	a.Type = domain.AssetType(typ)
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	a.Meta = domain.Meta{}
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &a.Meta); err != nil {
			return a, fmt.Errorf("failed to decode meta for asset %s: %w", a.ID, err)
		}
	}
	return a, nil
}

func encodeMeta(m domain.Meta) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode asset meta: %w", err)
	}
	return string(b), nil
}

func sortByValueDesc(list []domain.Asset) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Value.GreaterThan(list[j].Value)
	})
}
