// Package domain holds the asset model shared by storage, providers and pages.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetType tags an asset class.
type AssetType string

const (
	AssetTypeBond       AssetType = "BOND"
	AssetTypeShare      AssetType = "SHARE"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeRealEstate AssetType = "REAL_ESTATE"
	AssetTypeBusiness   AssetType = "BUSINESS"
)

// AllAssetTypes lists every stored asset class, in display order.
var AllAssetTypes = []AssetType{
	AssetTypeRealEstate,
	AssetTypeShare,
	AssetTypeBond,
	AssetTypeCrypto,
	AssetTypeBusiness,
}

// Valid reports whether t is one of the known asset classes.
func (t AssetType) Valid() bool {
	for _, known := range AllAssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t AssetType) String() string { return string(t) }

// Slug is the lower-case, dash-separated form used in URLs.
func (t AssetType) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), "_", "-")
}

// ParseAssetType accepts the canonical tag ("SHARE") or its URL slug
// ("share", "real-estate"), case-insensitively.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAssetType, s)
	}
	return t, nil
}

// AssetClassConfig binds an asset class to the strings shown on its page.
// Values are built once per route and never modified.
type AssetClassConfig struct {
	Type        AssetType
	Title       string
	Description string
}

// NewAssetClassConfig validates and builds a page configuration.
func NewAssetClassConfig(t AssetType, title, description string) (AssetClassConfig, error) {
	if !t.Valid() {
		return AssetClassConfig{}, fmt.Errorf("%w: %q", ErrUnsupportedAssetType, t)
	}
	if strings.TrimSpace(title) == "" {
		return AssetClassConfig{}, fmt.Errorf("asset page for %s: title is required", t)
	}
	if strings.TrimSpace(description) == "" {
		return AssetClassConfig{}, fmt.Errorf("asset page for %s: description is required", t)
	}
	return AssetClassConfig{Type: t, Title: title, Description: description}, nil
}

// Asset is one holding of any class. Class-specific attributes live in Meta.
type Asset struct {
	ID        string              `json:"id"`
	UserID    string              `json:"user_id"`
	Type      AssetType           `json:"type"`
	Name      string              `json:"name"`
	Value     decimal.Decimal     `json:"value"`
	CostBasis decimal.NullDecimal `json:"cost_basis"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	Meta      Meta                `json:"meta"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// Validate checks the fields every asset needs before it is stored.
func (a *Asset) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedAssetType, a.Type)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidAsset)
	}
	if a.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidAsset)
	}
	if a.Quantity.Valid && a.Quantity.Decimal.IsNegative() {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidAsset)
	}
	if err := CheckAmount(a.Value); err != nil {
		return fmt.Errorf("%w: value %v", ErrInvalidAsset, err)
	}
	if a.CostBasis.Valid {
		if err := CheckAmount(a.CostBasis.Decimal); err != nil {
			return fmt.Errorf("%w: cost basis %v", ErrInvalidAsset, err)
		}
	}
	if a.Quantity.Valid {
		if err := CheckAmount(a.Quantity.Decimal); err != nil {
			return fmt.Errorf("%w: quantity %v", ErrInvalidAsset, err)
		}
	}
	return nil
}

const (
	// MaxAmountExponent bounds the decimal exponent of stored amounts.
	MaxAmountExponent = 18
)

// MaxAmount is the exclusive upper bound on the magnitude of stored amounts.
var MaxAmount = decimal.New(1, 15)

var (
	errAmountPrecision = errors.New("has too many digits")
	errAmountRange     = errors.New("must be below 1e15")
)

// CheckAmount rejects amounts whose magnitude or precision cannot be stored
// and displayed. The exponent is checked first so that huge exponents are
// never expanded.
func CheckAmount(d decimal.Decimal) error {
	if exp := d.Exponent(); exp > MaxAmountExponent || exp < -MaxAmountExponent {
		return errAmountPrecision
	}
	if d.Abs().GreaterThanOrEqual(MaxAmount) {
		return errAmountRange
	}
	return nil
}

// Meta holds class-specific asset attributes decoded from JSON.
type Meta map[string]any

// Clone returns a deep copy of m. Nested objects and arrays decoded from
// JSON are copied too.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case Meta:
		return v.Clone()
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// String returns the string stored under key, or "".
func (m Meta) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the number stored under key. Numeric strings are accepted.
func (m Meta) Float(key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	}
	return 0
}

// Date parses an ISO date (2006-01-02) or RFC3339 timestamp stored under key.
func (m Meta) Date(key string) (time.Time, bool) {
	s := m.String(key)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
