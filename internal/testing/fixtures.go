package testing

import (
	"time"

	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
)

// TestUserID owns every fixture asset.
const TestUserID = "user-test-1"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

// NewBondFixtures returns bond holdings shaped like stored rows:
// quantity carries face value, value carries current value.
func NewBondFixtures() []domain.Asset {
	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	return []domain.Asset{
		{
			ID:       "bond-1",
			UserID:   TestUserID,
			Type:     domain.AssetTypeBond,
			Name:     "7.18% GOI 2033",
			Value:    dec("512000"),
			Quantity: nullDec("500000"),
			Meta: domain.Meta{
				"ticker":          "GOI33",
				"issuer":          "Government of India",
				"couponRate":      7.18,
				"maturityDate":    "2033-08-14",
				"type":            "Government",
				"status":          "Active",
				"yieldToMaturity": 6.9,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "bond-2",
			UserID:   TestUserID,
			Type:     domain.AssetTypeBond,
			Name:     "HDFC 8.05% 2029",
			Value:    dec("198000"),
			Quantity: nullDec("200000"),
			Meta: domain.Meta{
				"ticker":          "HDFC29",
				"issuer":          "HDFC Bank",
				"couponRate":      8.05,
				"maturityDate":    "2029-03-01",
				"type":            "Corporate",
				"status":          "Matured",
				"yieldToMaturity": 8.3,
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// NewShareFixtures returns share holdings with cost basis set.
func NewShareFixtures() []domain.Asset {
	now := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Asset{
		{
			ID:        "share-1",
			UserID:    TestUserID,
			Type:      domain.AssetTypeShare,
			Name:      "Apple Inc.",
			Value:     dec("2300"),
			CostBasis: nullDec("2000"),
			Quantity:  nullDec("10"),
			Meta:      domain.Meta{"symbol": "AAPL", "sector": "Technology", "holdingDuration": "Mid"},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "share-2",
			UserID:    TestUserID,
			Type:      domain.AssetTypeShare,
			Name:      "Infosys Ltd",
			Value:     dec("900"),
			CostBasis: nullDec("1000"),
			Quantity:  nullDec("50"),
			Meta:      domain.Meta{"symbol": "INFY", "sector": "Technology"},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// NewCryptoFixtures returns crypto holdings across two networks.
func NewCryptoFixtures() []domain.Asset {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return []domain.Asset{
		{
			ID:        "crypto-1",
			UserID:    TestUserID,
			Type:      domain.AssetTypeCrypto,
			Name:      "Bitcoin",
			Value:     dec("30000"),
			CostBasis: nullDec("20000"),
			Quantity:  nullDec("0.5"),
			Meta:      domain.Meta{"symbol": "BTC", "network": "Bitcoin", "priceChange24h": 2.0},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "crypto-2",
			UserID:    TestUserID,
			Type:      domain.AssetTypeCrypto,
			Name:      "Ether",
			Value:     dec("10000"),
			CostBasis: nullDec("12000"),
			Quantity:  nullDec("4"),
			Meta:      domain.Meta{"symbol": "ETH", "network": "Ethereum", "priceChange24h": -4.0},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
