package assets

import (
	"github.com/aetherwealth/aether/internal/domain"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

// DemoAssets returns the demo holdings for one class (nil for classes
// without demo data). Bond quantity carries face value.
func DemoAssets(t domain.AssetType) []domain.Asset {
	switch t {
	case domain.AssetTypeBond:
		return []domain.Asset{
			{Type: t, Name: "Government of India 7.26% 2030", Value: d("5120000"), Quantity: nd("5000000"),
				Meta: domain.Meta{"ticker": "GOI-2030", "issuer": "Government of India", "couponRate": 7.26,
					"maturityDate": "2030-08-22", "type": "Government", "status": "Active", "yieldToMaturity": 7.15}},
			{Type: t, Name: "Indian Treasury Bond 6.8% 2032", Value: d("3050000"), Quantity: nd("3000000"),
				Meta: domain.Meta{"ticker": "T-Bond-2032", "issuer": "Reserve Bank of India", "couponRate": 6.8,
					"maturityDate": "2032-05-15", "type": "Treasury", "status": "Active", "yieldToMaturity": 6.75}},
			{Type: t, Name: "Mumbai Municipal Bond 6.5%", Value: d("1010000"), Quantity: nd("1000000"),
				Meta: domain.Meta{"ticker": "BMC-2028", "issuer": "Brihanmumbai Municipal Corp", "couponRate": 6.5,
					"maturityDate": "2028-03-31", "type": "Municipal", "status": "Active", "yieldToMaturity": 6.45}},
		}
	case domain.AssetTypeShare:
		return []domain.Asset{
			{Type: t, Name: "Reliance Industries", Value: d("433575"), CostBasis: nd("367500"), Quantity: nd("150"),
				Meta: domain.Meta{"symbol": "RELIANCE", "sector": "Energy", "holdingDuration": "Mid"}},
			{Type: t, Name: "Tata Consultancy Services", Value: d("306060"), CostBasis: nd("268000"), Quantity: nd("80"),
				Meta: domain.Meta{"symbol": "TCS", "sector": "Technology", "holdingDuration": "Long"}},
			{Type: t, Name: "Infosys", Value: d("325060"), CostBasis: nd("296000"), Quantity: nd("200"),
				Meta: domain.Meta{"symbol": "INFY", "sector": "Technology", "holdingDuration": "Short"}},
		}
	case domain.AssetTypeCrypto:
		return []domain.Asset{
			{Type: t, Name: "Bitcoin", Value: d("2750000"), CostBasis: nd("2100000"), Quantity: nd("0.5"),
				Meta: domain.Meta{"symbol": "BTC", "network": "Bitcoin", "wallet": "Ledger", "priceChange24h": 1.8}},
			{Type: t, Name: "Ethereum", Value: d("820000"), CostBasis: nd("900000"), Quantity: nd("3"),
				Meta: domain.Meta{"symbol": "ETH", "network": "Ethereum", "wallet": "MetaMask", "priceChange24h": -2.4}},
			{Type: t, Name: "Solana", Value: d("150000"), CostBasis: nd("95000"), Quantity: nd("12"),
				Meta: domain.Meta{"symbol": "SOL", "network": "Solana", "wallet": "Phantom", "priceChange24h": 4.1}},
		}
	}
	return nil
}
