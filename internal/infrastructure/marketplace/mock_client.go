package marketplace

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/jhoicas/inventario-sync/internal/application/snapshot"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

var (
	_ snapshot.MarketplaceClient = (*MockClient)(nil)
	_ snapshot.LookupFactory     = (*MockClient)(nil)
	_ snapshot.IdentifierLookup  = (*MockClient)(nil)
)

// MockClient genera inventario sintético determinista, sin red. Sirve para demos y
// para probar el pipeline completo contra una base real.
type MockClient struct {
	SKUsPerMarket int
	Now           func() time.Time
}

// NewMockClient construye el mock con skus SKUs por mercado (0 usa 25).
func NewMockClient(skus int) *MockClient {
	if skus <= 0 {
		skus = 25
	}
	return &MockClient{SKUsPerMarket: skus, Now: time.Now}
}

func hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func mockSKU(i int) string { return fmt.Sprintf("MOCK-%04d", i) }

func mockASIN(sku string) string { return fmt.Sprintf("B0%08X", hash(sku)&0xFFFFFFFF) }

// FetchPage devuelve la página indicada por el token (índice del primer SKU).
func (m *MockClient) FetchPage(ctx context.Context, market, nextToken string, pageSize int) (snapshot.Page, error) {
	if err := ctx.Err(); err != nil {
		return snapshot.Page{}, err
	}
	if _, err := MarketplaceID(market); err != nil {
		return snapshot.Page{}, err
	}
	start := 0
	if nextToken != "" {
		n, err := strconv.Atoi(nextToken)
		if err != nil || n < 0 {
			return snapshot.Page{}, fmt.Errorf("token inválido %q", nextToken)
		}
		start = n
	}
	if pageSize <= 0 {
		pageSize = snapshot.DefaultPageSize
	}
	end := start + pageSize
	if end > m.SKUsPerMarket {
		end = m.SKUsPerMarket
	}

	stamp := m.Now().UTC().Truncate(time.Hour).Format(time.RFC3339)
	var page snapshot.Page
	for i := start; i < end; i++ {
		sku := mockSKU(i)
		h := hash(market + "|" + sku)
		fulfillable := int64(h % 200)
		inbound := int64((h >> 8) % 20)
		reserved := int64((h >> 16) % 10)
		unfulfillable := int64((h >> 24) % 5)
		r := entity.InventoryRecord{
			SellerSKU: sku,
			Quantities: entity.Quantities{
				Fulfillable:     fulfillable,
				Unfulfillable:   unfulfillable,
				InboundWorking:  inbound,
				InboundShipped:  inbound / 2,
				InboundReceived: inbound / 4,
				Reserved:        reserved,
				Total:           fulfillable + unfulfillable + reserved,
			},
			LastUpdated: stamp,
		}
		// Uno de cada cuatro llega sin ASIN para ejercitar el enriquecimiento.
		if i%4 != 0 {
			r.ASIN = mockASIN(sku)
		}
		page.Records = append(page.Records, r)
	}
	if end < m.SKUsPerMarket {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

// ForMarket el mock resuelve ASIN para cualquier mercado conocido.
func (m *MockClient) ForMarket(market string) (snapshot.IdentifierLookup, error) {
	if _, err := MarketplaceID(market); err != nil {
		return nil, err
	}
	return m, nil
}

// LookupIdentifier ASIN determinista derivado del SKU.
func (m *MockClient) LookupIdentifier(ctx context.Context, sku, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return mockASIN(sku), nil
}
