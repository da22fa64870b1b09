package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/inventario-sync/internal/application/snapshot"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// Verificar en tiempo de compilación que HTTPClient implementa los puertos del pipeline.
var (
	_ snapshot.MarketplaceClient = (*HTTPClient)(nil)
	_ snapshot.LookupFactory     = (*HTTPClient)(nil)
	_ snapshot.IdentifierLookup  = (*ListingsLookup)(nil)
)

const (
	inventorySummariesPath = "/fba/inventory/v1/summaries"
	listingsItemsPath      = "/listings/2021-08-01/items/"
	maxResponseBytes       = 8 << 20
)

// Options configuración del cliente HTTP.
type Options struct {
	BaseURL     string
	AccessToken string
	SellerID    string // requerido solo para el lookup de ASIN
	Timeout     time.Duration
	UserAgent   string
}

// HTTPClient adaptador de la API de inventario FBA y de listings sobre net/http.
type HTTPClient struct {
	baseURL    string
	token      string
	sellerID   string
	userAgent  string
	httpClient *http.Client
}

// NewHTTPClient construye el adaptador. BaseURL y AccessToken son obligatorios.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: MARKETPLACE_BASE_URL vacío", domain.ErrConfiguration)
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("%w: MARKETPLACE_BASE_URL inválido: %v", domain.ErrConfiguration, err)
	}
	if opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: MARKETPLACE_ACCESS_TOKEN vacío", domain.ErrConfiguration)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "inventario-sync/1.0"
	}
	return &HTTPClient{
		baseURL:    base,
		token:      opts.AccessToken,
		sellerID:   opts.SellerID,
		userAgent:  ua,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type inventorySummary struct {
	ASIN             string           `json:"asin"`
	SellerSKU        string           `json:"sellerSku"`
	InventoryDetails inventoryDetails `json:"inventoryDetails"`
	LastUpdatedTime  string           `json:"lastUpdatedTime"`
	TotalQuantity    int64            `json:"totalQuantity"`
}

type inventoryDetails struct {
	FulfillableQuantity      int64 `json:"fulfillableQuantity"`
	InboundWorkingQuantity   int64 `json:"inboundWorkingQuantity"`
	InboundShippedQuantity   int64 `json:"inboundShippedQuantity"`
	InboundReceivingQuantity int64 `json:"inboundReceivingQuantity"`
	ReservedQuantity         struct {
		TotalReservedQuantity int64 `json:"totalReservedQuantity"`
	} `json:"reservedQuantity"`
	UnfulfillableQuantity struct {
		TotalUnfulfillableQuantity int64 `json:"totalUnfulfillableQuantity"`
	} `json:"unfulfillableQuantity"`
}

type summariesResponse struct {
	Payload struct {
		InventorySummaries []inventorySummary `json:"inventorySummaries"`
		NextToken          string             `json:"nextToken"`
	} `json:"payload"`
	Pagination *struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination"`
	Errors []apiError `json:"errors"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type listingResponse struct {
	SKU       string `json:"sku"`
	Summaries []struct {
		MarketplaceID string `json:"marketplaceId"`
		ASIN          string `json:"asin"`
	} `json:"summaries"`
	Errors []apiError `json:"errors"`
}

// ParseSummariesPage decodifica una página de inventory summaries. El token siguiente
// puede venir en pagination o dentro de payload.
func ParseSummariesPage(raw []byte) (snapshot.Page, error) {
	var resp summariesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return snapshot.Page{}, fmt.Errorf("parsear inventory summaries: %w", err)
	}
	page := snapshot.Page{Records: make([]entity.InventoryRecord, 0, len(resp.Payload.InventorySummaries))}
	for _, s := range resp.Payload.InventorySummaries {
		d := s.InventoryDetails
		page.Records = append(page.Records, entity.InventoryRecord{
			SellerSKU: strings.TrimSpace(s.SellerSKU),
			ASIN:      strings.TrimSpace(s.ASIN),
			Quantities: entity.Quantities{
				Fulfillable:     d.FulfillableQuantity,
				Unfulfillable:   d.UnfulfillableQuantity.TotalUnfulfillableQuantity,
				InboundWorking:  d.InboundWorkingQuantity,
				InboundShipped:  d.InboundShippedQuantity,
				InboundReceived: d.InboundReceivingQuantity,
				Reserved:        d.ReservedQuantity.TotalReservedQuantity,
				Total:           s.TotalQuantity,
			},
			LastUpdated: strings.TrimSpace(s.LastUpdatedTime),
		})
	}
	if resp.Pagination != nil && resp.Pagination.NextToken != "" {
		page.NextToken = resp.Pagination.NextToken
	} else {
		page.NextToken = resp.Payload.NextToken
	}
	return page, nil
}

// FetchPage pide una página de inventario FBA de un mercado.
func (c *HTTPClient) FetchPage(ctx context.Context, market, nextToken string, pageSize int) (snapshot.Page, error) {
	mpID, err := MarketplaceID(market)
	if err != nil {
		return snapshot.Page{}, err
	}
	q := url.Values{}
	q.Set("details", "true")
	q.Set("granularityType", "Marketplace")
	q.Set("granularityId", mpID)
	q.Set("marketplaceIds", mpID)
	if pageSize > 0 {
		q.Set("maxResultsPerPage", strconv.Itoa(pageSize))
	}
	if nextToken != "" {
		q.Set("nextToken", nextToken)
	}

	body, err := c.doGET(ctx, c.baseURL+inventorySummariesPath+"?"+q.Encode())
	if err != nil {
		return snapshot.Page{}, fmt.Errorf("inventory summaries %s: %w", market, err)
	}
	return ParseSummariesPage(body)
}

// ForMarket construye el lookup de ASIN de un mercado.
func (c *HTTPClient) ForMarket(market string) (snapshot.IdentifierLookup, error) {
	if c.sellerID == "" {
		return nil, fmt.Errorf("%w: MARKETPLACE_SELLER_ID vacío", domain.ErrConfiguration)
	}
	mpID, err := MarketplaceID(market)
	if err != nil {
		return nil, err
	}
	return &ListingsLookup{client: c, marketplaceID: mpID}, nil
}

// ListingsLookup resuelve ASIN por SKU con la API de listings de un marketplace.
type ListingsLookup struct {
	client        *HTTPClient
	marketplaceID string
}

// LookupIdentifier devuelve el ASIN del primer resumen del listing; "" si no hay.
func (l *ListingsLookup) LookupIdentifier(ctx context.Context, sku, _ string) (string, error) {
	q := url.Values{}
	q.Set("marketplaceIds", l.marketplaceID)
	q.Set("includedData", "summaries")
	u := l.client.baseURL + listingsItemsPath + url.PathEscape(l.client.sellerID) + "/" + url.PathEscape(sku) + "?" + q.Encode()

	body, err := l.client.doGET(ctx, u)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", sku, err)
	}
	var resp listingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsear listing %s: %w", sku, err)
	}
	for _, s := range resp.Summaries {
		if s.ASIN != "" {
			return strings.TrimSpace(s.ASIN), nil
		}
	}
	return "", nil
}

// StatusError respuesta HTTP no exitosa.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) doGET(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("x-amz-access-token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}

// errorMessage extrae el primer error del cuerpo si tiene la forma {"errors":[...]}.
func errorMessage(raw []byte) string {
	var body struct {
		Errors []apiError `json:"errors"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && len(body.Errors) > 0 {
		return body.Errors[0].Code + ": " + body.Errors[0].Message
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
