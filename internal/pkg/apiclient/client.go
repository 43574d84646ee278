// Package apiclient é o cliente HTTP da API GoShip usado pelo shipctl.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"goship/internal/domain"
)

// ErrUnexpectedShape indica resposta 2xx cujo corpo não tem o formato esperado.
var ErrUnexpectedShape = errors.New("formato de resposta inesperado")

// ErrNoCredentials indica que nenhum token foi configurado.
var ErrNoCredentials = errors.New("nenhum token de acesso configurado")

// CredentialProvider fornece o token Bearer de cada requisição.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken é um token fixo (flag --token).
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	if strings.TrimSpace(string(t)) == "" {
		return "", ErrNoCredentials
	}
	return string(t), nil
}

// EnvToken lê o token de uma variável de ambiente a cada chamada.
type EnvToken struct {
	Var string
}

// DefaultTokenEnv é a variável lida quando EnvToken.Var está vazio.
const DefaultTokenEnv = "GOSHIP_TOKEN"

func (e EnvToken) Token(ctx context.Context) (string, error) {
	name := e.Var
	if name == "" {
		name = DefaultTokenEnv
	}
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: defina %s", ErrNoCredentials, name)
}

// APIError é a resposta não-2xx da API ({code, category, message}).
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d (%s): %s", e.Status, e.Category, e.Message)
}

// Client chama a API GoShip.
type Client struct {
	baseURL string
	creds   CredentialProvider
	http    *http.Client
}

// Option customiza o Client.
type Option func(*Client)

// WithHTTPClient troca o *http.Client (testes, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New cria um Client para baseURL (e.g. http://localhost:8080).
func New(baseURL string, creds CredentialProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShipmentFilter são os filtros de listagem.
type ShipmentFilter struct {
	BrandID string
	Bucket  string
}

func (f ShipmentFilter) values() url.Values {
	v := url.Values{}
	if f.BrandID != "" {
		v.Set("brand_id", f.BrandID)
	}
	if f.Bucket != "" {
		v.Set("bucket", f.Bucket)
	}
	return v
}

// ListShipments aceita {"shipments": [...]} ou um array puro; qualquer outro formato é erro.
func (c *Client) ListShipments(ctx context.Context, f ShipmentFilter) ([]domain.Shipment, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/shipments", f.values(), "", nil)
	if err != nil {
		return nil, err
	}
	return decodeShipments(body)
}

func decodeShipments(body []byte) ([]domain.Shipment, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnexpectedShape
	}

	switch trimmed[0] {
	case '[':
		var list []domain.Shipment
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return list, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		raw, ok := envelope["shipments"]
		if !ok {
			return nil, fmt.Errorf("%w: campo shipments ausente", ErrUnexpectedShape)
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, fmt.Errorf("%w: shipments não é uma lista", ErrUnexpectedShape)
		}
		var list []domain.Shipment
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
		return list, nil
	}
	return nil, ErrUnexpectedShape
}

// Stats retorna os contadores por bucket do escopo.
func (c *Client) Stats(ctx context.Context, f ShipmentFilter) (domain.ShipmentStats, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/shipments/stats", f.values(), "", nil)
	if err != nil {
		return domain.ShipmentStats{}, err
	}
	var stats domain.ShipmentStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return domain.ShipmentStats{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return stats, nil
}

// UploadNetworkCSV envia o CSV user_id,role_type para o upload em massa da rede.
func (c *Client) UploadNetworkCSV(ctx context.Context, brandID string, csv io.Reader) (domain.BulkResult, error) {
	v := url.Values{}
	if brandID != "" {
		v.Set("brand_id", brandID)
	}
	body, err := c.do(ctx, http.MethodPost, "/v1/brand/network/bulk", v, "text/csv", csv)
	if err != nil {
		return domain.BulkResult{}, err
	}
	var result domain.BulkResult
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.BulkResult{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) ([]byte, error) {
	token, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("falha ao montar requisição: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na requisição %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler resposta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload domain.ErrorResponse
		if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
			apiErr.Category = payload.Category
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}
	return data, nil
}
