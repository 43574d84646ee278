package apiclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goship/internal/pkg/apiclient"
)

func serve(t *testing.T, status int, body string, check func(r *http.Request)) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return apiclient.New(srv.URL, apiclient.StaticToken("tok"))
}

func TestListShipments_Envelope(t *testing.T) {
	c := serve(t, http.StatusOK, `{"shipments":[{"id":"s1","status":"PENDING"}],"stats":{"total":1}}`, func(r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "pending", r.URL.Query().Get("bucket"))
	})

	list, err := c.ListShipments(context.Background(), apiclient.ShipmentFilter{Bucket: "pending"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].ID)
}

func TestListShipments_RawArray(t *testing.T) {
	c := serve(t, http.StatusOK, ` [{"id":"a"},{"id":"b"}]`, nil)

	list, err := c.ListShipments(context.Background(), apiclient.ShipmentFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestListShipments_FailsClosed(t *testing.T) {
	for name, body := range map[string]string{
		"objeto sem shipments": `{"data":[]}`,
		"shipments nulo":       `{"shipments":null}`,
		"shipments objeto":     `{"shipments":{"id":"x"}}`,
		"escalar":              `"ok"`,
		"vazio":                ``,
	} {
		t.Run(name, func(t *testing.T) {
			c := serve(t, http.StatusOK, body, nil)
			_, err := c.ListShipments(context.Background(), apiclient.ShipmentFilter{})
			assert.True(t, errors.Is(err, apiclient.ErrUnexpectedShape), "err = %v", err)
		})
	}
}

func TestAPIError(t *testing.T) {
	c := serve(t, http.StatusConflict, `{"code":409,"category":"CONFLICT","message":"Conflito de estado: caixa sem AWB"}`, nil)

	_, err := c.Stats(context.Background(), apiclient.ShipmentFilter{})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "CONFLICT", apiErr.Category)
}

func TestAPIError_RateLimited(t *testing.T) {
	c := serve(t, http.StatusTooManyRequests, `{"code":429,"category":"RATE_LIMITED","message":"Limite de requisições excedido: Tente novamente em instantes."}`, nil)

	_, err := c.ListShipments(context.Background(), apiclient.ShipmentFilter{})
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "RATE_LIMITED", apiErr.Category)
}

func TestUploadNetworkCSV(t *testing.T) {
	c := serve(t, http.StatusOK, `{"created":1,"skipped":0,"errors":[{"row":3,"message":"role_type inválido"}]}`, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		assert.True(t, strings.HasPrefix(string(b), "user_id,role_type"))
	})

	res, err := c.UploadNetworkCSV(context.Background(), "", strings.NewReader("user_id,role_type\nu1,distributor\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
}

func TestCredentials(t *testing.T) {
	_, err := apiclient.StaticToken("").Token(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrNoCredentials)

	t.Setenv("SHIPCTL_TEST_TOKEN", "env-tok")
	tok, err := apiclient.EnvToken{Var: "SHIPCTL_TEST_TOKEN"}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-tok", tok)

	t.Setenv("SHIPCTL_TEST_TOKEN", "")
	_, err = apiclient.EnvToken{Var: "SHIPCTL_TEST_TOKEN"}.Token(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrNoCredentials)
}
