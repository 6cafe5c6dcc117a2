package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizzaria/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePreference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/preferences", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req payment.PreferenceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "order-1", req.OrderID)
		assert.Equal(t, 36.0, req.Items[0].UnitPrice)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"pref-1","init_point":"https://pay.example/pref-1"}`))
	}))
	defer srv.Close()

	client := payment.NewClient(srv.URL+"/", "secret", time.Second)
	pref, err := client.CreatePreference(context.Background(), payment.PreferenceRequest{
		OrderID: "order-1",
		Items:   []payment.Item{{Title: "Order order-1", Quantity: 1, UnitPrice: 36}},
		Payer:   payment.Payer{Name: "Ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pref-1", pref.ID)
	assert.Equal(t, "https://pay.example/pref-1", pref.CheckoutURL)
}

func TestCreatePreference_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := payment.NewClient(srv.URL, "", time.Second)
	_, err := client.CreatePreference(context.Background(), payment.PreferenceRequest{OrderID: "o"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, payment.StatusApproved, payment.NormalizeStatus("approved"))
	assert.Equal(t, payment.StatusRejected, payment.NormalizeStatus("Cancelled"))
	assert.Equal(t, payment.StatusRefunded, payment.NormalizeStatus("charged_back"))
	assert.Equal(t, payment.StatusPending, payment.NormalizeStatus("in_process"))
	assert.Equal(t, payment.StatusPending, payment.NormalizeStatus(""))
}

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payments/987", r.URL.Path)
		w.Write([]byte(`{"id":987,"status":"approved","external_reference":"order-1"}`))
	}))
	defer srv.Close()

	client := payment.NewClient(srv.URL, "secret", time.Second)
	p, err := client.GetPayment(context.Background(), "987")
	require.NoError(t, err)
	assert.Equal(t, "987", p.ID.String())
	assert.Equal(t, "approved", p.Status)
	assert.Equal(t, "order-1", p.ExternalReference)
}

func TestGetPayment_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := payment.NewClient(srv.URL, "", time.Second)
	_, err := client.GetPayment(context.Background(), "1")
	assert.Error(t, err)
}
