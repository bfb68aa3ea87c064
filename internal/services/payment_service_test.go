package services

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/logger"
	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/session"
)

func seededStore() *session.MemoryStore {
	store := session.NewMemoryStore(86400)
	store.Create("at", "rt", "01812345678", nil)
	return store
}

func TestInitiatePayment_UnsupportedGateway(t *testing.T) {
	_, srv := newBackend(t)

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.InitiatePayment(seededStore(), "course-1", "PAYPAL")

	assert.False(t, result.Success)
	assert.Equal(t, 400, result.StatusCode)
	assert.Equal(t, "Unsupported payment gateway", result.Message)
}

func TestInitiatePayment_RequiresSession(t *testing.T) {
	_, srv := newBackend(t)

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.InitiatePayment(session.NewMemoryStore(86400), "course-1", models.GatewayBkash)

	assert.False(t, result.Success)
	assert.Equal(t, 401, result.StatusCode)
	assert.Equal(t, "Please login to continue", result.Message)
}

func TestInitiatePayment_ReturnsGatewayURL(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/payments/initiate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))

		var req models.InitiatePaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "course-1", req.CourseID)
		assert.Equal(t, "Course purchase", req.Description)
		assert.Equal(t, models.GatewayBkash, req.PaymentType)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"result": true, "paymentUrl": "https://gateway.example/pay/abc"},
		})
	})

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.InitiatePayment(seededStore(), "course-1", models.GatewayBkash)

	assert.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.Equal(t, "https://gateway.example/pay/abc", result.Data.PaymentURL)
}

func TestInitiatePayment_BackendFailure(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodPost, "/web/payments/initiate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    "ALREADY_PURCHASED",
				"message": "You already own this course",
				"traceId": "t-9",
			},
		})
	})

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.InitiatePayment(seededStore(), "course-1", models.GatewayAamarpay)

	assert.False(t, result.Success)
	assert.Equal(t, "You already own this course", result.Message)
}

func TestGetPaymentHistory(t *testing.T) {
	b, srv := newBackend(t)
	b.on(http.MethodGet, "/web/payments/history", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"_id": "p-1", "amount": 1500, "status": "COMPLETED", "courseName": "HSC Physics"},
			},
		})
	})

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.GetPaymentHistory(seededStore(), 1, 10)

	assert.True(t, result.Success)
	require.Len(t, result.Payments, 1)
	assert.Equal(t, "HSC Physics", result.Payments[0].CourseName)
}

func TestGetPaymentHistory_RequiresSession(t *testing.T) {
	_, srv := newBackend(t)

	svc := NewPaymentService(apiclient.New(srv.URL), logger.NewNop())
	result := svc.GetPaymentHistory(session.NewMemoryStore(86400), 1, 10)

	assert.False(t, result.Success)
	assert.Equal(t, 401, result.StatusCode)
	assert.Empty(t, result.Payments)
}
