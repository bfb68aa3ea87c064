package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/example/brritto/internal/apiclient"
	"github.com/example/brritto/internal/models"
	"github.com/example/brritto/internal/session"
)

// PaymentInitResult is the gateway handoff for a checkout.
type PaymentInitResult struct {
	Result
	StatusCode int
	Data       *models.InitiatePaymentData
}

// PaymentHistoryResult carries the student's payment history page.
type PaymentHistoryResult struct {
	Result
	StatusCode int
	Payments   []models.PaymentHistory
}

// PaymentService wraps the payment endpoints. The gateway itself is opaque;
// this service only brokers the handoff URL.
type PaymentService struct {
	api *apiclient.Client
	log *zap.SugaredLogger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(api *apiclient.Client, log *zap.SugaredLogger) *PaymentService {
	return &PaymentService{api: api, log: log}
}

// InitiatePayment starts a checkout for a course through the chosen gateway.
func (s *PaymentService) InitiatePayment(store session.Store, courseID, gateway string) PaymentInitResult {
	if gateway != models.GatewayBkash && gateway != models.GatewayAamarpay {
		return PaymentInitResult{Result: failure("Unsupported payment gateway"), StatusCode: 400}
	}

	sess := store.Get()
	if sess == nil {
		return PaymentInitResult{Result: failure("Please login to continue"), StatusCode: 401}
	}

	req := models.InitiatePaymentRequest{
		CourseID:    courseID,
		Description: "Course purchase",
		PaymentType: gateway,
	}

	resp := s.api.Post("/web/payments/initiate", req, sess.AccessToken)
	if !resp.Success {
		s.logFailure("initiate payment", resp)
		return PaymentInitResult{
			Result:     failure(orDefault(resp.Message, "Failed to initiate payment. Please try again.")),
			StatusCode: resp.StatusCode,
		}
	}

	var data models.InitiatePaymentData
	if err := apiclient.DecodeData(resp, &data); err != nil {
		s.log.Errorw("decode payment initiation", "courseId", courseID, "error", err)
		return PaymentInitResult{Result: failure("Failed to initiate payment. Please try again."), StatusCode: resp.StatusCode}
	}

	return PaymentInitResult{Result: success(resp.Message), StatusCode: resp.StatusCode, Data: &data}
}

// GetPaymentHistory fetches the student's payment history.
func (s *PaymentService) GetPaymentHistory(store session.Store, page, limit int) PaymentHistoryResult {
	sess := store.Get()
	if sess == nil {
		return PaymentHistoryResult{Result: failure("Please login to view payment history"), StatusCode: 401, Payments: []models.PaymentHistory{}}
	}

	endpoint := fmt.Sprintf("/web/payments/history?page=%d&limit=%d", page, limit)
	resp := s.api.Get(endpoint, sess.AccessToken)
	if !resp.Success {
		s.logFailure("fetch payment history", resp)
		return PaymentHistoryResult{Result: failure("Failed to fetch payment history"), StatusCode: resp.StatusCode, Payments: []models.PaymentHistory{}}
	}

	payments := decodeList[models.PaymentHistory](resp)
	return PaymentHistoryResult{Result: success(resp.Message), StatusCode: resp.StatusCode, Payments: payments}
}

func (s *PaymentService) logFailure(op string, resp *apiclient.Response) {
	if resp.Err != nil {
		s.log.Errorw(op+" failed", "code", resp.Err.Code, "status", resp.StatusCode, "traceId", resp.Err.TraceID)
		return
	}
	s.log.Errorw(op+" failed", "status", resp.StatusCode, "message", resp.Message)
}
