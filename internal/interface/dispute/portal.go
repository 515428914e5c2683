package dispute

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/internal/infrastructure/auth"
	"disputeshield-service/internal/infrastructure/httpclient"
	"disputeshield-service/pkg/logger"
	"disputeshield-service/pkg/metrics"
	"disputeshield-service/pkg/normalize"
)

// Config constructs one dispute adapter instance
type Config struct {
	Credential *entity.Credential
	BaseURL    string
	HTTP       httpclient.Config
}

// deps are shared across all adapters created by one registry
type deps struct {
	factory *httpclient.Factory
	logger  logger.Logger
	metrics *metrics.Metrics
}

// portalClient carries the authenticated call flow shared by every
// dispute portal adapter.
type portalClient struct {
	portal  string
	baseURL string
	auth    auth.Manager
	client  *httpclient.Client
	logger  logger.Logger
}

func newPortalClient(portal, defaultBaseURL string, cfg Config, d deps) (*portalClient, error) {
	if cfg.Credential == nil {
		return nil, &adapter.ValidationError{Field: "credential", Message: "credential is required"}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := d.factory.NewClient(portal, cfg.HTTP)
	return &portalClient{
		portal:  portal,
		baseURL: baseURL,
		auth:    auth.NewManager(portal, cfg.Credential, client.AuthTimeout(), nil, d.logger, d.metrics),
		client:  client,
		logger:  d.logger.With("portal", portal),
	}, nil
}

func (p *portalClient) call(ctx context.Context, method, path, operation string, payload any) (map[string]any, error) {
	headers, err := p.auth.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	headers.Set("Accept", "application/json")

	var body []byte
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		headers.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method:    method,
		URL:       p.baseURL + path,
		Body:      body,
		Header:    headers,
		Operation: operation,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return map[string]any{}, nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		var items []any
		if aerr := json.Unmarshal(resp.Body, &items); aerr == nil {
			return map[string]any{"items": items}, nil
		}
		return nil, fmt.Errorf("failed to decode %s response: %w", p.portal, err)
	}
	return decoded, nil
}

// submission decodes the uniform filing acknowledgment
func (p *portalClient) submission(raw map[string]any) *entity.SubmissionResult {
	id := normalize.Str(raw, "submissionId", "submission_id", "id", "caseFilingId", "responseId")
	if id == "" {
		id = newSubmissionID()
	}
	status := normalize.Str(raw, "status", "state")
	if status == "" {
		status = "submitted"
	}
	submittedAt := normalize.DateTime(normalize.Str(raw, "submittedAt", "submitted_at", "createdAt", "timestamp"))
	if submittedAt == "" {
		submittedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return &entity.SubmissionResult{SubmissionID: id, Status: status, SubmittedAt: submittedAt}
}

func newSubmissionID() string { return uuid.NewString() }

// healthCheck probes the portal; never returns an error
func (p *portalClient) healthCheck(ctx context.Context, path string) *adapter.HealthStatus {
	start := time.Now()
	_, err := p.call(ctx, http.MethodGet, path, "health_check", nil)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return &adapter.HealthStatus{Healthy: false, LatencyMs: latency, Details: err.Error()}
	}
	return &adapter.HealthStatus{Healthy: true, LatencyMs: latency}
}

// normalizeCase converts a portal case payload into the canonical
// dispute entity, resolving the reason code through the taxonomy.
func normalizeCase(m map[string]any) entity.DisputeCase {
	reasonCode := normalize.Str(m, "reasonCode", "reason_code", "ReasonCode", "disputeReasonCode", "chargebackReasonCode")
	info := NormalizeReasonCode(reasonCode)
	portalStatus := normalize.Str(m, "status", "Status", "disputeStatus", "dispute_status", "caseStatus", "case_status")

	stage := entity.DisputeStage(normalize.Str(m, "stage", "disputeStage", "dispute_stage", "lifecycleStage", "lifecycle_stage"))
	if _, ok := stageOrder[stage]; !ok {
		stage = entity.StageFirstChargeback
	}

	disputeDate := normalize.Date(normalize.Str(m, "disputeDate", "dispute_date", "receivedDate", "received_date", "createdAt", "created_at"))
	dueDate := normalize.Date(normalize.Str(m, "dueDate", "due_date", "respondBy", "respond_by", "responseDeadline", "response_deadline"))
	if dueDate == "" && disputeDate != "" {
		if parsed, err := time.Parse("2006-01-02", disputeDate); err == nil {
			dueDate = parsed.AddDate(0, 0, DeadlineDays(stage, reasonCode)).Format("2006-01-02")
		}
	}

	return entity.DisputeCase{
		DisputeID:               normalize.Str(m, "disputeId", "dispute_id", "DisputeId", "id", "Id", "caseId", "case_id"),
		CaseNumber:              normalize.Str(m, "caseNumber", "case_number", "CaseNumber", "vrolCaseNumber", "claimId"),
		Amount:                  normalize.F64(m, "amount", "Amount", "disputeAmount", "dispute_amount", "transactionAmount"),
		Currency:                normalize.Currency(normalize.Str(m, "currency", "Currency", "currencyCode", "currency_code")),
		CardLastFour:            normalize.CardLastFour(normalize.Str(m, "cardLastFour", "card_last_four", "last4", "maskedPan", "cardNumber")),
		CardBrand:               normalize.CardBrand(normalize.Str(m, "cardBrand", "card_brand", "brand", "network")),
		ReasonCode:              reasonCode,
		ReasonCategory:          info.Category,
		ReasonDescription:       info.Description,
		DisputeDate:             disputeDate,
		DueDate:                 dueDate,
		Status:                  NormalizeDisputeStatus(portalStatus),
		PortalStatus:            portalStatus,
		Stage:                   stage,
		TransactionID:           normalize.Str(m, "transactionId", "transaction_id", "TransactionId"),
		AcquirerReferenceNumber: normalize.Str(m, "acquirerReferenceNumber", "acquirer_reference_number", "arn", "ARN"),
	}
}
