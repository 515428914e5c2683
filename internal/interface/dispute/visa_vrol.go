package dispute

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/normalize"
)

// VROLAdapter integrates Visa Resolve Online: the full chargeback
// lifecycle from first chargeback through representment,
// pre-arbitration and arbitration, plus TC40 fraud reports and
// Compelling Evidence 3.0 filings.
type VROLAdapter struct {
	*portalClient
}

// NewVROLAdapter constructs a VROL adapter bound to one credential set
func NewVROLAdapter(cfg Config, d deps) (*VROLAdapter, error) {
	pc, err := newPortalClient("visa_vrol", "https://vrol.visa.example.com/api/v1", cfg, d)
	if err != nil {
		return nil, err
	}
	return &VROLAdapter{portalClient: pc}, nil
}

func (v *VROLAdapter) Portal() string { return "visa_vrol" }

// ReceiveDispute normalizes an inbound dispute notification into a
// canonical case. Vendors may redeliver, so callers treat the result
// idempotently by dispute id.
func (v *VROLAdapter) ReceiveDispute(ctx context.Context, payload map[string]any) (*entity.DisputeCase, error) {
	c := normalizeCase(payload)
	if c.DisputeID == "" && c.CaseNumber == "" {
		return nil, &adapter.ValidationError{Field: "payload", Message: "dispute payload carries no case identifier"}
	}
	v.logger.Info("Received dispute",
		"disputeId", c.DisputeID,
		"reasonCode", c.ReasonCode,
		"category", c.ReasonCategory,
		"dueDate", c.DueDate)
	return &c, nil
}

// GetDisputeStatus fetches the current portal state of a case
func (v *VROLAdapter) GetDisputeStatus(ctx context.Context, disputeID string) (*entity.DisputeCase, error) {
	raw, err := v.call(ctx, http.MethodGet, "/disputes/"+url.PathEscape(disputeID), "get_dispute_status", nil)
	if err != nil {
		return nil, fmt.Errorf("get dispute %s: %w", disputeID, err)
	}
	c := normalizeCase(raw)
	if c.DisputeID == "" {
		c.DisputeID = disputeID
	}
	return &c, nil
}

// ListDisputes pages through open cases matching the filter
func (v *VROLAdapter) ListDisputes(ctx context.Context, filter adapter.DisputeFilter) ([]entity.DisputeCase, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.Stage != "" {
		params.Set("stage", string(filter.Stage))
	}
	if filter.FromDate != "" {
		params.Set("fromDate", filter.FromDate)
	}
	if filter.ToDate != "" {
		params.Set("toDate", filter.ToDate)
	}
	path := "/disputes"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := v.call(ctx, http.MethodGet, path, "list_disputes", nil)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	var cases []entity.DisputeCase
	for _, item := range normalize.Slice(raw, "disputes", "items", "data") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cases = append(cases, normalizeCase(m))
	}
	return cases, nil
}

// GetEvidenceRequirements merges what the portal demands for the case
// with what the reason-code taxonomy recommends.
func (v *VROLAdapter) GetEvidenceRequirements(ctx context.Context, disputeID string) (*entity.EvidenceRequirements, error) {
	raw, err := v.call(ctx, http.MethodGet, "/disputes/"+url.PathEscape(disputeID)+"/requirements", "get_evidence_requirements", nil)
	if err != nil {
		return nil, fmt.Errorf("get evidence requirements for %s: %w", disputeID, err)
	}
	reasonCode := normalize.Str(raw, "reasonCode", "reason_code")
	info := NormalizeReasonCode(reasonCode)

	var required []string
	for _, item := range normalize.Slice(raw, "required", "requiredDocuments", "required_documents") {
		if s := normalize.ToString(item); s != "" {
			required = append(required, s)
		}
	}
	// taxonomy recommendations that the portal did not already require
	seen := make(map[string]bool, len(required))
	for _, r := range required {
		seen[r] = true
	}
	var recommended []string
	for _, doc := range info.Evidence {
		if !seen[doc] {
			recommended = append(recommended, doc)
		}
	}
	return &entity.EvidenceRequirements{
		ReasonCode:   reasonCode,
		Required:     required,
		Recommended:  recommended,
		CE3Eligible:  info.CE3Eligible,
		ResponseDays: info.ResponseDays,
		DueDate:      normalize.Date(normalize.Str(raw, "dueDate", "due_date", "respondBy")),
	}, nil
}

// SubmitEvidence attaches documents to a case
func (v *VROLAdapter) SubmitEvidence(ctx context.Context, disputeID string, docs []entity.EvidenceDocument) (*entity.SubmissionResult, error) {
	if len(docs) == 0 {
		return nil, &adapter.ValidationError{Field: "documents", Message: "at least one evidence document is required"}
	}
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/evidence", "submit_evidence", map[string]any{
		"documents": docs,
	})
	if err != nil {
		return nil, fmt.Errorf("submit evidence for %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// PushResponse files a representment against the first chargeback
func (v *VROLAdapter) PushResponse(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/representment", "push_response", map[string]any{
		"narrative": req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("file representment for %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// AcceptDispute concedes liability and closes the case
func (v *VROLAdapter) AcceptDispute(ctx context.Context, disputeID string, reason string) (*entity.SubmissionResult, error) {
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/accept", "accept_dispute", map[string]any{
		"reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("accept dispute %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// RespondToPreArbitration answers an issuer's pre-arbitration filing
func (v *VROLAdapter) RespondToPreArbitration(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/pre-arbitration/response", "respond_pre_arbitration", map[string]any{
		"narrative": req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("respond to pre-arbitration for %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// FileArbitration escalates the case to a network ruling
func (v *VROLAdapter) FileArbitration(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/arbitration", "file_arbitration", map[string]any{
		"narrative": req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("file arbitration for %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// FetchTC40Reports lists issuer fraud pre-notifications, which often
// precede a formal chargeback by days.
func (v *VROLAdapter) FetchTC40Reports(ctx context.Context, query adapter.TC40Query) ([]entity.TC40Report, error) {
	params := url.Values{}
	if query.FromDate != "" {
		params.Set("fromDate", query.FromDate)
	}
	if query.ToDate != "" {
		params.Set("toDate", query.ToDate)
	}
	path := "/fraud-reports/tc40"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := v.call(ctx, http.MethodGet, path, "fetch_tc40_reports", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch TC40 reports: %w", err)
	}
	var reports []entity.TC40Report
	for _, item := range normalize.Slice(raw, "reports", "items", "data") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		reports = append(reports, entity.TC40Report{
			ReportID:      normalize.Str(m, "reportId", "report_id", "id"),
			TransactionID: normalize.Str(m, "transactionId", "transaction_id"),
			CardLastFour:  normalize.CardLastFour(normalize.Str(m, "cardLastFour", "card_last_four", "maskedPan")),
			Amount:        normalize.F64(m, "amount", "transactionAmount"),
			Currency:      normalize.Currency(normalize.Str(m, "currency", "currencyCode")),
			FraudType:     normalize.Str(m, "fraudType", "fraud_type"),
			ReportDate:    normalize.Date(normalize.Str(m, "reportDate", "report_date", "createdAt")),
		})
	}
	return reports, nil
}

// SubmitCE3Evidence files Compelling Evidence 3.0. The network rule
// requires at least two prior undisputed transactions matching the
// disputed one by IP address or device fingerprint.
func (v *VROLAdapter) SubmitCE3Evidence(ctx context.Context, disputeID string, req adapter.CE3Request) (*entity.SubmissionResult, error) {
	matching := matchingPriorTransactions(req)
	if matching < 2 {
		return nil, &adapter.ValidationError{
			Field: "priorTransactions",
			Message: fmt.Sprintf(
				"compelling evidence 3.0 requires at least 2 prior undisputed transactions matching by IP or device fingerprint, got %d",
				matching),
		}
	}
	raw, err := v.call(ctx, http.MethodPost, "/disputes/"+url.PathEscape(disputeID)+"/compelling-evidence", "submit_ce3_evidence", map[string]any{
		"disputedTransactionId": req.DisputedTransactionID,
		"priorTransactions":     req.PriorTransactions,
		"ipAddress":             req.IPAddress,
		"deviceFingerprint":     req.DeviceFingerprint,
	})
	if err != nil {
		return nil, fmt.Errorf("submit CE3 evidence for %s: %w", disputeID, err)
	}
	return v.submission(raw), nil
}

// matchingPriorTransactions counts prior transactions sharing the
// disputed transaction's IP or device fingerprint. When the request
// carries neither matcher, every supplied transaction counts.
func matchingPriorTransactions(req adapter.CE3Request) int {
	if req.IPAddress == "" && req.DeviceFingerprint == "" {
		return len(req.PriorTransactions)
	}
	matching := 0
	for _, t := range req.PriorTransactions {
		if (req.IPAddress != "" && t.IPAddress == req.IPAddress) ||
			(req.DeviceFingerprint != "" && t.DeviceFingerprint == req.DeviceFingerprint) {
			matching++
		}
	}
	return matching
}

// HealthCheck probes the portal; never returns an error
func (v *VROLAdapter) HealthCheck(ctx context.Context) *adapter.HealthStatus {
	return v.healthCheck(ctx, "/status")
}
