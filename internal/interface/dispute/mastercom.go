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

// MastercomAdapter integrates the Mastercard dispute portal. Mastercom
// has no CE3 or TC40 equivalent; those operations report that the
// network does not offer them.
type MastercomAdapter struct {
	*portalClient
}

// NewMastercomAdapter constructs a Mastercom adapter
func NewMastercomAdapter(cfg Config, d deps) (*MastercomAdapter, error) {
	pc, err := newPortalClient("mastercom", "https://mastercom.mastercard.example.com/v6", cfg, d)
	if err != nil {
		return nil, err
	}
	return &MastercomAdapter{portalClient: pc}, nil
}

func (m *MastercomAdapter) Portal() string { return "mastercom" }

// ReceiveDispute normalizes an inbound claim notification
func (m *MastercomAdapter) ReceiveDispute(ctx context.Context, payload map[string]any) (*entity.DisputeCase, error) {
	c := normalizeCase(payload)
	if c.DisputeID == "" && c.CaseNumber == "" {
		return nil, &adapter.ValidationError{Field: "payload", Message: "claim payload carries no case identifier"}
	}
	return &c, nil
}

// GetDisputeStatus fetches the current claim state
func (m *MastercomAdapter) GetDisputeStatus(ctx context.Context, disputeID string) (*entity.DisputeCase, error) {
	raw, err := m.call(ctx, http.MethodGet, "/claims/"+url.PathEscape(disputeID), "get_dispute_status", nil)
	if err != nil {
		return nil, fmt.Errorf("get claim %s: %w", disputeID, err)
	}
	c := normalizeCase(raw)
	if c.DisputeID == "" {
		c.DisputeID = disputeID
	}
	return &c, nil
}

// ListDisputes pages through claims matching the filter
func (m *MastercomAdapter) ListDisputes(ctx context.Context, filter adapter.DisputeFilter) ([]entity.DisputeCase, error) {
	params := url.Values{}
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.FromDate != "" {
		params.Set("from", filter.FromDate)
	}
	if filter.ToDate != "" {
		params.Set("to", filter.ToDate)
	}
	path := "/claims"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	raw, err := m.call(ctx, http.MethodGet, path, "list_disputes", nil)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	var cases []entity.DisputeCase
	for _, item := range normalize.Slice(raw, "claims", "items", "data") {
		cm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		cases = append(cases, normalizeCase(cm))
	}
	return cases, nil
}

// GetEvidenceRequirements returns the taxonomy recommendation; the
// Mastercom API has no per-case requirements endpoint.
func (m *MastercomAdapter) GetEvidenceRequirements(ctx context.Context, disputeID string) (*entity.EvidenceRequirements, error) {
	c, err := m.GetDisputeStatus(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	info := NormalizeReasonCode(c.ReasonCode)
	return &entity.EvidenceRequirements{
		ReasonCode:   c.ReasonCode,
		Recommended:  info.Evidence,
		ResponseDays: info.ResponseDays,
		DueDate:      c.DueDate,
	}, nil
}

// SubmitEvidence attaches documents to a claim
func (m *MastercomAdapter) SubmitEvidence(ctx context.Context, disputeID string, docs []entity.EvidenceDocument) (*entity.SubmissionResult, error) {
	if len(docs) == 0 {
		return nil, &adapter.ValidationError{Field: "documents", Message: "at least one evidence document is required"}
	}
	raw, err := m.call(ctx, http.MethodPost, "/claims/"+url.PathEscape(disputeID)+"/documents", "submit_evidence", map[string]any{
		"documents": docs,
	})
	if err != nil {
		return nil, fmt.Errorf("submit evidence for %s: %w", disputeID, err)
	}
	return m.submission(raw), nil
}

// PushResponse files a second presentment (the Mastercom representment)
func (m *MastercomAdapter) PushResponse(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := m.call(ctx, http.MethodPost, "/claims/"+url.PathEscape(disputeID)+"/chargebacks/second-presentment", "push_response", map[string]any{
		"memo":      req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("file second presentment for %s: %w", disputeID, err)
	}
	return m.submission(raw), nil
}

// AcceptDispute concedes liability on a claim
func (m *MastercomAdapter) AcceptDispute(ctx context.Context, disputeID string, reason string) (*entity.SubmissionResult, error) {
	raw, err := m.call(ctx, http.MethodPost, "/claims/"+url.PathEscape(disputeID)+"/accept", "accept_dispute", map[string]any{
		"memo": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("accept claim %s: %w", disputeID, err)
	}
	return m.submission(raw), nil
}

// RespondToPreArbitration answers a pre-arbitration case
func (m *MastercomAdapter) RespondToPreArbitration(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := m.call(ctx, http.MethodPost, "/claims/"+url.PathEscape(disputeID)+"/pre-arbitration/response", "respond_pre_arbitration", map[string]any{
		"memo":      req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("respond to pre-arbitration for %s: %w", disputeID, err)
	}
	return m.submission(raw), nil
}

// FileArbitration escalates a claim to arbitration
func (m *MastercomAdapter) FileArbitration(ctx context.Context, disputeID string, req adapter.RepresentmentRequest) (*entity.SubmissionResult, error) {
	raw, err := m.call(ctx, http.MethodPost, "/claims/"+url.PathEscape(disputeID)+"/arbitration", "file_arbitration", map[string]any{
		"memo":      req.Narrative,
		"documents": req.Documents,
	})
	if err != nil {
		return nil, fmt.Errorf("file arbitration for %s: %w", disputeID, err)
	}
	return m.submission(raw), nil
}

// FetchTC40Reports is not offered by Mastercom; the Mastercard
// equivalent (SAFE) rides a different product. Returns empty.
func (m *MastercomAdapter) FetchTC40Reports(ctx context.Context, query adapter.TC40Query) ([]entity.TC40Report, error) {
	return nil, nil
}

// SubmitCE3Evidence is a Visa-only program
func (m *MastercomAdapter) SubmitCE3Evidence(ctx context.Context, disputeID string, req adapter.CE3Request) (*entity.SubmissionResult, error) {
	return nil, &adapter.ValidationError{
		Field:   "portal",
		Message: "compelling evidence 3.0 is a Visa program and is not available on mastercom",
	}
}

// HealthCheck probes the portal; never returns an error
func (m *MastercomAdapter) HealthCheck(ctx context.Context) *adapter.HealthStatus {
	return m.healthCheck(ctx, "/health")
}
