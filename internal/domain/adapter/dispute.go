package adapter

import (
	"context"

	"disputeshield-service/internal/domain/entity"
)

// DisputeFilter selects cases for listing
type DisputeFilter struct {
	Status   entity.DisputeStatus
	Stage    entity.DisputeStage
	FromDate string
	ToDate   string
	Limit    int
}

// RepresentmentRequest files a merchant response to a chargeback
type RepresentmentRequest struct {
	Narrative string
	Documents []entity.EvidenceDocument
}

// CE3Request carries Compelling Evidence 3.0 material. The network rule
// requires at least two prior undisputed transactions matched by IP or
// device fingerprint.
type CE3Request struct {
	DisputedTransactionID string
	PriorTransactions     []entity.PriorTransaction
	IPAddress             string
	DeviceFingerprint     string
}

// TC40Query selects issuer fraud pre-notifications
type TC40Query struct {
	FromDate string
	ToDate   string
	Limit    int
}

// DisputeAdapter is the uniform contract for card-network and dispute
// portal integrations.
type DisputeAdapter interface {
	Portal() string

	ReceiveDispute(ctx context.Context, payload map[string]any) (*entity.DisputeCase, error)
	GetDisputeStatus(ctx context.Context, disputeID string) (*entity.DisputeCase, error)
	ListDisputes(ctx context.Context, filter DisputeFilter) ([]entity.DisputeCase, error)
	GetEvidenceRequirements(ctx context.Context, disputeID string) (*entity.EvidenceRequirements, error)

	SubmitEvidence(ctx context.Context, disputeID string, docs []entity.EvidenceDocument) (*entity.SubmissionResult, error)
	PushResponse(ctx context.Context, disputeID string, req RepresentmentRequest) (*entity.SubmissionResult, error)
	AcceptDispute(ctx context.Context, disputeID string, reason string) (*entity.SubmissionResult, error)
	RespondToPreArbitration(ctx context.Context, disputeID string, req RepresentmentRequest) (*entity.SubmissionResult, error)
	FileArbitration(ctx context.Context, disputeID string, req RepresentmentRequest) (*entity.SubmissionResult, error)

	FetchTC40Reports(ctx context.Context, query TC40Query) ([]entity.TC40Report, error)
	SubmitCE3Evidence(ctx context.Context, disputeID string, req CE3Request) (*entity.SubmissionResult, error)

	HealthCheck(ctx context.Context) *HealthStatus
}
