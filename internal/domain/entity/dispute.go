package entity

// DisputeStatus is the canonical case status across dispute portals
type DisputeStatus string

const (
	DisputePending   DisputeStatus = "PENDING"
	DisputeInReview  DisputeStatus = "IN_REVIEW"
	DisputeSubmitted DisputeStatus = "SUBMITTED"
	DisputeWon       DisputeStatus = "WON"
	DisputeLost      DisputeStatus = "LOST"
	DisputeExpired   DisputeStatus = "EXPIRED"
	DisputeResolved  DisputeStatus = "RESOLVED"
)

// DisputeStage is the network-defined case stage. Transitions are
// monotonic forward only.
type DisputeStage string

const (
	StageFirstChargeback DisputeStage = "first_chargeback"
	StageRepresentment   DisputeStage = "representment"
	StagePreArbitration  DisputeStage = "pre_arbitration"
	StageArbitration     DisputeStage = "arbitration"
	StageCompliance      DisputeStage = "compliance"
)

// ReasonCategory classifies a chargeback reason code
type ReasonCategory string

const (
	CategoryFraud           ReasonCategory = "FRAUD"
	CategoryAuthorization   ReasonCategory = "AUTHORIZATION"
	CategoryProcessingError ReasonCategory = "PROCESSING_ERROR"
	CategoryConsumerDispute ReasonCategory = "CONSUMER_DISPUTE"
)

// DisputeCase is the canonical chargeback case entity
type DisputeCase struct {
	DisputeID               string         `json:"disputeId"`
	CaseNumber              string         `json:"caseNumber"`
	Amount                  float64        `json:"amount"`
	Currency                string         `json:"currency"`
	CardLastFour            string         `json:"cardLastFour,omitempty"`
	CardBrand               string         `json:"cardBrand,omitempty"`
	ReasonCode              string         `json:"reasonCode"`
	ReasonCategory          ReasonCategory `json:"reasonCategory"`
	ReasonDescription       string         `json:"reasonDescription,omitempty"`
	DisputeDate             string         `json:"disputeDate"`
	DueDate                 string         `json:"dueDate"`
	Status                  DisputeStatus  `json:"status"`
	PortalStatus            string         `json:"portalStatus,omitempty"`
	Stage                   DisputeStage   `json:"disputeStage"`
	TransactionID           string         `json:"transactionId,omitempty"`
	AcquirerReferenceNumber string         `json:"acquirerReferenceNumber,omitempty"`
}

// EvidenceDocument is one document attached to a dispute response
type EvidenceDocument struct {
	DocumentType string `json:"documentType"`
	Filename     string `json:"filename"`
	ContentType  string `json:"contentType,omitempty"`
	Data         []byte `json:"-"`
	URL          string `json:"url,omitempty"`
}

// EvidenceRequirements merges portal-required and reason-code
// recommended document types for a case.
type EvidenceRequirements struct {
	ReasonCode   string   `json:"reasonCode"`
	Required     []string `json:"required"`
	Recommended  []string `json:"recommended"`
	CE3Eligible  bool     `json:"ce3Eligible"`
	ResponseDays int      `json:"responseDays"`
	DueDate      string   `json:"dueDate,omitempty"`
}

// PriorTransaction is an undisputed historical transaction used for
// Compelling Evidence 3.0 matching by IP or device fingerprint.
type PriorTransaction struct {
	TransactionID     string  `json:"transactionId"`
	TransactionDate   string  `json:"transactionDate"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	IPAddress         string  `json:"ipAddress,omitempty"`
	DeviceFingerprint string  `json:"deviceFingerprint,omitempty"`
	ShippingAddress   string  `json:"shippingAddress,omitempty"`
	Email             string  `json:"email,omitempty"`
}

// TC40Report is an issuer fraud pre-notification
type TC40Report struct {
	ReportID      string  `json:"reportId"`
	TransactionID string  `json:"transactionId"`
	CardLastFour  string  `json:"cardLastFour"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	FraudType     string  `json:"fraudType"`
	ReportDate    string  `json:"reportDate"`
}

// SubmissionResult acknowledges an evidence or response filing
type SubmissionResult struct {
	SubmissionID string `json:"submissionId"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`
}
