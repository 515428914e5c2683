// Package dispute implements the card-network dispute portal
// integrations, the chargeback lifecycle state machine and the Visa
// reason-code taxonomy.
package dispute

import (
	"fmt"
	"strings"
	"time"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
)

// ReasonCodeInfo describes one chargeback reason code: its category,
// the base response deadline and the compelling-evidence documents a
// representment should carry.
type ReasonCodeInfo struct {
	Code         string                `json:"code"`
	Category     entity.ReasonCategory `json:"category"`
	Description  string                `json:"description"`
	ResponseDays int                   `json:"responseDays"`
	CE3Eligible  bool                  `json:"ce3Eligible"`
	Evidence     []string              `json:"evidence"`
}

var reasonCodes = map[string]ReasonCodeInfo{
	"10.1": {Code: "10.1", Category: entity.CategoryFraud, Description: "EMV Liability Shift Counterfeit Fraud", ResponseDays: 30,
		Evidence: []string{"signed_receipt", "emv_transaction_data", "terminal_certification"}},
	"10.2": {Code: "10.2", Category: entity.CategoryFraud, Description: "EMV Liability Shift Non-Counterfeit Fraud", ResponseDays: 30,
		Evidence: []string{"signed_receipt", "emv_transaction_data", "id_verification"}},
	"10.3": {Code: "10.3", Category: entity.CategoryFraud, Description: "Other Fraud - Card Present Environment", ResponseDays: 30,
		Evidence: []string{"signed_receipt", "signed_registration_card", "id_verification", "key_card_records"}},
	"10.4": {Code: "10.4", Category: entity.CategoryFraud, Description: "Other Fraud - Card Absent Environment", ResponseDays: 30, CE3Eligible: true,
		Evidence: []string{"signed_registration_card", "folio", "prior_transaction_history", "ip_address_match", "device_fingerprint", "avs_cvv_results"}},
	"10.5": {Code: "10.5", Category: entity.CategoryFraud, Description: "Visa Fraud Monitoring Program", ResponseDays: 30,
		Evidence: []string{"folio", "transaction_receipt"}},
	"11.1": {Code: "11.1", Category: entity.CategoryAuthorization, Description: "Card Recovery Bulletin", ResponseDays: 30,
		Evidence: []string{"authorization_record"}},
	"11.2": {Code: "11.2", Category: entity.CategoryAuthorization, Description: "Declined Authorization", ResponseDays: 30,
		Evidence: []string{"authorization_record", "approval_code"}},
	"11.3": {Code: "11.3", Category: entity.CategoryAuthorization, Description: "No Authorization", ResponseDays: 30,
		Evidence: []string{"authorization_record", "approval_code", "folio"}},
	"12.1": {Code: "12.1", Category: entity.CategoryProcessingError, Description: "Late Presentment", ResponseDays: 30,
		Evidence: []string{"transaction_receipt", "processing_dates"}},
	"12.2": {Code: "12.2", Category: entity.CategoryProcessingError, Description: "Incorrect Transaction Code", ResponseDays: 30,
		Evidence: []string{"transaction_receipt", "folio"}},
	"12.3": {Code: "12.3", Category: entity.CategoryProcessingError, Description: "Incorrect Currency", ResponseDays: 30,
		Evidence: []string{"transaction_receipt", "currency_disclosure"}},
	"12.4": {Code: "12.4", Category: entity.CategoryProcessingError, Description: "Incorrect Account Number", ResponseDays: 30,
		Evidence: []string{"transaction_receipt", "authorization_record"}},
	"12.5": {Code: "12.5", Category: entity.CategoryProcessingError, Description: "Incorrect Amount", ResponseDays: 30,
		Evidence: []string{"folio", "signed_receipt", "rate_agreement"}},
	"12.6": {Code: "12.6", Category: entity.CategoryProcessingError, Description: "Duplicate Processing / Paid by Other Means", ResponseDays: 30,
		Evidence: []string{"folio", "transaction_receipt", "payment_records"}},
	"12.7": {Code: "12.7", Category: entity.CategoryProcessingError, Description: "Invalid Data", ResponseDays: 30,
		Evidence: []string{"authorization_record", "transaction_receipt"}},
	"13.1": {Code: "13.1", Category: entity.CategoryConsumerDispute, Description: "Merchandise/Services Not Received", ResponseDays: 30,
		Evidence: []string{"folio", "key_card_records", "signed_registration_card", "no_show_policy"}},
	"13.2": {Code: "13.2", Category: entity.CategoryConsumerDispute, Description: "Cancelled Recurring Transaction", ResponseDays: 30,
		Evidence: []string{"cancellation_policy", "booking_confirmation", "terms_acceptance"}},
	"13.3": {Code: "13.3", Category: entity.CategoryConsumerDispute, Description: "Not as Described or Defective Merchandise/Services", ResponseDays: 30,
		Evidence: []string{"folio", "booking_confirmation", "room_description", "guest_correspondence"}},
	"13.4": {Code: "13.4", Category: entity.CategoryConsumerDispute, Description: "Counterfeit Merchandise", ResponseDays: 30,
		Evidence: []string{"transaction_receipt"}},
	"13.5": {Code: "13.5", Category: entity.CategoryConsumerDispute, Description: "Misrepresentation", ResponseDays: 30,
		Evidence: []string{"booking_confirmation", "terms_acceptance", "guest_correspondence"}},
	"13.6": {Code: "13.6", Category: entity.CategoryConsumerDispute, Description: "Credit Not Processed", ResponseDays: 30,
		Evidence: []string{"refund_policy", "credit_documentation", "guest_correspondence"}},
	"13.7": {Code: "13.7", Category: entity.CategoryConsumerDispute, Description: "Cancelled Merchandise/Services", ResponseDays: 30,
		Evidence: []string{"cancellation_policy", "booking_confirmation", "no_show_policy"}},
}

// NormalizeReasonCode resolves a reason code to its taxonomy entry.
// Unrecognized sub-codes fall back to a major-category guess instead
// of failing, so newly introduced codes still classify.
func NormalizeReasonCode(code string) ReasonCodeInfo {
	code = strings.TrimSpace(code)
	if info, ok := reasonCodes[code]; ok {
		return info
	}
	info := ReasonCodeInfo{
		Code:         code,
		Description:  "Unrecognized reason code",
		ResponseDays: 30,
	}
	switch {
	case strings.HasPrefix(code, "10."):
		info.Category = entity.CategoryFraud
	case strings.HasPrefix(code, "11."):
		info.Category = entity.CategoryAuthorization
	case strings.HasPrefix(code, "12."):
		info.Category = entity.CategoryProcessingError
	default:
		info.Category = entity.CategoryConsumerDispute
	}
	return info
}

var stageOrder = map[entity.DisputeStage]int{
	entity.StageFirstChargeback: 0,
	entity.StageRepresentment:   1,
	entity.StagePreArbitration:  2,
	entity.StageArbitration:     3,
	entity.StageCompliance:      4,
}

// Stage-specific deadline overrides, in days. Stages without an
// override use the reason code's base deadline.
var stageDeadlines = map[entity.DisputeStage]int{
	entity.StagePreArbitration: 30,
	entity.StageArbitration:    10,
	entity.StageCompliance:     45,
}

// DeadlineDays returns the response deadline for a stage, falling back
// to the reason code's base deadline for early stages.
func DeadlineDays(stage entity.DisputeStage, reasonCode string) int {
	if days, ok := stageDeadlines[stage]; ok {
		return days
	}
	return NormalizeReasonCode(reasonCode).ResponseDays
}

// AdvanceStage moves a case forward through the lifecycle. Backward
// and repeated transitions are rejected; the due date is recomputed
// from the new stage's deadline.
func AdvanceStage(c *entity.DisputeCase, to entity.DisputeStage, now time.Time) error {
	fromOrder, ok := stageOrder[c.Stage]
	if !ok {
		fromOrder = -1
	}
	toOrder, ok := stageOrder[to]
	if !ok {
		return &adapter.ValidationError{Field: "stage", Message: fmt.Sprintf("unknown dispute stage %q", to)}
	}
	if toOrder <= fromOrder {
		return &adapter.ValidationError{
			Field:   "stage",
			Message: fmt.Sprintf("cannot move from %s to %s: stage transitions are forward only", c.Stage, to),
		}
	}
	c.Stage = to
	c.DueDate = now.AddDate(0, 0, DeadlineDays(to, c.ReasonCode)).UTC().Format("2006-01-02")
	return nil
}

// NormalizeDisputeStatus maps portal status vocabulary onto the
// canonical case status set.
func NormalizeDisputeStatus(portal string) entity.DisputeStatus {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(portal, " ", "_"))) {
	case "pending", "new", "open", "received", "action_required", "awaiting_response":
		return entity.DisputePending
	case "in_review", "under_review", "reviewing", "investigating", "pending_review":
		return entity.DisputeInReview
	case "submitted", "responded", "response_submitted", "representment_filed", "evidence_submitted":
		return entity.DisputeSubmitted
	case "won", "resolved_merchant", "merchant_won", "reversed", "ruled_in_favor":
		return entity.DisputeWon
	case "lost", "resolved_cardholder", "merchant_lost", "upheld", "ruled_against":
		return entity.DisputeLost
	case "expired", "timed_out", "no_response":
		return entity.DisputeExpired
	case "resolved", "closed", "accepted", "settled", "withdrawn":
		return entity.DisputeResolved
	default:
		return entity.DisputePending
	}
}
