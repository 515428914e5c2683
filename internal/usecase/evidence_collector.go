package usecase

import (
	"context"
	"fmt"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/logger"
)

// EvidenceCollector auto-collects stay evidence for a dispute: it
// resolves the case, finds the matching reservation and folio in the
// property's PMS, and submits the package through the dispute portal.
// It sees only canonical entities on both sides.
type EvidenceCollector struct {
	pms    adapter.PMSAdapter
	portal adapter.DisputeAdapter
	logger logger.Logger
}

// NewEvidenceCollector creates an evidence collector for one
// property's PMS and one dispute portal.
func NewEvidenceCollector(pms adapter.PMSAdapter, portal adapter.DisputeAdapter, log logger.Logger) *EvidenceCollector {
	return &EvidenceCollector{
		pms:    pms,
		portal: portal,
		logger: log,
	}
}

// CollectedEvidence is the assembled package for one dispute
type CollectedEvidence struct {
	Case        *entity.DisputeCase
	Reservation *entity.Reservation
	Folio       []entity.FolioItem
	Documents   []entity.EvidenceDocument
	Missing     []string
}

// Collect assembles the evidence package for a dispute without
// submitting it, so a reviewer can inspect what was found.
func (c *EvidenceCollector) Collect(ctx context.Context, disputeID string) (*CollectedEvidence, error) {
	dc, err := c.portal.GetDisputeStatus(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("fetch dispute %s: %w", disputeID, err)
	}

	reqs, err := c.portal.GetEvidenceRequirements(ctx, disputeID)
	if err != nil {
		return nil, fmt.Errorf("fetch evidence requirements for %s: %w", disputeID, err)
	}

	// Card last four is the strongest cross-system join key we have
	matches, err := c.pms.SearchReservations(ctx, adapter.SearchCriteria{
		CardLastFour: dc.CardLastFour,
	})
	if err != nil {
		return nil, fmt.Errorf("search reservations for dispute %s: %w", disputeID, err)
	}

	collected := &CollectedEvidence{Case: dc}
	if len(matches) == 0 {
		c.logger.Warn("No reservation matched dispute",
			"disputeId", disputeID,
			"cardLastFour", dc.CardLastFour)
		collected.Missing = append(reqs.Required, reqs.Recommended...)
		return collected, nil
	}

	res := matches[0]
	collected.Reservation = &res

	folio, err := c.pms.GetGuestFolio(ctx, res.PMSReservationID)
	if err != nil {
		c.logger.Error("Failed to fetch folio", "reservationId", res.PMSReservationID, "error", err)
	} else {
		collected.Folio = folio
	}

	collected.Documents = c.buildDocuments(res, folio, append(reqs.Required, reqs.Recommended...))
	collected.Missing = missingTypes(collected.Documents, reqs.Required)

	c.logger.Info("Collected dispute evidence",
		"disputeId", disputeID,
		"reservation", res.ConfirmationNumber,
		"documents", len(collected.Documents),
		"missing", len(collected.Missing))
	return collected, nil
}

// CollectAndSubmit runs Collect and files whatever was assembled
func (c *EvidenceCollector) CollectAndSubmit(ctx context.Context, disputeID string) (*entity.SubmissionResult, error) {
	collected, err := c.Collect(ctx, disputeID)
	if err != nil {
		return nil, err
	}
	if len(collected.Documents) == 0 {
		return nil, &adapter.ValidationError{
			Field:   "documents",
			Message: fmt.Sprintf("no evidence could be collected for dispute %s", disputeID),
		}
	}
	result, err := c.portal.SubmitEvidence(ctx, disputeID, collected.Documents)
	if err != nil {
		return nil, fmt.Errorf("submit evidence for %s: %w", disputeID, err)
	}
	return result, nil
}

// buildDocuments renders the canonical entities into the document
// types the reason code calls for. Only types we can actually satisfy
// from PMS data are produced.
func (c *EvidenceCollector) buildDocuments(res entity.Reservation, folio []entity.FolioItem, wanted []string) []entity.EvidenceDocument {
	var docs []entity.EvidenceDocument
	for _, docType := range wanted {
		switch docType {
		case "folio":
			if len(folio) > 0 {
				docs = append(docs, entity.EvidenceDocument{
					DocumentType: "folio",
					Filename:     fmt.Sprintf("folio_%s.json", res.ConfirmationNumber),
					ContentType:  "application/json",
				})
			}
		case "booking_confirmation", "signed_registration_card":
			docs = append(docs, entity.EvidenceDocument{
				DocumentType: docType,
				Filename:     fmt.Sprintf("%s_%s.json", docType, res.ConfirmationNumber),
				ContentType:  "application/json",
			})
		case "prior_transaction_history":
			if res.GuestProfileID != "" {
				docs = append(docs, entity.EvidenceDocument{
					DocumentType: "prior_transaction_history",
					Filename:     fmt.Sprintf("history_%s.json", res.GuestProfileID),
					ContentType:  "application/json",
				})
			}
		}
	}
	return docs
}

func missingTypes(docs []entity.EvidenceDocument, required []string) []string {
	have := make(map[string]bool, len(docs))
	for _, d := range docs {
		have[d.DocumentType] = true
	}
	var missing []string
	for _, r := range required {
		if !have[r] {
			missing = append(missing, r)
		}
	}
	return missing
}
