package usecase

import (
	"context"
	"errors"
	"testing"

	"disputeshield-service/internal/domain/adapter"
	"disputeshield-service/internal/domain/entity"
	"disputeshield-service/pkg/logger"
)

// fakePMS embeds the interface so only the operations the collector
// touches need stubbing.
type fakePMS struct {
	adapter.PMSAdapter
	reservations []entity.Reservation
	folio        []entity.FolioItem
	gotCriteria  adapter.SearchCriteria
}

func (f *fakePMS) SearchReservations(ctx context.Context, criteria adapter.SearchCriteria) ([]entity.Reservation, error) {
	f.gotCriteria = criteria
	return f.reservations, nil
}

func (f *fakePMS) GetGuestFolio(ctx context.Context, reservationID string) ([]entity.FolioItem, error) {
	return f.folio, nil
}

type fakePortal struct {
	adapter.DisputeAdapter
	disputeCase  *entity.DisputeCase
	requirements *entity.EvidenceRequirements
	submitted    []entity.EvidenceDocument
}

func (f *fakePortal) GetDisputeStatus(ctx context.Context, disputeID string) (*entity.DisputeCase, error) {
	return f.disputeCase, nil
}

func (f *fakePortal) GetEvidenceRequirements(ctx context.Context, disputeID string) (*entity.EvidenceRequirements, error) {
	return f.requirements, nil
}

func (f *fakePortal) SubmitEvidence(ctx context.Context, disputeID string, docs []entity.EvidenceDocument) (*entity.SubmissionResult, error) {
	f.submitted = docs
	return &entity.SubmissionResult{SubmissionID: "sub-1", Status: "submitted"}, nil
}

func testCase() *entity.DisputeCase {
	return &entity.DisputeCase{
		DisputeID:      "d-100",
		ReasonCode:     "10.4",
		ReasonCategory: entity.CategoryFraud,
		CardLastFour:   "1881",
	}
}

func TestCollectAssemblesPackage(t *testing.T) {
	pms := &fakePMS{
		reservations: []entity.Reservation{{
			ConfirmationNumber: "ABC123",
			PMSReservationID:   "res-1",
			GuestProfileID:     "cust-9",
		}},
		folio: []entity.FolioItem{{TransactionID: "t-1", Category: "room", Amount: 450}},
	}
	portal := &fakePortal{
		disputeCase: testCase(),
		requirements: &entity.EvidenceRequirements{
			ReasonCode:  "10.4",
			Required:    []string{"folio", "signed_registration_card"},
			Recommended: []string{"prior_transaction_history"},
		},
	}

	collected, err := NewEvidenceCollector(pms, portal, logger.NewNopLogger()).Collect(context.Background(), "d-100")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if pms.gotCriteria.CardLastFour != "1881" {
		t.Errorf("search criteria = %+v, want card last four join", pms.gotCriteria)
	}
	if collected.Reservation == nil || collected.Reservation.ConfirmationNumber != "ABC123" {
		t.Errorf("reservation = %+v", collected.Reservation)
	}
	if len(collected.Folio) != 1 {
		t.Errorf("folio = %+v", collected.Folio)
	}

	have := make(map[string]bool)
	for _, d := range collected.Documents {
		have[d.DocumentType] = true
	}
	for _, want := range []string{"folio", "signed_registration_card", "prior_transaction_history"} {
		if !have[want] {
			t.Errorf("missing document type %q in %v", want, collected.Documents)
		}
	}
	if len(collected.Missing) != 0 {
		t.Errorf("missing = %v, want none", collected.Missing)
	}
}

func TestCollectNoMatchingReservation(t *testing.T) {
	pms := &fakePMS{}
	portal := &fakePortal{
		disputeCase: testCase(),
		requirements: &entity.EvidenceRequirements{
			Required: []string{"folio"},
		},
	}

	collected, err := NewEvidenceCollector(pms, portal, logger.NewNopLogger()).Collect(context.Background(), "d-100")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if collected.Reservation != nil {
		t.Errorf("reservation = %+v, want nil", collected.Reservation)
	}
	if len(collected.Documents) != 0 {
		t.Errorf("documents = %v", collected.Documents)
	}
	if len(collected.Missing) == 0 {
		t.Error("everything should be reported missing")
	}
}

func TestCollectAndSubmit(t *testing.T) {
	pms := &fakePMS{
		reservations: []entity.Reservation{{ConfirmationNumber: "ABC123", PMSReservationID: "res-1"}},
		folio:        []entity.FolioItem{{TransactionID: "t-1"}},
	}
	portal := &fakePortal{
		disputeCase: testCase(),
		requirements: &entity.EvidenceRequirements{
			Required: []string{"folio", "booking_confirmation"},
		},
	}

	result, err := NewEvidenceCollector(pms, portal, logger.NewNopLogger()).CollectAndSubmit(context.Background(), "d-100")
	if err != nil {
		t.Fatalf("CollectAndSubmit: %v", err)
	}
	if result.SubmissionID != "sub-1" {
		t.Errorf("result = %+v", result)
	}
	if len(portal.submitted) == 0 {
		t.Error("no documents reached the portal")
	}
}

func TestCollectAndSubmitWithoutEvidence(t *testing.T) {
	pms := &fakePMS{}
	portal := &fakePortal{
		disputeCase:  testCase(),
		requirements: &entity.EvidenceRequirements{Required: []string{"folio"}},
	}

	_, err := NewEvidenceCollector(pms, portal, logger.NewNopLogger()).CollectAndSubmit(context.Background(), "d-100")
	var ve *adapter.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if portal.submitted != nil {
		t.Error("empty package must not be submitted")
	}
}
