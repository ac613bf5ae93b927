package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

const (
	testCampaignID = "7d3c1c4e-5d8e-4d55-9a55-0c3f5b8a1f01"
	testDonorID    = "2f9a0e61-8b1c-4f0e-a3d4-1b2c3d4e5f60"
	testDonationID = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"
)

var testTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func donationRow(status string, amount string) []any {
	return []any{
		testDonationID, testDonorID, testCampaignID, amount, "INR", status,
		"razorpay", false, "", "order_1", "", "", false, true, "", testTime, testTime,
	}
}

func newDonation() *domain.Donation {
	return &domain.Donation{
		DonorID:    testDonorID,
		CampaignID: testCampaignID,
		Amount:     decimal.NewFromInt(5000),
		Currency:   "INR",
		OrderID:    "order_1",
		PaymentID:  "pay_1",
		Signature:  "sig",
	}
}

func TestCompleteDonationInsertsAndIncrements(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QInsertCompletedDonation] = func([]any) simpleRow {
		return simpleRow{values: []any{testTime, testTime}}
	}
	db.rows[sqlinline.QIncrementCampaignTotals] = func(args []any) simpleRow {
		return simpleRow{values: []any{"30000.00"}}
	}
	store := NewStore(db, time.Second)

	d := newDonation()
	replayed, err := store.Ledger().CompleteDonation(context.Background(), d, nil)
	if err != nil {
		t.Fatalf("CompleteDonation() error: %v", err)
	}
	if replayed {
		t.Fatalf("CompleteDonation() reported replay for a new order")
	}
	if d.ID == "" || d.Status != domain.DonationStatusCompleted {
		t.Fatalf("donation not completed: %+v", d)
	}
	if db.txs != 1 {
		t.Fatalf("expected one transaction, got %d", db.txs)
	}

	inc := db.called(sqlinline.QIncrementCampaignTotals)
	if len(inc) != 1 || inc[0].args[0] != testCampaignID || inc[0].args[1] != "5000" {
		t.Fatalf("unexpected campaign increment: %#v", inc)
	}
	users := db.called(sqlinline.QIncrementUserTotals)
	if len(users) != 1 || users[0].args[0] != testDonorID || users[0].args[1] != "5000" {
		t.Fatalf("unexpected user increment: %#v", users)
	}
	milestones := db.called(sqlinline.QMarkMilestonesAchieved)
	if len(milestones) != 1 || milestones[0].args[1] != "30000.00" {
		t.Fatalf("milestones not evaluated against new total: %#v", milestones)
	}
}

func TestCompleteDonationReplayIsNoop(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QLockDonationByOrderID] = func([]any) simpleRow {
		return simpleRow{values: donationRow("completed", "5000.00")}
	}
	store := NewStore(db, time.Second)

	d := newDonation()
	replayed, err := store.Ledger().CompleteDonation(context.Background(), d, nil)
	if err != nil {
		t.Fatalf("CompleteDonation() error: %v", err)
	}
	if !replayed || d.ID != testDonationID {
		t.Fatalf("expected replay of stored donation, got replayed=%v id=%q", replayed, d.ID)
	}
	for _, q := range []string{sqlinline.QInsertCompletedDonation, sqlinline.QIncrementCampaignTotals, sqlinline.QIncrementUserTotals} {
		if n := len(db.called(q)); n != 0 {
			t.Fatalf("replay executed a write (%d calls)", n)
		}
	}
}

func TestCompleteDonationCompletesPendingIntent(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QLockDonationByOrderID] = func([]any) simpleRow {
		return simpleRow{values: donationRow("pending", "5000.00")}
	}
	db.rows[sqlinline.QCompletePendingDonation] = func([]any) simpleRow {
		return simpleRow{values: []any{testTime, testTime}}
	}
	db.rows[sqlinline.QIncrementCampaignTotals] = func([]any) simpleRow {
		return simpleRow{values: []any{"5000.00"}}
	}
	store := NewStore(db, time.Second)

	d := newDonation()
	if _, err := store.Ledger().CompleteDonation(context.Background(), d, nil); err != nil {
		t.Fatalf("CompleteDonation() error: %v", err)
	}
	if d.ID != testDonationID {
		t.Fatalf("intent id not reused: %q", d.ID)
	}
	if n := len(db.called(sqlinline.QInsertCompletedDonation)); n != 0 {
		t.Fatalf("intent completion inserted a second row")
	}
}

func TestCompleteDonationRejectsMismatchedIntent(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QLockDonationByOrderID] = func([]any) simpleRow {
		return simpleRow{values: donationRow("pending", "100.00")}
	}
	store := NewStore(db, time.Second)

	_, err := store.Ledger().CompleteDonation(context.Background(), newDonation(), nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("CompleteDonation() error = %v, want ErrValidation", err)
	}
	if n := len(db.called(sqlinline.QIncrementCampaignTotals)); n != 0 {
		t.Fatalf("aggregates incremented for mismatched intent")
	}
}

func TestCompleteDonationMissingCampaign(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QInsertCompletedDonation] = func([]any) simpleRow {
		return simpleRow{values: []any{testTime, testTime}}
	}
	store := NewStore(db, time.Second)

	_, err := store.Ledger().CompleteDonation(context.Background(), newDonation(), nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("CompleteDonation() error = %v, want ErrNotFound", err)
	}
	if n := len(db.called(sqlinline.QIncrementUserTotals)); n != 0 {
		t.Fatalf("user incremented after campaign lookup failed")
	}
}

func TestCompleteDonationPersistenceFailure(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QInsertCompletedDonation] = func([]any) simpleRow {
		return simpleRow{values: []any{testTime, testTime}}
	}
	db.rows[sqlinline.QIncrementCampaignTotals] = func([]any) simpleRow {
		return simpleRow{err: context.DeadlineExceeded}
	}
	store := NewStore(db, time.Second)

	_, err := store.Ledger().CompleteDonation(context.Background(), newDonation(), nil)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("CompleteDonation() error = %v, want ErrPersistence", err)
	}
}

func TestCompleteDonationCreatesGuestInsideTransaction(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QFindOrCreateUserByEmail] = func(args []any) simpleRow {
		return simpleRow{values: []any{
			testDonorID, args[1], args[2], "", "donor", false, "0", int64(0), testTime, testTime,
		}}
	}
	db.rows[sqlinline.QInsertCompletedDonation] = func([]any) simpleRow {
		return simpleRow{values: []any{testTime, testTime}}
	}
	db.rows[sqlinline.QIncrementCampaignTotals] = func([]any) simpleRow {
		return simpleRow{values: []any{"5000.00"}}
	}
	store := NewStore(db, time.Second)

	d := newDonation()
	d.DonorID = ""
	guest := &domain.Guest{Name: "Guest", Email: "guest@example.com"}
	if _, err := store.Ledger().CompleteDonation(context.Background(), d, guest); err != nil {
		t.Fatalf("CompleteDonation() error: %v", err)
	}
	if d.DonorID != testDonorID {
		t.Fatalf("donation donor = %q, want guest account", d.DonorID)
	}
	if db.txs != 1 {
		t.Fatalf("expected one transaction, got %d", db.txs)
	}
	insert := db.called(sqlinline.QInsertCompletedDonation)
	if len(insert) != 1 || insert[0].args[1] != testDonorID {
		t.Fatalf("donation inserted with donor %#v", insert)
	}
}

func TestCompleteDonationMismatchedIntentCreatesNoGuest(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QLockDonationByOrderID] = func([]any) simpleRow {
		return simpleRow{values: donationRow("pending", "100.00")}
	}
	store := NewStore(db, time.Second)

	d := newDonation()
	d.DonorID = ""
	_, err := store.Ledger().CompleteDonation(context.Background(), d, &domain.Guest{Name: "Stray", Email: "stray@example.com"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("CompleteDonation() error = %v, want ErrValidation", err)
	}
	if n := len(db.called(sqlinline.QFindOrCreateUserByEmail)); n != 0 {
		t.Fatalf("guest account written for a rejected donation")
	}
}

func TestCampaignBalance(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QCampaignBalance] = func([]any) simpleRow {
		return simpleRow{values: []any{"25000.00", int64(15), "30000.00", int64(16)}}
	}
	store := NewStore(db, time.Second)

	b, err := store.Ledger().CampaignBalance(context.Background(), testCampaignID)
	if err != nil {
		t.Fatalf("CampaignBalance() error: %v", err)
	}
	if !b.Stored.Raised.Equal(decimal.NewFromInt(25000)) || b.Stored.Count != 15 {
		t.Fatalf("unexpected stored totals: %+v", b.Stored)
	}
	if !b.Ledger.Raised.Equal(decimal.NewFromInt(30000)) || b.Ledger.Count != 16 {
		t.Fatalf("unexpected ledger totals: %+v", b.Ledger)
	}

	if _, err := NewStore(newFakeDB(), time.Second).Ledger().CampaignBalance(context.Background(), testCampaignID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing campaign error = %v, want ErrNotFound", err)
	}
}

func TestRecomputeCampaignAggregatesLocksFirst(t *testing.T) {
	db := newFakeDB()
	db.rows[sqlinline.QLockCampaignAggregates] = func([]any) simpleRow {
		return simpleRow{values: []any{testCampaignID}}
	}
	db.rows[sqlinline.QRecomputeCampaignAggregates] = func([]any) simpleRow {
		return simpleRow{values: []any{"30000.00", int64(16)}}
	}
	store := NewStore(db, time.Second)

	totals, err := store.Ledger().RecomputeCampaignAggregates(context.Background(), testCampaignID)
	if err != nil {
		t.Fatalf("RecomputeCampaignAggregates() error: %v", err)
	}
	if !totals.Raised.Equal(decimal.NewFromInt(30000)) || totals.Count != 16 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if db.txs != 1 {
		t.Fatalf("expected one transaction, got %d", db.txs)
	}
	if len(db.calls) != 2 || db.calls[0].query != sqlinline.QLockCampaignAggregates || db.calls[1].query != sqlinline.QRecomputeCampaignAggregates {
		t.Fatalf("unexpected statement order: %#v", db.calls)
	}
}

func TestRecomputeCampaignAggregatesMissingCampaign(t *testing.T) {
	db := newFakeDB()
	store := NewStore(db, time.Second)

	_, err := store.Ledger().RecomputeCampaignAggregates(context.Background(), testCampaignID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("RecomputeCampaignAggregates() error = %v, want ErrNotFound", err)
	}
	if n := len(db.called(sqlinline.QRecomputeCampaignAggregates)); n != 0 {
		t.Fatalf("recompute ran without the campaign lock")
	}
}
