package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

// LedgerRepositoryPG applies completed donations and their aggregate
// increments in one transaction.
type LedgerRepositoryPG struct {
	base
}

// CompleteDonation implements domain.LedgerRepository. The donation row, a
// guest donor account, the campaign increment, the donor increment and
// milestone updates commit together or not at all. Increments are computed
// by Postgres, never read and written back.
func (r *LedgerRepositoryPG) CompleteDonation(ctx context.Context, d *domain.Donation, guest *domain.Guest) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	replayed := false
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		replayed = false
		intent, done, err := r.lockAttempt(ctx, tx, d)
		if err != nil {
			return err
		}
		if done {
			replayed = true
			return nil
		}
		if err := r.resolveDonor(ctx, tx, d, guest); err != nil {
			return err
		}
		if intent != nil {
			err = r.completeIntent(ctx, tx, intent, d)
		} else {
			done, err = r.insertCompleted(ctx, tx, d)
		}
		if err != nil {
			return err
		}
		if done {
			replayed = true
			return nil
		}

		var raisedRaw string
		if err := tx.QueryRow(ctx, sqlinline.QIncrementCampaignTotals, d.CampaignID, d.Amount.String()).Scan(&raisedRaw); err != nil {
			if infra.IsNoRows(err) {
				return domain.NotFound("campaign")
			}
			return err
		}
		tag, err := tx.Exec(ctx, sqlinline.QIncrementUserTotals, d.DonorID, d.Amount.String())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.NotFound("user")
		}
		_, err = tx.Exec(ctx, sqlinline.QMarkMilestonesAchieved, d.CampaignID, raisedRaw)
		return err
	})
	if err != nil {
		return false, storeErr("complete donation", "donation", err)
	}
	return replayed, nil
}

// lockAttempt locks the donation row of d's gateway order. It returns the
// pending intent to complete, or done=true with d replaced by the completed
// record.
func (r *LedgerRepositoryPG) lockAttempt(ctx context.Context, tx infra.SQLExecutor, d *domain.Donation) (*domain.Donation, bool, error) {
	if d.OrderID == "" {
		return nil, false, nil
	}
	existing, err := scanDonation(tx.QueryRow(ctx, sqlinline.QLockDonationByOrderID, d.OrderID))
	if infra.IsNoRows(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	switch existing.Status {
	case domain.DonationStatusCompleted:
		*d = *existing
		return nil, true, nil
	case domain.DonationStatusPending:
	default:
		return nil, false, domain.Invalid("order %s is %s", existing.OrderID, existing.Status)
	}
	if err := domain.CheckIntent(existing, d); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *LedgerRepositoryPG) resolveDonor(ctx context.Context, tx infra.SQLExecutor, d *domain.Donation, guest *domain.Guest) error {
	if d.DonorID != "" {
		return nil
	}
	if guest == nil {
		return domain.Invalid("donor is required")
	}
	donor, err := scanUser(tx.QueryRow(ctx, sqlinline.QFindOrCreateUserByEmail, uuid.NewString(), guest.Name, guest.Email))
	if err != nil {
		return err
	}
	d.DonorID = donor.ID
	return nil
}

// insertCompleted writes d as a completed donation with no prior intent. It
// reports true when a concurrent request recorded the same payment first, in
// which case d is replaced by the stored record.
func (r *LedgerRepositoryPG) insertCompleted(ctx context.Context, tx infra.SQLExecutor, d *domain.Donation) (bool, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = domain.PaymentMethodRazorpay
	}
	d.Status = domain.DonationStatusCompleted
	err := tx.QueryRow(ctx, sqlinline.QInsertCompletedDonation,
		d.ID,
		d.DonorID,
		d.CampaignID,
		d.Amount.String(),
		d.Currency,
		string(d.PaymentMethod),
		d.Anonymous,
		d.Message,
		d.OrderID,
		d.PaymentID,
		d.Signature,
		d.TaxDeductible,
		d.DonorCountry,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err == nil {
		return false, nil
	}
	if !infra.IsNoRows(err) {
		return false, err
	}

	// The insert hit a unique gateway id committed by a concurrent request.
	stored, err := r.storedByGatewayIDs(ctx, tx, d.OrderID, d.PaymentID)
	if err != nil {
		return false, err
	}
	if stored.Status != domain.DonationStatusCompleted {
		return false, domain.Conflict("donation for this payment is being processed")
	}
	*d = *stored
	return true, nil
}

func (r *LedgerRepositoryPG) completeIntent(ctx context.Context, tx infra.SQLExecutor, intent, d *domain.Donation) error {
	err := tx.QueryRow(ctx, sqlinline.QCompletePendingDonation,
		intent.ID,
		d.DonorID,
		d.PaymentID,
		d.Signature,
		d.Anonymous,
		d.Message,
		d.DonorCountry,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}
	d.ID = intent.ID
	d.Status = domain.DonationStatusCompleted
	d.Currency = intent.Currency
	d.PaymentMethod = intent.PaymentMethod
	d.TaxDeductible = intent.TaxDeductible
	return nil
}

// CampaignBalance reads the stored aggregates and the completed-donation
// totals of a campaign in one statement.
func (r *LedgerRepositoryPG) CampaignBalance(ctx context.Context, campaignID string) (domain.CampaignBalance, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var (
		storedRaw, ledgerRaw string
		b                    domain.CampaignBalance
	)
	err := r.db.QueryRow(ctx, sqlinline.QCampaignBalance, campaignID).
		Scan(&storedRaw, &b.Stored.Count, &ledgerRaw, &b.Ledger.Count)
	if err != nil {
		return b, storeErr("campaign balance", "campaign", err)
	}
	if b.Stored.Raised, err = parseDecimal("raised_amount", storedRaw); err != nil {
		return b, domain.Persistence("campaign balance", err)
	}
	if b.Ledger.Raised, err = parseDecimal("ledger raised", ledgerRaw); err != nil {
		return b, domain.Persistence("campaign balance", err)
	}
	return b, nil
}

// RecomputeCampaignAggregates locks the campaign row before summing, so every
// donation that incremented the campaign earlier is in the sum and every
// later one increments on top of it.
func (r *LedgerRepositoryPG) RecomputeCampaignAggregates(ctx context.Context, campaignID string) (domain.LedgerTotals, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var totals domain.LedgerTotals
	err := r.db.InTx(ctx, func(tx infra.SQLExecutor) error {
		var locked string
		if err := tx.QueryRow(ctx, sqlinline.QLockCampaignAggregates, campaignID).Scan(&locked); err != nil {
			return err
		}
		var raw string
		if err := tx.QueryRow(ctx, sqlinline.QRecomputeCampaignAggregates, campaignID).Scan(&raw, &totals.Count); err != nil {
			return err
		}
		raised, err := parseDecimal("raised_amount", raw)
		if err != nil {
			return err
		}
		totals.Raised = raised
		return nil
	})
	if err != nil {
		return domain.LedgerTotals{}, storeErr("recompute campaign aggregates", "campaign", err)
	}
	return totals, nil
}

func (r *LedgerRepositoryPG) storedByGatewayIDs(ctx context.Context, tx infra.SQLExecutor, orderID, paymentID string) (*domain.Donation, error) {
	if orderID != "" {
		stored, err := scanDonation(tx.QueryRow(ctx, sqlinline.QGetDonationByOrderID, orderID))
		if err == nil || !infra.IsNoRows(err) {
			return stored, err
		}
	}
	return scanDonation(tx.QueryRow(ctx, sqlinline.QGetDonationByPaymentID, paymentID))
}
