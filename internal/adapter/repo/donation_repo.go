package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	base
}

// CreatePending stores a donation intent keyed by its gateway order id.
func (r *DonationRepositoryPG) CreatePending(ctx context.Context, d *domain.Donation) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = domain.PaymentMethodRazorpay
	}
	d.Status = domain.DonationStatusPending
	row := r.db.QueryRow(ctx, sqlinline.QInsertPendingDonation,
		d.ID,
		d.DonorID,
		d.CampaignID,
		d.Amount.String(),
		d.Currency,
		string(d.PaymentMethod),
		d.Anonymous,
		d.Message,
		d.OrderID,
		d.TaxDeductible,
		d.DonorCountry,
	)
	return storeErr("insert donation intent", "donation", row.Scan(&d.CreatedAt, &d.UpdatedAt))
}

// Get fetches a donation by id.
func (r *DonationRepositoryPG) Get(ctx context.Context, id string) (*domain.Donation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.NotFound("donation")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()
	d, err := scanDonation(r.db.QueryRow(ctx, sqlinline.QGetDonation, id))
	return d, storeErr("get donation", "donation", err)
}

// GetByOrderID fetches the donation carrying the gateway order id.
func (r *DonationRepositoryPG) GetByOrderID(ctx context.Context, orderID string) (*domain.Donation, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	d, err := scanDonation(r.db.QueryRow(ctx, sqlinline.QGetDonationByOrderID, orderID))
	return d, storeErr("get donation by order", "donation", err)
}

// ListByDonor returns one page of the donor's completed donations and the
// total number of them.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, donorID string, limit, offset int) ([]domain.DonationView, int64, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	var total int64
	if err := r.db.QueryRow(ctx, sqlinline.QCountDonationsByDonor, donorID).Scan(&total); err != nil {
		return nil, 0, storeErr("count donations", "donation", err)
	}
	items, err := r.listViews(ctx, sqlinline.QListDonationsByDonor, donorID, limit, offset)
	if err != nil {
		return nil, 0, storeErr("list donations", "donation", err)
	}
	return items, total, nil
}

// ListByCampaign returns the most recent completed donations of a campaign.
func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.DonationView, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	items, err := r.listViews(ctx, sqlinline.QListDonationsByCampaign, campaignID, limit)
	return items, storeErr("list campaign donations", "donation", err)
}

// ListUnreceipted returns completed donations whose receipt is still
// outstanding. Never-attempted receipts come first, oldest donation first,
// then failed ones in order of their last attempt.
func (r *DonationRepositoryPG) ListUnreceipted(ctx context.Context, limit int) ([]domain.DonationView, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	items, err := r.listViews(ctx, sqlinline.QListUnreceiptedDonations, limit)
	return items, storeErr("list unreceipted donations", "donation", err)
}

// MarkReceiptGenerated flags the donation's receipt as sent.
func (r *DonationRepositoryPG) MarkReceiptGenerated(ctx context.Context, id string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	tag, err := r.db.Exec(ctx, sqlinline.QMarkReceiptGenerated, id)
	if err != nil {
		return storeErr("mark receipt", "donation", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("donation")
	}
	return nil
}

// MarkReceiptFailed stamps the failed delivery time, which orders the
// donation behind receipts not yet attempted. A receipt generated in the
// meantime is left alone.
func (r *DonationRepositoryPG) MarkReceiptFailed(ctx context.Context, id string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()
	if _, err := r.db.Exec(ctx, sqlinline.QMarkReceiptFailed, id); err != nil {
		return storeErr("mark receipt failed", "donation", err)
	}
	return nil
}

func (r *DonationRepositoryPG) listViews(ctx context.Context, query string, args ...any) ([]domain.DonationView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []domain.DonationView{}
	for rows.Next() {
		view, err := scanDonationView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *view)
	}
	return items, rows.Err()
}

type donationRaw struct {
	amount string
	status string
	method string
}

func donationDest(d *domain.Donation, raw *donationRaw) []any {
	return []any{
		&d.ID,
		&d.DonorID,
		&d.CampaignID,
		&raw.amount,
		&d.Currency,
		&raw.status,
		&raw.method,
		&d.Anonymous,
		&d.Message,
		&d.OrderID,
		&d.PaymentID,
		&d.Signature,
		&d.ReceiptGenerated,
		&d.TaxDeductible,
		&d.DonorCountry,
		&d.CreatedAt,
		&d.UpdatedAt,
	}
}

func (raw donationRaw) apply(d *domain.Donation) error {
	amount, err := parseDecimal("amount", raw.amount)
	if err != nil {
		return err
	}
	d.Amount = amount
	d.Status = domain.DonationStatus(raw.status)
	d.PaymentMethod = domain.PaymentMethod(raw.method)
	return nil
}

func scanDonation(row scanner) (*domain.Donation, error) {
	var (
		d   domain.Donation
		raw donationRaw
	)
	if err := row.Scan(donationDest(&d, &raw)...); err != nil {
		return nil, err
	}
	if err := raw.apply(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDonationView(row scanner) (*domain.DonationView, error) {
	var (
		view domain.DonationView
		raw  donationRaw
	)
	dest := donationDest(&view.Donation, &raw)
	dest = append(dest, &view.CampaignTitle, &view.CampaignImage, &view.DonorName, &view.DonorEmail)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.apply(&view.Donation); err != nil {
		return nil, err
	}
	return &view, nil
}
