package notify

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/domain"
)

const (
	DefaultBatchSize = 20
	defaultMaxTries  = 4
)

// Poller sends receipts for completed donations that have none yet and
// flags them as generated. Receipt failures never touch ledger state. A
// donation whose send failed is retried on later polls, after receipts that
// have not been attempted yet.
type Poller struct {
	donations  domain.DonationRepository
	sender     Sender
	logger     zerolog.Logger
	interval   time.Duration
	batch      int
	maxTries   uint
	newBackOff func() backoff.BackOff
}

func NewPoller(donations domain.DonationRepository, sender Sender, logger zerolog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Poller{
		donations: donations,
		sender:    sender,
		logger:    logger,
		interval:  interval,
		batch:     DefaultBatchSize,
		maxTries:  defaultMaxTries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info().Dur("interval", p.interval).Msg("receipt poller started")
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if _, err := p.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error().Err(err).Msg("receipt poll failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes one batch and returns how many receipts were sent.
func (p *Poller) RunOnce(ctx context.Context) (int, error) {
	pending, err := p.donations.ListUnreceipted(ctx, p.batch)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, d := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		log := p.logger.With().Str("donation_id", d.ID).Logger()
		if d.DonorEmail == "" {
			log.Debug().Msg("donation has no recipient, skipping receipt")
		} else {
			if err := p.send(ctx, receiptFor(d)); err != nil {
				log.Warn().Err(err).Msg("receipt delivery failed")
				if err := p.donations.MarkReceiptFailed(ctx, d.ID); err != nil {
					log.Error().Err(err).Msg("mark receipt failed")
				}
				continue
			}
			sent++
		}
		if err := p.donations.MarkReceiptGenerated(ctx, d.ID); err != nil {
			log.Error().Err(err).Msg("mark receipt generated failed")
		}
	}
	return sent, nil
}

func (p *Poller) send(ctx context.Context, r Receipt) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, p.sender.Send(ctx, r)
	},
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(p.maxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.logger.Debug().Err(err).Str("donation_id", r.DonationID).Dur("retry_in", next).Msg("retrying receipt")
		}),
	)
	return err
}

func receiptFor(d domain.DonationView) Receipt {
	return Receipt{
		DonationID:    d.ID,
		To:            d.DonorEmail,
		DonorName:     d.DonorName,
		CampaignTitle: d.CampaignTitle,
		Amount:        d.Amount,
		Currency:      d.Currency,
		PaymentID:     d.PaymentID,
		TaxDeductible: d.TaxDeductible,
		Date:          d.CreatedAt,
	}
}
