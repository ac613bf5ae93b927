// Package notify delivers donation receipts.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/campaigns"
)

// Receipt is the content of one donation receipt.
type Receipt struct {
	DonationID    string
	To            string
	DonorName     string
	CampaignTitle string
	Amount        decimal.Decimal
	Currency      string
	PaymentID     string
	TaxDeductible bool
	Date          time.Time
}

// Sender delivers a receipt.
type Sender interface {
	Send(ctx context.Context, r Receipt) error
}

// Subject returns the mail subject line of r.
func (r Receipt) Subject() string {
	return "Donation receipt: " + r.CampaignTitle
}

// Body renders the plain text receipt.
func (r Receipt) Body() string {
	format := campaigns.NewFormatter("en")
	name := r.DonorName
	if name == "" {
		name = "Devotee"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Thank you for your donation of %s to %q.\n\n", format.Amount(r.Amount, r.Currency), r.CampaignTitle)
	fmt.Fprintf(&b, "Receipt number: %s\n", r.DonationID)
	if r.PaymentID != "" {
		fmt.Fprintf(&b, "Payment reference: %s\n", r.PaymentID)
	}
	fmt.Fprintf(&b, "Date: %s\n", r.Date.Format("02 Jan 2006"))
	if r.TaxDeductible {
		b.WriteString("This donation is eligible for tax deduction.\n")
	}
	b.WriteString("\nWith gratitude,\nTemple Crowdfunding\n")
	return b.String()
}

// SMTPSender mails receipts through an SMTP relay.
type SMTPSender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPSender(host, port, user, pass, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, user: user, pass: pass, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, r Receipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	e := email.NewEmail()
	e.From = s.from
	e.To = []string{r.To}
	e.Subject = r.Subject()
	e.Text = []byte(r.Body())

	return e.Send(addr, auth)
}

// LogSender writes receipts to the log instead of mailing them. Used in mock
// mode and when no SMTP relay is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, r Receipt) error {
	s.logger.Info().
		Str("donation_id", r.DonationID).
		Str("to", r.To).
		Str("campaign", r.CampaignTitle).
		Str("amount", r.Amount.String()).
		Str("currency", r.Currency).
		Msg("receipt")
	return nil
}
