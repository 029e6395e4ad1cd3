package email

import (
	"fmt"

	"festmatch_backend/internal/utils"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers notifications through gomail. A fresh dialer per send
// keeps the provider stateless; transactional volume here is low.
type SMTPProvider struct {
	cfg Config
}

func NewSMTPProvider(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		p.cfg.SMTPHost,
		p.cfg.SMTPPort,
		p.cfg.SMTPUser,
		p.cfg.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendPayoutRequested(name, to string, amount decimal.Decimal, payoutID string) error {
	body := fmt.Sprintf(
		`<p>We received your withdrawal request for <b>%s</b>.</p>
		<p>Reference: %s</p>
		<p>You will hear from us once it has been reviewed.</p>`,
		utils.FormatINR(amount), payoutID,
	)
	html, err := render("Withdrawal request received", name, body)
	if err != nil {
		return err
	}
	return p.send(to, "Your withdrawal request", html)
}

func (p *SMTPProvider) SendPayoutApproved(name, to string, amount decimal.Decimal, accountNumber, bankName string) error {
	body := fmt.Sprintf(
		`<p>Your withdrawal of <b>%s</b> has been approved.</p>
		<p>The amount is on its way to account %s (%s).</p>`,
		utils.FormatINR(amount), maskAccount(accountNumber), bankName,
	)
	html, err := render("Withdrawal approved", name, body)
	if err != nil {
		return err
	}
	return p.send(to, "Your withdrawal was approved", html)
}

func (p *SMTPProvider) SendPayoutRejected(name, to string, amount decimal.Decimal) error {
	body := fmt.Sprintf(
		`<p>Your withdrawal request for <b>%s</b> was not approved.</p>
		<p>Your wallet balance is unchanged and you may submit a new request at any time.</p>`,
		utils.FormatINR(amount),
	)
	html, err := render("Withdrawal not approved", name, body)
	if err != nil {
		return err
	}
	return p.send(to, "Your withdrawal request", html)
}

func (p *SMTPProvider) SendKycDecision(name, to, queue string, approved bool, reason string) error {
	var body, subject string
	if approved {
		subject = "Your verification was approved"
		body = fmt.Sprintf(`<p>Your %s verification has been approved. You're all set.</p>`, queue)
	} else {
		subject = "Your verification needs attention"
		body = fmt.Sprintf(
			`<p>Your %s verification was rejected.</p><p>Reason: %s</p>
			<p>You can submit new documents from your profile.</p>`,
			queue, reason,
		)
	}
	html, err := render(subject, name, body)
	if err != nil {
		return err
	}
	return p.send(to, subject, html)
}

func (p *SMTPProvider) SendBookingConfirmed(name, to, eventTitle string, quantity int, amount decimal.Decimal, ticketCode string) error {
	body := fmt.Sprintf(
		`<p>Your booking for <b>%s</b> is confirmed.</p>
		<p>Tickets: %d &middot; Paid: %s</p>
		<p>Show this code at the gate: <b>%s</b></p>`,
		eventTitle, quantity, utils.FormatINR(amount), ticketCode,
	)
	html, err := render("Booking confirmed", name, body)
	if err != nil {
		return err
	}
	return p.send(to, "Booking confirmed: "+eventTitle, html)
}

// maskAccount hides all but the last four digits.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	return "****" + account[len(account)-4:]
}
