package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/pkg/observability"
)

// Template names, also used as metric labels
const (
	TemplateWelcome          = "welcome"
	TemplateVerificationCode = "verification_code"
	TemplateResetCode        = "reset_code"
	TemplateAccountDeleted   = "account_deleted"
)

const productName = "BiloGames"

// Notifier renders account emails and hands them to a Sender
type Notifier struct {
	sender  Sender
	metrics *observability.AuthMetrics
	codeTTL   time.Duration
	retention time.Duration
}

// NewNotifier builds a notifier. retention is how long unverified accounts are kept.
func NewNotifier(sender Sender, metrics *observability.AuthMetrics, codeTTL, retention time.Duration) *Notifier {
	return &Notifier{
		sender:    sender,
		metrics:   metrics,
		codeTTL:   codeTTL,
		retention: retention,
	}
}

// formatPeriod renders whole days as "N days" and anything else as a Go duration
func formatPeriod(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d == day:
		return "1 day"
	case d > 0 && d%day == 0:
		return fmt.Sprintf("%d days", d/day)
	default:
		return d.String()
	}
}

func (n *Notifier) send(ctx context.Context, template string, msg Message) error {
	err := n.sender.Send(ctx, msg)
	n.metrics.Email(ctx, template, err)
	return err
}

func (n *Notifier) SendWelcome(ctx context.Context, user *domain.User) error {
	body := fmt.Sprintf(`Hi %s,

Welcome to %s! Your account "%s" has been created.

Please verify your email address from your account settings within %s,
otherwise the account will be deleted automatically.

The %s team
`, user.Firstname, productName, user.Username, formatPeriod(n.retention), productName)

	return n.send(ctx, TemplateWelcome, Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Welcome to %s", productName),
		Body:    body,
	})
}

func (n *Notifier) SendVerificationCode(ctx context.Context, user *domain.User, code string) error {
	body := fmt.Sprintf(`Hi %s,

Your email verification code is: %s

It expires in %d minutes. If you did not request it, you can ignore this email.

The %s team
`, user.Firstname, code, int(n.codeTTL.Minutes()), productName)

	return n.send(ctx, TemplateVerificationCode, Message{
		To:      user.Email,
		Subject: fmt.Sprintf("%s - Verify your email", productName),
		Body:    body,
	})
}

func (n *Notifier) SendResetCode(ctx context.Context, user *domain.User, code string) error {
	body := fmt.Sprintf(`Hi %s,

Your password reset code is: %s

It expires in %d minutes. If you did not ask to reset your password, you can ignore this email.

The %s team
`, user.Firstname, code, int(n.codeTTL.Minutes()), productName)

	return n.send(ctx, TemplateResetCode, Message{
		To:      user.Email,
		Subject: fmt.Sprintf("%s - Password reset", productName),
		Body:    body,
	})
}

func (n *Notifier) SendAccountDeleted(ctx context.Context, user *domain.User) error {
	body := fmt.Sprintf(`Hi %s,

Your %s account "%s" was deleted because its email address was not verified in time.

You are welcome to register again at any moment.

The %s team
`, user.Firstname, productName, user.Username, productName)

	return n.send(ctx, TemplateAccountDeleted, Message{
		To:      user.Email,
		Subject: fmt.Sprintf("%s - Account deleted", productName),
		Body:    body,
	})
}
