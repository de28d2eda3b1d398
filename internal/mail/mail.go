// Package mail sends notification email to library customers.
package mail

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/errors"
	"github.com/circulateapp/circulate-server/internal/logger"
)

// Sender delivers one message to a set of recipients.
type Sender interface {
	Send(ctx context.Context, subject, body string, recipients []string) error
}

// New returns a Postmark-backed sender when a server token is configured,
// otherwise a sender that only logs. The log fallback keeps development
// and test environments working without credentials.
func New(cfg config.MailConfig, log *logger.Logger) Sender {
	if cfg.PostmarkServerToken == "" {
		log.Warn("no postmark server token configured, outbound mail will be logged only")
		return &LogSender{log: log}
	}
	return &PostmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderEmail,
	}
}

// PostmarkSender delivers mail through Postmark's transactional API.
type PostmarkSender struct {
	client *postmark.Client
	from   string
}

// Send sends one email per recipient. A failed recipient does not stop
// delivery to the rest; all failures are joined into the returned error.
func (s *PostmarkSender) Send(ctx context.Context, subject, body string, recipients []string) error {
	var errs []error
	for _, to := range recipients {
		resp, err := s.client.SendEmail(ctx, postmark.Email{
			From:     s.from,
			To:       to,
			Subject:  subject,
			TextBody: body,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", to, err))
			continue
		}
		if resp.ErrorCode > 0 {
			errs = append(errs, fmt.Errorf("send to %s: postmark error %d: %s", to, resp.ErrorCode, resp.Message))
		}
	}
	return errors.Join(errs...)
}

// LogSender records mail to the log instead of delivering it.
type LogSender struct {
	log *logger.Logger
}

// Send logs the message and its recipients.
func (s *LogSender) Send(_ context.Context, subject, body string, recipients []string) error {
	s.log.Info("mail (log only)",
		"subject", subject,
		"body", body,
		"recipients", recipients,
	)
	return nil
}
