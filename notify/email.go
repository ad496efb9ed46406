package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"aicruel-backend/config"
	"aicruel-backend/utils"
)

// EmailNotifier sends multipart (plain + HTML) reminder mail over SMTP.
type EmailNotifier struct {
	cfg config.SMTPConfig
}

func NewEmailNotifier(cfg config.SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Channel() Channel { return ChannelEmail }

func (n *EmailNotifier) Send(ctx context.Context, recipient string, p Payload) Outcome {
	if n.cfg.Host == "" || n.cfg.Username == "" || n.cfg.Password == "" {
		return failure(ChannelEmail, recipient, ErrorKindConfig, "SMTP credentials not configured")
	}
	if !utils.ValidateEmail(recipient) {
		return failure(ChannelEmail, recipient, ErrorKindRecipient, fmt.Sprintf("invalid email address %q", recipient))
	}

	msg := buildMIMEMessage(n.cfg.FromEmail, n.cfg.FromName, recipient, EmailSubject(p), EmailTextBody(p), EmailHTMLBody(p))

	if err := n.sendMail(ctx, recipient, msg); err != nil {
		return failure(ChannelEmail, recipient, ErrorKindProvider, err.Error())
	}

	// SMTP reports no message id; ProviderID stays empty.
	return success(ChannelEmail, recipient, "")
}

// sendMail is smtp.SendMail with a context-aware dial so a stalled server
// cannot hold a dispatch slot past its timeout.
func (n *EmailNotifier) sendMail(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return fmt.Errorf("STARTTLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	if ok, _ := client.Extension("AUTH"); ok {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(n.cfg.FromEmail); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close message: %w", err)
	}

	return client.Quit()
}

// buildMIMEMessage builds a multipart/alternative message with text and HTML parts
func buildMIMEMessage(from, fromName, to, subject, textBody, htmlBody string) []byte {
	boundary := "deadline-reminder-boundary"
	message := fmt.Sprintf(`From: %s <%s>
To: %s
Subject: %s
MIME-Version: 1.0
Content-Type: multipart/alternative; boundary="%s"

--%s
Content-Type: text/plain; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s
Content-Type: text/html; charset=UTF-8
Content-Transfer-Encoding: 7bit

%s

--%s--
`, fromName, from, to, subject, boundary, boundary, textBody, boundary, htmlBody, boundary)

	return []byte(message)
}
