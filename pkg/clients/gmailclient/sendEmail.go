package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

// DefaultSendInterval keeps a batch of notifications under Gmail's per-user rate limit
const DefaultSendInterval = 3 * time.Second

// SendEmail sends a plain-text email from the authorised account.
// Sends are spaced at least the client's interval apart; waiting stops early if ctx ends.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if wait := waitTime(c.lastSendTime, time.Now(), c.interval); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	msg, err := buildMessage(to, subject, body)
	if err != nil {
		return err
	}

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(msg)),
	}

	if _, err := c.service.Users.Messages.Send("me", gmailMessage).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	c.lastSendTime = time.Now()
	return nil
}

// waitTime is how long to wait before the next send; zero when nothing was sent yet
func waitTime(last, now time.Time, interval time.Duration) time.Duration {
	if last.IsZero() {
		return 0
	}
	if elapsed := now.Sub(last); elapsed < interval {
		return interval - elapsed
	}
	return 0
}

// buildMessage renders an RFC 2822 message; the subject is Q-encoded so non-ASCII names survive.
// A recipient containing a line break is rejected since it would start a new header.
func buildMessage(to, subject, body string) (string, error) {
	if strings.ContainsAny(to, "\r\n") {
		return "", fmt.Errorf("invalid recipient %q: contains a line break", to)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String(), nil
}
