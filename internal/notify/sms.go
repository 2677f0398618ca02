// Package notify sends payment reminders over SMS via the Twilio REST API.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/splitledger/splitledger/internal/money"
)

// Reminder tones.
const (
	ToneFriendly = "friendly"
	ToneUrgent   = "urgent"
	ToneFinal    = "final"
)

// maxMessageLen allows for two concatenated SMS segments.
const maxMessageLen = 320

// Sender delivers an SMS to a phone number.
type Sender interface {
	Send(ctx context.Context, toPhone, body string) (messageID string, err error)
}

// TwilioSender sends SMS through Twilio's Messages endpoint.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

// NewTwilioSender builds a sender with the given Twilio credentials.
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewSenderFromEnv reads TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_PHONE_NUMBER. With incomplete credentials it falls back to a
// log-only sender so the rest of the app works in development.
func NewSenderFromEnv() Sender {
	sid := os.Getenv("TWILIO_ACCOUNT_SID")
	token := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")
	if sid == "" || token == "" || from == "" {
		slog.Warn("Twilio credentials not configured, SMS will only be logged")
		return LogSender{}
	}
	return NewTwilioSender(sid, token, from)
}

// Send posts the message to Twilio and returns the message SID.
func (s *TwilioSender) Send(ctx context.Context, toPhone, body string) (string, error) {
	form := url.Values{}
	form.Set("To", FormatPhone(toPhone))
	form.Set("From", s.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("twilio returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode twilio response: %w", err)
	}

	slog.Info("SMS sent", "to", FormatPhone(toPhone), "sid", result.SID)
	return result.SID, nil
}

// LogSender logs messages instead of sending them. Used when Twilio
// credentials are absent and in tests.
type LogSender struct{}

func (LogSender) Send(_ context.Context, toPhone, body string) (string, error) {
	slog.Info("SMS (log only)", "to", FormatPhone(toPhone), "body", body)
	return "log-only", nil
}

// FormatPhone normalizes a phone number to E.164, assuming US/Canada for
// bare 10-digit numbers.
func FormatPhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && strings.HasPrefix(d, "1"):
		return "+" + d
	case strings.HasPrefix(phone, "+"):
		return "+" + d
	default:
		return "+" + d
	}
}

// ReminderMessage renders the payment reminder for the given tone. A
// non-empty custom message overrides the templates. Output is truncated
// to two SMS segments.
func ReminderMessage(userName, groupName string, amount money.Money, senderName, tone, custom string) string {
	if custom != "" {
		return truncate(custom)
	}

	var body string
	switch tone {
	case ToneUrgent:
		body = fmt.Sprintf(
			"Hi %s, you have an outstanding balance of $%s in '%s'. Please settle this amount soon. Contact %s if you have any questions.",
			userName, amount, groupName, senderName)
	case ToneFinal:
		body = fmt.Sprintf(
			"FINAL NOTICE: %s, your outstanding balance of $%s in '%s' needs immediate attention. Please contact %s to resolve this matter.",
			userName, amount, groupName, senderName)
	default:
		body = fmt.Sprintf(
			"Hi %s! Friendly reminder that you have an outstanding balance of $%s in the '%s' group. Please settle when convenient. Thanks! - %s",
			userName, amount, groupName, senderName)
	}
	return truncate(body)
}

func truncate(body string) string {
	if len(body) <= maxMessageLen {
		return body
	}
	return body[:maxMessageLen-3] + "..."
}
