package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"shipment-compliance-service/internal/domain"
)

// HTTPSMSNotifier implements the Notifier port against a JSON SMS gateway
// (Twilio-style POST endpoint). One Send is one outbound message; the alert
// router handles per-recipient isolation, so Send just reports its own
// failure.
type HTTPSMSNotifier struct {
	baseURL string
	apiKey  string
	from    string
	session *http.Client
}

func NewHTTPSMSNotifier(baseURL, apiKey, from string) (*HTTPSMSNotifier, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("sms notifier: baseURL must be non-empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("sms notifier: apiKey must be non-empty")
	}

	return &HTTPSMSNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		session: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type smsPayload struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// Send delivers one message to one contact's phone number.
func (n *HTTPSMSNotifier) Send(ctx context.Context, contact domain.StaffContact, message string) error {
	if strings.TrimSpace(contact.Phone) == "" {
		return fmt.Errorf("send sms: contact %s has no phone number", contact.ID)
	}

	body, err := json.Marshal(smsPayload{To: contact.Phone, From: n.from, Body: message})
	if err != nil {
		return fmt.Errorf("send sms: marshal payload: %w", err)
	}

	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		return n.newRequest(ctx, http.MethodPost, n.baseURL+"/messages", bytes.NewReader(body))
	})
	if err != nil {
		return fmt.Errorf("send sms: to contact %s: %w", contact.ID, err)
	}
	defer resp.Body.Close()

	return nil
}

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

func (n *HTTPSMSNotifier) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", n.apiKey)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (n *HTTPSMSNotifier) do(req *http.Request) (*http.Response, error) {
	resp, err := n.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 5xx responses)
// using exponential backoff while respecting context cancellation.
func (n *HTTPSMSNotifier) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 3
	backoff := 200 * time.Millisecond

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := n.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
