package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	jmes "github.com/jmespath/go-jmespath"
)

// Vendor HTTP calls share one bounded client; the validation
// coordinator adds a per-call context deadline on top.
var vendorHTTP = &http.Client{Timeout: 15 * time.Second}

func getJSON(ctx context.Context, url string, header http.Header) (any, error) {
	return doJSON(ctx, http.MethodGet, url, header, nil)
}

func doJSON(ctx context.Context, method, url string, header http.Header, body any) (any, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := vendorHTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vendor responded %d", resp.StatusCode)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("vendor response not json: %w", err)
	}
	return doc, nil
}

// postWebhook posts a JSON payload and returns the raw response body.
// Incoming-webhook vendors answer with plain text ("ok", "1"), so the
// body is not parsed.
func postWebhook(ctx context.Context, url string, payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := vendorHTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("webhook responded %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	return string(bytes.TrimSpace(raw)), nil
}

// extract applies a catalog JMESPath to a raw vendor document. An
// empty expression passes the document through untouched.
func extract(expr string, doc any) (any, error) {
	if expr == "" {
		return doc, nil
	}
	out, err := jmes.Search(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("metadata extraction: %w", err)
	}
	return out, nil
}
