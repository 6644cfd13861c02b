package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// check is one named verification against the server.
type check struct {
	name string
	run  func(ctx context.Context, c *httpClient) error
}

// Sample payloads sent by the smoke.
//
//nolint:gochecknoglobals // fixtures
var (
	echoPayload       = []byte(`{"smoke":true,"price":1.50,"nested":{"ids":[1,2,3]},"note":"<b>&</b>"}`)
	sampleCSV         = []byte("name,domain\nAda Lovelace,stripe.com\nGrace Hopper,figma.com\n")
	automationPayload = []byte(`{"rows":[{"domain":"stripe.com"},{"domain":"figma.com"},{"domain":"acme-corp.com"}]}`)
)

const checkOrigin = "http://localhost:5173"

// checks returns every check in the order they are scheduled.
func checks() []check {
	cs := []check{
		{name: "health", run: checkHealth},
		{name: "echo", run: checkEcho},
		{name: "echo_rejects_non_object", run: checkEchoRejects},
		{name: "upload_csv", run: checkUpload},
		{name: "automation_start", run: checkAutomation},
		{name: "cors_preflight", run: checkPreflight},
	}
	for _, p := range fixedPaths {
		cs = append(cs, check{name: "fixed" + p, run: fixedCheck(p)})
	}
	return cs
}

func checkHealth(ctx context.Context, c *httpClient) error {
	r, err := c.get(ctx, pathHealth)
	if err != nil {
		return err
	}
	return expectStatus(r, http.StatusOK)
}

// fixedCheck fetches path twice and requires identical JSON bodies.
func fixedCheck(path string) func(context.Context, *httpClient) error {
	return func(ctx context.Context, c *httpClient) error {
		first, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		if err := expectStatus(first, http.StatusOK); err != nil {
			return err
		}
		if !json.Valid(first.body) {
			return fmt.Errorf("%w: body is not JSON", ErrUnexpected)
		}
		second, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		if !bytes.Equal(first.body, second.body) {
			return fmt.Errorf("%w: body changed between calls", ErrUnexpected)
		}
		return nil
	}
}

func checkEcho(ctx context.Context, c *httpClient) error {
	r, err := c.postJSON(ctx, pathEcho, echoPayload)
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}
	var got struct {
		YouSent json.RawMessage `json:"you_sent"`
	}
	if err := json.Unmarshal(r.body, &got); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if !bytes.Equal(got.YouSent, echoPayload) {
		return fmt.Errorf("%w: echoed %s", ErrUnexpected, got.YouSent)
	}
	return nil
}

func checkEchoRejects(ctx context.Context, c *httpClient) error {
	r, err := c.postJSON(ctx, pathEcho, []byte(`[1,2,3]`))
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusBadRequest); err != nil {
		return err
	}
	var got struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(r.body, &got); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if got.Code != "invalid_input" {
		return fmt.Errorf("%w: error code %q", ErrUnexpected, got.Code)
	}
	return nil
}

func checkUpload(ctx context.Context, c *httpClient) error {
	r, err := c.postFile(ctx, pathUpload, "leads.csv", sampleCSV)
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}
	var got struct {
		Rows    []map[string]string `json:"rows"`
		Message string              `json:"message"`
	}
	if err := json.Unmarshal(r.body, &got); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	switch {
	case len(got.Rows) != 2:
		return fmt.Errorf("%w: %d rows, want 2", ErrUnexpected, len(got.Rows))
	case got.Message != "Received 2 rows.":
		return fmt.Errorf("%w: message %q", ErrUnexpected, got.Message)
	case got.Rows[0]["name"] != "Ada Lovelace" || got.Rows[1]["domain"] != "figma.com":
		return fmt.Errorf("%w: rows %v", ErrUnexpected, got.Rows)
	}
	return nil
}

func checkAutomation(ctx context.Context, c *httpClient) error {
	r, err := c.postJSON(ctx, pathAutomation, automationPayload)
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}
	var got struct {
		Status       string `json:"status"`
		ReceivedRows int    `json:"received_rows"`
	}
	if err := json.Unmarshal(r.body, &got); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	if got.Status != "started" || got.ReceivedRows != 3 {
		return fmt.Errorf("%w: %+v", ErrUnexpected, got)
	}
	return nil
}

func checkPreflight(ctx context.Context, c *httpClient) error {
	r, err := c.preflight(ctx, pathEcho, checkOrigin, http.MethodPost)
	if err != nil {
		return err
	}
	if err := expectStatus(r, http.StatusOK); err != nil {
		return err
	}
	if origin := r.header.Get("Access-Control-Allow-Origin"); origin != checkOrigin && origin != "*" {
		return fmt.Errorf("%w: allow-origin %q", ErrUnexpected, origin)
	}
	return nil
}
