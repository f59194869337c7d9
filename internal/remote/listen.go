package remote

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// listenFrame is one change event on the stream. Frames without a
// document snapshot (target acks, heartbeats) are skipped.
type listenFrame struct {
	DocumentChange *struct {
		Document *document `json:"document"`
	} `json:"documentChange"`
}

type listenRequest struct {
	AddTarget struct {
		Documents struct {
			Documents []string `json:"documents"`
		} `json:"documents"`
		TargetID int `json:"targetId"`
	} `json:"addTarget"`
}

// ListenSettings opens a long-lived stream scoped to the settings
// document and invokes onSnapshot for every change frame carrying a
// document. It blocks until the stream ends: nil on a clean end of
// stream, the transport or store error otherwise, ctx.Err() when
// canceled. Reconnecting is the caller's job.
func (c *Client) ListenSettings(ctx context.Context, onSnapshot func(*SettingsDoc)) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	var lr listenRequest
	lr.AddTarget.Documents.Documents = []string{
		fmt.Sprintf("projects/%s/databases/(default)/documents/%s", cfg.ProjectID, settingsDocPath),
	}
	lr.AddTarget.TargetID = 1

	body, err := json.Marshal(lr)
	if err != nil {
		return fmt.Errorf("failed to encode listen request: %w", err)
	}

	listenURL := fmt.Sprintf("%s:listen?key=%s", cfg.BaseURL(), url.QueryEscape(cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, listenURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.stream.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Op: "listen", Status: resp.StatusCode}
	}

	// The stream is one long JSON array, one element per line, with the
	// array punctuation on lines of its own. Incomplete or malformed
	// lines are skipped, the stream carries full snapshots so nothing is
	// lost by dropping a frame.
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || bytes.Equal(line, []byte("[")) || bytes.Equal(line, []byte("]")) || bytes.Equal(line, []byte(",")) {
			continue
		}
		line = bytes.TrimPrefix(line, []byte(","))

		var frame listenFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			continue
		}
		if frame.DocumentChange == nil || frame.DocumentChange.Document == nil {
			continue
		}
		onSnapshot(decodeSettings(*frame.DocumentChange.Document))
	}

	if err := scanner.Err(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("listen stream: %w", err)
	}
	return nil
}
