package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/glitchdraft/draftsync/internal/domain"
	"github.com/glitchdraft/draftsync/internal/logger"
	"github.com/glitchdraft/draftsync/internal/syncconfig"
)

const (
	draftsCollection = "drafts"
	settingsDocPath  = "settings/user"

	requestTimeout = 15 * time.Second
)

// ConfigProvider hands out the current connection config, or false while
// the user has not configured the remote store.
type ConfigProvider interface {
	Current() (*syncconfig.Config, bool)
}

// Client speaks the document store's wire protocol: GET (404 means
// absent), PATCH (full overwrite), DELETE, and the streaming listen
// endpoint in listen.go.
type Client struct {
	provider ConfigProvider
	clientID string
	logger   logger.Logger

	http *http.Client
	// Streaming requests must not carry the request timeout, the
	// connection is meant to stay open.
	stream *http.Client
}

func NewClient(provider ConfigProvider, clientID string, log logger.Logger) *Client {
	return &Client{
		provider: provider,
		clientID: clientID,
		logger:   log,
		http:     &http.Client{Timeout: requestTimeout},
		stream:   &http.Client{},
	}
}

func (c *Client) config() (*syncconfig.Config, error) {
	cfg, ok := c.provider.Current()
	if !ok {
		return nil, ErrNotConfigured
	}
	return cfg, nil
}

func docURL(cfg *syncconfig.Config, path string) string {
	return fmt.Sprintf("%s/%s?key=%s", cfg.BaseURL(), path, url.QueryEscape(cfg.APIKey))
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

// FetchDraftList returns the stored drafts for a conversation, newest
// first. A missing document is an empty list, not an error.
func (c *Client) FetchDraftList(ctx context.Context, conversationID string) (domain.DraftList, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, docURL(cfg, draftsCollection+"/"+url.PathEscape(conversationID)), nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusNotFound {
		return domain.DraftList{}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StoreError{Op: "fetch draft list", Status: resp.StatusCode}
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode draft document: %w", err)
	}
	return decodeDraftList(doc), nil
}

// ReplaceDraftList overwrites the whole list for a conversation. There is
// no field-level merge anywhere in this protocol.
func (c *Client) ReplaceDraftList(ctx context.Context, conversationID string, list domain.DraftList) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	doc := encodeDraftList(list, time.Now().UnixMilli(), c.clientID)
	resp, err := c.do(ctx, http.MethodPatch, docURL(cfg, draftsCollection+"/"+url.PathEscape(conversationID)), doc)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Op: "replace draft list", Status: resp.StatusCode}
	}
	return nil
}

// DeleteDraftList removes a conversation's document. Deleting an absent
// document succeeds.
func (c *Client) DeleteDraftList(ctx context.Context, conversationID string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodDelete, docURL(cfg, draftsCollection+"/"+url.PathEscape(conversationID)), nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Op: "delete draft list", Status: resp.StatusCode}
	}
	return nil
}

// FetchSettings returns the single per-user settings document. Missing
// document decodes as an empty position map.
func (c *Client) FetchSettings(ctx context.Context) (*SettingsDoc, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodGet, docURL(cfg, settingsDocPath), nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusNotFound {
		return &SettingsDoc{Positions: domain.UIPositionMap{}}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StoreError{Op: "fetch settings", Status: resp.StatusCode}
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	return decodeSettings(doc), nil
}

// ReplaceSettings overwrites the settings document. Callers must hand
// back the SettingsDoc they fetched (read-modify-write) so fields other
// than the position map survive the overwrite.
func (c *Client) ReplaceSettings(ctx context.Context, s *SettingsDoc) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPatch, docURL(cfg, settingsDocPath), encodeSettings(s, c.clientID))
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StoreError{Op: "replace settings", Status: resp.StatusCode}
	}
	return nil
}
