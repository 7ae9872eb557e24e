// Package trello is a thin client for the Trello REST API, exposing the
// board as the record store the rest of the application consumes.
package trello

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rentalboard/internal/store"
)

const DefaultBaseURL = "https://api.trello.com/1"

var idPattern = regexp.MustCompile(`^[a-f0-9]{24}$`)

// LooksLikeID reports whether s is a canonical 24-hex Trello id.
func LooksLikeID(s string) bool {
	return idPattern.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Key        string
	Token      string
}

var _ store.Store = (*Client)(nil)

type card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	IDList string `json:"idList"`
	URL    string `json:"url,omitempty"`
}

type list struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Board struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqBody any, respBody any) error {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if c.Key == "" || c.Token == "" {
		return &store.ExternalError{Op: method + " " + path, Err: fmt.Errorf("missing trello key or token")}
	}

	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return &store.ExternalError{Op: method + " " + path, Err: err}
		}
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("key", c.Key)
	query.Set("token", c.Token)

	req, err := http.NewRequestWithContext(ctx, method, base+path+"?"+query.Encode(), &buf)
	if err != nil {
		return &store.ExternalError{Op: method + " " + path, Err: err}
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return &store.ExternalError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &store.ExternalError{Op: method + " " + path, Err: readErr}
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, store.ErrNotFound)
	}
	// Surface the Trello error body for non-2xx, so callers can see invalid
	// token, missing scope, rate limit, etc.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Errorf("trello api error: status=%d", resp.StatusCode)
		if len(b) > 0 {
			msg = fmt.Errorf("trello api error: status=%d body=%s", resp.StatusCode, string(b))
		}
		return &store.ExternalError{Op: method + " " + path, Err: msg}
	}

	if respBody != nil && len(b) > 0 {
		if err := json.Unmarshal(b, respBody); err != nil {
			return &store.ExternalError{
				Op:  method + " " + path,
				Err: fmt.Errorf("decode trello response failed: %w body=%s", err, string(b)),
			}
		}
	}
	return nil
}

// ResolveBoardID accepts a board id (24 hex), a shortLink, or a full board
// URL and returns the canonical board id.
func (c *Client) ResolveBoardID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty board reference")
	}
	if i := strings.Index(ref, "trello.com/b/"); i >= 0 {
		ref = ref[i+len("trello.com/b/"):]
		if j := strings.IndexByte(ref, '/'); j >= 0 {
			ref = ref[:j]
		}
	}
	if LooksLikeID(ref) {
		return ref, nil
	}
	var b Board
	q := url.Values{"fields": {"id"}}
	if err := c.do(ctx, http.MethodGet, "/boards/"+ref, q, nil, &b); err != nil {
		return "", err
	}
	if b.ID == "" {
		return "", fmt.Errorf("unable to resolve board id from %q", ref)
	}
	return b.ID, nil
}

func (c *Client) GetBoard(ctx context.Context, boardID string) (Board, error) {
	var b Board
	q := url.Values{"fields": {"id,name,url"}}
	err := c.do(ctx, http.MethodGet, "/boards/"+boardID, q, nil, &b)
	return b, err
}

// ResolveListID returns the list id for a display name, matching exactly
// first, then case-insensitively, then with collapsed whitespace. The error
// for a miss names the lists that do exist, which is the fastest way to
// spot a renamed board column.
func (c *Client) ResolveListID(ctx context.Context, boardID, name string) (string, error) {
	wanted := strings.TrimSpace(name)
	if wanted == "" {
		return "", fmt.Errorf("empty list name")
	}
	if LooksLikeID(wanted) {
		return wanted, nil
	}

	lists, err := c.listLists(ctx, boardID)
	if err != nil {
		return "", err
	}

	for _, l := range lists {
		if strings.TrimSpace(l.Name) == wanted {
			return l.ID, nil
		}
	}
	for _, l := range lists {
		if strings.EqualFold(strings.TrimSpace(l.Name), wanted) {
			return l.ID, nil
		}
	}
	norm := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	for _, l := range lists {
		if norm(l.Name) == norm(wanted) {
			return l.ID, nil
		}
	}

	var available []string
	for _, l := range lists {
		if n := strings.TrimSpace(l.Name); n != "" {
			available = append(available, n)
		}
	}
	return "", fmt.Errorf("list %q not found on board; available: %s", wanted, strings.Join(available, ", "))
}

// EnsureList returns the id of the named list, creating it at the bottom of
// the board when missing. Used by the bootstrap tool; idempotent.
func (c *Client) EnsureList(ctx context.Context, boardID, name string) (string, error) {
	id, err := c.ResolveListID(ctx, boardID, name)
	if err == nil {
		return id, nil
	}
	var created list
	body := map[string]string{"idBoard": boardID, "name": name, "pos": "bottom"}
	if err := c.do(ctx, http.MethodPost, "/lists", nil, body, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

func (c *Client) listLists(ctx context.Context, boardID string) ([]list, error) {
	var out []list
	q := url.Values{"fields": {"name"}}
	if err := c.do(ctx, http.MethodGet, "/boards/"+boardID+"/lists", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- store.Store implementation ---

func (c *Client) ListRecords(ctx context.Context, containerID string) ([]store.Record, error) {
	var cards []card
	q := url.Values{"fields": {"name,desc,idList"}}
	if err := c.do(ctx, http.MethodGet, "/lists/"+containerID+"/cards", q, nil, &cards); err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(cards))
	for _, cd := range cards {
		out = append(out, recordFromCard(cd))
	}
	return out, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (store.Record, error) {
	var cd card
	q := url.Values{"fields": {"name,desc,idList,url"}}
	if err := c.do(ctx, http.MethodGet, "/cards/"+id, q, nil, &cd); err != nil {
		return store.Record{}, err
	}
	return recordFromCard(cd), nil
}

func (c *Client) CreateRecord(ctx context.Context, containerID, title, payload string) (store.Record, error) {
	var cd card
	body := map[string]string{"idList": containerID, "name": title, "desc": payload}
	if err := c.do(ctx, http.MethodPost, "/cards", nil, body, &cd); err != nil {
		return store.Record{}, err
	}
	return recordFromCard(cd), nil
}

// MoveRecord relocates a card and replaces its desc in one PUT, so a status
// transition with its audit append is a single external write.
func (c *Client) MoveRecord(ctx context.Context, id, containerID, payload string) error {
	q := url.Values{"idList": {containerID}, "desc": {payload}}
	return c.do(ctx, http.MethodPut, "/cards/"+id, q, nil, nil)
}

func (c *Client) UpdateRecord(ctx context.Context, id, payload string) error {
	q := url.Values{"desc": {payload}}
	return c.do(ctx, http.MethodPut, "/cards/"+id, q, nil, nil)
}

// ArchiveRecord closes the card (Trello archive = closed=true). Closing an
// already-closed card succeeds, so this is naturally idempotent.
func (c *Client) ArchiveRecord(ctx context.Context, id string) error {
	q := url.Values{"closed": {"true"}}
	return c.do(ctx, http.MethodPut, "/cards/"+id, q, nil, nil)
}

func (c *Client) AttachFile(ctx context.Context, id, filename string, data []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}
	if _, err := fw.Write(data); err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}
	if err := mw.WriteField("name", filename); err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}
	if err := mw.Close(); err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{"key": {c.Key}, "token": {c.Token}}
	u := base + "/cards/" + id + "/attachments?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := httpClient.Do(req)
	if err != nil {
		return &store.ExternalError{Op: "attach " + id, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("attach %s: %w", id, store.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &store.ExternalError{Op: "attach " + id, Err: fmt.Errorf("trello api error: status=%d body=%s", resp.StatusCode, string(b))}
	}
	return nil
}

func recordFromCard(cd card) store.Record {
	return store.Record{
		ID:          cd.ID,
		Title:       cd.Name,
		Payload:     cd.Desc,
		ContainerID: cd.IDList,
		URL:         cd.URL,
	}
}
