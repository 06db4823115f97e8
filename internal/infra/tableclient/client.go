// Package tableclient implements domain.RemoteTable over the table-service HTTP API.
package tableclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

// ErrUnauthorized is returned when the service rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is a non-2xx response without a more specific mapping.
type StatusError struct {
	Message string
	Code    string
	Status  int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// Client talks to one table service.
type Client struct {
	http     *http.Client
	endpoint string
	token    string
}

// Ensure Client implements domain.RemoteTable interface.
var _ domain.RemoteTable = (*Client)(nil)

// New creates a client for endpoint (scheme and host, optional path prefix).
func New(endpoint, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:     httpClient,
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
	}
}

// Title returns the document title.
func (c *Client) Title(ctx context.Context, collectionID string) (string, error) {
	var out TitleResponse
	if err := c.do(ctx, http.MethodGet, c.path(collectionID, "title"), nil, &out); err != nil {
		return "", err
	}
	return out.Title, nil
}

// EnsureSheets creates missing sheets and returns refs in the order given.
func (c *Client) EnsureSheets(ctx context.Context, collectionID string, specs []domain.SheetSpec) ([]domain.SheetRef, error) {
	req := EnsureSheetsRequest{Sheets: make([]SheetSpecBody, 0, len(specs))}
	for _, s := range specs {
		req.Sheets = append(req.Sheets, SheetSpecBody{Title: s.Title, Header: s.Header})
	}
	var out EnsureSheetsResponse
	if err := c.do(ctx, http.MethodPost, c.path(collectionID, "sheets"), req, &out); err != nil {
		return nil, err
	}
	return out.Sheets, nil
}

// GetAllRows returns every row of the sheet, header included.
func (c *Client) GetAllRows(ctx context.Context, collectionID string, sheet domain.SheetRef) ([][]string, error) {
	var out RowsBody
	if err := c.do(ctx, http.MethodGet, c.rowsPath(collectionID, sheet), nil, &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// AppendRow adds a row after the last one.
func (c *Client) AppendRow(ctx context.Context, collectionID string, sheet domain.SheetRef, values []string) error {
	return c.do(ctx, http.MethodPost, c.rowsPath(collectionID, sheet), ValuesBody{Values: values}, nil)
}

// OverwriteRow replaces row number row.
func (c *Client) OverwriteRow(ctx context.Context, collectionID string, sheet domain.SheetRef, row int, values []string) error {
	return c.do(ctx, http.MethodPut, c.rowsPath(collectionID, sheet)+"/"+strconv.Itoa(row), ValuesBody{Values: values}, nil)
}

// DeleteRow removes row number row.
func (c *Client) DeleteRow(ctx context.Context, collectionID string, sheet domain.SheetRef, row int) error {
	return c.do(ctx, http.MethodDelete, c.rowsPath(collectionID, sheet)+"/"+strconv.Itoa(row), nil, nil)
}

// ClearAndKeepHeader removes every row and writes header as row 1.
func (c *Client) ClearAndKeepHeader(ctx context.Context, collectionID string, sheet domain.SheetRef, header []string) error {
	return c.do(ctx, http.MethodPost, c.sheetPath(collectionID, sheet)+"/clear", HeaderBody{Header: header}, nil)
}

// WriteRows writes rows as a block starting at startRow.
func (c *Client) WriteRows(ctx context.Context, collectionID string, sheet domain.SheetRef, startRow int, rows [][]string) error {
	p := c.rowsPath(collectionID, sheet) + "?start=" + strconv.Itoa(startRow)
	return c.do(ctx, http.MethodPut, p, RowsBody{Rows: rows}, nil)
}

func (c *Client) path(collectionID, rest string) string {
	return c.endpoint + APIPrefix + "/" + url.PathEscape(collectionID) + "/" + rest
}

func (c *Client) sheetPath(collectionID string, sheet domain.SheetRef) string {
	return c.path(collectionID, "sheets/"+strconv.FormatInt(sheet.ID, 10))
}

func (c *Client) rowsPath(collectionID string, sheet domain.SheetRef) string {
	return c.sheetPath(collectionID, sheet) + "/rows"
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var e ErrorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err := json.Unmarshal(data, &e); err != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(data))
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
	}
	switch {
	case e.Code == CodeRowNotFound:
		return fmt.Errorf("%s: %w", e.Error, domain.ErrRowNotFound)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", e.Error, ErrUnauthorized)
	}
	return &StatusError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
}
