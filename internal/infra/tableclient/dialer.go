package tableclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/sqltable"
)

// LocalScheme selects an on-disk table database instead of a service.
const LocalScheme = "sqlite://"

// Dialer opens tables by endpoint: http(s) URLs reach a table service,
// sqlite://<path> opens a local table database.
type Dialer struct {
	HTTP   *http.Client
	locals map[string]*sqltable.Table
	mu     sync.Mutex
}

// Ensure Dialer implements domain.RemoteDialer interface.
var _ domain.RemoteDialer = (*Dialer)(nil)

// NewDialer creates a Dialer. httpClient may be nil.
func NewDialer(httpClient *http.Client) *Dialer {
	return &Dialer{HTTP: httpClient, locals: make(map[string]*sqltable.Table)}
}

// Dial returns a table for endpoint. No request is made until the first call.
func (d *Dialer) Dial(_ context.Context, endpoint, token string) (domain.RemoteTable, error) {
	if path, ok := strings.CutPrefix(endpoint, LocalScheme); ok {
		return d.local(path)
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, &domain.ValidationError{Field: "endpoint", Err: fmt.Errorf("unsupported endpoint %q", endpoint)}
	}
	return New(endpoint, token, d.HTTP), nil
}

func (d *Dialer) local(path string) (domain.RemoteTable, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.locals[path]; ok {
		return t, nil
	}
	t, err := sqltable.Open(path)
	if err != nil {
		return nil, err
	}
	d.locals[path] = t
	return t, nil
}

// Close closes local table databases opened by Dial.
func (d *Dialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	for path, t := range d.locals {
		if err := t.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.locals, path)
	}
	return firstErr
}
