package tableclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
)

func TestClient_SendsBearerAndDecodes(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(TitleResponse{Title: "My Week"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret", srv.Client())
	title, err := c.Title(context.Background(), "doc 1")

	require.NoError(t, err)
	assert.Equal(t, "My Week", title)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/v1/collections/doc 1/title", gotPath)
}

func TestClient_WriteRowsRequest(t *testing.T) {
	var (
		gotMethod string
		gotURL    string
		gotBody   RowsBody
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotURL = r.URL.String()
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "t", srv.Client())
	err := c.WriteRows(context.Background(), "doc", domain.SheetRef{ID: 7}, 2, [][]string{{"a"}})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v1/collections/doc/sheets/7/rows?start=2", gotURL)
	assert.Equal(t, [][]string{{"a"}}, gotBody.Rows)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		check  func(t *testing.T, err error)
	}{
		{
			name:   "row not found",
			status: http.StatusNotFound,
			body:   ErrorBody{Error: "row 9", Code: CodeRowNotFound},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrRowNotFound)
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   ErrorBody{Error: "bad token", Code: CodeUnauthorized},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "plain text body",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusBadGateway, se.Status)
				assert.Contains(t, se.Message, "upstream down")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if s, ok := tt.body.(string); ok {
					_, _ = w.Write([]byte(s))
					return
				}
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			err := New(srv.URL, "t", srv.Client()).DeleteRow(context.Background(), "doc", domain.SheetRef{ID: 1}, 9)

			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestDialer(t *testing.T) {
	d := NewDialer(nil)
	defer func() { _ = d.Close() }()
	ctx := context.Background()

	remote, err := d.Dial(ctx, "https://tables.example.com", "t")
	require.NoError(t, err)
	assert.IsType(t, &Client{}, remote)

	path := filepath.Join(t.TempDir(), "mirror.db")
	a, err := d.Dial(ctx, LocalScheme+path, "")
	require.NoError(t, err)
	b, err := d.Dial(ctx, LocalScheme+path, "")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = d.Dial(ctx, "ftp://x", "t")
	assert.True(t, domain.IsValidation(err))
}
