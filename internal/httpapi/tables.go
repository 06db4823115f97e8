package httpapi

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/infra/tableclient"
)

// tableHandlers expose a domain.RemoteTable as the table service.
type tableHandlers struct {
	table  domain.RemoteTable
	logger *slog.Logger
}

// bearerAuth rejects requests without the expected bearer token.
// An empty token accepts any bearer token.
func bearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || got == "" || (token != "" && subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1) {
				writeJSON(w, http.StatusUnauthorized, tableclient.ErrorBody{
					Error: "missing or invalid bearer token",
					Code:  tableclient.CodeUnauthorized,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (t *tableHandlers) fail(w http.ResponseWriter, err error) {
	writeError(w, t.logger, err)
}

// sheetRef reads the {sid} path parameter.
func sheetRef(r *http.Request) (domain.SheetRef, error) {
	raw := chi.URLParam(r, "sid")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return domain.SheetRef{}, &domain.ValidationError{Field: "sheet id", Err: fmt.Errorf("%q is not a sheet id", raw)}
	}
	return domain.SheetRef{ID: id}, nil
}

// rowNumber reads a positive row number from s.
func rowNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, &domain.ValidationError{Field: "row", Err: fmt.Errorf("%q is not a row number", s)}
	}
	return n, nil
}

func (t *tableHandlers) title(w http.ResponseWriter, r *http.Request) {
	title, err := t.table.Title(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		t.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableclient.TitleResponse{Title: title})
}

func (t *tableHandlers) ensureSheets(w http.ResponseWriter, r *http.Request) {
	var body tableclient.EnsureSheetsRequest
	if err := decodeJSON(w, r, &body); err != nil {
		t.fail(w, err)
		return
	}
	specs := make([]domain.SheetSpec, 0, len(body.Sheets))
	for _, s := range body.Sheets {
		if s.Title == "" {
			t.fail(w, &domain.ValidationError{Field: "sheet title", Err: domain.ErrRequired})
			return
		}
		specs = append(specs, domain.SheetSpec{Title: s.Title, Header: s.Header})
	}
	refs, err := t.table.EnsureSheets(r.Context(), chi.URLParam(r, "cid"), specs)
	if err != nil {
		t.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableclient.EnsureSheetsResponse{Sheets: refs})
}

func (t *tableHandlers) getRows(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	rows, err := t.table.GetAllRows(r.Context(), chi.URLParam(r, "cid"), ref)
	if err != nil {
		t.fail(w, err)
		return
	}
	if rows == nil {
		rows = [][]string{}
	}
	writeJSON(w, http.StatusOK, tableclient.RowsBody{Rows: rows})
}

func (t *tableHandlers) appendRow(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	var body tableclient.ValuesBody
	if err := decodeJSON(w, r, &body); err != nil {
		t.fail(w, err)
		return
	}
	if err := t.table.AppendRow(r.Context(), chi.URLParam(r, "cid"), ref, body.Values); err != nil {
		t.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *tableHandlers) writeRows(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	start, err := rowNumber(r.URL.Query().Get("start"))
	if err != nil {
		t.fail(w, err)
		return
	}
	var body tableclient.RowsBody
	if err := decodeJSON(w, r, &body); err != nil {
		t.fail(w, err)
		return
	}
	if err := t.table.WriteRows(r.Context(), chi.URLParam(r, "cid"), ref, start, body.Rows); err != nil {
		t.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *tableHandlers) overwriteRow(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	row, err := rowNumber(chi.URLParam(r, "row"))
	if err != nil {
		t.fail(w, err)
		return
	}
	var body tableclient.ValuesBody
	if err := decodeJSON(w, r, &body); err != nil {
		t.fail(w, err)
		return
	}
	if err := t.table.OverwriteRow(r.Context(), chi.URLParam(r, "cid"), ref, row, body.Values); err != nil {
		t.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *tableHandlers) deleteRow(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	row, err := rowNumber(chi.URLParam(r, "row"))
	if err != nil {
		t.fail(w, err)
		return
	}
	if err := t.table.DeleteRow(r.Context(), chi.URLParam(r, "cid"), ref, row); err != nil {
		t.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *tableHandlers) clear(w http.ResponseWriter, r *http.Request) {
	ref, err := sheetRef(r)
	if err != nil {
		t.fail(w, err)
		return
	}
	var body tableclient.HeaderBody
	if err := decodeJSON(w, r, &body); err != nil {
		t.fail(w, err)
		return
	}
	if err := t.table.ClearAndKeepHeader(r.Context(), chi.URLParam(r, "cid"), ref, body.Header); err != nil {
		t.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
