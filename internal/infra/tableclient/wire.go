package tableclient

import "github.com/SubhasisDutta/todo-this-week/internal/domain"

// Wire types shared with the table-service handlers.

// TitleResponse is the body of GET /title.
type TitleResponse struct {
	Title string `json:"title"`
}

// SheetSpecBody describes one sheet in an ensure request.
type SheetSpecBody struct {
	Title  string   `json:"title"`
	Header []string `json:"header"`
}

// EnsureSheetsRequest is the body of POST /sheets.
type EnsureSheetsRequest struct {
	Sheets []SheetSpecBody `json:"sheets"`
}

// EnsureSheetsResponse is the response of POST /sheets.
type EnsureSheetsResponse struct {
	Sheets []domain.SheetRef `json:"sheets"`
}

// RowsBody carries a block of rows.
type RowsBody struct {
	Rows [][]string `json:"rows"`
}

// ValuesBody carries one row.
type ValuesBody struct {
	Values []string `json:"values"`
}

// HeaderBody carries a header row for clear requests.
type HeaderBody struct {
	Header []string `json:"header"`
}

// ErrorBody is returned with every non-2xx status.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes.
const (
	CodeRowNotFound   = "row_not_found"
	CodeSheetNotFound = "sheet_not_found"
	CodeUnauthorized  = "unauthorized"
	CodeBadRequest    = "bad_request"
	CodeInternal      = "internal"
)

// APIPrefix is the path prefix of the table service.
const APIPrefix = "/v1/collections"
