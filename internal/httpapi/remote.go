package httpapi

import (
	"bytes"
	"net/http"

	"github.com/SubhasisDutta/todo-this-week/internal/usecase"
)

type connectBody struct {
	Endpoint     string `json:"endpoint"`
	Token        string `json:"token"`
	CollectionID string `json:"collectionId"`
}

// remoteStatusResponse never includes the auth token.
type remoteStatusResponse struct {
	Endpoint     string `json:"endpoint,omitempty"`
	CollectionID string `json:"collectionId,omitempty"`
	Title        string `json:"title,omitempty"`
	TitleError   string `json:"titleError,omitempty"`
	Connected    bool   `json:"connected"`
}

func (h *handlers) remoteStatus(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.RemoteStatusUseCase().Execute(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	resp := remoteStatusResponse{Connected: out.Connected, Title: out.Title}
	if out.Session != nil {
		resp.Endpoint = out.Session.Endpoint
		resp.CollectionID = out.Session.CollectionID
	}
	if out.TitleErr != nil {
		resp.TitleError = out.TitleErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) connectRemote(w http.ResponseWriter, r *http.Request) {
	var body connectBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.ConnectRemoteUseCase().Execute(r.Context(), usecase.ConnectRemoteInput{
		Endpoint:     body.Endpoint,
		Token:        body.Token,
		CollectionID: body.CollectionID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, remoteStatusResponse{
		Endpoint:     out.Session.Endpoint,
		CollectionID: out.Session.CollectionID,
		Title:        out.Session.Title,
		Connected:    true,
	})
}

func (h *handlers) disconnectRemote(w http.ResponseWriter, r *http.Request) {
	if err := h.c.DisconnectRemoteUseCase().Execute(r.Context()); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) exportAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.ExportAllUseCase().Execute(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Rows int `json:"rows"`
	}{out.Rows})
}

func (h *handlers) importAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.ImportAllUseCase().Execute(r.Context(), usecase.ImportAllInput{Confirm: queryBool(r, "confirm")})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tasks int `json:"tasks"`
	}{out.Tasks})
}

func (h *handlers) exportBackup(w http.ResponseWriter, r *http.Request) {
	format, err := usecase.ParseBackupFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, err)
		return
	}
	// Buffer so a failure can still produce an error status.
	var buf bytes.Buffer
	if _, err := h.c.ExportBackupUseCase().Execute(r.Context(), usecase.ExportBackupInput{W: &buf, Format: format}); err != nil {
		h.fail(w, err)
		return
	}
	contentType := "application/json"
	if format == usecase.BackupYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="tasks.`+format+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *handlers) importBackup(w http.ResponseWriter, r *http.Request) {
	format, err := usecase.ParseBackupFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.fail(w, err)
		return
	}
	out, err := h.c.ImportBackupUseCase().Execute(r.Context(), usecase.ImportBackupInput{
		R:       http.MaxBytesReader(w, r.Body, maxBody),
		Format:  format,
		Confirm: queryBool(r, "confirm"),
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tasks int `json:"tasks"`
	}{out.Tasks})
}
