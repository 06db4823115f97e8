package domain

import (
	"fmt"
	"strings"
)

// SheetRef identifies one collection (sheet) inside the remote document.
type SheetRef struct {
	Title string `json:"title"`
	ID    int64  `json:"id"`
}

// SheetSpec describes a collection that must exist remotely.
type SheetSpec struct {
	Title  string
	Header []string
}

// SyncSession is the state needed to mirror tasks remotely.
// It is built by connecting and discarded by disconnecting.
// Fields are ordered to minimize memory padding.
type SyncSession struct {
	ActiveHeaders  []string `json:"activeHeaders"`
	DeletedHeaders []string `json:"deletedHeaders"`
	ActiveSheet    SheetRef `json:"activeSheet"`
	DeletedSheet   SheetRef `json:"deletedSheet"`
	Endpoint       string   `json:"endpoint"`
	CollectionID   string   `json:"collectionId"`
	Title          string   `json:"title,omitempty"`
	AuthToken      string   `json:"authToken"`
	Authorized     bool     `json:"authorized"`
}

// Ready returns ErrRemoteUnavailable naming every missing part of the session, or nil.
func (s *SyncSession) Ready() error {
	if s == nil {
		return fmt.Errorf("%w: no session", ErrRemoteUnavailable)
	}
	var missing []string
	if !s.Authorized {
		missing = append(missing, "authorization")
	}
	if s.AuthToken == "" {
		missing = append(missing, "token")
	}
	if s.CollectionID == "" {
		missing = append(missing, "collection")
	}
	if s.ActiveSheet.Title == "" {
		missing = append(missing, "active sheet")
	}
	if s.DeletedSheet.Title == "" {
		missing = append(missing, "deleted sheet")
	}
	if len(s.ActiveHeaders) == 0 || len(s.DeletedHeaders) == 0 {
		missing = append(missing, "headers")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrRemoteUnavailable, strings.Join(missing, ", "))
	}
	return nil
}
