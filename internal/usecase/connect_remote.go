package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/usecase/shared"
)

// ConnectRemoteInput contains the credentials and document to mirror into.
type ConnectRemoteInput struct {
	Endpoint     string // Table service URL or sqlite:// path
	Token        string // Bearer token
	CollectionID string // Remote document id
}

// ConnectRemoteOutput contains the established session.
type ConnectRemoteOutput struct {
	Session *domain.SyncSession
}

// ConnectRemote authorizes against the remote table, makes sure both sheets exist
// and stores the resulting session.
type ConnectRemote struct {
	dialer   domain.RemoteDialer
	sessions domain.SessionStore
	sync     *shared.SyncEngine
	logger   domain.Logger
}

// NewConnectRemote creates a new ConnectRemote use case.
func NewConnectRemote(dialer domain.RemoteDialer, sessions domain.SessionStore, sync *shared.SyncEngine, logger domain.Logger) *ConnectRemote {
	return &ConnectRemote{dialer: dialer, sessions: sessions, sync: sync, logger: logger}
}

// Execute connects and returns the session.
func (uc *ConnectRemote) Execute(ctx context.Context, in ConnectRemoteInput) (*ConnectRemoteOutput, error) {
	endpoint := strings.TrimSpace(in.Endpoint)
	collection := strings.TrimSpace(in.CollectionID)
	switch {
	case endpoint == "":
		return nil, &domain.ValidationError{Field: "endpoint", Err: domain.ErrRequired}
	case in.Token == "":
		return nil, &domain.ValidationError{Field: "token", Err: domain.ErrRequired}
	case collection == "":
		return nil, &domain.ValidationError{Field: "collection", Err: domain.ErrRequired}
	}

	table, err := uc.dialer.Dial(ctx, endpoint, in.Token)
	if err != nil {
		return nil, &domain.RemoteCallError{Op: "dial", Err: err}
	}
	title, err := table.Title(ctx, collection)
	if err != nil {
		return nil, &domain.RemoteCallError{Op: "authorize", Err: err}
	}
	refs, err := table.EnsureSheets(ctx, collection, []domain.SheetSpec{
		{Title: domain.ActiveSheetTitle, Header: domain.ActiveHeaders()},
		{Title: domain.DeletedSheetTitle, Header: domain.DeletedHeaders()},
	})
	if err != nil {
		return nil, &domain.RemoteCallError{Op: "ensure sheets", Err: err}
	}
	if len(refs) != 2 {
		return nil, &domain.RemoteCallError{Op: "ensure sheets", Err: fmt.Errorf("expected 2 sheets, got %d", len(refs))}
	}

	sess := &domain.SyncSession{
		Authorized:     true,
		AuthToken:      in.Token,
		Endpoint:       endpoint,
		CollectionID:   collection,
		Title:          title,
		ActiveSheet:    refs[0],
		DeletedSheet:   refs[1],
		ActiveHeaders:  domain.ActiveHeaders(),
		DeletedHeaders: domain.DeletedHeaders(),
	}
	if err := uc.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.sync.SetSession(sess, table)
	uc.logger.Info("", "sync", fmt.Sprintf("connected to %q (%s)", title, collection))

	return &ConnectRemoteOutput{Session: sess}, nil
}

// DisconnectRemote discards the sync session.
type DisconnectRemote struct {
	sessions domain.SessionStore
	sync     *shared.SyncEngine
	logger   domain.Logger
}

// NewDisconnectRemote creates a new DisconnectRemote use case.
func NewDisconnectRemote(sessions domain.SessionStore, sync *shared.SyncEngine, logger domain.Logger) *DisconnectRemote {
	return &DisconnectRemote{sessions: sessions, sync: sync, logger: logger}
}

// Execute forgets the session. Calls already in flight finish on their own.
func (uc *DisconnectRemote) Execute(_ context.Context) error {
	uc.sync.SetSession(nil, nil)
	if err := uc.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	uc.logger.Info("", "sync", "disconnected")
	return nil
}

// RemoteStatusOutput describes the current session.
type RemoteStatusOutput struct {
	Session   *domain.SyncSession // nil when not connected
	TitleErr  error               // Why the title could not be fetched
	Title     string              // Live document title
	Connected bool
}

// RemoteStatus reports the session and checks the remote is reachable.
type RemoteStatus struct {
	sync *shared.SyncEngine
}

// NewRemoteStatus creates a new RemoteStatus use case.
func NewRemoteStatus(sync *shared.SyncEngine) *RemoteStatus {
	return &RemoteStatus{sync: sync}
}

// Execute returns the status. Reachability failures are reported in the output.
func (uc *RemoteStatus) Execute(ctx context.Context) (*RemoteStatusOutput, error) {
	out := &RemoteStatusOutput{Session: uc.sync.Session(), Connected: uc.sync.Connected()}
	if !out.Connected {
		return out, nil
	}
	out.Title, out.TitleErr = uc.sync.Title(ctx)
	return out, nil
}
