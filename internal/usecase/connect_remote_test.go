package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubhasisDutta/todo-this-week/internal/domain"
	"github.com/SubhasisDutta/todo-this-week/internal/testutil"
)

func TestConnectRemote_Execute(t *testing.T) {
	// Setup
	f := newFixture()
	sessions := &testutil.MockSessionStore{}
	uc := NewConnectRemote(f.dialer, sessions, f.sync, f.logger)

	// Execute
	out, err := uc.Execute(context.Background(), ConnectRemoteInput{
		Endpoint:     "https://tables.example.com",
		Token:        "secret",
		CollectionID: "doc-9",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://tables.example.com", f.dialer.Endpoint)
	assert.Equal(t, "secret", f.dialer.Token)
	assert.Equal(t, "Weekly Tasks", out.Session.Title)
	assert.NoError(t, out.Session.Ready())
	assert.Equal(t, domain.ActiveSheetTitle, out.Session.ActiveSheet.Title)
	assert.Equal(t, domain.DeletedSheetTitle, out.Session.DeletedSheet.Title)
	assert.Equal(t, domain.ActiveHeaders(), f.table.Rows(domain.ActiveSheetTitle)[0])
	assert.Equal(t, domain.DeletedHeaders(), f.table.Rows(domain.DeletedSheetTitle)[0])
	require.NotNil(t, sessions.Session)
	assert.Equal(t, "doc-9", sessions.Session.CollectionID)
	assert.True(t, f.sync.Connected())
}

func TestConnectRemote_Execute_KeepsExistingSheets(t *testing.T) {
	f := newFixture()
	f.table.SeedSheets()
	f.table.Sheets[domain.ActiveSheetTitle] = append(f.table.Sheets[domain.ActiveSheetTitle], []string{"t1", "Existing"})
	uc := NewConnectRemote(f.dialer, &testutil.MockSessionStore{}, f.sync, f.logger)

	_, err := uc.Execute(context.Background(), ConnectRemoteInput{Endpoint: "mock://", Token: "t", CollectionID: "doc"})

	require.NoError(t, err)
	assert.Len(t, f.table.Rows(domain.ActiveSheetTitle), 2)
}

func TestConnectRemote_Execute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		in      ConnectRemoteInput
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "missing token",
			in:      ConnectRemoteInput{Endpoint: "mock://", CollectionID: "doc"},
			wantErr: domain.ErrRequired,
		},
		{
			name:    "dial fails",
			in:      ConnectRemoteInput{Endpoint: "mock://", Token: "t", CollectionID: "doc"},
			setup:   func(f *fixture) { f.dialer.Err = errors.New("no route") },
			wantErr: errors.New("no route"),
		},
		{
			name:    "unauthorized",
			in:      ConnectRemoteInput{Endpoint: "mock://", Token: "bad", CollectionID: "doc"},
			setup:   func(f *fixture) { f.table.Errs["Title"] = errors.New("401") },
			wantErr: errors.New("401"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			sessions := &testutil.MockSessionStore{}
			uc := NewConnectRemote(f.dialer, sessions, f.sync, f.logger)

			_, err := uc.Execute(context.Background(), tt.in)

			require.Error(t, err)
			if errors.Is(tt.wantErr, domain.ErrRequired) {
				assert.ErrorIs(t, err, domain.ErrRequired)
			} else {
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			}
			assert.Nil(t, sessions.Session)
			assert.False(t, f.sync.Connected())
		})
	}
}

func TestDisconnectRemote_Execute(t *testing.T) {
	f := newFixture()
	f.connect()
	sessions := &testutil.MockSessionStore{Session: testutil.ConnectedSession()}
	uc := NewDisconnectRemote(sessions, f.sync, f.logger)

	require.NoError(t, uc.Execute(context.Background()))

	assert.True(t, sessions.Cleared)
	assert.False(t, f.sync.Connected())
	assert.Nil(t, f.sync.Session())
}

func TestRemoteStatus_Execute(t *testing.T) {
	f := newFixture()
	uc := NewRemoteStatus(f.sync)

	out, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Connected)
	assert.Nil(t, out.Session)

	f.connect()
	out, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, out.Connected)
	assert.Equal(t, "Weekly Tasks", out.Title)
	assert.NoError(t, out.TitleErr)

	f.table.Errs["Title"] = errors.New("offline")
	out, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Error(t, out.TitleErr)
}
