package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
)

func TestRefreshCmd_RunsCycle(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockRefreshService{status: driving.RefreshStatus{Version: 4}}
	refreshService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"refresh"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, 1, mock.calls)
	assert.Contains(t, buf.String(), "Snapshot is now v4")
}

func TestRefreshCmd_AlreadyInProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	refreshService = &mockRefreshService{err: domain.ErrRefreshInProgress}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"refresh"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "already in progress")
}

func TestRefreshCmd_Failure(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	refreshService = &mockRefreshService{err: errors.New("provider down")}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"refresh"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "refresh failed")
}

func TestRefreshCmd_StatusFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockRefreshService{status: driving.RefreshStatus{
		Running:     false,
		Version:     9,
		LastAttempt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		LastError:   "trending list empty",
	}}
	refreshService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"refresh", "--status"})
	defer func() {
		rootCmd.SetArgs(nil)
		refreshStatusOnly = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Version:      9")
	assert.Contains(t, out, "trending list empty")
	// Status must not trigger a refresh.
	assert.Equal(t, 0, mock.calls)
}
