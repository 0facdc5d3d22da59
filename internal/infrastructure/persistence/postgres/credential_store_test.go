package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

func seedUser(t *testing.T, db *gorm.DB, username, password, status string, accountIDs ...string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&userRecord{
		Username:     username,
		PasswordHash: string(hash),
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)

	for _, id := range accountIDs {
		require.NoError(t, db.FirstOrCreate(&models.Account{ID: id, Name: "Account " + id}).Error)
		require.NoError(t, db.Create(&accountMemberRecord{Username: username, AccountID: id}).Error)
	}
}

func TestVerifySuccess(t *testing.T) {
	db := newTestDB(t)
	store := NewCredentialStore(db, logger.NewNop())
	seedUser(t, db, "alice", "s3cret", "active", "acc-a", "acc-b")

	principal, err := store.Verify(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", principal.Subject)
	assert.Equal(t, []string{"acc-a", "acc-b"}, principal.AccountIDs())
}

func TestVerifyZeroAccountsStillSucceeds(t *testing.T) {
	db := newTestDB(t)
	store := NewCredentialStore(db, logger.NewNop())
	seedUser(t, db, "bob", "s3cret", "active")

	principal, err := store.Verify(context.Background(), "bob", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "bob", principal.Subject)
	assert.Empty(t, principal.Accounts)
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	db := newTestDB(t)
	store := NewCredentialStore(db, logger.NewNop())
	seedUser(t, db, "alice", "s3cret", "active", "acc-a")
	seedUser(t, db, "mallory", "whatever", "suspended", "acc-b")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "nobody", "s3cret"},
		{"wrong password", "alice", "wrong"},
		{"suspended user", "mallory", "whatever"},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Verify(context.Background(), tt.username, tt.password)
			require.Error(t, err)
			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeInvalidCredentials, appErr.Code())
			messages = append(messages, appErr.Message())
		})
	}

	// All failure modes present the same client-facing message.
	for i := 1; i < len(messages); i++ {
		assert.Equal(t, messages[0], messages[i])
	}
}
