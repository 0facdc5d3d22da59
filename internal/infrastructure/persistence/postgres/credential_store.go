package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/repository"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// userRecord is the users table row backing credential verification.
type userRecord struct {
	Username     string    `gorm:"column:username;primaryKey"`
	PasswordHash string    `gorm:"column:password_hash"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// accountMemberRecord links users to the accounts they are authorized for.
type accountMemberRecord struct {
	Username  string `gorm:"column:username;primaryKey"`
	AccountID string `gorm:"column:account_id;primaryKey"`
}

func (accountMemberRecord) TableName() string { return "account_members" }

// dummyHash is a bcrypt hash compared against when the user does not exist,
// so the unknown-user and wrong-password paths take comparable time.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("devscope-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

type credentialStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewCredentialStore creates the PostgreSQL credential store.
func NewCredentialStore(db *gorm.DB, log logger.Logger) repository.CredentialStore {
	return &credentialStore{db: db, logger: log.WithComponent("credential_store")}
}

// Verify checks the username/password pair and resolves the authorized
// account set. Unknown user, wrong password, and suspended user all return
// the same invalid-credentials error.
func (s *credentialStore) Verify(ctx context.Context, username, password string) (*models.Principal, error) {
	var user userRecord

	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison anyway to keep timing uniform.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, errors.ErrInvalidCredentials().WithCause(stderrors.New("unknown user"))
		}
		s.logger.Error(ctx, "user lookup failed", describePgErr(err))
		return nil, errors.ErrUpstreamUnavailable().WithCause(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials().WithCause(stderrors.New("password mismatch"))
	}

	if user.Status != string(constants.UserStatusActive) {
		return nil, errors.ErrInvalidCredentials().WithCause(stderrors.New("user not active"))
	}

	accounts, err := s.loadAccounts(ctx, username)
	if err != nil {
		return nil, err
	}

	return &models.Principal{Subject: user.Username, Accounts: accounts}, nil
}

func (s *credentialStore) loadAccounts(ctx context.Context, username string) ([]models.Account, error) {
	var accounts []models.Account

	err := s.db.WithContext(ctx).
		Table("accounts").
		Select("accounts.id, accounts.name").
		Joins("JOIN account_members ON account_members.account_id = accounts.id").
		Where("account_members.username = ?", username).
		Order("accounts.id").
		Scan(&accounts).Error
	if err != nil {
		s.logger.Error(ctx, "authorized account lookup failed", describePgErr(err),
			logger.String("username", username),
		)
		return nil, errors.ErrUpstreamUnavailable().WithCause(err)
	}

	return accounts, nil
}
