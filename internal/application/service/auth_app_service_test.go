package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// fakeCredentialStore verifies against a fixed principal table.
type fakeCredentialStore struct {
	principals map[string]*models.Principal
	passwords  map[string]string
	fail       error
}

func (f *fakeCredentialStore) Verify(_ context.Context, username, password string) (*models.Principal, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	principal, ok := f.principals[username]
	if !ok || f.passwords[username] != password {
		return nil, errors.ErrInvalidCredentials()
	}
	return principal, nil
}

// fakeCodec issues predictable tokens without signing.
type fakeCodec struct {
	encodeErr error
}

func (f *fakeCodec) Encode(_ context.Context, subject string, accountIDs []string, issuedAt time.Time, ttl time.Duration) (*models.IssuedToken, error) {
	if f.encodeErr != nil {
		return nil, f.encodeErr
	}
	return &models.IssuedToken{
		Value:      "token-for-" + subject,
		Subject:    subject,
		AccountIDs: accountIDs,
		IssuedAt:   issuedAt,
		ExpiresAt:  issuedAt.Add(ttl),
	}, nil
}

func (f *fakeCodec) Decode(context.Context, string) (*models.Claims, error) {
	panic("not used")
}

// recordingAudit captures recorded events.
type recordingAudit struct {
	events []models.AuditEvent
}

func (r *recordingAudit) Record(_ context.Context, event models.AuditEvent) {
	r.events = append(r.events, event)
}
func (r *recordingAudit) Close() error { return nil }

func newAuthFixture(store *fakeCredentialStore, codec *fakeCodec, audit *recordingAudit) AuthAppService {
	return NewAuthAppService(
		store,
		codec,
		audit,
		monitoring.NewMetrics(prometheus.NewRegistry()),
		logger.NewNop(),
		time.Hour,
	)
}

func TestLoginSuccess(t *testing.T) {
	store := &fakeCredentialStore{
		principals: map[string]*models.Principal{
			"alice": {Subject: "alice", Accounts: []models.Account{
				{ID: "acc-a", Name: "Alpha"},
				{ID: "acc-b", Name: "Beta"},
			}},
		},
		passwords: map[string]string{"alice": "s3cret"},
	}
	audit := &recordingAudit{}
	svc := newAuthFixture(store, &fakeCodec{}, audit)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.Token)
	require.Len(t, resp.Accounts, 2)
	assert.Equal(t, "acc-a", resp.Accounts[0].AccountID)
	assert.Equal(t, "Alpha", resp.Accounts[0].AccountName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.Expires, 5*time.Second)

	require.Len(t, audit.events, 1)
	assert.Equal(t, constants.AuditEventLoginSucceeded, audit.events[0].Type)
}

func TestLoginEmptyAccountSetSucceeds(t *testing.T) {
	store := &fakeCredentialStore{
		principals: map[string]*models.Principal{"bob": {Subject: "bob"}},
		passwords:  map[string]string{"bob": "s3cret"},
	}
	svc := newAuthFixture(store, &fakeCodec{}, &recordingAudit{})

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "bob", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.Accounts)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := &fakeCredentialStore{
		principals: map[string]*models.Principal{"alice": {Subject: "alice"}},
		passwords:  map[string]string{"alice": "s3cret"},
	}
	svc := newAuthFixture(store, &fakeCodec{}, &recordingAudit{})
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "s3cret"})
	_, errWrongPw := svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.True(t, errors.HasCode(errUnknown, errors.CodeInvalidCredentials))
	assert.True(t, errors.HasCode(errWrongPw, errors.CodeInvalidCredentials))
}

func TestLoginFailureIsAudited(t *testing.T) {
	store := &fakeCredentialStore{principals: map[string]*models.Principal{}, passwords: map[string]string{}}
	audit := &recordingAudit{}
	svc := newAuthFixture(store, &fakeCodec{}, audit)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "nobody", Password: "x"})
	require.Error(t, err)

	require.Len(t, audit.events, 1)
	assert.Equal(t, constants.AuditEventLoginFailed, audit.events[0].Type)
	assert.Equal(t, "nobody", audit.events[0].Subject)
}

func TestLoginUpstreamUnavailable(t *testing.T) {
	store := &fakeCredentialStore{fail: errors.ErrUpstreamUnavailable()}
	svc := newAuthFixture(store, &fakeCodec{}, &recordingAudit{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "s3cret"})
	assert.True(t, errors.HasCode(err, errors.CodeUpstreamUnavailable))
}

func TestLoginEncodingFailure(t *testing.T) {
	store := &fakeCredentialStore{
		principals: map[string]*models.Principal{"alice": {Subject: "alice"}},
		passwords:  map[string]string{"alice": "s3cret"},
	}
	svc := newAuthFixture(store, &fakeCodec{encodeErr: errors.ErrTokenEncoding()}, &recordingAudit{})

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "s3cret"})
	assert.True(t, errors.HasCode(err, errors.CodeTokenEncoding))
}

func TestLoginMissingFields(t *testing.T) {
	svc := newAuthFixture(&fakeCredentialStore{}, &fakeCodec{}, &recordingAudit{})
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Username: "", Password: "x"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidRequest))

	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "alice", Password: ""})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidRequest))
}
