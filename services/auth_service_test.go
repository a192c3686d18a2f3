package services

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/chatterbox/config"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/services/jwt"
	"gorm.io/gorm"
)

type fakeAuthRepo struct {
	usersByID    map[uint]*models.User
	usersByEmail map[string]*models.User
	blacklist    map[string]bool
	nextID       uint
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByID:    make(map[uint]*models.User),
		usersByEmail: make(map[string]*models.User),
		blacklist:    make(map[string]bool),
		nextID:       1,
	}
}

func (f *fakeAuthRepo) CreateUser(user *models.User) (*models.User, error) {
	user.ID = f.nextID
	f.nextID++
	f.usersByID[user.ID] = user
	f.usersByEmail[user.Email] = user
	return user, nil
}

func (f *fakeAuthRepo) FindUserByEmail(email string) (*models.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeAuthRepo) FindUserByID(id uint) (*models.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if user.IsBlocked {
		return nil, apiError.InActiveUserError
	}
	return user, nil
}

func (f *fakeAuthRepo) AddToBlackList(blacklist *models.Blacklist) error {
	f.blacklist[blacklist.Token] = true
	return nil
}

func (f *fakeAuthRepo) IsTokenInBlacklist(token string) bool {
	return f.blacklist[token]
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func registeredUser(t *testing.T, repo *fakeAuthRepo) *models.User {
	t.Helper()
	user := &models.User{
		Fullname: "Ada Lovelace",
		Username: "ada",
		Email:    "ada@example.com",
		Password: "s3cret",
	}
	require.NoError(t, user.HashPassword())
	created, err := repo.CreateUser(user)
	require.NoError(t, err)
	return created
}

func mintToken(t *testing.T, user *models.User, conf *config.Config) string {
	t.Helper()
	token, err := jwt.GenerateToken(user.ID, user.Username, conf.JWTSecret, conf.JWTExpiry)
	require.NoError(t, err)
	return token
}

func TestResolveTokenHappyPath(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	user := registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	identity, err := svc.ResolveToken("Bearer " + mintToken(t, user, conf))
	require.NoError(t, err)
	require.Equal(t, "1", identity.UserID)
	require.Equal(t, "ada", identity.Username)
}

func TestResolveTokenBearerPrefixIsOptional(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	user := registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	identity, err := svc.ResolveToken(mintToken(t, user, conf))
	require.NoError(t, err)
	require.Equal(t, "1", identity.UserID)
}

func TestResolveTokenRejections(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	user := registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	expired, err := jwt.GenerateToken(user.ID, user.Username, conf.JWTSecret, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := jwt.GenerateToken(user.ID, user.Username, "other-secret", time.Hour)
	require.NoError(t, err)

	unknownRepo := newFakeAuthRepo()
	unknownUser := registeredUser(t, unknownRepo)
	unknownToken := mintToken(t, unknownUser, conf)
	delete(unknownRepo.usersByID, unknownUser.ID)
	unknownSvc := NewAuthService(unknownRepo, conf)

	blacklisted := mintToken(t, user, conf)
	require.NoError(t, svc.LogoutUser(blacklisted))

	cases := []struct {
		name     string
		svc      AuthService
		rawToken string
	}{
		{"missing token", svc, ""},
		{"bearer prefix only", svc, "Bearer "},
		{"malformed token", svc, "Bearer bad-token"},
		{"expired token", svc, "Bearer " + expired},
		{"wrong signing key", svc, "Bearer " + wrongKey},
		{"unknown user", unknownSvc, "Bearer " + unknownToken},
		{"blacklisted token", svc, "Bearer " + blacklisted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			identity, err := tc.svc.ResolveToken(tc.rawToken)
			require.Error(t, err)
			require.True(t, errors.Is(err, apiError.ErrAuthRejected))
			require.Nil(t, identity)
		})
	}
}

func TestResolveTokenRejectsBlockedUser(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	user := registeredUser(t, repo)
	user.IsBlocked = true
	svc := NewAuthService(repo, conf)

	_, err := svc.ResolveToken("Bearer " + mintToken(t, user, conf))
	require.Error(t, err)
	require.True(t, errors.Is(err, apiError.ErrAuthRejected))
}

func TestLoginUserRoundTrip(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	resp, apiErr := svc.LoginUser(&models.LoginRequest{Email: "ada@example.com", Password: "s3cret"})
	require.Nil(t, apiErr)
	require.Equal(t, "ada", resp.Username)
	require.NotEmpty(t, resp.AccessToken)

	// The minted token resolves back to the same principal.
	identity, err := svc.ResolveToken("Bearer " + resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, identity.UserID)
}

func TestLoginUserWrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	resp, apiErr := svc.LoginUser(&models.LoginRequest{Email: "ada@example.com", Password: "nope"})
	require.Nil(t, resp)
	require.NotNil(t, apiErr)
	require.Equal(t, 401, apiErr.Status)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	repo := newFakeAuthRepo()
	conf := testConfig()
	user := registeredUser(t, repo)
	svc := NewAuthService(repo, conf)

	token := mintToken(t, user, conf)
	_, err := svc.ResolveToken("Bearer " + token)
	require.NoError(t, err)

	require.NoError(t, svc.LogoutUser(token))

	_, err = svc.ResolveToken("Bearer " + token)
	require.Error(t, err)
	require.True(t, errors.Is(err, apiError.ErrAuthRejected))
}
