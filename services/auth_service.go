package services

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	apiError "github.com/techagentng/chatterbox/errors"
	"github.com/techagentng/chatterbox/models"
	"github.com/techagentng/chatterbox/services/jwt"
)

// AuthService interface
type AuthService interface {
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	SignupUser(request *models.User) (*models.User, error)
	// ResolveToken maps a raw Authorization header value to the sender it
	// belongs to. The "Bearer " prefix is optional and stripped here, not by
	// callers.
	ResolveToken(rawToken string) (*models.SenderIdentity, error)
	LogoutUser(accessToken string) error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
	}
}

func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(loginRequest.Email)
	if err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}
	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	accessToken, err := jwt.GenerateToken(foundUser.ID, foundUser.Username, a.Config.JWTSecret, a.Config.JWTExpiry)
	if err != nil {
		return nil, apiError.New("unable to generate token", http.StatusInternalServerError)
	}

	return &models.LoginResponse{
		UserID:      strconv.FormatUint(uint64(foundUser.ID), 10),
		Username:    foundUser.Username,
		Email:       foundUser.Email,
		AccessToken: accessToken,
	}, nil
}

func (a *authService) SignupUser(user *models.User) (*models.User, error) {
	if err := user.HashPassword(); err != nil {
		return nil, err
	}
	created, err := a.authRepo.CreateUser(user)
	if err != nil {
		return nil, err
	}
	created.HashedPassword = ""
	return created, nil
}

func (a *authService) ResolveToken(rawToken string) (*models.SenderIdentity, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(rawToken, "Bearer "))
	if tokenStr == "" {
		return nil, errors.Wrap(apiError.ErrAuthRejected, "authorization token is missing")
	}
	if a.authRepo.IsTokenInBlacklist(tokenStr) {
		return nil, errors.Wrap(apiError.ErrAuthRejected, "token is blacklisted")
	}

	claims, err := jwt.ValidateAndGetClaims(tokenStr, a.Config.JWTSecret)
	if err != nil {
		return nil, errors.Wrap(apiError.ErrAuthRejected, err.Error())
	}

	idClaim, ok := claims["id"].(float64)
	if !ok {
		return nil, errors.Wrap(apiError.ErrAuthRejected, "invalid user id claim")
	}

	user, err := a.authRepo.FindUserByID(uint(idClaim))
	if err != nil {
		return nil, errors.Wrap(apiError.ErrAuthRejected, "user not found")
	}

	return &models.SenderIdentity{
		UserID:   strconv.FormatUint(uint64(user.ID), 10),
		Username: user.Username,
	}, nil
}

func (a *authService) LogoutUser(accessToken string) error {
	return a.authRepo.AddToBlackList(&models.Blacklist{Token: accessToken})
}
