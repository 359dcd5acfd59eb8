package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (r *MockUserRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	args := r.Called(ctx, username, passwordHash)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (r *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := r.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	errUnknown error
	repoMock   *MockUserRepository
	svc        *AuthService
}

func (suite *AuthServiceTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *AuthServiceTestSuite) SetupSubTest() {
	suite.repoMock = new(MockUserRepository)
	suite.svc = NewAuthService(suite.repoMock, "test-secret", time.Hour)
}

func (suite *AuthServiceTestSuite) TearDownSubTest() {
	suite.repoMock.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister() {
	suite.Run("username taken", func() {
		suite.repoMock.
			On("Create", context.Background(), "johndoe", mock.Anything).
			Once().
			Return(nil, database.ErrUserExists)

		token, err := suite.svc.Register(context.Background(), "johndoe", "password123")

		suite.Error(err)
		suite.ErrorIs(err, database.ErrUserExists)
		suite.Empty(token)
	})

	suite.Run("unknown error", func() {
		suite.repoMock.
			On("Create", context.Background(), "johndoe", mock.Anything).
			Once().
			Return(nil, suite.errUnknown)

		token, err := suite.svc.Register(context.Background(), "johndoe", "password123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Empty(token)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("Create", context.Background(), "johndoe", mock.MatchedBy(func(hash string) bool {
				return bcrypt.CompareHashAndPassword([]byte(hash), []byte("password123")) == nil
			})).
			Once().
			Return(&models.User{ID: 7, Username: "johndoe"}, nil)

		token, err := suite.svc.Register(context.Background(), "johndoe", "password123")

		suite.NoError(err)
		suite.NotEmpty(token)

		userID, err := suite.svc.VerifyToken(token)
		suite.NoError(err)
		suite.Equal(int64(7), userID)
	})
}

func (suite *AuthServiceTestSuite) TestLogin() {
	passwordHash := func(password string) string {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		suite.Require().NoError(err)
		return string(hash)
	}

	suite.Run("user not found", func() {
		suite.repoMock.
			On("GetByUsername", context.Background(), "johndoe").
			Once().
			Return(nil, database.ErrUserNotFound)

		token, err := suite.svc.Login(context.Background(), "johndoe", "password123")

		suite.Error(err)
		suite.ErrorIs(err, ErrInvalidCredentials)
		suite.Empty(token)
	})

	suite.Run("wrong password", func() {
		suite.repoMock.
			On("GetByUsername", context.Background(), "johndoe").
			Once().
			Return(&models.User{
				ID:           7,
				Username:     "johndoe",
				PasswordHash: passwordHash("password123"),
			}, nil)

		token, err := suite.svc.Login(context.Background(), "johndoe", "wrong-password")

		suite.Error(err)
		suite.ErrorIs(err, ErrInvalidCredentials)
		suite.Empty(token)
	})

	suite.Run("success", func() {
		suite.repoMock.
			On("GetByUsername", context.Background(), "johndoe").
			Once().
			Return(&models.User{
				ID:           7,
				Username:     "johndoe",
				PasswordHash: passwordHash("password123"),
			}, nil)

		token, err := suite.svc.Login(context.Background(), "johndoe", "password123")

		suite.NoError(err)
		suite.NotEmpty(token)

		userID, err := suite.svc.VerifyToken(token)
		suite.NoError(err)
		suite.Equal(int64(7), userID)
	})
}

func (suite *AuthServiceTestSuite) TestVerifyToken() {
	suite.Run("malformed token", func() {
		userID, err := suite.svc.VerifyToken("not-a-token")

		suite.Error(err)
		suite.ErrorIs(err, ErrInvalidToken)
		suite.Zero(userID)
	})

	suite.Run("wrong secret", func() {
		other := NewAuthService(suite.repoMock, "other-secret", time.Hour)
		token, err := other.signToken(7)
		suite.Require().NoError(err)

		userID, err := suite.svc.VerifyToken(token)

		suite.Error(err)
		suite.ErrorIs(err, ErrInvalidToken)
		suite.Zero(userID)
	})

	suite.Run("expired token", func() {
		expired := NewAuthService(suite.repoMock, "test-secret", -time.Hour)
		token, err := expired.signToken(7)
		suite.Require().NoError(err)

		userID, err := suite.svc.VerifyToken(token)

		suite.Error(err)
		suite.ErrorIs(err, ErrInvalidToken)
		suite.Zero(userID)
	})

	suite.Run("success", func() {
		token, err := suite.svc.signToken(42)
		suite.Require().NoError(err)

		userID, err := suite.svc.VerifyToken(token)

		suite.NoError(err)
		suite.Equal(int64(42), userID)
	})
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
