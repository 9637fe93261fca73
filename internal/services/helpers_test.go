package services

import (
	"testing"
	"time"

	"github.com/you/usersvc/domain"
	"github.com/you/usersvc/internal/mocks"
	"go.uber.org/zap"
)

// authDeps groups the collaborators of an AuthService under test
type authDeps struct {
	userRepo    *mocks.MockUserRepository
	passwordSvc *mocks.MockPasswordService
	tokenSvc    *mocks.MockTokenService
	imageStore  *mocks.MockImageStore
	welcome     *mocks.MockWelcomeNotifier
	audit       *mocks.MockAuditLogger
}

// createAuthServiceForTest creates an AuthService with fresh mock dependencies
func createAuthServiceForTest(t *testing.T) (domain.AuthService, *authDeps) {
	t.Helper()

	deps := &authDeps{
		userRepo:    mocks.NewMockUserRepository(),
		passwordSvc: mocks.NewMockPasswordService(),
		tokenSvc:    mocks.NewMockTokenService(),
		imageStore:  mocks.NewMockImageStore(),
		welcome:     mocks.NewMockWelcomeNotifier(),
		audit:       mocks.NewMockAuditLogger(),
	}

	svc := NewAuthService(deps.userRepo, deps.passwordSvc, deps.tokenSvc, deps.imageStore, deps.welcome, deps.audit, zap.NewNop())
	return svc, deps
}

// createValidUser creates a valid user entity for testing
func createValidUser(t *testing.T) *domain.User {
	t.Helper()

	return &domain.User{
		ID:           1,
		Fullname:     "Test User",
		Username:     "testuser",
		Email:        "test@example.com",
		Phone:        "+1234567890",
		Avatar:       domain.DefaultAvatarURL,
		PasswordHash: "hashed_password123",
		RefreshToken: "refresh_token_user_1_0",
		CreatedAt:    time.Now().Add(-24 * time.Hour),
		UpdatedAt:    time.Now().Add(-1 * time.Hour),
	}
}

// createValidRegisterInput creates a complete registration form
func createValidRegisterInput(t *testing.T) domain.RegisterInput {
	t.Helper()

	return domain.RegisterInput{
		Fullname: "New User",
		Username: "NewUser",
		Email:    "newuser@example.com",
		Password: "securepassword123",
		Phone:    "+1234567890",
	}
}
