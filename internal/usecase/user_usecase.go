package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/auth"
	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Address        string
	SecurityAnswer string
}

type ProfileUpdateInput struct {
	Name     string
	Password string
	Phone    string
	Address  string
}

// LoginResult couples the issued bearer token with the authenticated
// user's public profile.
type LoginResult struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}

type UserUseCase interface {
	Register(in RegisterInput) (*domain.UserProfile, error)
	Login(email, password string) (*LoginResult, error)
	ForgotPassword(email, securityAnswer, newPassword string) error
	UpdateProfile(userID int, in ProfileUpdateInput) (*domain.UserProfile, error)
	GetProfile(userID int) (*domain.UserProfile, error)
	ListUsers() ([]domain.UserProfile, error)
}

type userUseCase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens *auth.TokenManager, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		userRepo: repo,
		tokens:   tokens,
		log:      logger,
	}
}

func (uc *userUseCase) Register(in RegisterInput) (*domain.UserProfile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" {
		return nil, errors.New("user name cannot be empty")
	}
	if !isValidEmail(in.Email) {
		uc.log.Warnf("Use Case: Registration rejected, invalid email format: %s", in.Email)
		return nil, errors.New("invalid email format")
	}
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters long")
	}
	if strings.TrimSpace(in.SecurityAnswer) == "" {
		return nil, errors.New("security answer cannot be empty")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", in.Email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}
	answerHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(in.SecurityAnswer)), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash security answer for %s: %v", in.Email, err)
		return nil, fmt.Errorf("internal error processing security answer: %w", err)
	}

	user := &domain.User{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       string(passwordHash),
		Phone:              in.Phone,
		Address:            in.Address,
		SecurityAnswerHash: string(answerHash),
		Role:               domain.RoleBuyer,
	}

	created, err := uc.userRepo.CreateUser(user)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create user %s: %v", in.Email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered with ID %d, Email %s", created.ID, created.Email)
	return profileOf(created), nil
}

func (uc *userUseCase) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("invalid email or password")
	}

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			uc.log.Warnf("Use Case: Login failed, user not found: %s", email)
			return nil, errors.New("invalid email or password")
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during login: %v", email, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Login failed, wrong password for %s (ID %d)", email, user.ID)
			return nil, errors.New("invalid email or password")
		}
		uc.log.Errorf("Use Case: Error comparing password hash for %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to issue token for user ID %d: %v", user.ID, err)
		return nil, fmt.Errorf("could not issue token: %w", err)
	}

	uc.log.Infof("Use Case: Login successful for %s (ID %d)", email, user.ID)
	return &LoginResult{Token: token, User: *profileOf(user)}, nil
}

// ForgotPassword resets the password when the stored security-answer
// hash matches the supplied answer.
func (uc *userUseCase) ForgotPassword(email, securityAnswer, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email cannot be empty")
	}
	if strings.TrimSpace(securityAnswer) == "" {
		return errors.New("security answer cannot be empty")
	}
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	user, err := uc.userRepo.GetUserByEmail(email)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			uc.log.Warnf("Use Case: Password reset for unknown email: %s", email)
			return errors.New("invalid email or security answer")
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during password reset: %v", email, err)
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(strings.TrimSpace(securityAnswer))); err != nil {
		uc.log.Warnf("Use Case: Password reset rejected, wrong security answer for %s (ID %d)", email, user.ID)
		return errors.New("invalid email or security answer")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash new password for %s: %v", email, err)
		return fmt.Errorf("internal error processing password: %w", err)
	}

	if _, err := uc.userRepo.UpdateUser(user.ID, map[string]interface{}{"password_hash": string(passwordHash)}); err != nil {
		uc.log.Errorf("Use Case: Repository failed to reset password for user ID %d: %v", user.ID, err)
		return err
	}

	uc.log.Infof("Use Case: Password reset for user ID %d", user.ID)
	return nil
}

func (uc *userUseCase) UpdateProfile(userID int, in ProfileUpdateInput) (*domain.UserProfile, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(in.Name); name != "" {
		updates["name"] = name
	}
	if in.Phone != "" {
		updates["phone"] = in.Phone
	}
	if in.Address != "" {
		updates["address"] = in.Address
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters long")
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.log.Errorf("Use Case: Failed to hash password during profile update for ID %d: %v", userID, err)
			return nil, fmt.Errorf("internal error processing password: %w", err)
		}
		updates["password_hash"] = string(passwordHash)
	}

	updated, err := uc.userRepo.UpdateUser(userID, updates)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to update profile for user ID %d: %v", userID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Profile updated for user ID %d", updated.ID)
	return profileOf(updated), nil
}

func (uc *userUseCase) GetProfile(userID int) (*domain.UserProfile, error) {
	if userID <= 0 {
		return nil, errors.New("invalid user ID")
	}

	user, err := uc.userRepo.GetUserByID(userID)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get profile for user ID %d: %v", userID, err)
		return nil, err
	}
	return profileOf(user), nil
}

func (uc *userUseCase) ListUsers() ([]domain.UserProfile, error) {
	users, err := uc.userRepo.ListUsers()
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list users: %v", err)
		return nil, fmt.Errorf("could not retrieve users: %w", err)
	}

	profiles := make([]domain.UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, *profileOf(&users[i]))
	}
	return profiles, nil
}

func profileOf(user *domain.User) *domain.UserProfile {
	return &domain.UserProfile{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Address: user.Address,
		Role:    user.Role,
	}
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}
