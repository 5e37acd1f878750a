package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"auction_system/internal/access"
	"auction_system/internal/domain"
	"auction_system/internal/storage"
	"auction_system/internal/store"
	"auction_system/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts, login and balances.
type UserService struct {
	store           store.Store
	images          storage.ImageStore
	jwtSecret       string
	platformAdminID uint
	maxUpload       int64
}

// UserOptions carries the settings of UserService.
type UserOptions struct {
	JWTSecret       string
	PlatformAdminID uint
	MaxUpload       int64
}

func NewUserService(st store.Store, images storage.ImageStore, opts UserOptions) *UserService {
	if opts.MaxUpload <= 0 {
		opts.MaxUpload = DefaultMaxUpload
	}
	return &UserService{
		store:           st,
		images:          images,
		jwtSecret:       opts.JWTSecret,
		platformAdminID: opts.PlatformAdminID,
		maxUpload:       opts.MaxUpload,
	}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// roleMismatchError names the role the caller tried to log in as.
type roleMismatchError struct {
	role domain.Role
}

func (e roleMismatchError) Error() string        { return "you are not registered as a " + string(e.role) }
func (e roleMismatchError) Is(target error) bool { return target == ErrRoleMismatch }

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < 8 || len(password) > 72 {
		return "", ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. Only the first admin can sign up.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" || in.Role == "" {
		return domain.User{}, ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidInput
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.User{}, ErrInvalidRole
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	users := s.store.Users()
	if _, err := users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("failed to check email: %w", err)
	}

	if role == domain.RoleAdmin {
		admins, err := users.ListByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return domain.User{}, fmt.Errorf("failed to list admins: %w", err)
		}
		if len(admins) > 0 {
			return domain.User{}, ErrAdminExists
		}
	}

	user := domain.User{Name: name, Email: email, Password: hash, Role: role}
	if err := users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("User registered")
	return user, nil
}

// Login checks credentials and the claimed role, then issues a token.
func (s *UserService) Login(ctx context.Context, email, password, role string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" || role == "" {
		return LoginResult{}, ErrInvalidInput
	}
	wantRole, err := domain.ParseRole(role)
	if err != nil {
		return LoginResult{}, ErrInvalidRole
	}

	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrBadCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return LoginResult{}, ErrBadCredentials
	}
	if user.Role != wantRole {
		return LoginResult{}, roleMismatchError{role: wantRole}
	}

	token, err := utils.GenerateJWT(access.Identity{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
	}, s.jwtSecret, utils.TokenTTL)
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to issue token: %w", err)
	}
	return LoginResult{Token: token, User: user}, nil
}

func (s *UserService) getUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Balance returns a user's seller earnings.
func (s *UserService) Balance(ctx context.Context, actor access.Identity, userID uint) (float64, error) {
	if !actor.Authenticated() {
		return 0, access.ErrUnauthenticated
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// CommissionBalance returns the commission accrued by the platform admin.
func (s *UserService) CommissionBalance(ctx context.Context, actor access.Identity) (float64, error) {
	if err := access.Require(actor, domain.RoleAdmin); err != nil {
		return 0, err
	}
	admin, err := platformAdmin(ctx, s.store.Users(), s.platformAdminID)
	if err != nil {
		return 0, err
	}
	return admin.CommissionBalance, nil
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context, actor access.Identity) (domain.User, error) {
	if !actor.Authenticated() {
		return domain.User{}, access.ErrUnauthenticated
	}
	return s.getUser(ctx, actor.UserID)
}

func (s *UserService) List(ctx context.Context, actor access.Identity) ([]domain.User, error) {
	if err := access.Require(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile changes the caller's name and, when photo is given, the
// profile picture. The previous picture is removed from storage.
func (s *UserService) UpdateProfile(ctx context.Context, actor access.Identity, name string, photo *Upload) (domain.User, error) {
	if !actor.Authenticated() {
		return domain.User{}, access.ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" && photo == nil {
		return domain.User{}, ErrProfileUnchanged
	}
	user, err := s.getUser(ctx, actor.UserID)
	if err != nil {
		return domain.User{}, err
	}

	oldPhoto := user.Photo
	if photo != nil {
		url, err := saveImage(ctx, s.images, "profilePic", photo, s.maxUpload)
		if err != nil {
			return domain.User{}, err
		}
		user.Photo = url
	}
	if name != "" {
		user.Name = name
	}

	if err := s.store.Users().UpdateProfile(ctx, user.ID, user.Name, user.Photo); err != nil {
		if photo != nil {
			removeImage(ctx, s.images, user.Photo)
		}
		return domain.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if photo != nil {
		removeImage(ctx, s.images, oldPhoto)
	}
	return user, nil
}

// Delete removes an account that nothing references. Wishlist entries go with it.
func (s *UserService) Delete(ctx context.Context, actor access.Identity, userID uint) error {
	if err := access.Require(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if actor.UserID == userID {
		return ErrCannotDeleteSelf
	}

	var photo string
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		busy, err := tx.Users().HasDependents(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user references: %w", err)
		}
		if busy {
			return ErrUserHasDependents
		}
		if err := tx.Wishlist().DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear wishlist: %w", err)
		}
		if err := tx.Users().Delete(ctx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		photo = user.Photo
		return nil
	})
	if err != nil {
		return err
	}
	removeImage(ctx, s.images, photo)

	logrus.WithFields(logrus.Fields{"user_id": userID, "admin_id": actor.UserID}).Info("User deleted")
	return nil
}

// EnsureAdmin creates the platform admin unless an admin already exists. It
// reports whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (domain.User, bool, error) {
	admins, err := s.store.Users().ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("failed to list admins: %w", err)
	}
	if len(admins) > 0 {
		return admins[0], false, nil
	}
	user, err := s.Register(ctx, RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     string(domain.RoleAdmin),
	})
	if err != nil {
		return domain.User{}, false, err
	}
	return user, true, nil
}
