package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/example/booking-core/internal/persistence"
)

// CredentialSource captures the general store operations needed to
// authenticate and register accounts.
type CredentialSource interface {
	RegisterCustomer(ctx context.Context, cred persistence.Credential, profile persistence.CustomerProfile) error
	RegisterBusiness(ctx context.Context, cred persistence.Credential, business persistence.Business) error
	CredentialDigest(ctx context.Context, username string) ([]byte, error)
}

// BusinessDirectory captures the business registry operations needed by the
// auth service.
type BusinessDirectory interface {
	IsBusiness(ctx context.Context, username string) (bool, error)
}

// AuthService orchestrates credential checks and account registration
// against the general store.
type AuthService struct {
	credentials CredentialSource
	businesses  BusinessDirectory
	params      DigestParams
	logger      *slog.Logger
}

// NewAuthService wires dependencies for the auth service.
func NewAuthService(credentials CredentialSource, businesses BusinessDirectory, params DigestParams, logger *slog.Logger) *AuthService {
	if params == (DigestParams{}) {
		params = DefaultDigestParams
	}
	return &AuthService{
		credentials: credentials,
		businesses:  businesses,
		params:      params,
		logger:      defaultLogger(logger),
	}
}

// Authenticate reports whether the username and password match a stored
// credential. An unknown username verifies against a zero digest so the
// failure path does not reveal whether the account exists.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	logger := serviceLogger(ctx, s.logger, "auth", "authenticate", "username", username)

	stored, err := s.credentials.CredentialDigest(ctx, username)
	if err != nil && !errors.Is(err, persistence.ErrNotFound) {
		logger.ErrorContext(ctx, "credential lookup failed", "error", err, "error_kind", ErrorKind(err))
		return false, err
	}

	ok := VerifyDigest(stored, username, password, s.params)
	if !ok {
		logger.InfoContext(ctx, "authentication rejected")
	}
	return ok, nil
}

// RegisterCustomer validates the input and creates the credential and
// customer profile atomically.
func (s *AuthService) RegisterCustomer(ctx context.Context, params RegisterCustomerParams) error {
	logger := serviceLogger(ctx, s.logger, "auth", "register_customer", "username", params.Username)

	vErr := &ValidationError{}
	validateUsername(vErr, params.Username)
	validatePassword(vErr, params.Password)
	validateField(vErr, "name", params.Name, persistence.MaxNameLength)
	validateField(vErr, "address", params.Address, persistence.MaxAddressLength)
	validatePhone(vErr, params.Phone)
	if vErr.HasErrors() {
		return vErr
	}

	cred := persistence.Credential{
		Username:     params.Username,
		PasswordHash: CredentialDigest(params.Username, params.Password, s.params),
	}
	profile := persistence.CustomerProfile{
		Username: params.Username,
		Name:     params.Name,
		Address:  params.Address,
		Phone:    params.Phone,
	}

	if err := s.credentials.RegisterCustomer(ctx, cred, profile); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return fmt.Errorf("%w: username %q", ErrAlreadyExists, params.Username)
		}
		logger.ErrorContext(ctx, "customer registration failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "customer registered")
	return nil
}

// RegisterBusiness validates the input, then creates the login credential
// and the business registry row in a single transaction. A failed
// registration leaves neither row behind.
func (s *AuthService) RegisterBusiness(ctx context.Context, params RegisterBusinessParams) error {
	logger := serviceLogger(ctx, s.logger, "auth", "register_business", "username", params.Username)

	vErr := &ValidationError{}
	validateUsername(vErr, params.Username)
	validatePassword(vErr, params.Password)
	validateField(vErr, "business_name", params.BusinessName, persistence.MaxNameLength)
	validateField(vErr, "owner_name", params.OwnerName, persistence.MaxNameLength)
	validateField(vErr, "address", params.Address, persistence.MaxAddressLength)
	validatePhone(vErr, params.Phone)
	if vErr.HasErrors() {
		return vErr
	}

	cred := persistence.Credential{
		Username:     params.Username,
		PasswordHash: CredentialDigest(params.Username, params.Password, s.params),
	}
	business := persistence.Business{
		Username:     params.Username,
		BusinessName: params.BusinessName,
		OwnerName:    params.OwnerName,
		Address:      params.Address,
		Phone:        params.Phone,
	}
	if err := s.credentials.RegisterBusiness(ctx, cred, business); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			return fmt.Errorf("%w: username %q", ErrAlreadyExists, params.Username)
		}
		logger.ErrorContext(ctx, "business registration failed", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "business registered")
	return nil
}

// IsBusiness reports whether a username belongs to a registered business.
func (s *AuthService) IsBusiness(ctx context.Context, username string) (bool, error) {
	return s.businesses.IsBusiness(ctx, username)
}

func validateUsername(vErr *ValidationError, username string) {
	switch {
	case strings.TrimSpace(username) == "":
		vErr.add("username", "username is required")
	case len(username) > persistence.MaxUsernameLength:
		vErr.add("username", fmt.Sprintf("username must be at most %d bytes", persistence.MaxUsernameLength))
	}
}

func validatePassword(vErr *ValidationError, password string) {
	if password == "" {
		vErr.add("password", "password is required")
	}
}

func validateField(vErr *ValidationError, field, value string, limit int) {
	switch {
	case strings.TrimSpace(value) == "":
		vErr.add(field, field+" is required")
	case len(value) > limit:
		vErr.add(field, fmt.Sprintf("%s must be at most %d bytes", field, limit))
	}
}

func validatePhone(vErr *ValidationError, phone string) {
	if strings.TrimSpace(phone) == "" {
		vErr.add("phone", "phone is required")
		return
	}
	if len(phone) > persistence.MaxPhoneLength {
		vErr.add("phone", fmt.Sprintf("phone must be at most %d digits", persistence.MaxPhoneLength))
		return
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			vErr.add("phone", "phone must contain digits only")
			return
		}
	}
}
