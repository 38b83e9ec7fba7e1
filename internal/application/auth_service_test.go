package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/booking-core/internal/persistence"
)

// testDigestParams keeps key derivation cheap in tests.
var testDigestParams = DigestParams{Memory: 64, Iterations: 1, Parallelism: 1}

type fakeCredentialSource struct {
	digests   map[string][]byte
	customers map[string]persistence.CustomerProfile
	directory *fakeBusinessDirectory

	// registerBusinessErr fails the whole RegisterBusiness call, writing
	// nothing, to mirror the store's transactional contract.
	registerBusinessErr error
}

func newFakeCredentialSource(directory *fakeBusinessDirectory) *fakeCredentialSource {
	return &fakeCredentialSource{
		digests:   make(map[string][]byte),
		customers: make(map[string]persistence.CustomerProfile),
		directory: directory,
	}
}

func (f *fakeCredentialSource) addCredential(cred persistence.Credential) error {
	if _, ok := f.digests[cred.Username]; ok {
		return persistence.ErrDuplicate
	}
	f.digests[cred.Username] = cred.PasswordHash
	return nil
}

func (f *fakeCredentialSource) RegisterCustomer(_ context.Context, cred persistence.Credential, profile persistence.CustomerProfile) error {
	if err := f.addCredential(cred); err != nil {
		return err
	}
	f.customers[profile.Username] = profile
	return nil
}

func (f *fakeCredentialSource) RegisterBusiness(_ context.Context, cred persistence.Credential, business persistence.Business) error {
	if f.registerBusinessErr != nil {
		return f.registerBusinessErr
	}
	if err := f.addCredential(cred); err != nil {
		return err
	}
	f.directory.businesses[business.Username] = business
	return nil
}

func (f *fakeCredentialSource) CredentialDigest(_ context.Context, username string) ([]byte, error) {
	digest, ok := f.digests[username]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return digest, nil
}

func (f *fakeCredentialSource) CustomerExists(_ context.Context, username string) (bool, error) {
	_, ok := f.customers[username]
	return ok, nil
}

type fakeBusinessDirectory struct {
	businesses map[string]persistence.Business
}

func newFakeBusinessDirectory() *fakeBusinessDirectory {
	return &fakeBusinessDirectory{businesses: make(map[string]persistence.Business)}
}

func (f *fakeBusinessDirectory) IsBusiness(_ context.Context, username string) (bool, error) {
	_, ok := f.businesses[username]
	return ok, nil
}

func newAuthTest() (*AuthService, *fakeCredentialSource, *fakeBusinessDirectory) {
	businesses := newFakeBusinessDirectory()
	creds := newFakeCredentialSource(businesses)
	return NewAuthService(creds, businesses, testDigestParams, slog.Default()), creds, businesses
}

func customerParams(username string) RegisterCustomerParams {
	return RegisterCustomerParams{
		Username: username,
		Password: "hunter2",
		Name:     "Alex",
		Address:  "1 Main St",
		Phone:    "0123456789",
	}
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	svc, creds, _ := newAuthTest()
	ctx := context.Background()

	if err := svc.RegisterCustomer(ctx, customerParams("alex")); err != nil {
		t.Fatalf("RegisterCustomer failed: %v", err)
	}

	digest := creds.digests["alex"]
	if len(digest) != persistence.DigestLength {
		t.Fatalf("stored digest is %d bytes, want %d", len(digest), persistence.DigestLength)
	}

	ok, err := svc.Authenticate(ctx, "alex", "hunter2")
	if err != nil || !ok {
		t.Fatalf("Authenticate with correct password = %v, %v", ok, err)
	}
	ok, err = svc.Authenticate(ctx, "alex", "wrong")
	if err != nil || ok {
		t.Fatalf("Authenticate with wrong password = %v, %v", ok, err)
	}
}

func TestAuthService_AuthenticateUnknownUser(t *testing.T) {
	svc, _, _ := newAuthTest()

	ok, err := svc.Authenticate(context.Background(), "ghost", "anything")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if ok {
		t.Fatal("authenticated an unknown user")
	}
}

func TestAuthService_DigestDependsOnUsername(t *testing.T) {
	a := CredentialDigest("alex", "hunter2", testDigestParams)
	b := CredentialDigest("blake", "hunter2", testDigestParams)
	if string(a) == string(b) {
		t.Fatal("equal passwords under different usernames produced the same digest")
	}
}

func TestAuthService_RegisterCustomerValidation(t *testing.T) {
	svc, creds, _ := newAuthTest()
	ctx := context.Background()

	long := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = 'x'
		}
		return string(b)
	}

	cases := []struct {
		name   string
		mutate func(*RegisterCustomerParams)
		field  string
	}{
		{"empty username", func(p *RegisterCustomerParams) { p.Username = "" }, "username"},
		{"long username", func(p *RegisterCustomerParams) { p.Username = long(21) }, "username"},
		{"empty password", func(p *RegisterCustomerParams) { p.Password = "" }, "password"},
		{"long name", func(p *RegisterCustomerParams) { p.Name = long(41) }, "name"},
		{"long address", func(p *RegisterCustomerParams) { p.Address = long(256) }, "address"},
		{"long phone", func(p *RegisterCustomerParams) { p.Phone = "01234567890" }, "phone"},
		{"non numeric phone", func(p *RegisterCustomerParams) { p.Phone = "555-0199" }, "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := customerParams("alex")
			tc.mutate(&params)

			err := svc.RegisterCustomer(ctx, params)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("RegisterCustomer = %v, want ValidationError", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Errorf("FieldErrors = %v, want entry for %q", vErr.FieldErrors, tc.field)
			}
			if len(creds.digests) != 0 {
				t.Error("invalid registration stored a credential")
			}
		})
	}
}

func TestAuthService_RegisterCustomerDuplicate(t *testing.T) {
	svc, _, _ := newAuthTest()
	ctx := context.Background()

	if err := svc.RegisterCustomer(ctx, customerParams("alex")); err != nil {
		t.Fatalf("RegisterCustomer failed: %v", err)
	}
	err := svc.RegisterCustomer(ctx, customerParams("alex"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second RegisterCustomer = %v, want ErrAlreadyExists", err)
	}
}

func TestAuthService_RegisterBusiness(t *testing.T) {
	svc, _, _ := newAuthTest()
	ctx := context.Background()

	params := RegisterBusinessParams{
		Username:     "salon",
		Password:     "trimmed",
		BusinessName: "Salon on Main",
		OwnerName:    "Dana",
		Address:      "2 Main St",
		Phone:        "0123456789",
	}
	if err := svc.RegisterBusiness(ctx, params); err != nil {
		t.Fatalf("RegisterBusiness failed: %v", err)
	}

	ok, err := svc.IsBusiness(ctx, "salon")
	if err != nil || !ok {
		t.Fatalf("IsBusiness = %v, %v, want true", ok, err)
	}
	ok, err = svc.Authenticate(ctx, "salon", "trimmed")
	if err != nil || !ok {
		t.Fatalf("Authenticate as business = %v, %v, want true", ok, err)
	}

	if err := svc.RegisterBusiness(ctx, params); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second RegisterBusiness = %v, want ErrAlreadyExists", err)
	}
}

func TestAuthService_RegisterBusinessFailureLeavesNoAccount(t *testing.T) {
	svc, creds, businesses := newAuthTest()
	ctx := context.Background()

	params := RegisterBusinessParams{
		Username:     "salon",
		Password:     "trimmed",
		BusinessName: "Salon on Main",
		OwnerName:    "Dana",
		Address:      "2 Main St",
		Phone:        "0123456789",
	}

	creds.registerBusinessErr = errors.New("disk full")
	if err := svc.RegisterBusiness(ctx, params); err == nil {
		t.Fatal("RegisterBusiness succeeded despite a failing store")
	}
	if _, ok := creds.digests["salon"]; ok {
		t.Fatal("failed registration left a credential behind")
	}
	if ok, _ := businesses.IsBusiness(ctx, "salon"); ok {
		t.Fatal("failed registration left a registry row behind")
	}

	// The retry must find no leftover state in the way.
	creds.registerBusinessErr = nil
	if err := svc.RegisterBusiness(ctx, params); err != nil {
		t.Fatalf("retry after failure = %v, want success", err)
	}
	ok, err := svc.Authenticate(ctx, "salon", "trimmed")
	if err != nil || !ok {
		t.Fatalf("Authenticate after retry = %v, %v, want true", ok, err)
	}
}

func TestAuthService_ErrorLogsCarryErrorKind(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	businesses := newFakeBusinessDirectory()
	creds := newFakeCredentialSource(businesses)
	creds.registerBusinessErr = errors.New("disk full")
	svc := NewAuthService(creds, businesses, testDigestParams, logger)

	params := RegisterBusinessParams{
		Username:     "salon",
		Password:     "trimmed",
		BusinessName: "Salon on Main",
		OwnerName:    "Dana",
		Address:      "2 Main St",
		Phone:        "0123456789",
	}
	if err := svc.RegisterBusiness(context.Background(), params); err == nil {
		t.Fatal("RegisterBusiness succeeded despite a failing store")
	}

	out := buf.String()
	if !strings.Contains(out, "error_kind=unexpected") {
		t.Fatalf("error log missing error_kind label: %q", out)
	}
}

func TestErrorKind(t *testing.T) {
	vErr := &ValidationError{}
	vErr.add("username", "username is required")

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", ErrAlreadyExists), "already_exists"},
		{ErrDanglingReference, "dangling_reference"},
		{vErr, "validation"},
		{errors.New("boom"), "unexpected"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
