package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bilogames/account-service/internal/domain"
	"github.com/bilogames/account-service/internal/repository"
	"github.com/bilogames/account-service/internal/utils"
	"github.com/bilogames/account-service/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

// fakeUserRepo is an in-memory UserRepository enforcing the same unique keys as the schema
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func clone(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) conflict(id string, u *domain.User) error {
	for _, other := range r.users {
		if other.ID == id {
			continue
		}
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if other.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
		if u.GoogleID != nil && other.GoogleID != nil && *u.GoogleID == *other.GoogleID {
			return repository.ErrDuplicateGoogleID
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.conflict(user.ID, user); err != nil {
		return err
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = clone(user)
	return nil
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r *fakeUserRepo) GetByGoogleIDOrEmail(ctx context.Context, googleID, email string) (*domain.User, error) {
	if u, err := r.GetByGoogleID(ctx, googleID); err == nil {
		return u, nil
	}
	return r.GetByEmail(ctx, email)
}

func (r *fakeUserRepo) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	next := clone(current)
	if update.Email != nil {
		next.Email = *update.Email
	}
	if update.PasswordHash != nil {
		next.PasswordHash = *update.PasswordHash
	}
	if update.Firstname != nil {
		next.Firstname = *update.Firstname
	}
	if update.Lastname != nil {
		next.Lastname = *update.Lastname
	}
	if update.Username != nil {
		next.Username = *update.Username
	}
	if update.BirthDate != nil {
		next.BirthDate = update.BirthDate
	}
	if update.GoogleID != nil {
		next.GoogleID = update.GoogleID
	}
	if update.EmailVerified != nil {
		next.EmailVerified = *update.EmailVerified
	}

	if err := r.conflict(id, next); err != nil {
		return nil, err
	}

	next.UpdatedAt = time.Now().UTC()
	r.users[id] = next
	return clone(next), nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) DeleteUnverified(ctx context.Context, id string, cutoff time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.EmailVerified || !u.CreatedAt.Before(cutoff) {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListUnverifiedCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.User
	for _, u := range r.users {
		if !u.EmailVerified && u.CreatedAt.Before(cutoff) {
			out = append(out, clone(u))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// fakeVerificationRepo keeps at most one code per user, like the UNIQUE(user_id) upsert
type fakeVerificationRepo struct {
	mu    sync.Mutex
	codes map[string]domain.EmailVerificationCode
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{codes: make(map[string]domain.EmailVerificationCode)}
}

func (r *fakeVerificationRepo) Upsert(ctx context.Context, code *domain.EmailVerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	r.codes[code.UserID] = *code
	return nil
}

func (r *fakeVerificationRepo) Consume(ctx context.Context, userID, code string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[userID]
	if !ok || stored.Code != code || !stored.ExpiresAt.After(now) {
		return repository.ErrNotFound
	}
	delete(r.codes, userID)
	return nil
}

func (r *fakeVerificationRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.codes, userID)
	return nil
}

func (r *fakeVerificationRepo) get(userID string) (domain.EmailVerificationCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[userID]
	return c, ok
}

// fakeResetRepo keeps at most one code per email, like the UNIQUE(email) upsert
type fakeResetRepo struct {
	mu    sync.Mutex
	codes map[string]domain.PasswordResetCode
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{codes: make(map[string]domain.PasswordResetCode)}
}

func (r *fakeResetRepo) Upsert(ctx context.Context, code *domain.PasswordResetCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	code.Used = false
	r.codes[code.Email] = *code
	return nil
}

func (r *fakeResetRepo) FindRedeemable(ctx context.Context, email, code string, now time.Time) (*domain.PasswordResetCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.codes[email]
	if !ok || stored.Code != code || !stored.IsRedeemable(now) {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *fakeResetRepo) MarkUsed(ctx context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, c := range r.codes {
		if c.ID == id && c.IsRedeemable(now) {
			c.Used = true
			r.codes[email] = c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeResetRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, c := range r.codes {
		if c.UserID == userID {
			delete(r.codes, email)
		}
	}
	return nil
}

func (r *fakeResetRepo) get(email string) (domain.PasswordResetCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[email]
	return c, ok
}

type sentMail struct {
	template string
	to       string
	code     string
}

// fakeNotifier records every email; err makes every send fail
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *fakeNotifier) record(template string, user *domain.User, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{template: template, to: user.Email, code: code})
	return n.err
}

func (n *fakeNotifier) SendWelcome(ctx context.Context, user *domain.User) error {
	return n.record("welcome", user, "")
}

func (n *fakeNotifier) SendVerificationCode(ctx context.Context, user *domain.User, code string) error {
	return n.record("verification_code", user, code)
}

func (n *fakeNotifier) SendResetCode(ctx context.Context, user *domain.User, code string) error {
	return n.record("reset_code", user, code)
}

func (n *fakeNotifier) SendAccountDeleted(ctx context.Context, user *domain.User) error {
	return n.record("account_deleted", user, "")
}

func (n *fakeNotifier) last(template string) (sentMail, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].template == template {
			return n.sent[i], true
		}
	}
	return sentMail{}, false
}

func (n *fakeNotifier) count(template string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, m := range n.sent {
		if m.template == template {
			c++
		}
	}
	return c
}

// fakeAuthenticator resolves credentials from a fixed table
type fakeAuthenticator struct {
	identities map[string]*domain.GoogleIdentity
}

func (a *fakeAuthenticator) Authenticate(ctx context.Context, credential string) (*domain.GoogleIdentity, error) {
	if id, ok := a.identities[credential]; ok {
		c := *id
		return &c, nil
	}
	return nil, ErrInvalidGoogleCredential
}

// testEnv wires every service against in-memory fakes
type testEnv struct {
	users         *fakeUserRepo
	verification  *fakeVerificationRepo
	reset         *fakeResetRepo
	notifier      *fakeNotifier
	authenticator *fakeAuthenticator
	background    *Background
	codes         *CodeService
	hasher        *utils.PasswordHasher
	jwt           *utils.JWTManager

	accounts       AccountService
	verifications  VerificationService
	passwordResets PasswordResetService
	google         GoogleAuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewNoopAuthMetrics()

	env := &testEnv{
		users:         newFakeUserRepo(),
		verification:  newFakeVerificationRepo(),
		reset:         newFakeResetRepo(),
		notifier:      &fakeNotifier{},
		authenticator: &fakeAuthenticator{identities: map[string]*domain.GoogleIdentity{}},
		background:    NewBackground(logger),
		hasher:        utils.NewPasswordHasher(bcrypt.MinCost),
		jwt:           utils.NewJWTManager(testSecret, 7*24*time.Hour, 30*time.Minute),
	}
	env.codes = NewCodeService(env.verification, env.reset, 15*time.Minute, metrics)

	env.accounts = NewAccountService(env.users, env.codes, env.hasher, env.jwt, env.notifier, env.background, metrics, logger)
	env.verifications = NewVerificationService(env.users, env.codes, env.jwt, env.notifier, logger)
	env.passwordResets = NewPasswordResetService(env.users, env.codes, env.hasher, env.notifier, logger)
	env.google = NewGoogleAuthService(env.users, env.authenticator, env.hasher, env.jwt, env.notifier, env.background, metrics, logger, GoogleAuthOptions{})

	t.Cleanup(env.background.Wait)
	return env
}

// seedUser stores a user with the given password and verification state
func (e *testEnv) seedUser(t *testing.T, email, username, password string, verified bool) *domain.User {
	t.Helper()

	hash, err := e.hasher.Hash(password)
	require.NoError(t, err)

	user := &domain.User{
		Email:         email,
		PasswordHash:  hash,
		Firstname:     "Ann",
		Lastname:      "Lee",
		Username:      username,
		EmailVerified: verified,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}
