package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/five82/stayfinder/internal/api"
)

var (
	// ErrBadCredentials is returned for an unknown email or wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrBadToken is returned for a missing or unknown session token.
	ErrBadToken = errors.New("invalid or expired token")
)

type account struct {
	user api.User
	hash []byte
}

// Auth is an in-memory account and session table.
type Auth struct {
	mu       sync.RWMutex
	cost     int
	accounts map[string]*account // by lower-cased email
	tokens   map[string]string   // token -> email
}

// NewAuth returns an empty table hashing passwords at cost.
// Zero uses bcrypt.DefaultCost.
func NewAuth(cost int) *Auth {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Auth{
		cost:     cost,
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
}

// Seed creates the fixture accounts, skipping emails already present.
func (a *Auth) Seed(users []FixtureUser) error {
	for _, u := range users {
		_, err := a.Register(api.User{
			Name:     u.Name,
			Email:    u.Email,
			Phone:    u.Phone,
			City:     u.City,
			UserType: u.UserType,
		}, u.Password)
		if err != nil && !errors.Is(err, ErrEmailTaken) {
			return err
		}
	}
	return nil
}

// Register creates an account. Field validation is the caller's job.
func (a *Auth) Register(user api.User, password string) (api.User, error) {
	key := strings.ToLower(strings.TrimSpace(user.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return api.User{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.accounts[key]; ok {
		return api.User{}, ErrEmailTaken
	}
	if user.UserType == "" {
		user.UserType = "student"
	}
	user.ID = newID()
	user.Email = key
	a.accounts[key] = &account{user: user, hash: hash}
	return user, nil
}

// Login checks the password and opens a session.
func (a *Auth) Login(email, password string) (string, api.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	a.mu.RLock()
	acct, ok := a.accounts[key]
	a.mu.RUnlock()
	if !ok {
		return "", api.User{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return "", api.User{}, ErrBadCredentials
	}

	token := newToken()
	a.mu.Lock()
	a.tokens[token] = key
	user := acct.user
	a.mu.Unlock()
	return token, user, nil
}

// Lookup resolves a session token.
func (a *Auth) Lookup(token string) (api.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	key, ok := a.tokens[token]
	if !ok {
		return api.User{}, ErrBadToken
	}
	return a.accounts[key].user, nil
}

// UpdateProfile replaces the editable fields of the token's account.
func (a *Auth) UpdateProfile(token string, p api.Profile) (api.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	key, ok := a.tokens[token]
	if !ok {
		return api.User{}, ErrBadToken
	}
	acct := a.accounts[key]
	acct.user.Name = p.Name
	acct.user.Phone = p.Phone
	acct.user.City = p.City
	return acct.user, nil
}

// Logout drops a session token.
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.tokens, token)
	a.mu.Unlock()
}

func newToken() string {
	var b [24]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}
