package authclient

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// User holds the denormalized identity fields returned by the backend.
// Field names mirror the wire contract.
type User struct {
	ID                       int    `json:"id"`
	Email                    string `json:"email"`
	Nom                      string `json:"nom"`
	Prenom                   string `json:"prenom"`
	Age                      int    `json:"age,omitempty"`
	Genre                    string `json:"genre,omitempty"`
	NumeroWhatsapp           string `json:"numero_whatsapp,omitempty"`
	PaysResidence            string `json:"pays_residence,omitempty"`
	SituationProfessionnelle string `json:"situation_professionnelle,omitempty"`
	Role                     string `json:"role,omitempty"`
	IsVerified               bool   `json:"is_verified"`
	CreatedAt                string `json:"created_at,omitempty"`
}

// CachedAuth is the structured record held by the asynchronous cache tier.
type CachedAuth struct {
	AccessToken string    `json:"access_token"`
	User        *User     `json:"user,omitempty"`
	CachedAt    time.Time `json:"cached_at"`
}

// Storage is the synchronous fast-path tier. Reads must be cheap and
// side-effect free; writes are last-writer-wins.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Del(key string) error
}

// AuthCache is the asynchronous structured tier. Implementations live in the
// cache subpackage; the interface is defined here so the orchestrator can be
// exercised against fakes.
type AuthCache interface {
	CacheAuthRecord(ctx context.Context, rec *CachedAuth) error
	AuthRecord(ctx context.Context) (*CachedAuth, error)
	CacheUserData(ctx context.Context, userID string, user *User) error
	UserData(ctx context.Context, userID string) (*User, error)
	ClearAuth(ctx context.Context) error
	ClearExpired(ctx context.Context, maxAge time.Duration) error
}

// Navigator is implemented by the embedding application. Navigate is the only
// cross-cutting UI side effect the core triggers (forced login redirect and
// route continuity after restoration).
type Navigator interface {
	CurrentPath() string
	Navigate(path string)
}

// Config holds client options.
type Config interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
	GetTimeoutRetries() int
	GetCacheMaxAge() time.Duration
	GetTokenKey() string
	GetRouteKey() string
	GetSignupMarkerKey() string
	GetLoginPath() string
	GetAuthPathPrefix() string
	GetDefaultLandingPath() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTHCLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTHCLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
