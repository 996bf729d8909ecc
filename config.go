package authclient

import "time"

// Storage keys shared by every deployment. The token key is the contract
// between the request pipeline and the synchronous tier; changing it orphans
// persisted sessions.
const (
	DefaultTokenKey        = "access_token"
	DefaultRouteKey        = "last_visited_route"
	DefaultSignupMarkerKey = "google_signup"
)

// BaseConfig is the default Config implementation.
type BaseConfig struct {
	BaseURL            string
	RequestTimeout     time.Duration
	TimeoutRetries     int
	CacheMaxAge        time.Duration
	TokenKey           string
	RouteKey           string
	SignupMarkerKey    string
	LoginPath          string
	AuthPathPrefix     string
	DefaultLandingPath string
}

var _ Config = (*BaseConfig)(nil)

// NewConfig returns a BaseConfig with production defaults for the given API
// base URL.
func NewConfig(baseURL string) *BaseConfig {
	return &BaseConfig{
		BaseURL:            baseURL,
		RequestTimeout:     30 * time.Second,
		TimeoutRetries:     2,
		CacheMaxAge:        24 * time.Hour,
		TokenKey:           DefaultTokenKey,
		RouteKey:           DefaultRouteKey,
		SignupMarkerKey:    DefaultSignupMarkerKey,
		LoginPath:          "/auth/login",
		AuthPathPrefix:     "/auth/",
		DefaultLandingPath: "/dashboard",
	}
}

func (c *BaseConfig) GetBaseURL() string { return c.BaseURL }

func (c *BaseConfig) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return c.RequestTimeout
}

func (c *BaseConfig) GetTimeoutRetries() int {
	if c.TimeoutRetries < 0 {
		return 0
	}
	return c.TimeoutRetries
}

func (c *BaseConfig) GetCacheMaxAge() time.Duration {
	if c.CacheMaxAge <= 0 {
		return 24 * time.Hour
	}
	return c.CacheMaxAge
}

func (c *BaseConfig) GetTokenKey() string {
	if c.TokenKey == "" {
		return DefaultTokenKey
	}
	return c.TokenKey
}

func (c *BaseConfig) GetRouteKey() string {
	if c.RouteKey == "" {
		return DefaultRouteKey
	}
	return c.RouteKey
}

func (c *BaseConfig) GetSignupMarkerKey() string {
	if c.SignupMarkerKey == "" {
		return DefaultSignupMarkerKey
	}
	return c.SignupMarkerKey
}

func (c *BaseConfig) GetLoginPath() string {
	if c.LoginPath == "" {
		return "/auth/login"
	}
	return c.LoginPath
}

func (c *BaseConfig) GetAuthPathPrefix() string {
	if c.AuthPathPrefix == "" {
		return "/auth/"
	}
	return c.AuthPathPrefix
}

func (c *BaseConfig) GetDefaultLandingPath() string {
	if c.DefaultLandingPath == "" {
		return "/dashboard"
	}
	return c.DefaultLandingPath
}
