package dto

// TokenRequest mints a management API token from the configured service API
// key. There are no user accounts; callers are trusted backend clients.
type TokenRequest struct {
	APIKey     string `json:"api_key"`
	ClientName string `json:"client_name"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}
