package models

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the result of a successful sign-in or refresh: the account plus
// a freshly issued token pair.
type Session struct {
	Account      *Account
	AccessToken  string
	RefreshToken string
}
