package output

import "context"

// CredentialSource provides bearer tokens for authenticated requests.
type CredentialSource interface {
	// Subject returns the active credential subject, if any.
	Subject() (string, bool)
	// Token returns a token for a single request. Callers must not cache it.
	Token(ctx context.Context) (string, error)
}
