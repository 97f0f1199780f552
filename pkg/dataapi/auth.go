package dataapi

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/yourusername/language-enforcer/internal/auth"
)

// AuthService signs in against the auth server and produces the session
// value that every remote-touching call takes explicitly.
type AuthService struct {
	config *oauth2.Config
}

func NewAuthService(clientID, tokenURL string) *AuthService {
	return &AuthService{
		config: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{TokenURL: tokenURL},
		},
	}
}

// SignIn exchanges the learner's credentials for a bearer token.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	token, err := a.config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in (email: %s): %w", email, err)
	}

	sess, err := auth.FromToken(email, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("sign in (email: %s): %w", email, err)
	}
	if sess.ExpiresAt.IsZero() && !token.Expiry.IsZero() {
		sess.ExpiresAt = token.Expiry
	}

	return sess, nil
}
