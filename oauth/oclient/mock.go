package oclient

import "context"

// MockOAuthService provides customizable hooks for testing OAuthService consumers.
type MockOAuthService struct {
	AuthorizeFunc   func(ctx context.Context, id Identity) (string, error)
	CallbackFunc    func(ctx context.Context, params CallbackParams) (Identity, error)
	CredentialsFunc func(ctx context.Context, id Identity) (CredentialBundle, error)
}

// Ensure MockOAuthService implements OAuthService
var _ OAuthService = (*MockOAuthService)(nil)

// Authorize calls AuthorizeFunc if set, otherwise returns "", nil
func (m *MockOAuthService) Authorize(ctx context.Context, id Identity) (string, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, id)
	}
	return "", nil
}

// Callback calls CallbackFunc if set, otherwise returns an empty Identity, nil
func (m *MockOAuthService) Callback(ctx context.Context, params CallbackParams) (Identity, error) {
	if m.CallbackFunc != nil {
		return m.CallbackFunc(ctx, params)
	}
	return Identity{}, nil
}

// Credentials calls CredentialsFunc if set, otherwise returns ErrNoCredentials
func (m *MockOAuthService) Credentials(ctx context.Context, id Identity) (CredentialBundle, error) {
	if m.CredentialsFunc != nil {
		return m.CredentialsFunc(ctx, id)
	}
	return nil, ErrNoCredentials
}
