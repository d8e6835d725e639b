package client

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rxreturn/rxreturn-go/internal/credentials"
)

const (
	pathAuthSignUp         = "/auth/signup"
	pathAuthSignIn         = "/auth/signin"
	pathAuthSignOut        = "/auth/signout"
	pathAuthRefresh        = "/auth/refresh"
	pathAuthForgotPassword = "/auth/forgot-password"
	pathAuthResetPassword  = "/auth/reset-password"
)

// AuthState is the session lifecycle state.
type AuthState string

const (
	StateUnauthenticated AuthState = "unauthenticated"
	StateAuthenticating  AuthState = "authenticating"
	StateAuthenticated   AuthState = "authenticated"
	StateRefreshing      AuthState = "refreshing"
)

// AuthClient handles the auth/session lifecycle: sign-up, sign-in, silent
// token refresh, sign-out, and password recovery.
//
// The state machine is explicit so every transition can be asserted:
//
//	unauthenticated -> authenticating -> authenticated
//	authenticated   -> refreshing     -> authenticated | unauthenticated
//	any state       -> unauthenticated on sign-out
type AuthClient struct {
	client *Client
}

// User is the client-side shape of the signed-in account.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	PharmacyID   string
	PharmacyName string
	CreatedAt    string
}

type wireUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	PharmacyID   string `json:"pharmacy_id"`
	PharmacyName string `json:"pharmacy_name"`
	CreatedAt    string `json:"created_at"`
}

func (w wireUser) toUser() User {
	return User{
		ID:           w.ID,
		Email:        w.Email,
		FirstName:    w.FirstName,
		LastName:     w.LastName,
		Role:         orDefault(w.Role, "member"),
		PharmacyID:   w.PharmacyID,
		PharmacyName: w.PharmacyName,
		CreatedAt:    w.CreatedAt,
	}
}

type wireAuthResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         wireUser `json:"user"`
}

// SignUpRequest registers a new pharmacy account.
type SignUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PharmacyName string `json:"pharmacy_name"`
	Phone        string `json:"phone,omitempty"`
}

// State returns the current session state.
func (a *AuthClient) State() AuthState {
	a.client.authMu.Lock()
	defer a.client.authMu.Unlock()
	return a.client.authState
}

func (a *AuthClient) setState(s AuthState) {
	a.client.authMu.Lock()
	a.client.authState = s
	a.client.authMu.Unlock()
}

// Restore reads stored credentials and, when both a token and a cached
// session are present, marks the session authenticated without a server
// round-trip. It returns the resulting state.
func (a *AuthClient) Restore() AuthState {
	_, hasSession := a.client.creds.Session()
	if a.client.creds.AccessToken() != "" && hasSession {
		a.setState(StateAuthenticated)
	} else {
		a.setState(StateUnauthenticated)
	}
	return a.State()
}

// CurrentUser returns the cached user record without a network call.
func (a *AuthClient) CurrentUser() (User, bool) {
	s, ok := a.client.creds.Session()
	if !ok {
		return User{}, false
	}
	return User{
		ID:           s.UserID,
		Email:        s.Email,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		PharmacyID:   s.PharmacyID,
		PharmacyName: s.PharmacyName,
	}, true
}

// SignUp registers an account. On success the token pair and user record are
// stored and the session becomes authenticated.
func (a *AuthClient) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	return a.authenticate(ctx, pathAuthSignUp, req, "Sign up failed")
}

// SignIn authenticates with email and password. On success the token pair and
// user record are stored and the session becomes authenticated; on failure
// the session stays unauthenticated and the error is returned.
func (a *AuthClient) SignIn(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	return a.authenticate(ctx, pathAuthSignIn, body, "Sign in failed")
}

func (a *AuthClient) authenticate(ctx context.Context, path string, body any, fallback string) (*User, error) {
	a.setState(StateAuthenticating)

	env, err := a.client.doOnce(ctx, request{method: http.MethodPost, path: path, body: body})
	if err != nil {
		a.setState(StateUnauthenticated)
		return nil, err
	}

	result, err := decodeData[wireAuthResult](env, "auth", fallback)
	if err != nil {
		a.setState(StateUnauthenticated)
		return nil, err
	}

	if err := a.storeResult(result); err != nil {
		a.setState(StateUnauthenticated)
		return nil, err
	}

	a.setState(StateAuthenticated)
	user := result.User.toUser()
	a.client.log.WithField("user_id", user.ID).Info("signed in")
	return &user, nil
}

func (a *AuthClient) storeResult(result wireAuthResult) error {
	if err := a.client.creds.SetTokens(result.AccessToken, result.RefreshToken); err != nil {
		return err
	}
	return a.client.creds.SetSession(credentials.Session{
		UserID:       result.User.ID,
		Email:        result.User.Email,
		FirstName:    result.User.FirstName,
		LastName:     result.User.LastName,
		PharmacyID:   result.User.PharmacyID,
		PharmacyName: result.User.PharmacyName,
	})
}

// RefreshAccessToken exchanges the stored refresh token for a fresh pair.
//
// With no stored refresh token it clears the store and returns an empty token
// without a network call. On any failure, envelope or network, it clears all
// stored credentials and degrades to unauthenticated rather than surfacing an
// error; an empty returned token is the signal. On success both tokens in
// storage are overwritten.
func (a *AuthClient) RefreshAccessToken(ctx context.Context) (string, error) {
	a.client.authMu.Lock()
	defer a.client.authMu.Unlock()

	refresh := a.client.creds.RefreshToken()
	if refresh == "" {
		_ = a.client.creds.Clear()
		a.client.authState = StateUnauthenticated
		return "", nil
	}

	a.client.authState = StateRefreshing

	env, err := a.client.doOnce(ctx, request{
		method: http.MethodPost,
		path:   pathAuthRefresh,
		body:   map[string]string{"refresh_token": refresh},
	})
	if err != nil || !env.OK() {
		if err != nil {
			a.client.log.WithError(err).Warn("token refresh failed, clearing credentials")
		} else {
			a.client.log.WithField("status", env.httpStatus).Warn("token refresh rejected, clearing credentials")
		}
		_ = a.client.creds.Clear()
		a.client.authState = StateUnauthenticated
		return "", nil
	}

	result, err := decodeData[wireAuthResult](env, "auth.refresh", "Token refresh failed")
	if err != nil || result.AccessToken == "" {
		_ = a.client.creds.Clear()
		a.client.authState = StateUnauthenticated
		return "", nil
	}

	if err := a.client.creds.SetTokens(result.AccessToken, result.RefreshToken); err != nil {
		a.client.authState = StateUnauthenticated
		return "", err
	}

	a.client.authState = StateAuthenticated
	return result.AccessToken, nil
}

// SignOut revokes the session server-side and clears stored credentials. The
// store is cleared unconditionally, even when the server call fails; a server
// error is still returned so the caller can report it.
func (a *AuthClient) SignOut(ctx context.Context) error {
	env, err := a.client.doOnce(ctx, request{method: http.MethodPost, path: pathAuthSignOut})

	_ = a.client.creds.Clear()
	a.setState(StateUnauthenticated)

	if err != nil {
		return err
	}
	return checkEnvelope(env, "auth.signout", "Sign out failed")
}

// ForgotPassword requests a password reset email.
func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	env, err := a.client.post(ctx, pathAuthForgotPassword, map[string]string{"email": email})
	if err != nil {
		return err
	}
	return checkEnvelope(env, "auth.forgotPassword", "Failed to request password reset")
}

// ResetPassword completes a password reset with the emailed token.
func (a *AuthClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	env, err := a.client.post(ctx, pathAuthResetPassword, map[string]string{
		"token":        token,
		"new_password": newPassword,
	})
	if err != nil {
		return err
	}
	return checkEnvelope(env, "auth.resetPassword", "Failed to reset password")
}

// TokenStale reports whether the stored access token is missing, unparsable,
// or expires within leeway. The token is decoded without signature
// verification; only the exp claim is inspected.
func (a *AuthClient) TokenStale(leeway time.Duration) bool {
	token := a.client.creds.AccessToken()
	if token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < leeway
}
