package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultCallbackAddr = "localhost:8080"
	authWait            = 5 * time.Minute
)

// OAuth2Config describes the installed-app OAuth client used by
// `export-sheets auth`.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	// TokenFile caches the token between runs. Empty disables caching.
	TokenFile string
	// CallbackAddr is the local listen address for the redirect.
	CallbackAddr string
}

func (c OAuth2Config) oauth(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// GetOrCreateToken returns the cached token, refreshed if it has expired,
// or runs the browser consent flow when no cached token exists.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		token, err := LoadToken(config.TokenFile)
		if err == nil {
			slog.Info("Loaded cached Google token", "file", config.TokenFile)
			return refresh(ctx, config, token)
		}
		slog.Info("No cached Google token, starting consent flow", "file", config.TokenFile)
	}
	return authorize(ctx, config)
}

func refresh(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	fresh, err := config.oauth("").TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	cacheToken(config.TokenFile, fresh)
	return fresh, nil
}

// callbackResult is what the redirect handler reports back.
type callbackResult struct {
	err  error
	code string
}

// callbackHandler accepts exactly one redirect carrying state.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("authorization response has an unexpected state")
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("no authorization code received")
		default:
			res.code = q.Get("code")
		}

		title, body := "Authentication successful", "You can close this window and return to the terminal."
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			title, body = "Authentication failed", res.err.Error()
		}
		_, _ = fmt.Fprintf(w, "<html><body><h1>%s</h1><p>%s</p></body></html>", title, html.EscapeString(body))

		select {
		case results <- res:
		default:
		}
	})
}

func authorize(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	addr := config.CallbackAddr
	if addr == "" {
		addr = defaultCallbackAddr
	}
	oauthCfg := config.oauth("http://" + addr + "/callback")
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	mux := http.NewServeMux()
	mux.Handle("/callback", callbackHandler(state, results))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("failed to start callback server: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Failed to stop callback server", "error", err)
		}
	}()

	slog.Info("Open this URL to authorize Google Sheets access",
		"url", oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	timer := time.NewTimer(authWait)
	defer timer.Stop()

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("authentication timeout: no response within %s", authWait)
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := oauthCfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	cacheToken(config.TokenFile, token)
	return token, nil
}

// LoadToken reads a token written by a previous auth run.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token %s: %w", path, err)
	}
	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// cacheToken saves token to path when caching is enabled. Failures only
// cost a re-authorization later.
func cacheToken(path string, token *oauth2.Token) {
	if path == "" {
		return
	}
	if err := saveToken(path, token); err != nil {
		slog.Warn("Failed to cache Google token", "error", err, "file", path)
		return
	}
	slog.Debug("Cached Google token", "file", path)
}
