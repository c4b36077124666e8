package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"reminder/internal/backend/googletasks"
	"reminder/internal/config"
	"reminder/internal/exitcode"
	"reminder/internal/reminder"
)

const (
	oauthCallbackTimeout = 5 * time.Minute
	tokenExchangeTimeout = 30 * time.Second

	// The callback server tries oauthMaxPortAttempts ports from oauthStartPort.
	oauthStartPort       = 8085
	oauthMaxPortAttempts = 5
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. The token it stores is used by the
// google backend.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google Tasks" }
func (c *LoginCmd) Usage() string     { return "reminder login [common flags]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, store *reminder.Store, args []string, out, errOut io.Writer) int {
	// Check if oauth_client.json exists
	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprintln(errOut, "To store reminders in Google Tasks, you need OAuth credentials:")
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
		fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
		fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
		fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
		fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
		fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
		fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
		fmt.Fprintln(errOut, "   - Download the JSON file")
		fmt.Fprintln(errOut, "5. Save it as:")
		fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Then run 'reminder login' again.")
		return exitcode.AuthError
	}

	if cfg.HasToken() && googletasks.TokenUsable(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	cb, err := listenCallback()
	if err != nil {
		fmt.Fprintln(errOut, "error: could not bind to local port for OAuth callback")
		return exitcode.AuthError
	}
	defer cb.close()

	oauthConfig.RedirectURL = cb.redirectURL
	verifier := oauth2.GenerateVerifier()
	authURL := oauthConfig.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.S256ChallengeOption(verifier),
	)
	fmt.Fprintln(errOut, "Open this URL in your browser:")
	fmt.Fprintln(errOut, authURL)

	code, err := cb.wait(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, tokenExchangeTimeout)
	defer cancel()
	token, err := oauthConfig.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to exchange code for token: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
		if cfg.Backend != config.BackendGoogle {
			fmt.Fprintf(out, "set %s=%s to keep reminders in Google Tasks\n", config.EnvBackend, config.BackendGoogle)
		}
	}
	return exitcode.Success
}

// callback receives the authorization code on a local port.
type callback struct {
	redirectURL string
	server      *http.Server
	codes       chan string
	errs        chan error
}

// listenCallback serves /callback on the first free port from oauthStartPort.
func listenCallback() (*callback, error) {
	var (
		listener net.Listener
		port     int
		err      error
	)
	for i := 0; i < oauthMaxPortAttempts; i++ {
		port = oauthStartPort + i
		listener, err = net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	cb := &callback{
		redirectURL: fmt.Sprintf("http://localhost:%d/callback", port),
		codes:       make(chan string, 1),
		errs:        make(chan error, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cb.handle)
	cb.server = &http.Server{Handler: mux}
	go func() {
		if err := cb.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			cb.fail(err)
		}
	}()
	return cb, nil
}

func (cb *callback) handle(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "No code in callback", http.StatusBadRequest)
		cb.fail(fmt.Errorf("no code in callback"))
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, "<html><body><h1>reminder is signed in</h1><p>You may close this window.</p></body></html>")
	select {
	case cb.codes <- code:
	default:
	}
}

func (cb *callback) fail(err error) {
	select {
	case cb.errs <- err:
	default:
	}
}

// wait blocks until a code arrives, the callback fails, or time runs out.
func (cb *callback) wait(ctx context.Context) (string, error) {
	timer := time.NewTimer(oauthCallbackTimeout)
	defer timer.Stop()
	select {
	case code := <-cb.codes:
		return code, nil
	case err := <-cb.errs:
		return "", err
	case <-timer.C:
		return "", fmt.Errorf("oauth callback timed out")
	case <-ctx.Done():
		return "", fmt.Errorf("cancelled")
	}
}

func (cb *callback) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cb.server.Shutdown(ctx)
}
