// Package oauth runs the loopback HTTP listener that receives the OAuth
// redirect during sign-in. The hosted provider redirects the browser to
// 127.0.0.1 with an authorization code; the listener hands the code to the
// auth flow and tells the user to return to the app.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrStateMismatch means the redirect carried an unexpected state nonce and
// was discarded.
var ErrStateMismatch = errors.New("oauth state mismatch")

// Result is the outcome of one redirect.
type Result struct {
	Code string
	Err  error
}

// Listener is a single-use loopback callback server.
type Listener struct {
	server  *http.Server
	results chan Result
	state   string
	logger  zerolog.Logger
}

// NewListener creates a listener expecting the given state nonce on
// 127.0.0.1:port.
func NewListener(port int, state string, logger zerolog.Logger) *Listener {
	l := &Listener{
		results: make(chan Result, 1),
		state:   state,
		logger:  logger.With().Str("component", "oauth").Logger(),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/auth/callback", l.handleCallback)

	l.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: router,
	}
	return l
}

// RedirectURI is the redirect target to register with the provider.
func (l *Listener) RedirectURI() string {
	return fmt.Sprintf("http://%s/auth/callback", l.server.Addr)
}

// Start serves until the first valid redirect arrives or ctx is cancelled.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		if err := l.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.results <- Result{Err: err}
		}
	}()
	go func() {
		<-ctx.Done()
		l.shutdown()
	}()
}

// Wait blocks for the callback result.
func (l *Listener) Wait(ctx context.Context) Result {
	select {
	case res := <-l.results:
		l.shutdown()
		return res
	case <-ctx.Done():
		l.shutdown()
		return Result{Err: ctx.Err()}
	}
}

func (l *Listener) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.server.Shutdown(ctx); err != nil {
		l.logger.Error().Err(err).Msg("callback server shutdown")
	}
}

func (l *Listener) handleCallback(c *gin.Context) {
	if errCode := c.Query("error"); errCode != "" {
		desc := c.DefaultQuery("error_description", errCode)
		c.String(http.StatusBadRequest, "Sign-in failed: %s. You can close this window.", desc)
		l.deliver(Result{Err: fmt.Errorf("provider error: %s", desc)})
		return
	}

	if l.state != "" && c.Query("state") != l.state {
		l.logger.Warn().Msg("discarding callback with unexpected state")
		c.String(http.StatusBadRequest, "Unexpected sign-in response. You can close this window.")
		l.deliver(Result{Err: ErrStateMismatch})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.String(http.StatusBadRequest, "Missing authorization code. You can close this window.")
		l.deliver(Result{Err: errors.New("missing authorization code")})
		return
	}

	c.String(http.StatusOK, "Signed in. You can close this window and return to the app.")
	l.deliver(Result{Code: code})
}

func (l *Listener) deliver(res Result) {
	select {
	case l.results <- res:
	default:
		// A result is already pending; drop duplicates.
	}
}
