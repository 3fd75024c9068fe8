package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"blogsite/pkg/client"
	"blogsite/pkg/identity"
	"blogsite/pkg/logger"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	modeFirebase = "firebase"
	modeLocal    = "local"
)

var errSignedOut = errors.New("not signed in, run 'blogctl login' first")

// app is the state shared by every command of one invocation.
type app struct {
	v   *viper.Viper
	out io.Writer
	log zerolog.Logger

	sessionFile string
	session     *Session

	mode     string
	local    *identity.LocalAuth
	firebase *identity.FirebaseAuth
	provider identity.Provider
	api      *client.Client
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	rootCmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Command line client for the blog API",
		Long: `blogctl talks to the blog API as a signed-in user.
Sign in once with 'blogctl login'; the session is stored on disk and every
later command attaches a fresh identity token to its requests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.persist()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "http://localhost:3000/api", "base URL of the blog API")
	flags.String("auth-mode", modeFirebase, "identity provider: firebase or local")
	flags.String("firebase-api-key", "", "Firebase web API key")
	flags.String("jwt-secret", "", "shared secret for local auth")
	flags.String("session-file", defaultSessionFile(), "where the session is stored")
	flags.String("log-level", "warn", "log level")
	flags.Duration("timeout", 30*time.Second, "HTTP timeout")

	for _, name := range []string{"api-url", "auth-mode", "firebase-api-key", "jwt-secret", "session-file", "log-level", "timeout"} {
		_ = a.v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}
	a.v.SetEnvPrefix("BLOGCTL")
	a.v.AutomaticEnv()

	rootCmd.AddCommand(
		a.loginCmd(),
		a.signupCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.blogsCmd(),
		a.commentsCmd(),
		a.wishlistCmd(),
		a.profileCmd(),
	)
	return rootCmd
}

// setup restores the stored session and builds the API client.
func (a *app) setup(ctx context.Context) error {
	a.log = logger.NewWithWriter(os.Stderr, a.v.GetString("log_level"), true)
	a.sessionFile = a.v.GetString("session_file")
	a.mode = strings.ToLower(a.v.GetString("auth_mode"))

	session, err := loadSession(a.sessionFile)
	if err != nil {
		return err
	}
	if session.Mode != "" && session.Mode != a.mode {
		a.log.Warn().Str("session_mode", session.Mode).Str("auth_mode", a.mode).Msg("ignoring session from another auth mode")
		session = &Session{}
	}
	a.session = session

	httpClient := &http.Client{Timeout: a.v.GetDuration("timeout")}

	switch a.mode {
	case modeLocal:
		secret := a.v.GetString("jwt_secret")
		if secret == "" {
			return errors.New("--jwt-secret is required for local auth")
		}
		a.local = identity.NewLocalAuth(secret, time.Hour)
		if session.Email != "" {
			a.local.SignIn(identity.Claims{UID: session.UID, Email: session.Email, Name: session.Name, Picture: session.Picture})
		} else {
			a.local.Settle()
		}
		a.provider = a.local

	case modeFirebase:
		a.firebase = identity.NewFirebaseAuth(identity.FirebaseConfig{
			APIKey:     a.v.GetString("firebase_api_key"),
			HTTPClient: httpClient,
		})
		if session.RefreshToken != "" {
			// Requests wait on Ready until the restore settles.
			go func(token string) {
				if _, err := a.firebase.Restore(ctx, token); err != nil {
					a.log.Warn().Err(err).Msg("stored session could not be restored")
				}
			}(session.RefreshToken)
		} else {
			a.firebase.Settle()
		}
		a.provider = a.firebase

	default:
		return errors.Errorf("unknown auth mode %q", a.mode)
	}

	a.api = client.New(a.v.GetString("api_url"), a.provider, httpClient)
	return nil
}

// persist stores the rotated refresh token of a firebase session.
func (a *app) persist() error {
	if a.firebase == nil {
		return nil
	}
	<-a.firebase.Ready()
	u, ok := a.firebase.CurrentUser().(*identity.FirebaseUser)
	if !ok || u.RefreshToken() == a.session.RefreshToken {
		return nil
	}
	a.session = sessionFor(a.mode, u)
	a.session.RefreshToken = u.RefreshToken()
	return a.session.save(a.sessionFile)
}

// currentUser waits for the session to settle and returns the signed-in user.
func (a *app) currentUser(ctx context.Context) (identity.User, error) {
	select {
	case <-a.provider.Ready():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	u := a.provider.CurrentUser()
	if u == nil {
		return nil, errSignedOut
	}
	return u, nil
}

func sessionFor(mode string, u identity.User) *Session {
	return &Session{
		Mode:    mode,
		UID:     u.UID(),
		Email:   u.Email(),
		Name:    u.DisplayName(),
		Picture: u.PhotoURL(),
	}
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
