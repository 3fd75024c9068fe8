package main

import (
	"context"
	"strings"

	"blogsite/internal/models"
	"blogsite/pkg/identity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password, name, picture string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with email and password against Firebase, or, in local mode,
start a session for the given email without a password.
The profile is saved to the API on every sign in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			<-a.provider.Ready()

			var (
				user    identity.User
				session *Session
			)
			switch a.mode {
			case modeLocal:
				if name == "" {
					name = strings.SplitN(email, "@", 2)[0]
				}
				user = a.local.SignIn(identity.Claims{
					UID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String(),
					Email:   email,
					Name:    name,
					Picture: picture,
				})
				session = sessionFor(a.mode, user)
			default:
				if password == "" {
					return errors.New("--password is required")
				}
				fu, err := a.firebase.SignInWithPassword(ctx, email, password)
				if err != nil {
					return err
				}
				user = fu
				session = sessionFor(a.mode, fu)
				session.RefreshToken = fu.RefreshToken()
			}

			if err := a.saveProfile(ctx, user, name); err != nil {
				return err
			}
			if err := session.save(a.sessionFile); err != nil {
				return err
			}
			a.session = session
			a.printf("Signed in as %s", user.Email())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (firebase)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&picture, "picture", "", "profile photo URL (local)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) signupCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a Firebase account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.firebase == nil {
				return errors.New("signup needs --auth-mode=firebase, use login in local mode")
			}
			ctx := cmd.Context()
			<-a.provider.Ready()

			fu, err := a.firebase.SignUp(ctx, email, password, name)
			if err != nil {
				return err
			}
			if err := a.saveProfile(ctx, fu, name); err != nil {
				return err
			}
			session := sessionFor(a.mode, fu)
			session.RefreshToken = fu.RefreshToken()
			if err := session.save(a.sessionFile); err != nil {
				return err
			}
			a.session = session
			a.printf("Account created for %s", fu.Email())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			<-a.provider.Ready()
			if a.firebase != nil {
				a.firebase.SignOut()
			} else {
				a.local.SignOut()
			}
			if err := removeSession(a.sessionFile); err != nil {
				return err
			}
			a.printf("Signed out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.currentUser(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(map[string]string{
				"uid":   u.UID(),
				"email": u.Email(),
				"name":  u.DisplayName(),
				"photo": u.PhotoURL(),
			})
		},
	}
}

// saveProfile mirrors the signed-in account into the API's user store.
func (a *app) saveProfile(ctx context.Context, u identity.User, name string) error {
	if name == "" {
		name = u.DisplayName()
	}
	if name == "" {
		name = strings.SplitN(u.Email(), "@", 2)[0]
	}

	created, err := a.api.SaveUser(ctx, models.User{
		UID:      u.UID(),
		Email:    u.Email(),
		Name:     name,
		PhotoURL: u.PhotoURL(),
	})
	if err != nil {
		return errors.Wrap(err, "save profile")
	}
	if created {
		a.log.Info().Str("email", u.Email()).Msg("profile created")
	}
	return nil
}
