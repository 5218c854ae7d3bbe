package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/ui/form"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token",
		Long: `Manage the bearer token sent with every backend request.

The token is stored in ` + util.TokenPath() + ` with 0600 permissions.
HAULCTL_TOKEN, when set, takes precedence over the stored token.`,
	}
	cmd.AddCommand(newSetTokenCmd(a), newAuthStatusCmd(a), newLogoutCmd())
	return cmd
}

func newSetTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store an API token (prompted when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				var err error
				token, err = a.prompt.Password(cmd.Context(), form.InputConfig{
					Message: "API token *",
					Validator: func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("token is required")
						}
						return nil
					},
				})
				if errors.Is(err, form.ErrAborted) {
					fmt.Fprintln(out, styles.MutedMsg("Aborted."))
					return nil
				}
				if err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return util.MissingArgumentError("token", "haulctl auth set-token <token>")
			}

			if err := api.SaveToken(util.TokenPath(), token); err != nil {
				return util.NewError("Cannot store the token").
					WithContext(util.TokenPath()).
					Wrap(err)
			}
			fmt.Fprintln(out, styles.SuccessMsg("Token saved"))

			s := api.Session{Token: token}
			if claims, err := s.Claims(); err == nil && claims.Email != "" {
				fmt.Fprintf(out, "  Signed in as %s\n", styles.Cyan(claims.Email))
			}
			if s.Expired(a.now()) {
				fmt.Fprintln(out, styles.WarningMsg("This token has already expired"))
			}
			return nil
		},
	}
}

func newAuthStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who the stored token belongs to and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			source := util.TokenPath()
			s := api.Session{Token: config.EnvTokenValue()}
			if s.Token != "" {
				source = config.EnvToken
			} else {
				var err error
				if s, err = api.LoadToken(util.TokenPath()); err != nil {
					return err
				}
			}
			if s.Token == "" {
				return util.NoTokenError()
			}

			fmt.Fprintf(out, "%s %s\n", styles.Label("Source: "), source)
			claims, err := s.Claims()
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", styles.Label("Token:  "), styles.Mute("opaque (not a JWT)"))
				return nil
			}
			if claims.Email != "" {
				fmt.Fprintf(out, "%s %s\n", styles.Label("User:   "), claims.Email)
			}
			if claims.Role != "" {
				fmt.Fprintf(out, "%s %s\n", styles.Label("Role:   "), claims.Role)
			}

			exp := s.ExpiresAt()
			switch {
			case exp.IsZero():
				fmt.Fprintf(out, "%s %s\n", styles.Label("Expires:"), styles.Mute("never"))
			case s.Expired(a.now()):
				fmt.Fprintf(out, "%s %s\n", styles.Label("Expires:"), styles.Red("expired "+util.RelativeTime(exp)))
			default:
				fmt.Fprintf(out, "%s %s (%s)\n", styles.Label("Expires:"), util.RelativeTime(exp), exp.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.ClearToken(util.TokenPath()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), styles.SuccessMsg("Token removed"))
			return nil
		},
	}
}
