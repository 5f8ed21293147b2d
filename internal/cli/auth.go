package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func newLoginCmd() *cobra.Command {
	var (
		email string
		name  string
		id    string
		ttl   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Long: `Login signs a session token for the given identity and saves it in the
configuration directory. Records you create are authored by this identity.

The identity ID defaults to a stable UUID derived from the email address.

Example:
  taskdesk login --email ada@example.com --name "Ada"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" && id == "" {
				return fmt.Errorf("%w: --email or --id is required", errUsage)
			}
			if id == "" {
				id = identityID(email)
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			token, err := session.IssueToken(a.settings.secret, types.Identity{ID: id, Email: email, Name: name}, ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			who, err := a.session.SignIn(token)
			if err != nil {
				return err
			}
			if err := session.SaveToken(session.TokenPath(a.settings.configDir), token); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			return printIdentity(cmd, who, "Signed in as")
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&id, "id", "", "identity ID (default: derived from --email)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "session lifetime, 0 for no expiry")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}
			if err := session.RemoveToken(session.TokenPath(s.configDir)); err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			who, ok := a.session.CurrentUser()
			if !ok {
				return signInHint(types.ErrUnauthenticated)
			}
			return printIdentity(cmd, who, "")
		},
	}
}

// identityID derives a stable identity ID from an email address.
func identityID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(email))).String()
}

func printIdentity(cmd *cobra.Command, who types.Identity, prefix string) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, who)
	}
	line := who.ID
	if who.Email != "" {
		line = fmt.Sprintf("%s <%s> (%s)", who.Name, who.Email, who.ID)
		line = strings.TrimSpace(line)
	}
	if prefix != "" {
		line = prefix + " " + line
	}
	fmt.Fprintln(out, line)
	return nil
}
