package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linkdrift/pkg/session"
)

// sessionCommand creates the session management command.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the CLI session that scopes remembered seeds",
		Long: `Manage the CLI session that scopes remembered seeds.

Within one session, every run places a link from the same seed. Starting a new
session gives every link a fresh seed on the next run.`,
	}

	cmd.AddCommand(c.sessionNewCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionEndCommand())

	return cmd
}

// sessionNewCommand creates the "session new" subcommand.
func (c *CLI) sessionNewCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new session, replacing the current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("ttl") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				ttl = cfg.Store.TTL
			}
			store, err := newSessionStore()
			if err != nil {
				return err
			}
			sess := session.New(ttl)
			if err := store.Save(cmd.Context(), sess); err != nil {
				return err
			}
			printSuccess("Started session")
			printSession(sess)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", session.DefaultTTL, "session lifetime")
	return cmd
}

// sessionShowCommand creates the "session show" subcommand.
func (c *CLI) sessionShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSessionStore()
			if err != nil {
				return err
			}
			sess, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if sess == nil {
				printInfo("No active session")
				printNextStep("Start one", "linkdrift session new")
				return nil
			}
			printSession(sess)
			printDetail("File: %s", store.Path())
			return nil
		},
	}
}

// sessionEndCommand creates the "session end" subcommand.
func (c *CLI) sessionEndCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newSessionStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Session ended")
			return nil
		},
	}
}

func printSession(sess *session.Session) {
	printKeyValue("ID", sess.ID)
	printKeyValue("Created", sess.CreatedAt.Format(time.RFC3339))
	printKeyValue("Expires", sess.ExpiresAt.Format(time.RFC3339))
	printKeyValue("Remaining", sess.Remaining().Round(time.Minute).String())
}
