// Package cli implements the taskdesk command-line interface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/session"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

// NewRootCmd creates the top-level "taskdesk" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskdesk",
		Short: "Manage your tasks and contacts",
		Long: "taskdesk keeps tasks and contacts for a signed-in user in a local\n" +
			"data directory and edits them from the command line or a terminal UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/taskdesk)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/taskdesk)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	// glog flags: -v, --logtostderr, --log_dir, ...
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newWhoamiCmd())
	root.AddCommand(newResourceCmd(types.CollectionTasks, "Create, edit, and delete tasks"))
	root.AddCommand(newResourceCmd(types.CollectionContacts, "Create, edit, and delete contacts"))
	root.AddCommand(newUICmd())

	return root
}

// Execute runs the root command with args and returns the process exit
// code. Errors are printed to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	defer glog.Flush()

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Cobra checks the command name, flags, and arguments before any run
	// hook, so an error without a run is bad command-line input.
	ran := false
	root.PersistentPreRun = func(*cobra.Command, []string) { ran = true }

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	if !ran {
		err = fmt.Errorf("%w: %w", errUsage, err)
	}

	code := exitCode(err)
	if code == exitSysError {
		glog.Errorf("taskdesk: %v", err)
	}
	fmt.Fprintln(stderr, "taskdesk:", err)
	return code
}

// exitCode maps an error to exitUserError for problems the user can fix by
// changing the input and exitSysError otherwise.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrValidation),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrUnauthenticated),
		errors.Is(err, types.ErrCollectionNotFound),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks bad command-line input.
var errUsage = errors.New("usage")
