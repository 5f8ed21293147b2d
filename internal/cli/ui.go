package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/tui"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

func newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:       "ui [tasks|contacts]",
		Short:     "Open the interactive editor",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: types.StandardCollectionNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := types.CollectionTasks
			if len(args) == 1 {
				collection = args[0]
			}

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			if _, ok := a.session.CurrentUser(); !ok {
				return signInHint(types.ErrUnauthenticated)
			}
			s, err := a.newScreen(collection)
			if err != nil {
				return err
			}
			defer s.Close()
			return tui.Run(s)
		},
	}
}
