package cli

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskdesk/internal/resource"
	"github.com/mesh-intelligence/taskdesk/internal/screen"
	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

// newResourceCmd builds the list/add/edit/delete command group of a
// standard collection.
func newResourceCmd(collection, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   collection,
		Short: short,
	}
	cmd.AddCommand(newListCmd(collection))
	cmd.AddCommand(newAddCmd(collection))
	cmd.AddCommand(newEditCmd(collection))
	cmd.AddCommand(newDeleteCmd(collection))
	return cmd
}

func newListCmd(collection string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s, newest first", collection),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.openScreen(cmd.Context(), collection)
			if err != nil {
				return err
			}
			defer s.Close()

			recs := s.List.Records()
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(s.Schema(), recs))
			return nil
		},
	}
}

func newAddCmd(collection string) *cobra.Command {
	schema := schemaOf(collection)
	cmd := &cobra.Command{
		Use:     "add",
		Short:   fmt.Sprintf("Create a %s", singular(collection)),
		Example: fmt.Sprintf("  taskdesk %s add %s", collection, exampleFlags(collection)),
		Args:    cobra.NoArgs,
	}
	values := bindFieldFlags(cmd, schema)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.openScreen(cmd.Context(), collection)
		if err != nil {
			return err
		}
		defer s.Close()

		f := s.FormDefaults()
		for name, v := range values {
			f[name] = *v
		}
		if err := s.Submit(cmd.Context(), f); err != nil {
			return submitFailed(err, s)
		}
		// The list was reloaded newest first, so the new record leads it.
		var created types.Record
		if recs := s.List.Records(); len(recs) > 0 {
			created = recs[0]
		}
		return reportSaved(cmd, s, created)
	}
	return cmd
}

func newEditCmd(collection string) *cobra.Command {
	schema := schemaOf(collection)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: fmt.Sprintf("Change a %s; unspecified fields keep their values", singular(collection)),
		Args:  cobra.ExactArgs(1),
	}
	values := bindFieldFlags(cmd, schema)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id := args[0]

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s, err := a.openScreen(cmd.Context(), collection)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.SelectForEdit(id); err != nil {
			return err
		}
		f := s.FormDefaults()
		for name, v := range values {
			if cmd.Flags().Changed(flagName(name)) {
				f[name] = *v
			}
		}
		if err := s.Submit(cmd.Context(), f); err != nil {
			return submitFailed(err, s)
		}
		updated, _ := s.List.Find(id)
		return reportSaved(cmd, s, updated)
	}
	return cmd
}

func newDeleteCmd(collection string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", singular(collection)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			s, err := a.openScreen(cmd.Context(), collection)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"deleted": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", collection, id)
			return nil
		},
	}
}

// bindFieldFlags registers one string flag per form field and returns the
// flag values keyed by field name.
func bindFieldFlags(cmd *cobra.Command, schema resource.Schema) map[string]*string {
	values := make(map[string]*string, len(schema.FieldNames()))
	for _, name := range schema.FieldNames() {
		v := new(string)
		cmd.Flags().StringVar(v, flagName(name), "", fieldUsage(name))
		values[name] = v
	}
	return values
}

// schemaOf returns the schema used to declare flags. Timestamps are not
// parsed at declaration time, so the location does not matter.
func schemaOf(collection string) resource.Schema {
	schema, err := resource.For(collection, nil)
	if err != nil {
		panic(err)
	}
	return schema
}

func submitFailed(err error, s *screen.Screen) error {
	return fmt.Errorf("%s %w", s.Notice.State().Message(), err)
}

func reportSaved(cmd *cobra.Command, s *screen.Screen, r types.Record) error {
	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, r)
	}
	fmt.Fprintln(out, screen.SuccessMessage)
	if r.ID != "" {
		fmt.Fprintln(out, renderTable(s.Schema(), []types.Record{r}))
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(schema resource.Schema, recs []types.Record) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, append([]string{r.ID}, schema.Columns(r)...))
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(append([]string{"ID"}, schema.Headers()...)...).
		Rows(rows...).
		String()
}

// flagName turns a field name such as dueDate into the flag due-date.
func flagName(field string) string {
	var b strings.Builder
	for _, r := range field {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func fieldUsage(field string) string {
	switch field {
	case types.FieldDueDate:
		return "due date as " + resource.DateTimeLayout + " in local time"
	case types.FieldPriority:
		return "priority, an integer of at least 1"
	default:
		return field
	}
}

func exampleFlags(collection string) string {
	if collection == types.CollectionContacts {
		return `--name "Ada Lovelace" --email ada@example.com`
	}
	return `--title "Write report" --description "Q3 numbers" --due-date 2024-07-01T09:00 --priority 2`
}

func singular(collection string) string {
	return strings.TrimSuffix(collection, "s")
}
