package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/archive"
	"github.com/haulops/haulctl/internal/listview"
	"github.com/haulops/haulctl/internal/merge"
	"github.com/haulops/haulctl/internal/ui/diffview"
	"github.com/haulops/haulctl/internal/ui/form"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/ui/table"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newResourceCmd builds the command tree for one backend collection. The
// bare resource command behaves like its list subcommand.
func newResourceCmd(a *app, res api.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   res.Name,
		Short: fmt.Sprintf("Browse and edit %s", res.Section),
		Long: fmt.Sprintf(`Browse and edit the %s collection.

Without a subcommand the collection is listed: interactively when stdout is
a terminal, as a plain table otherwise.

Examples:
  haulctl %[2]s                        # Browse
  haulctl %[2]s --search acme --rows 20
  haulctl %[2]s list --json | jq .
  haulctl %[2]s export --upload        # CSV to disk and archive bucket`, res.Section, res.Name),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, res)
		},
	}
	addListFlags(cmd)

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s", res.Section),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, res)
		},
	}
	addListFlags(listCmd)

	cmd.AddCommand(
		listCmd,
		newShowCmd(a, res),
		newAddCmd(a, res),
		newEditCmd(a, res),
		newRmCmd(a, res),
		newExportCmd(a, res),
	)
	if res.Name == api.Bids.Name {
		addBidCommands(a, cmd)
	}
	return cmd
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("search", "s", "", "Only show records matching this text")
	cmd.Flags().IntP("page", "p", 1, "Page to show (1-based)")
	cmd.Flags().IntP("rows", "n", 0, "Rows per page: 5, 10, 15 or 20 (default from config)")
	cmd.Flags().Bool("json", false, "Output the page as JSON")
	cmd.Flags().Bool("yaml", false, "Output the page as YAML")
	cmd.Flags().Bool("raw", false, "Output tab-separated rows")
	cmd.Flags().Bool("no-pager", false, "Print a plain table even on a terminal")
	cmd.Flags().Bool("csv", false, "Write the matching records to a CSV file instead")
}

func (a *app) runList(cmd *cobra.Command, res api.Resource) error {
	search, _ := cmd.Flags().GetString("search")
	page, _ := cmd.Flags().GetInt("page")
	rows, _ := cmd.Flags().GetInt("rows")
	asCSV, _ := cmd.Flags().GetBool("csv")

	opts := table.DisplayOptions{}
	opts.JSON, _ = cmd.Flags().GetBool("json")
	opts.YAML, _ = cmd.Flags().GetBool("yaml")
	opts.Raw, _ = cmd.Flags().GetBool("raw")
	opts.NoPager, _ = cmd.Flags().GetBool("no-pager")

	if rows == 0 {
		rows = a.cfg.View.RowsPerPage
	}
	if !validRows(rows) {
		return util.NewError(fmt.Sprintf("Invalid rows per page: %d", rows)).
			WithMessage(util.ErrInvalidRowsCount.Error()).
			Wrap(util.ErrInvalidRowsCount)
	}

	c, err := a.client(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	v, err := a.loadView(ctx, c, res, rows)
	if err != nil {
		return err
	}
	v.SetSearchTerm(search)
	if page > 1 {
		v.GotoPage(page - 1)
	}

	out := cmd.OutOrStdout()
	if asCSV {
		path, _, n, err := a.exportView(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Exported %d rows to %s", n, path)))
		return nil
	}

	opts.Browse = table.BrowseOptions{
		FlashDuration: a.flashDuration(),
		Export: func(v *listview.View) (string, int, error) {
			path, _, n, err := a.exportView(v)
			return path, n, err
		},
	}
	return table.Show(ctx, out, v, opts)
}

func validRows(n int) bool {
	for _, r := range listview.RowsPerPageOptions {
		if r == n {
			return true
		}
	}
	return false
}

func newShowCmd(a *app, res api.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of one record",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", fmt.Sprintf("haulctl %s show <id>", res.Name))
			if err != nil {
				return err
			}
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			_, rec, err := a.findRecord(cmd.Context(), c, res, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return table.PrintJSON(out, []api.Record{rec})
			}
			printRecord(out, res, rec)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

// printRecord writes the columns and then any form fields the columns miss.
func printRecord(w io.Writer, res api.Resource, rec api.Record) {
	type entry struct{ label, value string }
	var entries []entry
	seen := make(map[string]bool)
	for _, col := range res.Columns {
		entries = append(entries, entry{col.Title, util.ToValidUTF8(rec.Text(col.Field))})
		seen[col.Field] = true
	}
	for _, f := range res.Fields {
		if !seen[f.Name] {
			entries = append(entries, entry{f.Label, util.ToValidUTF8(rec.Text(f.Name))})
		}
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.label))
	}
	fmt.Fprintln(w, styles.SectionHeader(fmt.Sprintf("%s %s", res.Section, styles.ID(rec.ID(res)))))
	for _, e := range entries {
		value := e.value
		if value == "" {
			value = styles.Mute("-")
		}
		fmt.Fprintf(w, "  %s  %s\n", styles.Label(table.PadOrTruncate(e.label+":", width+1)), value)
	}
}

func newAddCmd(a *app, res api.Resource) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a %s record", strings.ToLower(res.Section)),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			fields, err := form.Fill(ctx, a.prompt, res, nil)
			if errors.Is(err, form.ErrAborted) {
				fmt.Fprintln(out, styles.MutedMsg("Aborted."))
				return nil
			}
			if err != nil {
				return apiError(err, c.BaseURL())
			}

			v := a.newView(c, res, 0)
			if err := v.Create(ctx, fields); err != nil {
				return apiError(err, c.BaseURL())
			}
			if err := v.Load(ctx); err != nil {
				a.log.Warn("reload after create failed", zap.Error(err))
				fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Created %s record", res.Name)))
				return nil
			}
			fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Created %s record (%d total)", res.Name, v.Len())))
			return nil
		},
	}
}

func newEditCmd(a *app, res api.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a record, review the changes, then save",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", fmt.Sprintf("haulctl %s edit <id>", res.Name))
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			v, before, err := a.findRecord(ctx, c, res, id)
			if err != nil {
				return err
			}
			after, err := form.Fill(ctx, a.prompt, res, before)
			if errors.Is(err, form.ErrAborted) {
				fmt.Fprintln(out, styles.MutedMsg("Aborted."))
				return nil
			}
			if err != nil {
				return apiError(err, c.BaseURL())
			}

			changed := diffview.Changed(res, before, after)
			if len(changed) == 0 {
				fmt.Fprintln(out, styles.MutedMsg("No changes."))
				return nil
			}
			fmt.Fprintln(out, diffview.Render(diffview.Lines(res, before, after), false))

			if !yes {
				ok, err := form.Confirm(ctx, a.prompt, fmt.Sprintf("Save %d changed field(s)?", len(changed)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, styles.MutedMsg("Discarded."))
					return nil
				}
			}

			// The record may have changed while the form was open.
			if err := v.Load(ctx); err != nil {
				return apiError(err, c.BaseURL())
			}
			remote, ok := v.Find(id)
			if !ok {
				return util.RecordNotFoundError(res.Name, id)
			}
			merged := merge.ThreeWay(res, before, after, remote)
			if merged.HasConflicts() {
				return util.NewError(fmt.Sprintf("%s changed on the backend while you were editing", styles.ID(id))).
					WithMessage(merged.Summary()).
					WithSuggestion(fmt.Sprintf("haulctl %s edit %s   # Start again from the current values", res.Name, id))
			}
			if merged.AutoResolved > 0 {
				fmt.Fprintln(out, styles.InfoMsg(fmt.Sprintf("Kept %d field(s) changed by someone else", merged.AutoResolved)))
			}

			if err := v.Update(ctx, id, merged.Merged); err != nil {
				return apiError(err, c.BaseURL())
			}
			fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Updated %s (%s)", styles.ID(id), strings.Join(changed, ", "))))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "Save without asking")
	return cmd
}

func newRmCmd(a *app, res api.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireArg(args, "id", fmt.Sprintf("haulctl %s rm <id>", res.Name))
			if err != nil {
				return err
			}
			force, _ := cmd.Flags().GetBool("force")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if !force {
				ok, err := form.Confirm(ctx, a.prompt, fmt.Sprintf("Delete %s record %s?", res.Name, id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, styles.MutedMsg("Kept."))
					return nil
				}
			}

			v := a.newView(c, res, 0)
			if err := v.Remove(ctx, id); err != nil {
				return apiError(err, c.BaseURL())
			}
			fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Deleted %s", styles.ID(id))))
			return nil
		},
	}
	cmd.Flags().BoolP("force", "f", false, "Delete without asking")
	return cmd
}

func newExportCmd(a *app, res api.Resource) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: fmt.Sprintf("Export %s to CSV", res.Section),
		Long: fmt.Sprintf(`Write the %s collection (or the records matching --search) to
%s in the export directory, with a UTF-8 byte order mark so spreadsheet
applications pick the right encoding.

With --upload the file is also stored in the configured archive bucket.`,
			res.Section, util.ExportFilename(res.Section, a.now())),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			upload, _ := cmd.Flags().GetBool("upload")

			c, err := a.client(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			v, err := a.loadView(ctx, c, res, 0)
			if err != nil {
				return err
			}
			v.SetSearchTerm(search)

			path, body, n, err := a.exportView(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, styles.SuccessMsg(fmt.Sprintf("Exported %d rows to %s", n, path)))

			if upload {
				loc, err := a.upload(ctx, res.Section, v.ExportFilename(a.now()), body)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, styles.SuccessMsg("Uploaded to "+loc))
			}
			return nil
		},
	}
	cmd.Flags().StringP("search", "s", "", "Only export records matching this text")
	cmd.Flags().Bool("upload", false, "Also upload the CSV to the archive bucket")
	return cmd
}

// upload stores an export in the archive bucket.
func (a *app) upload(ctx context.Context, section, name string, body []byte) (string, error) {
	arc, err := archive.New(a.cfg.Archive)
	if errors.Is(err, util.ErrArchiveDisabled) {
		return "", util.NewError("Archive storage is not configured").
			WithSuggestions(
				"haulctl config archive.endpoint <host:port>",
				"haulctl config archive.access_key <key>",
				"haulctl config archive.secret_key <secret>",
			).
			Wrap(err)
	}
	if err != nil {
		return "", err
	}
	loc, err := arc.Upload(ctx, section, name, body)
	if err != nil {
		return "", util.NewError("Upload failed").
			WithMessage(err.Error()).
			WithContext(a.cfg.Archive.Endpoint).
			Wrap(err)
	}
	return loc, nil
}
