package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/mirror"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and connectivity",
		Long: `Run diagnostics to check if haulctl is properly configured.

This command checks:
  - Config file
  - API token and its expiry
  - Backend reachability
  - Reporting mirror database (when configured)
  - Export archive settings (when configured)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.runDoctor(cmd)
			return nil
		},
	}
}

func (a *app) runDoctor(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Boldf("haulctl doctor"))
	fmt.Fprintln(out)

	allOK := true

	fmt.Fprint(out, "Checking config file... ")
	if _, err := os.Stat(a.cfgPath); err != nil {
		fmt.Fprintln(out, styles.Yellow("DEFAULTS")+fmt.Sprintf(" (%s not found)", a.cfgPath))
	} else {
		fmt.Fprintln(out, styles.Green("OK")+fmt.Sprintf(" (%s)", a.cfgPath))
	}

	fmt.Fprint(out, "Checking API token... ")
	s, err := a.session()
	if err != nil {
		fmt.Fprintln(out, styles.Red("MISSING"))
		fmt.Fprintln(out, "  Run 'haulctl auth set-token <token>'")
		allOK = false
	} else if exp := s.ExpiresAt(); !exp.IsZero() {
		fmt.Fprintln(out, styles.Green("OK")+fmt.Sprintf(" (expires %s)", util.RelativeTime(exp)))
	} else {
		fmt.Fprintln(out, styles.Green("OK"))
	}

	fmt.Fprint(out, "Checking backend... ")
	if err != nil {
		fmt.Fprintln(out, styles.Mute("SKIPPED"))
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		c := api.NewClient(a.cfg.API.BaseURL, s, api.WithLogger(a.log))
		recs, err := c.List(ctx, api.Customers)
		cancel()
		if err != nil {
			fmt.Fprintln(out, styles.Red("FAILED")+fmt.Sprintf(" (%s)", c.BaseURL()))
			fmt.Fprintf(out, "  Error: %s\n", api.DisplayMessage(err))
			allOK = false
		} else {
			fmt.Fprintln(out, styles.Green("OK")+fmt.Sprintf(" (%s, %d customers)", c.BaseURL(), len(recs)))
		}
	}

	fmt.Fprint(out, "Checking mirror database... ")
	if a.cfg.Mirror.DSN == "" {
		fmt.Fprintln(out, styles.Mute("NOT SET"))
	} else {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		db, err := mirror.Connect(ctx, a.cfg.Mirror.DSN)
		cancel()
		if err != nil {
			fmt.Fprintln(out, styles.Red("FAILED"))
			fmt.Fprintf(out, "  Error: %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(out, styles.Green("OK"))
			db.Close()
		}
	}

	fmt.Fprint(out, "Checking export archive... ")
	if !a.cfg.Archive.Enabled() {
		fmt.Fprintln(out, styles.Mute("NOT SET"))
	} else {
		fmt.Fprintln(out, styles.Green("CONFIGURED")+fmt.Sprintf(" (%s/%s)", a.cfg.Archive.Endpoint, a.cfg.Archive.Bucket))
	}

	fmt.Fprintln(out)
	if allOK {
		fmt.Fprintln(out, styles.SuccessMsg("All checks passed!"))
	} else {
		fmt.Fprintln(out, styles.WarningMsg("Some issues were found. See above for details."))
	}
}
