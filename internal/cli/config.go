package cli

import (
	"fmt"
	"sort"

	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
)

const secretMask = "********"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config [key] [value]",
		Short: "Get and set haulctl options",
		Long: `Get and set options in the haulctl config file.

Examples:
  haulctl config api.base_url                       # Get value
  haulctl config api.base_url https://x.example/api # Set value
  haulctl config view.rows_per_page 20
  haulctl config --list                             # List all options

Keys:
` + config.HelpText(),
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if listAll, _ := cmd.Flags().GetBool("list"); listAll || len(args) == 0 {
				printConfigList(cmd, a.cfg)
				return nil
			}

			key := args[0]
			if len(args) == 1 {
				value, ok := a.cfg.GetValue(key)
				if !ok {
					return util.UnknownConfigKeyError(key, config.Keys())
				}
				fmt.Fprintln(out, value)
				return nil
			}

			// Environment overrides stay out of the file.
			cfg, err := config.Load(a.cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.SetValue(key, args[1]); err != nil {
				return err
			}
			if err := cfg.Save(a.cfgPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("list", "l", false, "List all configuration")
	return cmd
}

func printConfigList(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	byCategory := config.FieldsByCategory()
	cats := make([]string, 0, len(byCategory))
	for c := range byCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, c := range cats {
		for _, f := range byCategory[c] {
			value, _ := cfg.GetValue(f.Key)
			switch {
			case f.Secret && value != "":
				value = secretMask
			case value == "":
				value = styles.Mute("(unset)")
			}
			fmt.Fprintf(out, "%s=%s\n", f.Key, value)
		}
	}
}
