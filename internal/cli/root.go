package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/haulops/haulctl/internal/api"
	"github.com/haulops/haulctl/internal/config"
	"github.com/haulops/haulctl/internal/logging"
	"github.com/haulops/haulctl/internal/ui/form"
	"github.com/haulops/haulctl/internal/ui/styles"
	"github.com/haulops/haulctl/internal/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

// app is what every command needs once the root pre-run has loaded config
// and built the logger.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     *zap.Logger
	prompt  form.PromptDriver
	now     func() time.Time
}

func newApp() *app {
	return &app{
		cfg:    config.Default(),
		log:    logging.Nop(),
		prompt: form.Survey(),
		now:    time.Now,
	}
}

// Execute runs the CLI. Ctrl+C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	_ = a.log.Sync()
	if err != nil {
		printError(os.Stderr, err)
		return err
	}
	return nil
}

func printError(w io.Writer, err error) {
	var haulErr *util.HaulError
	if errors.As(err, &haulErr) {
		fmt.Fprintln(w, haulErr.Format())
		return
	}
	fmt.Fprintln(w, styles.ErrorMsg(err.Error()))
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "haulctl",
		Short: "Back office for the trucking logistics backend",
		Long: `haulctl manages the customer roster, bids, fleet and yard-drop containers
of the logistics backend from the terminal.

Every resource opens as a searchable, paginated table when stdout is a
terminal, and prints plain, JSON, YAML or tab-separated rows otherwise.

Sign in once with 'haulctl auth set-token <token>'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return util.UnknownResourceError(args[0], api.Names())
			}
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.Path()+")")

	rootCmd.SetVersionTemplate(fmt.Sprintf("haulctl version %s\n  commit: %s\n  built:  %s\n", Version, CommitSHA, BuildDate))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		noColor, _ := cmd.Flags().GetBool("no-color")
		if noColor || styles.NoColor() {
			styles.SetNoColor(true)
		}
		return a.setup(cmd)
	}

	for _, res := range api.All() {
		rootCmd.AddCommand(newResourceCmd(a, res))
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAuthCmd(a),
		newConfigCmd(a),
		newExportAllCmd(a),
		newMirrorCmd(a),
		newDoctorCmd(a),
		newCompletionCmd(rootCmd),
	)
	return rootCmd
}

// setup loads .env, the config file and the environment overrides, then
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return util.NewError("Invalid .env file").WithMessage(err.Error()).Wrap(err)
	}

	a.cfgPath, _ = cmd.Flags().GetString("config")
	if a.cfgPath == "" {
		a.cfgPath = config.Path()
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	a.cfg = cfg

	verbose, _ := cmd.Flags().GetBool("verbose")
	log, err := logging.New(logging.Options{Level: cfg.Log.Level, Verbose: verbose, File: cfg.Log.File})
	if err != nil {
		return util.NewError("Cannot start logging").
			WithMessage(err.Error()).
			WithSuggestion("haulctl config log.level warn").
			Wrap(err)
	}
	a.log = log.With(zap.String("cmd", cmd.CommandPath()))

	for _, w := range cfg.Warnings {
		a.log.Warn("config value reset", zap.String("path", a.cfgPath), zap.String("reason", w))
		fmt.Fprintln(cmd.ErrOrStderr(), styles.WarningMsg(fmt.Sprintf("%s: %s", a.cfgPath, w)))
	}
	return nil
}

func newCompletionCmd(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for haulctl.

To load completions:

Bash:
  $ source <(haulctl completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ haulctl completion bash > /etc/bash_completion.d/haulctl
  # macOS:
  $ haulctl completion bash > $(brew --prefix)/etc/bash_completion.d/haulctl

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ haulctl completion zsh > "${fpath[1]}/_haulctl"

Fish:
  $ haulctl completion fish | source

  # To load completions for each session, execute once:
  $ haulctl completion fish > ~/.config/fish/completions/haulctl.fish

PowerShell:
  PS> haulctl completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "haulctl version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", CommitSHA)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
