package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"er-editor/internal/config"
	"er-editor/internal/export"
	"er-editor/internal/model"
	"er-editor/internal/project"
	"er-editor/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "er-editor",
		Short: "Load, check and rewrite the ability and move tables of a decomp project",
		Long: `Reads the C headers and assembly tables that define abilities and moves,
merges them into one record set and writes every file back in canonical form.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("layout", "", "YAML file overriding the default file layout (env LAYOUT_FILE)")

	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(exportCmd())

	return rootCmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [root...]",
		Short: "Load and validate one or more project roots",
		RunE: func(cmd *cobra.Command, args []string) error {
			layoutPath, _ := cmd.Flags().GetString("layout")
			return runCheck(args, layoutPath)
		},
	}
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [root]",
		Short: "Load a project and rewrite every target file in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layoutPath, _ := cmd.Flags().GetString("layout")
			return runNormalize(firstArg(args), layoutPath)
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [root]",
		Short: "Export the loaded records to JSON, TSV or PostgreSQL",
		Long: `Loads a project and writes its record set to <output>.json or <output>.tsv.
With --database the records are also upserted into the snapshot tables at DATABASE_URL.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layoutPath, _ := cmd.Flags().GetString("layout")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			database, _ := cmd.Flags().GetBool("database")
			return runExport(firstArg(args), layoutPath, format, output, database)
		},
	}

	cmd.Flags().String("format", "json", "Export format: json or tsv")
	cmd.Flags().String("output", "er_export", "Output path (without extension)")
	cmd.Flags().Bool("database", false, "Also save a snapshot to PostgreSQL")

	return cmd
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// setup loads configuration, applies the log level and resolves the layout.
// The flag value wins over LAYOUT_FILE.
func setup(layoutPath string) (*config.Config, project.Layout, error) {
	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if layoutPath == "" {
		layoutPath = cfg.LayoutFile
	}
	layout, err := project.LoadLayout(layoutPath)
	if err != nil {
		return nil, layout, fmt.Errorf("load layout: %w", err)
	}
	return cfg, layout, nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// checkSummary is what check reports for one root.
type checkSummary struct {
	Abilities int
	Moves     int
	Effects   int
}

// runCheck handles the `check` command. Roots are loaded in parallel.
func runCheck(roots []string, layoutPath string) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg, layout, err := setup(layoutPath)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		roots = []string{cfg.ProjectRoot}
	}

	pool := worker.NewPool(cfg.WorkerCount, func(_ context.Context, root string) (checkSummary, error) {
		return checkRoot(root, layout)
	})
	results := pool.Run(ctx, roots)

	for _, r := range results {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("root", r.Input).Msg("Check failed")
			continue
		}
		log.Info().
			Str("root", r.Input).
			Int("abilities", r.Value.Abilities).
			Int("moves", r.Value.Moves).
			Int("effects", r.Value.Effects).
			Msg("Check passed")
	}
	if err := worker.Join(results); err != nil {
		return fmt.Errorf("check: %w", err)
	}
	return nil
}

func checkRoot(root string, layout project.Layout) (checkSummary, error) {
	rs, err := project.New(root, layout).Load()
	if err != nil {
		return checkSummary{}, fmt.Errorf("%s: %w", root, err)
	}
	if err := rs.Validate(); err != nil {
		return checkSummary{}, fmt.Errorf("%s: %w", root, err)
	}
	return checkSummary{
		Abilities: len(rs.Abilities.Abilities),
		Moves:     len(rs.Moves.Moves),
		Effects:   len(rs.Moves.Effects),
	}, nil
}

// runNormalize handles the `normalize` command.
func runNormalize(root, layoutPath string) error {
	cfg, layout, err := setup(layoutPath)
	if err != nil {
		return err
	}
	if root == "" {
		root = cfg.ProjectRoot
	}

	p := project.New(root, layout)
	rs, err := p.Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if err := p.Save(rs); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// runExport handles the `export` command.
func runExport(root, layoutPath, format, output string, database bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg, layout, err := setup(layoutPath)
	if err != nil {
		return err
	}
	if root == "" {
		root = cfg.ProjectRoot
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	rs, err := project.New(root, layout).Load()
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	path := output + "." + string(f)
	if err := writeExport(path, rs, f); err != nil {
		return err
	}
	log.Info().Str("path", path).Str("format", string(f)).Int("moves", len(rs.Moves.Moves)).Msg("Exported records")

	if !database {
		return nil
	}
	if err := export.Migrate(ctx, cfg.DatabaseURL); err != nil {
		return err
	}
	pool, err := export.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if _, err := export.NewStore(pool).SaveSnapshot(ctx, rs); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func writeExport(path string, rs *model.RecordSet, f export.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if err := export.Write(file, rs, f); err != nil {
		return fmt.Errorf("export %s: %w", f, err)
	}
	return nil
}
