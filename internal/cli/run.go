package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/modelcheck/modelcheck/pkg/config"
	"github.com/modelcheck/modelcheck/pkg/element"
	"github.com/modelcheck/modelcheck/pkg/engine"
	"github.com/modelcheck/modelcheck/pkg/expr"
	"github.com/modelcheck/modelcheck/pkg/report"
	"github.com/modelcheck/modelcheck/pkg/rule"
	"github.com/modelcheck/modelcheck/pkg/sheet"
)

const cmdExamples = `  # Validate a model against a published rule sheet:
  modelcheck run ./model.json --rules https://example.com/rules.tsv

  # Use a local rule sheet and suppress passing results:
  modelcheck run ./model.json --rules ./rules.tsv --min-severity Warning

  # Watch the model and rules for changes and re-validate:
  modelcheck run ./model.json --rules ./rules.tsv --watch

  # Write results as JSON lines to a file:
  modelcheck run ./model.json --rules ./rules.tsv -o results.jsonl`

// ErrValidationFailed reports that at least one Error-severity rule failed.
var ErrValidationFailed = errors.New("validation failed")

type RunArgs struct {
	*RootArgs

	ModelPath   string
	Rules       string
	ConfigPath  string
	Output      string
	MinSeverity string
	HideSkipped bool
	Watch       bool
	ShowConfig  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Rules, "rules", "r", "", "Rule sheet URL or file path (tab-separated)")
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the modelcheck configuration file")
	cmd.Flags().StringVarP(&ra.Output, "output", "o", "", "Write results to a file instead of stdout")
	cmd.Flags().StringVar(&ra.MinSeverity, "min-severity", "", "Minimum severity to report, one of: Info, Warning, Error")
	cmd.Flags().BoolVar(&ra.HideSkipped, "hide-skipped", false, "Suppress results for skipped rules")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the model and rules for changes and re-validate")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("min-severity",
		cobra.FixedCompletions([]string{"Info", "Warning", "Error"}, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(fmt.Errorf("register min-severity completion: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run <model.json>",
		Short:   "Evaluate a rule sheet against a model file",
		Example: cmdExamples,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ra.ModelPath = args[0]

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func run(cmd *cobra.Command, ra *RunArgs) error {
	cfg, err := loadConfig(ra)
	if err != nil {
		return err
	}

	if ra.ShowConfig {
		data, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		mustN(fmt.Fprint(cmd.OutOrStdout(), string(data)))

		return nil
	}

	if cfg.SpreadsheetURL == "" {
		return errors.New("no rule sheet: set --rules or spreadsheetUrl in config")
	}

	out := cmd.OutOrStdout()
	if ra.Output != "" {
		f, err := os.Create(ra.Output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		out = f
	}

	if ra.Watch {
		return watch(cmd.Context(), cfg, ra, out)
	}

	return executeRun(cmd.Context(), cfg, ra.ModelPath, out)
}

func loadConfig(ra *RunArgs) (*config.Config, error) {
	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()

		// Seed the default config on first use. Failing to write it is not
		// fatal; the run proceeds on defaults.
		if err := config.WriteDefault(configPath); err != nil {
			slog.Warn("write default config", slog.Any("err", err))
		}
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config %q: %w", configPath, err)
	}

	// Flags override config values.
	if ra.Rules != "" {
		cfg.SpreadsheetURL = ra.Rules
	}
	if ra.MinSeverity != "" {
		cfg.MinimumSeverity = ra.MinSeverity
	}
	if ra.HideSkipped {
		cfg.HideSkipped = true
	}

	return cfg, nil
}

func executeRun(ctx context.Context, cfg *config.Config, modelPath string, out io.Writer) error {
	// The host exists before any input is touched, so failures to fetch or
	// decode inputs still leave a run-exception record in the output stream.
	host := report.NewJSONLHost(out)

	table, err := sheet.Fetch(ctx, cfg.SpreadsheetURL)
	if err != nil {
		host.MarkRunException(err)

		return err
	}

	groups, diags := rule.ParseTable(table)

	root, err := element.LoadFile(modelPath)
	if err != nil {
		host.MarkRunException(err)

		return err
	}

	elements := element.Flatten(root)

	if cfg.ElementFilter != "" {
		filter, err := expr.NewFilter(cfg.ElementFilter, expr.WithFuzzyThreshold(cfg.FuzzyThreshold))
		if err != nil {
			host.MarkRunException(err)

			return err
		}

		before := len(elements)
		elements = filter.Apply(elements)
		slog.Debug("applied element filter",
			slog.String("expression", cfg.ElementFilter),
			slog.Int("before", before),
			slog.Int("after", len(elements)),
		)
	}

	opts := []report.Option{
		report.WithMinimumSeverity(rule.ParseSeverity(cfg.MinimumSeverity)),
	}
	if cfg.HideSkipped {
		opts = append(opts, report.HideSkipped())
	}

	session := report.NewSession(host, slog.Default(), opts...)

	results, err := session.Run(ctx, groups, diags, elements)
	if err != nil {
		return err
	}

	for _, res := range results {
		if res.Outcome == engine.OutcomeEvaluated && len(res.Failed) > 0 &&
			res.Rule.Severity == rule.SeverityError {
			return fmt.Errorf("%w: rule %s: %s", ErrValidationFailed, res.Rule.ID, res.Rule.Message)
		}
	}

	return nil
}

// watch re-validates whenever the model file or a local rule sheet changes.
func watch(ctx context.Context, cfg *config.Config, ra *RunArgs, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch parent directories: editors often replace files on save, which
	// drops watches registered on the files themselves.
	paths := []string{ra.ModelPath}
	if !strings.Contains(cfg.SpreadsheetURL, "://") {
		paths = append(paths, cfg.SpreadsheetURL)
	}

	watched := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}

		watched[abs] = true

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
	}

	runOnce := func() {
		if err := executeRun(ctx, cfg, ra.ModelPath, out); err != nil {
			slog.Error("run failed", slog.Any("err", err))
		}
	}

	runOnce()
	slog.Info("watching for changes", slog.Any("paths", paths))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}

			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				slog.Info("change detected", slog.String("path", event.Name))
				runOnce()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("watch error", slog.Any("err", err))
		}
	}
}
