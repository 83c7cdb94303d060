package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"text/tabwriter"

	"github.com/leodido/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leodido/featcheck"
	"github.com/leodido/featcheck/detect"
	"github.com/leodido/featcheck/internal/logger"
	"github.com/leodido/featcheck/manifest"
)

// Build metadata injected via ldflags.
// When built without ldflags these remain at their zero values and the
// version command omits them.
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "featcheck",
		Short: "Ordered feature detection for build configuration",
		Long: `featcheck decides which optional features of a build are enabled.

Features are read from a manifest (YAML, TOML or JSON) and checked in
declaration order. Each one is skipped when disabled, fails when a
dependency is missing, is skipped when all its negative dependencies are
present, and is otherwise autodetected. Enabled features become
dependencies for the ones declared after them.`,
		SilenceUsage: true,
	}

	root.AddCommand(checkCmd())
	root.AddCommand(listCmd())
	root.AddCommand(lintCmd())
	root.AddCommand(versionCmd())

	return root
}

// CheckOptions defines flags for the check subcommand.
type CheckOptions struct {
	File     string       `flag:"file" flagshort:"f" flagdescr:"Feature manifest (.yaml, .yml, .toml or .json)" flagrequired:"true"`
	Enable   featureList  `flag:"enable" flagshort:"e" flagdescr:"Features explicitly enabled" flagcustom:"true"`
	Disable  featureList  `flag:"disable" flagshort:"d" flagdescr:"Features to skip (wins over --enable)" flagcustom:"true"`
	Require  featureList  `flag:"require" flagshort:"r" flagdescr:"Features that must end up satisfied" flagcustom:"true"`
	TargetOS string       `flag:"target-os" flagdescr:"Target platform seeded as os_<name> (default: host)"`
	Format   outputFormat `flag:"format" flagshort:"o" flagdescr:"Output format (text, json)" flagcustom:"true"`
	LogLevel string       `flag:"log-level" flagdescr:"Log level: debug, info, warn, error (default: warn)"`
	LogJSON  bool         `flag:"log-json" flagdescr:"Write logs as JSON"`
}

func (o *CheckOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *CheckOptions) DefineEnable(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return defineFeatureList(descr, fieldValue)
}

func (o *CheckOptions) DecodeEnable(input any) (any, error) {
	return decodeFeatureList(input)
}

func (o *CheckOptions) DefineDisable(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return defineFeatureList(descr, fieldValue)
}

func (o *CheckOptions) DecodeDisable(input any) (any, error) {
	return decodeFeatureList(input)
}

func (o *CheckOptions) DefineRequire(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return defineFeatureList(descr, fieldValue)
}

func (o *CheckOptions) DecodeRequire(input any) (any, error) {
	return decodeFeatureList(input)
}

func (o *CheckOptions) DefineFormat(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return defineOutputFormat(descr, fieldValue)
}

func (o *CheckOptions) DecodeFormat(input any) (any, error) {
	return decodeOutputFormat(input)
}

// toggles maps --enable and --disable onto feature options.
// A feature named by both ends up disabled.
func (o *CheckOptions) toggles() featcheck.Toggles {
	t := featcheck.Toggles{}
	for _, id := range o.Enable {
		t.Enable(id)
	}
	for _, id := range o.Disable {
		t.Disable(id)
	}
	return t
}

func checkCmd() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the features of a manifest in order",
		Long: `Check every feature of the manifest in declaration order and print
the outcome of each one.

Exits with code 0 when every --require'd feature is satisfied, 1 otherwise.
Target platform identifiers (os_linux, os_darwin, ...) can be required too.`,
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return runCheck(c, opts)
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	registerFeatureCompletion(cmd, "enable", "disable", "require")
	return cmd
}

func runCheck(c *cobra.Command, opts *CheckOptions) error {
	log, err := newLogger(opts.LogLevel, opts.LogJSON, c.ErrOrStderr())
	if err != nil {
		return err
	}

	m, err := manifest.Load(opts.File)
	if err != nil {
		return err
	}
	log = log.WithFields(map[string]any{"manifest": opts.File})
	log.Debug(fmt.Sprintf("loaded %d features", len(m.Features)))

	if err := checkKnownFeatures(m, "enable", opts.Enable, false); err != nil {
		return err
	}
	if err := checkKnownFeatures(m, "disable", opts.Disable, false); err != nil {
		return err
	}
	if err := checkKnownFeatures(m, "require", opts.Require, true); err != nil {
		return err
	}

	features, err := m.Features(detect.NewRegistry())
	if err != nil {
		return err
	}

	target := opts.TargetOS
	if target == "" {
		target = featcheck.HostOS()
	}

	// Progress goes to stdout in text mode and to the log otherwise.
	out := c.OutOrStdout()
	var reporter featcheck.Reporter = logger.NewReporter(log)
	if opts.Format == formatText {
		reporter = featcheck.NewConsoleReporter(out, featcheck.DefaultColumn)
	}

	res, err := featcheck.Resolve(c.Context(), features,
		featcheck.WithOptions(opts.toggles()),
		featcheck.WithReporter(reporter),
		featcheck.WithTargetOS(target),
	)
	if err != nil {
		if opts.Format == formatJSON {
			if perr := printJSON(out, res); perr != nil {
				return perr
			}
		}
		return err
	}

	if opts.Format == formatJSON {
		if err := printJSON(out, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "\n%s", res.Summary())
	}

	if missing := res.Satisfied.Missing(opts.Require); len(missing) > 0 {
		log.WithFields(map[string]any{"missing": missing}).Warn("requirements not satisfied")
		return fmt.Errorf("required features not satisfied: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ListOptions defines flags for the list subcommand.
type ListOptions struct {
	File   string       `flag:"file" flagshort:"f" flagdescr:"Feature manifest (.yaml, .yml, .toml or .json)" flagrequired:"true"`
	Format outputFormat `flag:"format" flagshort:"o" flagdescr:"Output format (text, json)" flagcustom:"true"`
}

func (o *ListOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func (o *ListOptions) DefineFormat(name, short, descr string, structField reflect.StructField, fieldValue reflect.Value) (pflag.Value, string) {
	return defineOutputFormat(descr, fieldValue)
}

func (o *ListOptions) DecodeFormat(input any) (any, error) {
	return decodeOutputFormat(input)
}

type listEntry struct {
	Name    string   `json:"name"`
	Option  string   `json:"option"`
	Desc    string   `json:"desc"`
	Deps    []string `json:"deps,omitempty"`
	DepsNeg []string `json:"deps_neg,omitempty"`
	Detect  string   `json:"detect"`
}

func listCmd() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the features declared by a manifest",
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			m, err := manifest.Load(opts.File)
			if err != nil {
				return err
			}

			entries := make([]listEntry, 0, len(m.Features))
			for _, e := range m.Features {
				entries = append(entries, listEntry{
					Name:    e.Name,
					Option:  featcheck.OptionName(e.Name),
					Desc:    e.Desc,
					Deps:    e.Deps,
					DepsNeg: e.DepsNeg,
					Detect:  describeSpec(e.Detect),
				})
			}

			out := c.OutOrStdout()
			if opts.Format == formatJSON {
				return printJSON(out, entries)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOPTION\tDEPS\tDEPS_NEG\tDETECT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.Option, joinOrDash(e.Deps), joinOrDash(e.DepsNeg), e.Detect)
			}
			return w.Flush()
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

// LintOptions defines flags for the lint subcommand.
type LintOptions struct {
	File string `flag:"file" flagshort:"f" flagdescr:"Feature manifest (.yaml, .yml, .toml or .json)" flagrequired:"true"`
}

func (o *LintOptions) Attach(c *cobra.Command) error {
	return structcli.Define(c, o)
}

func lintCmd() *cobra.Command {
	opts := &LintOptions{}

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report dependencies that cannot work in declaration order",
		Long: `Validate a manifest, build its detectors and report dependency problems:
references to the feature itself, to features declared later, to unknown
features, and identifiers listed as both dependency and negative dependency.

Exits with code 1 if any warning is reported.`,
		PreRunE: func(c *cobra.Command, args []string) error {
			return structcli.Unmarshal(c, opts)
		},
		RunE: func(c *cobra.Command, args []string) error {
			m, err := manifest.Load(opts.File)
			if err != nil {
				return err
			}
			if _, err := m.Features(detect.NewRegistry()); err != nil {
				return err
			}

			warnings := m.Lint()
			out := c.OutOrStdout()
			if len(warnings) == 0 {
				fmt.Fprintln(out, "OK: no warnings")
				return nil
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "WARN: %s\n", w)
			}
			return fmt.Errorf("%d lint warning(s)", len(warnings))
		},
	}

	if err := opts.Attach(cmd); err != nil {
		panic(err)
	}
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show tool version and host platform",
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			if version != "" {
				fmt.Fprintf(out, "featcheck %s", version)
				if commit != "" {
					fmt.Fprintf(out, " (%s)", commit)
				}
				if date != "" {
					fmt.Fprintf(out, " built %s", date)
				}
				fmt.Fprintln(out)
			} else {
				fmt.Fprintln(out, "featcheck (dev)")
			}

			fmt.Fprintf(out, "Host OS: %s\n", featcheck.HostOS())
			return nil
		},
	}
}

func newLogger(level string, jsonOutput bool, w io.Writer) (*logger.Logger, error) {
	if level == "" {
		level = "warn"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: !jsonOutput, Writer: w})
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return log, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}

// describeSpec renders a detector spec compactly, e.g. "any(false, env(HOME))".
func describeSpec(s detect.Spec) string {
	var inner []string
	inner = append(inner, s.Args...)
	for _, nested := range s.Checks {
		inner = append(inner, describeSpec(nested))
	}
	if len(inner) == 0 {
		return s.Kind
	}
	return s.Kind + "(" + strings.Join(inner, ", ") + ")"
}
