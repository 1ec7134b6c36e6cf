package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/auditkit/internal/catalog"
	"github.com/dshills/auditkit/internal/delta"
	"github.com/dshills/auditkit/internal/render"
	"github.com/dshills/auditkit/internal/review"
	"github.com/dshills/auditkit/internal/schema"
	"github.com/dshills/auditkit/internal/server"
	"github.com/dshills/auditkit/internal/session"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// catalogEnv names the environment variable holding the default catalog.
const catalogEnv = "AUDITKIT_CATALOG"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// commonFlags are shared by every command.
type commonFlags struct {
	out     string
	catalog string
	verbose bool
}

// auditFlags holds the parsed flags for report, export and stats.
type auditFlags struct {
	commonFlags
	format    string
	failBelow float64
	policy    string
}

// diffFlags holds the parsed flags for the diff command.
type diffFlags struct {
	commonFlags
	format string
}

// serveFlags holds the parsed flags for the serve command.
type serveFlags struct {
	commonFlags
	addr string
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "auditkit",
		Short:        "Supplier safety audits: checklist evaluation, exports and PDF reports",
		Long:         "auditkit evaluates a supplier audit session against a requirement catalog and produces statistics, CSV/XLSX exports and a PDF report.",
		Version:      version,
		SilenceUsage: true,
	}

	addCommon := func(cmd *cobra.Command, c *commonFlags) {
		f := cmd.Flags()
		f.StringVar(&c.out, "out", "", "Write output to this file")
		f.StringVar(&c.catalog, "catalog", "", "Catalog name or YAML path (default: session catalog, then $"+catalogEnv+", then "+catalog.DefaultName+")")
		f.BoolVar(&c.verbose, "verbose", false, "Print processing steps to stderr")
	}
	addThreshold := func(cmd *cobra.Command, a *auditFlags) {
		f := cmd.Flags()
		f.Float64Var(&a.failBelow, "fail-below", 0, "Exit 2 if overall conformity is below this percentage")
		f.StringVar(&a.policy, "policy", string(schema.PolicySimple), "Conformity used by --fail-below: simple or weighted")
	}

	var reportFlags auditFlags
	reportCmd := &cobra.Command{
		Use:   "report <session-file>",
		Short: "Build the PDF audit report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFlags.format = render.FormatPDF
			return runAudit(args[0], "report", reportFlags)
		},
	}
	addCommon(reportCmd, &reportFlags.commonFlags)
	addThreshold(reportCmd, &reportFlags)

	var exportFlags auditFlags
	exportCmd := &cobra.Command{
		Use:   "export <session-file>",
		Short: "Export the audit records as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(args[0], "audit", exportFlags)
		},
	}
	addCommon(exportCmd, &exportFlags.commonFlags)
	exportCmd.Flags().StringVar(&exportFlags.format, "format", render.FormatCSV, "Output format: csv or xlsx")

	var statsFlags auditFlags
	statsCmd := &cobra.Command{
		Use:   "stats <session-file>",
		Short: "Print conformity statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(args[0], "stats", statsFlags)
		},
	}
	addCommon(statsCmd, &statsFlags.commonFlags)
	addThreshold(statsCmd, &statsFlags)
	statsCmd.Flags().StringVar(&statsFlags.format, "format", render.FormatTable, "Output format: table, json or md")

	var dFlags diffFlags
	diffCmd := &cobra.Command{
		Use:   "diff <before.csv> <after.csv>",
		Short: "Compare two CSV exports of the same audit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1], dFlags)
		},
	}
	diffCmd.Flags().StringVar(&dFlags.format, "format", "text", "Output format: text or json")
	diffCmd.Flags().StringVar(&dFlags.out, "out", "", "Write output to file instead of stdout")
	diffCmd.Flags().BoolVar(&dFlags.verbose, "verbose", false, "Print processing steps to stderr")

	var sFlags serveFlags
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve audit sessions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), sFlags)
		},
	}
	serveCmd.Flags().StringVar(&sFlags.addr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&sFlags.catalog, "catalog", "", "Catalog name or YAML path (default: $"+catalogEnv+", then "+catalog.DefaultName+")")
	serveCmd.Flags().BoolVar(&sFlags.verbose, "verbose", false, "Print processing steps to stderr")

	var cFlags commonFlags
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print a requirement catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cFlags)
		},
	}
	catalogCmd.Flags().StringVar(&cFlags.catalog, "name", "", "Catalog name or YAML path (default: $"+catalogEnv+", then "+catalog.DefaultName+")")
	catalogCmd.Flags().StringVar(&cFlags.out, "out", "", "Write output to file instead of stdout")

	root.AddCommand(reportCmd, exportCmd, statsCmd, diffCmd, serveCmd, catalogCmd)
	return root
}

// runAudit evaluates a session and renders one artifact. prefix names the
// default output file for binary formats.
func runAudit(sessionPath, prefix string, flags auditFlags) error {
	// --- Step 1: Validate flags ---
	if err := validateFlags(prefix, flags); err != nil {
		return codeError(3, "invalid flags: %s", err)
	}

	// --- Step 2: Load session ---
	logVerbose(flags.verbose, "Loading session: %s", sessionPath)
	s, err := session.Load(sessionPath)
	if err != nil {
		return codeError(3, "loading session: %s", err)
	}
	logVerbose(flags.verbose, "Session hash: %s", s.Hash)

	// --- Step 3: Resolve catalog ---
	ref := resolveCatalog(flags.catalog, s.CatalogRef())
	logVerbose(flags.verbose, "Loading catalog: %s", ref)
	cat, err := catalog.Resolve(ref)
	if err != nil {
		return codeError(3, "loading catalog: %s", err)
	}

	// --- Step 4: Evaluate answers (logo problems only warn) ---
	audit, err := s.Audit(cat, os.Stderr)
	if err != nil {
		return codeError(3, "evaluating answers: %s", err)
	}
	logVerbose(flags.verbose, "Built %d records, %d selected for export", len(audit.Records), len(audit.ExportRecords()))

	// --- Step 5: Render output ---
	logVerbose(flags.verbose, "Rendering output (format: %s)", flags.format)
	renderer, err := render.NewRenderer(flags.format, os.Stderr)
	if err != nil {
		return codeError(3, "invalid format: %s", err)
	}
	outputBytes, err := renderer.Render(audit)
	if err != nil {
		return codeError(4, "rendering output: %s", err)
	}

	// --- Step 6: Write output ---
	out := flags.out
	if out == "" && !render.IsStatsFormat(flags.format) {
		out = render.Filename(prefix, audit.Meta.Supplier, audit.Meta.Date, flags.format)
	}
	if err := writeOutput(out, outputBytes); err != nil {
		return err
	}
	if out != "" {
		logVerbose(flags.verbose, "Wrote %s (%d bytes)", out, len(outputBytes))
	}

	// --- Step 7: Evaluate --fail-below ---
	if flags.failBelow > 0 {
		sum := review.Overview(audit.Records)
		pct := sum.Simple
		if schema.Policy(flags.policy) == schema.PolicyWeighted {
			pct = sum.Weighted
		}
		if pct.Valid && pct.Value < flags.failBelow {
			return codeError(2, "%s conformity %s%% is below --fail-below %g", flags.policy, pct, flags.failBelow)
		}
	}
	return nil
}

func runDiff(beforePath, afterPath string, flags diffFlags) error {
	// --- Step 1: Validate flags ---
	switch flags.format {
	case "text", "json":
	default:
		return codeError(3, "invalid flags: --format must be text or json, got %q", flags.format)
	}

	// --- Step 2: Read exports ---
	before, err := readExport(beforePath, flags.verbose)
	if err != nil {
		return err
	}
	after, err := readExport(afterPath, flags.verbose)
	if err != nil {
		return err
	}

	// --- Step 3: Compare ---
	rep := delta.Compare(before, after, os.Stderr)
	logVerbose(flags.verbose, "%d requirement(s) changed", len(rep.Changes))

	// --- Step 4: Render and write ---
	var outputBytes []byte
	if flags.format == "json" {
		outputBytes, err = json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return codeError(4, "rendering output: %s", err)
		}
	} else {
		outputBytes = []byte(delta.Text(rep))
	}
	return writeOutput(flags.out, outputBytes)
}

func readExport(path string, verbose bool) ([]schema.Record, error) {
	logVerbose(verbose, "Reading export: %s", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, codeError(3, "reading export: %s", err)
	}
	defer f.Close()
	records, err := render.ReadCSV(f)
	if err != nil {
		return nil, codeError(3, "reading export %s: %s", path, err)
	}
	return records, nil
}

func runServe(ctx context.Context, flags serveFlags) error {
	ref := resolveCatalog(flags.catalog, "")
	logVerbose(flags.verbose, "Loading catalog: %s", ref)
	cat, err := catalog.Resolve(ref)
	if err != nil {
		return codeError(3, "loading catalog: %s", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cat)
	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(flags.addr) }()

	select {
	case err := <-errc:
		if err != nil {
			return codeError(4, "serving: %s", err)
		}
		return nil
	case <-ctx.Done():
		logVerbose(flags.verbose, "Shutting down")
		if err := srv.Shutdown(); err != nil {
			return codeError(4, "shutting down: %s", err)
		}
		return nil
	}
}

func runCatalog(flags commonFlags) error {
	cat, err := catalog.Resolve(resolveCatalog(flags.catalog, ""))
	if err != nil {
		return codeError(3, "loading catalog: %s", err)
	}
	data, err := catalog.Marshal(cat)
	if err != nil {
		return codeError(4, "rendering catalog: %s", err)
	}
	return writeOutput(flags.out, data)
}

// resolveCatalog picks the catalog reference: flag, then session, then
// environment, then the built-in default.
func resolveCatalog(flag, fromSession string) string {
	switch {
	case flag != "":
		return flag
	case fromSession != "":
		return fromSession
	case os.Getenv(catalogEnv) != "":
		return os.Getenv(catalogEnv)
	default:
		return catalog.DefaultName
	}
}

// validateFlags returns an error if any flag value is invalid for command.
func validateFlags(command string, flags auditFlags) error {
	switch command {
	case "audit":
		if !render.IsExportFormat(flags.format) {
			return fmt.Errorf("--format must be csv or xlsx, got %q", flags.format)
		}
	case "stats":
		if !render.IsStatsFormat(flags.format) {
			return fmt.Errorf("--format must be table, json or md, got %q", flags.format)
		}
	}

	if flags.failBelow < 0 || flags.failBelow > 100 {
		return fmt.Errorf("--fail-below must be between 0 and 100, got %g", flags.failBelow)
	}
	switch schema.Policy(flags.policy) {
	case schema.PolicySimple, schema.PolicyWeighted, "":
	default:
		return fmt.Errorf("--policy must be simple or weighted, got %q", flags.policy)
	}
	return nil
}

// writeOutput writes to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return codeError(4, "creating output directory: %s", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return codeError(4, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return codeError(4, "writing output: %s", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

// logVerbose writes a message to stderr when verbose mode is enabled.
func logVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
	}
}
