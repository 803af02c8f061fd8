package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghoshnapatra/ghoshna/pkg/config"
	"github.com/ghoshnapatra/ghoshna/pkg/declaration"
	"github.com/ghoshnapatra/ghoshna/pkg/errors"
	pkgio "github.com/ghoshnapatra/ghoshna/pkg/io"
	"github.com/ghoshnapatra/ghoshna/pkg/pipeline"
	"github.com/ghoshnapatra/ghoshna/pkg/session"
)

// stdoutTarget is the --output value that streams the JPEG to stdout.
const stdoutTarget = "-"

// User-facing messages, matching the wording of the web form.
const (
	msgExporting        = "JPG बन रहा है..."
	msgExported         = "डाउनलोड सफल!"
	msgExportFailed     = "डाउनलोड में त्रुटि हुई"
	msgContentFailed    = "दस्तावेज़ लोड नहीं हुआ"
	msgExportInProgress = "JPG पहले से बन रहा है"
	msgNudgeShare       = "इस टूल को दूसरों के साथ साझा करें"
	msgNudgeFeedback    = "अपनी प्रतिक्रिया दें"

	shareLink    = "https://github.com/ghoshnapatra/ghoshna"
	feedbackLink = "https://github.com/ghoshnapatra/ghoshna/issues"

	exportCommandExample = `ghoshna export --name "Ram Kumar" --father "Shyam Lal" --age 34 --year 2025 \
    --occupation Farmer --address "Village Rampur" --place Lucknow --today`
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	record      string // TOML or JSON record file
	output      string // output directory, or "-" for stdout
	engine      string // engine override
	overwrite   bool   // replace an existing file instead of suffixing
	today       bool   // fill the date with today's date
	force       bool   // skip the completeness check
	interactive bool   // confirm on a preview screen first
	trace       bool   // print the compression search
	noCache     bool
	refresh     bool
}

// fieldFlags maps record fields to their flag names.
var fieldFlags = []struct {
	field declaration.Field
	flag  string
	usage string
}{
	{declaration.FieldApplicantName, "name", "applicant name"},
	{declaration.FieldFatherName, "father", "father's name"},
	{declaration.FieldAge, "age", "age in years"},
	{declaration.FieldYear, "year", "year"},
	{declaration.FieldOccupation, "occupation", "occupation"},
	{declaration.FieldAddress, "address", "residential address"},
	{declaration.FieldPlace, "place", "place of signing"},
	{declaration.FieldDate, "date", "date of signing (YYYY-MM-DD)"},
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		opts   exportOpts
		values map[declaration.Field]*string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a declaration and save it as a JPEG",
		Long: `Render a self-declaration and save it as a JPEG.

Fields come from flags, from a --record file (TOML or JSON), or both; flags
win. Empty fields print as dotted lines. The JPEG quality is searched so the
file lands between 20 KB and 50 KB; when no quality fits, the closest result
is saved.

Example:
  ` + exportCommandExample,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := buildRecord(cmd, opts, values, time.Now())
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), rec, opts)
		},
	}

	values = bindFieldFlags(cmd)
	cmd.Flags().StringVarP(&opts.record, "record", "r", "", "read fields from a TOML or JSON file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output directory, or "-" for stdout (default from config)`)
	cmd.Flags().StringVar(&opts.engine, "engine", "", "render engine: native, chrome (default from config)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace an existing file instead of adding _2, _3, ...")
	cmd.Flags().BoolVar(&opts.today, "today", false, "set the date to today")
	cmd.Flags().BoolVar(&opts.force, "force", false, "export even when fields are empty")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "preview the record and confirm before exporting")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "print every compression attempt")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when a cached artifact exists")

	return cmd
}

// bindFieldFlags registers one string flag per record field.
func bindFieldFlags(cmd *cobra.Command) map[declaration.Field]*string {
	values := make(map[declaration.Field]*string, len(fieldFlags))
	for _, ff := range fieldFlags {
		values[ff.field] = cmd.Flags().String(ff.flag, "", ff.usage)
	}
	return values
}

// buildRecord assembles the record from the --record file and field flags.
func buildRecord(cmd *cobra.Command, opts exportOpts, values map[declaration.Field]*string, now time.Time) (declaration.Record, error) {
	var rec declaration.Record
	if opts.record != "" {
		var err error
		if rec, err = pkgio.ImportRecord(opts.record); err != nil {
			return rec, err
		}
	}
	for _, ff := range fieldFlags {
		if cmd.Flags().Changed(ff.flag) {
			rec.Set(ff.field, *values[ff.field])
		}
	}
	if opts.today {
		rec.Date = declaration.Today(now)
	}
	return rec, nil
}

// runExport validates rec, runs the pipeline and writes the artifact.
func (c *CLI) runExport(ctx context.Context, rec declaration.Record, opts exportOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.engine != "" {
		cfg.Render.Engine = opts.engine
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	toStdout := opts.output == stdoutTarget
	if toStdout {
		uiOut = os.Stderr
		defer func() { uiOut = os.Stdout }()
	}

	if !opts.force {
		if err := rec.Validate(); err != nil {
			printError("%s", failureMessage(err))
			printNextStep("Fill every field, or export anyway", "ghoshna export --force")
			return reported(err)
		}
	}

	if opts.interactive {
		ok, err := confirmExport(ctx, rec, nil, os.Stderr)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			printInfo("Export cancelled")
			return context.Canceled
		}
	}

	runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: opts.noCache, refresh: opts.refresh})
	if err != nil {
		return err
	}
	defer func() {
		if err := runner.Close(); err != nil {
			c.Logger.Warn("close runner", "error", err)
		}
	}()

	store, sess := c.openSession(ctx, cfg)

	spinner := newSpinnerWithContext(ctx, msgExporting)
	spinner.Start()
	res, err := runner.Export(ctx, rec, sess)
	if err != nil {
		spinner.StopWithError(failureMessage(err))
		return reported(err)
	}
	spinner.Stop()

	if store != nil {
		if err := store.Set(ctx, sess); err != nil {
			c.Logger.Warn("save session", "error", err)
		}
	}

	if err := c.writeArtifact(res, cfg, opts); err != nil {
		printError("%s: %s", msgExportFailed, errors.UserMessage(err))
		return reported(err)
	}

	c.reportExport(res, cfg, opts)
	return nil
}

// reportExport prints the summary of a saved export. A size outside the
// window is accepted as is and only logged.
func (c *CLI) reportExport(res *pipeline.Result, cfg config.Config, opts exportOpts) {
	printExportStats(res.Artifact.Size(), res.Artifact.Quality, res.Cached)
	if !res.Artifact.InWindow {
		c.Logger.Debug("size outside window", "size", formatKB(res.Artifact.Size()),
			"min", formatKB(cfg.Compress.MinSize), "max", formatKB(cfg.Compress.MaxSize))
	}
	if opts.trace {
		if res.Cached || res.Compression == nil {
			printDetail("served from cache, no compression trace")
		} else {
			fmt.Fprintln(uiOut, traceTable(res.Compression.Attempts))
		}
	}
	printNudges(res.Nudges)
}

// openSession loads the CLI session. Failures only disable nudges.
func (c *CLI) openSession(ctx context.Context, cfg config.Config) (*session.FileStore, *session.Session) {
	store, err := c.newSessionStore(cfg)
	if err != nil {
		c.Logger.Debug("session store unavailable", "error", err)
		return nil, nil
	}
	sess, err := session.Current(ctx, store, cfg.Session.TTL.Duration)
	if err != nil {
		c.Logger.Debug("load session", "error", err)
		return nil, nil
	}
	return store, sess
}

// writeArtifact saves or streams the artifact and reports where it went.
func (c *CLI) writeArtifact(res *pipeline.Result, cfg config.Config, opts exportOpts) error {
	if opts.output == stdoutTarget {
		if _, err := pkgio.WriteTo(os.Stdout, res.Artifact); err != nil {
			return err
		}
		printSuccess("%s %s", msgExported, StyleDim.Render(res.Artifact.Name))
		return nil
	}

	dir := opts.output
	if dir == "" {
		dir = cfg.Output.Dir
	}
	path, err := pkgio.Save(dir, res.Artifact, pkgio.SaveOptions{
		Overwrite: opts.overwrite || cfg.Output.Overwrite,
	})
	if err != nil {
		return err
	}
	printSuccess("%s", msgExported)
	printFile(path)
	return nil
}

// printNudges shows the once-per-session nudges.
func printNudges(flags []session.Flag) {
	for _, f := range flags {
		switch f {
		case session.FlagShare:
			printNextStep(msgNudgeShare, shareLink)
		case session.FlagFeedback:
			printNextStep(msgNudgeFeedback, feedbackLink)
		}
	}
}

// failureMessage is the one-line failure shown for err.
func failureMessage(err error) string {
	var headline string
	switch errors.GetCode(err) {
	case errors.ErrCodeContentUnavailable:
		headline = msgContentFailed
	case errors.ErrCodeValidationIncomplete:
		return errors.UserMessage(err)
	case errors.ErrCodeExportInProgress:
		headline = msgExportInProgress
	default:
		headline = msgExportFailed
	}
	return headline + ": " + errors.UserMessage(err)
}

// =============================================================================
// Reported Errors
// =============================================================================

// reportedError marks an error whose message was already shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Reported reports whether err was already shown to the user, so main
// should only set the exit status.
func Reported(err error) bool {
	var re *reportedError
	return stderrors.As(err, &re)
}
