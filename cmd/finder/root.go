package main

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "time"

    "github.com/briandowns/spinner"
    "github.com/fatih/color"
    "github.com/spf13/cobra"
    "go.uber.org/zap"

    "github.com/example/outreach-finder/internal/config"
    "github.com/example/outreach-finder/internal/extractor"
    "github.com/example/outreach-finder/internal/links"
    "github.com/example/outreach-finder/internal/logger"
    "github.com/example/outreach-finder/internal/models"
    "github.com/example/outreach-finder/internal/providers/llm"
)

type clientFactory func(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (llm.Client, error)

func defaultClient(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (llm.Client, error) {
    return llm.New(ctx, cfg, log)
}

type options struct {
    query       models.Query
    jsonOut     bool
    verifyLinks bool
    verbose     bool
}

func newRootCmd(newClient clientFactory) *cobra.Command {
    var opts options
    cmd := &cobra.Command{
        Use:   "finder",
        Short: "Find professors for internship outreach",
        Long: `finder asks the configured model for professors matching an institute,
department or research keyword and prints them as they arrive.

Examples:
  finder --institute "IIT Guwahati" --department "Computer Science"
  finder --keyword "robotics" --json > professors.ndjson`,
        SilenceUsage:  true,
        SilenceErrors: true,
        Args:          cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            return run(cmd, newClient, opts)
        },
    }
    cmd.Flags().StringVarP(&opts.query.Institute, "institute", "i", "", "Institute name, e.g. \"IIT Bombay\"")
    cmd.Flags().StringVarP(&opts.query.Department, "department", "d", "", "Department name")
    cmd.Flags().StringVarP(&opts.query.Keyword, "keyword", "k", "", "Research keyword")
    cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print one JSON record per line instead of summaries")
    cmd.Flags().BoolVar(&opts.verifyLinks, "verify-links", false, "Check each institute website and mark dead ones")
    cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at the configured level instead of warn")
    return cmd
}

func run(cmd *cobra.Command, newClient clientFactory, opts options) error {
    if err := opts.query.Validate(); err != nil { return err }

    cfg, err := config.Load()
    if err != nil { return fmt.Errorf("configuration error: %w", err) }
    level := "warn"
    if opts.verbose { level = cfg.Log.Level }
    log, err := logger.New(level, cfg.Log.Format)
    if err != nil { return err }
    defer log.Sync()

    ctx := cmd.Context()
    client, err := newClient(ctx, cfg.LLM, log)
    if err != nil { return err }
    if c, ok := client.(io.Closer); ok { defer c.Close() }

    var checker *links.Checker
    if opts.verifyLinks || cfg.Links.Verify { checker = links.NewChecker(cfg.Links.Timeout, log) }

    out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
    red := color.New(color.FgRed)
    dim := color.New(color.FgHiBlack)

    sp := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(errOut))
    sp.Suffix = "  Searching for professors..."
    sp.Color("cyan")
    sp.Start()
    defer sp.Stop()

    enc := json.NewEncoder(out)
    var failure error
    stats, err := extractor.New(client, log).Extract(ctx, opts.query,
        func(p models.Professor) {
            sp.Stop()
            if checker != nil { p = checker.Apply(ctx, p) }
            if opts.jsonOut {
                enc.Encode(p)
                return
            }
            printProfessor(out, p)
        },
        func(err error) { failure = err },
    )
    sp.Stop()
    if err != nil { return err }
    if failure != nil {
        red.Fprintf(errOut, "  ✗ %s\n", failure)
        return failure
    }
    if stats.Emitted == 0 {
        dim.Fprintln(errOut, "  No professors found for this query.")
    }
    dim.Fprintf(errOut, "  %d professors, %d lines skipped\n", stats.Emitted, stats.Skipped)
    return nil
}

func printProfessor(w io.Writer, p models.Professor) {
    cyan := color.New(color.FgCyan, color.Bold)
    dim := color.New(color.FgHiBlack)
    yellow := color.New(color.FgYellow)

    fmt.Fprintln(w)
    cyan.Fprintf(w, "  %s\n", p.Name)
    dim.Fprintf(w, "  %s\n", p.Designation)
    field := func(label, v string) {
        if v == "" { return }
        fmt.Fprintf(w, "    %-20s %s\n", label+":", v)
    }
    field("Institute", p.Institute)
    field("Email", p.Email)
    field("LinkedIn", p.LinkedIn)
    field("Research Interests", p.ResearchInterests)
    if p.Outreach != nil { field("Outreach", *p.Outreach) }
    if p.Website == models.LinkNotWorking {
        yellow.Fprintf(w, "    %-20s %s\n", "Website:", p.Website)
    } else {
        field("Website", p.Website)
    }
    if p.Summary != "" { fmt.Fprintf(w, "    %s\n", p.Summary) }
}
