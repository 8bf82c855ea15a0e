package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/crawl"
	"github.com/fwojciec/siteaudit/fs"
	sagin "github.com/fwojciec/siteaudit/gin"
	"github.com/fwojciec/siteaudit/goquery"
	sahttp "github.com/fwojciec/siteaudit/http"
	saprom "github.com/fwojciec/siteaudit/prometheus"
	saslog "github.com/fwojciec/siteaudit/slog"
	"github.com/fwojciec/siteaudit/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A .env file is optional.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and configuration paths. Empty values are resolved from the
	// environment and the XDG directories. Flags override both.
	DBPath     string
	ConfigPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing. When set they are used instead of
	// the real implementations.
	Auditor siteaudit.Auditor
	Audits  siteaudit.AuditService
	Server  Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteaudit"),
		kong.Description("Crawl a website and report SEO issues, social links and contact details."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified. Run 'siteaudit --help' to see available commands")
		return fmt.Errorf("no command specified")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	cfgFile := configPath(firstNonEmpty(cli.Config, m.ConfigPath))
	cfg, err := LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to load config: %s\n", err)
		return err
	}
	cfg.ApplyEnv(os.Getenv)
	deps.Config = cfg

	logger := saslog.NewLogger(stderr, cli.Verbose, cli.LogFormat == "json")
	deps.Logger = logger

	cmd := strings.Fields(kongCtx.Command())[0]

	if needsHistory(cmd, cli) {
		audits, err := m.openAudits(cli.DB, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Set %s to use a different database path\n", EnvDB)
			fmt.Fprintf(stderr, "error: %s\n", err)
			return err
		}
		defer m.Close()
		deps.Audits = audits
	}

	switch cmd {
	case "audit":
		cli.Audit.ApplyFlags(cfg)
		if dir := cli.Audit.Archive; dir != "" {
			archive, err := fs.NewArchive(filepath.Dir(dir), filepath.Base(dir))
			if err != nil {
				fmt.Fprintf(stderr, "error: %s\n", err)
				return err
			}
			deps.Archive = archive
		}
		deps.Auditor = m.Auditor
		if deps.Auditor == nil {
			deps.Auditor = newAuditor(cfg, logger, auditorHooks{
				archive:  deps.Archive,
				progress: func(e crawl.ProgressEvent) {
					fmt.Fprintln(stderr, crawl.FormatProgress(e))
				},
			})
		}

	case "serve":
		deps.Server = m.Server
		if deps.Server == nil {
			gin.SetMode(gin.ReleaseMode)
			metrics := saprom.NewMetrics()
			deps.Server = &sagin.Server{
				Auditor:           newAuditor(cfg, logger, auditorHooks{metrics: metrics}),
				Audits:            deps.Audits,
				Metrics:           metrics.Handler(),
				Token:             cfg.Server.Token,
				RequestsPerSecond: cfg.Server.RequestsPerSecond,
				Burst:             cfg.Server.Burst,
				Logger:            logger,
			}
		}
	}

	return kongCtx.Run(deps)
}

// openAudits returns the audit history service, opening the database
// unless a service was injected.
func (m *Main) openAudits(flag string, logger *slog.Logger) (siteaudit.AuditService, error) {
	if m.Audits != nil {
		return m.Audits, nil
	}

	path := dbPath(firstNonEmpty(flag, m.DBPath))
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		m.DB = nil
		return nil, fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	return saslog.NewLoggingAuditService(sqlite.NewAuditService(m.DB), logger), nil
}

// needsHistory reports whether cmd reads or writes saved audits.
func needsHistory(cmd string, cli *CLI) bool {
	switch cmd {
	case "serve", "list", "show", "delete":
		return true
	case "audit":
		return cli.Audit.Save
	}
	return false
}

// auditorHooks are the optional parts of an auditor. Nil fields are
// left out.
type auditorHooks struct {
	metrics  *saprom.Metrics
	archive  *fs.Archive
	progress crawl.ProgressFunc
}

// newAuditor wires the crawler and analysis passes from cfg.
func newAuditor(cfg *Config, logger *slog.Logger, hooks auditorHooks) siteaudit.Auditor {
	opts := []sahttp.Option{sahttp.WithTimeout(cfg.Timeout)}
	if cfg.UserAgent != "" {
		opts = append(opts, sahttp.WithUserAgent(cfg.UserAgent))
	}

	var fetcher siteaudit.Fetcher = sahttp.NewFetcher(opts...)
	if hooks.archive != nil {
		fetcher = fs.NewArchivingFetcher(fetcher, hooks.archive, logger)
	}
	if hooks.metrics != nil {
		fetcher = saprom.NewMetricsFetcher(fetcher, hooks.metrics)
	}
	fetcher = saslog.NewLoggingFetcher(fetcher, logger)

	sitemaps := saslog.NewLoggingSitemapService(
		sahttp.NewSitemapService(&http.Client{Timeout: cfg.Timeout}),
		logger,
	)

	// A zero rate leaves requests unthrottled.
	var limiter siteaudit.DomainLimiter
	if cfg.RateLimit > 0 {
		limiter = crawl.NewDomainLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	crawler := &crawl.Crawler{
		Fetcher:     fetcher,
		Links:       goquery.NewLinkExtractor(),
		Sitemaps:    sitemaps,
		RateLimiter: limiter,
		Concurrency: cfg.Concurrency,
		RetryDelays: crawl.BackoffDelays(cfg.Retries),
		Progress:    hooks.progress,
		Logger:      logger,
	}

	var auditor siteaudit.Auditor = &crawl.Auditor{
		Crawler: crawler,
		SEO:     goquery.NewSEOAnalyzer(),
		Social:  goquery.NewSocialExtractor(),
		Contact: goquery.NewContactExtractor(),
	}
	if hooks.metrics != nil {
		auditor = saprom.NewMetricsAuditor(auditor, hooks.metrics)
	}
	return saslog.NewLoggingAuditor(auditor, logger)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
