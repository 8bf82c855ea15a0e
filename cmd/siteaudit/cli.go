package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Config *Config

	Auditor siteaudit.Auditor
	Audits  siteaudit.AuditService

	// Archive receives crawled pages when the audit command is given a
	// directory.
	Archive *fs.Archive

	// Server runs the HTTP API. Set for the serve command only.
	Server Server
}

// Server is the part of the HTTP API the serve command drives.
type Server interface {
	ListenAndServe(ctx context.Context, addr string) error
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config    string `help:"Configuration file" type:"path" placeholder:"FILE"`
	DB        string `help:"Audit history database" type:"path" placeholder:"FILE"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
	LogFormat string `enum:"text,json" default:"text" help:"Log format (text, json)"`

	Audit  AuditCmd  `cmd:"" help:"Audit a website"`
	Serve  ServeCmd  `cmd:"" help:"Serve the HTTP API"`
	List   ListCmd   `cmd:"" help:"List saved audits"`
	Show   ShowCmd   `cmd:"" help:"Show a saved audit"`
	Delete DeleteCmd `cmd:"" help:"Delete a saved audit"`
}

// AuditCmd is the "audit" subcommand. Zero-valued flags fall back to the
// configuration file.
type AuditCmd struct {
	URL         string   `arg:"" help:"Website URL"`
	Limit       int      `short:"l" help:"Maximum pages to crawl"`
	Blacklist   []string `short:"b" sep:"none" help:"Skip URLs matching regex (repeatable)"`
	Header      []string `short:"H" sep:"none" help:"Request header as K=V (repeatable)"`
	Concurrency int      `short:"c" help:"Concurrent fetch limit"`
	Rate        float64  `help:"Requests per second per host"`
	RateBurst   int      `help:"Requests allowed at once per host when rate limited"`
	Sitemap     bool     `help:"Seed the crawl from /sitemap.xml"`
	Format      string   `short:"f" enum:"json,markdown" default:"json" help:"Output format (json, markdown)"`
	Save        bool     `short:"s" help:"Save the audit to history"`
	Output      string   `short:"o" type:"path" help:"Write the report to FILE instead of stdout" placeholder:"FILE"`
	Archive     string   `type:"path" help:"Save the HTML of crawled pages under DIR" placeholder:"DIR"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL   string `help:"Only audits of this URL"`
	Limit int    `short:"n" default:"20" help:"Maximum audits to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Audit ID"`
	Format string `short:"f" enum:"json,markdown" default:"markdown" help:"Output format (json, markdown)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID string `arg:"" help:"Audit ID"`
}
