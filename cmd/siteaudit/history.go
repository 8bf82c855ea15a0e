package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/siteaudit"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := siteaudit.AuditFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	audits, err := deps.Audits.FindAudits(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	if len(audits) == 0 {
		fmt.Fprintln(deps.Stdout, "No saved audits. Use 'siteaudit audit --save' to create one.")
		return nil
	}

	for _, a := range audits {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  pages=%d errors=%d warnings=%d\n",
			a.ID,
			a.CreatedAt.Local().Format(time.DateTime),
			a.URL,
			a.PagesCrawled,
			a.TotalErrors,
			a.TotalWarnings,
		)
	}
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	rw, err := newReportWriter(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	audit, err := deps.Audits.FindAuditByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	return rw.WriteReport(deps.Stdout, audit.Report)
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Audits.DeleteAudit(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted audit %s\n", c.ID)
	return nil
}
