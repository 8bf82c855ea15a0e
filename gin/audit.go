package gin

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/siteaudit"
	"github.com/gin-gonic/gin"
)

// auditRequest is the body of POST /api/audit.
type auditRequest struct {
	URL        string            `json:"url" binding:"required,url"`
	PageLimit  int               `json:"pageLimit"`
	Blacklist  []string          `json:"blacklist"`
	Headers    map[string]string `json:"headers"`
	UseSitemap bool              `json:"useSitemap"`
	Save       bool              `json:"save"`
}

// savedAuditResponse is returned when an audit request asks to be saved.
type savedAuditResponse struct {
	ID     string                 `json:"id"`
	Report *siteaudit.AuditReport `json:"report"`
}

func (s *Server) handleAudit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.Save && s.Audits == nil {
		writeError(c, siteaudit.Errorf(siteaudit.EINVALID, "Audit history is not enabled."))
		return
	}

	report, err := s.Auditor.Audit(c.Request.Context(), req.URL, siteaudit.CrawlOptions{
		Headers:    req.Headers,
		Blacklist:  req.Blacklist,
		PageLimit:  req.PageLimit,
		UseSitemap: req.UseSitemap,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if !req.Save {
		c.JSON(http.StatusOK, report)
		return
	}

	audit := &siteaudit.Audit{URL: req.URL, Report: report}
	if err := s.Audits.CreateAudit(c.Request.Context(), audit); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, savedAuditResponse{ID: audit.ID, Report: report})
}

func (s *Server) handleListAudits(c *gin.Context) {
	var filter siteaudit.AuditFilter
	if u := c.Query("url"); u != "" {
		filter.URL = &u
	}

	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		writeError(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		writeError(c, err)
		return
	}

	audits, err := s.Audits.FindAudits(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audits": audits})
}

func (s *Server) handleGetAudit(c *gin.Context) {
	audit, err := s.Audits.FindAuditByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, audit)
}

func (s *Server) handleDeleteAudit(c *gin.Context) {
	if err := s.Audits.DeleteAudit(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryInt parses a non-negative integer query parameter. A missing
// parameter is zero.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, siteaudit.Errorf(siteaudit.EINVALID, "Invalid %s: %q.", name, raw)
	}
	return n, nil
}
