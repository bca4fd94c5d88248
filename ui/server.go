// Package ui serves the calibration dashboard: a read-only view over the
// persisted pattern store and iteration history.
package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"judgefit/app"
	"judgefit/internal"
	"judgefit/internal/config"
)

const pageShell = `<!DOCTYPE html>
<html>
<head>
<title>judgefit calibration</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; color: #222; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
</style>
</head>
<body>
%s
<p><a href="/">status</a> | <a href="/api/patterns">patterns</a> | <a href="/report.xlsx">download report</a></p>
</body>
</html>`

// Server is the dashboard web server.
type Server struct {
	router  *gin.Engine
	report  *app.ReportService
	learner *app.LearnerService
	monitor *app.MonitorService
	log     *internal.Logger
	cfg     config.ServerConfig
}

// NewServer wires the dashboard routes over the given services.
func NewServer(cfg config.ServerConfig, report *app.ReportService, learner *app.LearnerService, monitor *app.MonitorService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.GinMode)
	s := &Server{
		router:  gin.Default(),
		report:  report,
		learner: learner,
		monitor: monitor,
		log:     logger,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleStatus)
	s.router.GET("/report.xlsx", s.handleReportDownload)

	api := s.router.Group("/api")
	api.GET("/status", s.handleStatusJSON)
	api.GET("/patterns", s.handlePatterns)
	api.GET("/history", s.handleHistory)
}

// Run starts the dashboard server.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	s.log.Info("dashboard listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleStatus(c *gin.Context) {
	md, err := s.report.MarkdownSummary(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build summary: %v", err)
		return
	}
	page := fmt.Sprintf(pageShell, app.RenderHTML(md))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleStatusJSON(c *gin.Context) {
	ctx := c.Request.Context()
	div, err := s.monitor.CheckDivergence(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	conv, err := s.monitor.CheckConvergence(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	trend, err := s.monitor.Trend(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	action, hasAction, err := s.monitor.SuggestAction(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := gin.H{
		"divergence":  div,
		"convergence": conv,
		"trend":       trend,
	}
	if hasAction {
		resp["suggested_action"] = action
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handlePatterns(c *gin.Context) {
	store, err := s.learner.Store(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	proposals, err := s.learner.Provisional(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active":      store.Active(),
		"provisional": proposals,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	metrics, err := s.monitor.Metrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"iterations": metrics})
}

func (s *Server) handleReportDownload(c *gin.Context) {
	wb, err := s.report.BuildWorkbook(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to build report: %v", err)
		return
	}
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		c.String(http.StatusInternalServerError, "failed to serialize report: %v", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="calibration_report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
