// Package server exposes the analysis pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nicoag/go-dota-insights/internal/analysis"
	"github.com/nicoag/go-dota-insights/internal/model"
)

// Runner is the slice of the pipeline the server needs.
type Runner interface {
	AnalyzeRecent(ctx context.Context, accountID int64) ([]*model.MatchAnalysis, error)
	AnalyzeMatch(ctx context.Context, accountID, matchID int64) (*model.MatchAnalysis, error)
}

// Server wires the pipeline into a gin router.
type Server struct {
	runner Runner
	log    *logrus.Logger
	engine *gin.Engine
}

// New builds the router.
func New(runner Runner, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	gin.SetMode(gin.ReleaseMode)
	s := &Server{runner: runner, log: log, engine: gin.New()}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", s.health)
	s.engine.GET("/api/players/:id/analyses", s.playerAnalyses)
	s.engine.GET("/api/players/:id/summary", s.playerSummary)
	s.engine.GET("/api/players/:id/matches/:matchID", s.playerMatch)
	return s
}

// Handler exposes the router for tests and custom servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("serving")
	return s.engine.Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) playerAnalyses(c *gin.Context) {
	accountID, ok := accountParam(c)
	if !ok {
		return
	}

	analyses, err := s.runner.AnalyzeRecent(c.Request.Context(), accountID)
	if err != nil {
		s.log.WithError(err).WithField("account_id", accountID).Error("analyze recent")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if countStr := c.Query("count"); countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be an integer"})
			return
		}
		analyses = analysis.Select(analyses, count, c.Query("pos1") == "true")
	} else if c.Query("pos1") == "true" {
		analyses = analysis.Select(analyses, len(analyses), true)
	}

	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

func (s *Server) playerSummary(c *gin.Context) {
	accountID, ok := accountParam(c)
	if !ok {
		return
	}

	analyses, err := s.runner.AnalyzeRecent(c.Request.Context(), accountID)
	if err != nil {
		s.log.WithError(err).WithField("account_id", accountID).Error("analyze recent")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, analysis.Summarize(analyses))
}

func (s *Server) playerMatch(c *gin.Context) {
	accountID, ok := accountParam(c)
	if !ok {
		return
	}
	matchID, err := strconv.ParseInt(c.Param("matchID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "match id must be an integer"})
		return
	}

	out, err := s.runner.AnalyzeMatch(c.Request.Context(), accountID, matchID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

func accountParam(c *gin.Context) (int64, bool) {
	accountID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account id must be an integer"})
		return 0, false
	}
	return accountID, true
}
