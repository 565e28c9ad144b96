package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetPortfolioOverview(c *gin.Context) {
	if s.portfolioSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.portfolioSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "overview.csv", &resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRiskByTier(c *gin.Context) {
	if s.portfolioSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	rows, err := s.portfolioSvc.RiskByTier(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (s *Server) GetHealthScatter(c *gin.Context) {
	if s.portfolioSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	points, err := s.portfolioSvc.HealthScatter(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": points})
}

func (s *Server) GetTopAccounts(c *gin.Context) {
	if s.portfolioSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit, err := parseOptionalLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	top, err := s.portfolioSvc.TopAccounts(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": top})
}

func (s *Server) GetSnapshotHistory(c *gin.Context) {
	if s.portfolioSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit, err := parseOptionalLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	snaps, err := s.portfolioSvc.SnapshotHistory(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": snaps})
}

func parseOptionalLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, newValidationError("limit", "invalid_limit", "invalid limit")
	}
	return limit, nil
}
