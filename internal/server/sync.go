package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
	"github.com/revops-labs/pulse/internal/seed"
)

// SyncPortfolio rebuilds the synthetic portfolio from scratch. Rate limited
// per client because a rebuild rewrites the whole accounts table.
func (s *Server) SyncPortfolio(c *gin.Context) {
	if !s.syncLimiter.Allow(c.ClientIP()) {
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	created, err := seed.Rebuild(s.db, s.genID, s.cfg.SeedSize)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.portfolioSvc != nil {
		s.portfolioSvc.InvalidateCache()
	}
	if s.activitySvc != nil {
		_ = s.activitySvc.Record(c.Request.Context(), activitydomain.ActorAPI, activitydomain.ActionPortfolioSynced, "portfolio", nil, map[string]any{
			"accounts": created,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "accounts": created})
}
