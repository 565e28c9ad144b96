package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListActivity(c *gin.Context) {
	if s.activitySvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	limit, err := parseOptionalLimit(c.Query("limit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entries, err := s.activitySvc.Recent(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
