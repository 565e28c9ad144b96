package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetInterventionQueue(c *gin.Context) {
	if s.interventionSvc == nil {
		AbortWithError(c, ErrServiceUnavailable)
		return
	}

	resp, err := s.interventionSvc.BuildQueue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		writeCSV(c, "interventions.csv", &resp)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
