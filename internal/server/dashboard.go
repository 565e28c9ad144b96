package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed index.html
var dashboardHTML []byte

// Dashboard serves the single-page command center shell. All data loads
// through the JSON API.
func (s *Server) Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}
