package server

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	interventiondomain "github.com/revops-labs/pulse/internal/intervention/domain"
	"github.com/revops-labs/pulse/internal/observability/logger"
	portfoliodomain "github.com/revops-labs/pulse/internal/portfolio/domain"
)

func writeCSV(c *gin.Context, filename string, data interface{}) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	writer := csv.NewWriter(c.Writer)
	defer func() {
		writer.Flush()
		// Per-row write errors surface here; the response is already
		// streaming, so a truncated export can only be logged.
		if err := writer.Error(); err != nil {
			logger.FromContext(c.Request.Context()).Warn("csv export failed",
				zap.String("filename", filename),
				zap.Error(err),
			)
		}
	}()

	switch v := data.(type) {
	case *interventiondomain.QueueResponse:
		_ = writer.Write([]string{
			"Account", "Tier", "CSM Owner", "ARR", "Health Score",
			"Days Since Last Touch", "Renewal Days Remaining",
			"Risk Status", "Recommended Action", "Rationale",
		})
		for _, e := range v.Entries {
			_ = writer.Write([]string{
				e.Name,
				e.Tier,
				e.CSMOwner,
				e.ARR.StringFixed(2),
				strconv.Itoa(e.HealthScore),
				strconv.Itoa(e.DaysSinceLastTouch),
				strconv.Itoa(e.RenewalDaysRemaining),
				e.RiskLabel,
				e.RecommendedAction,
				e.Rationale,
			})
		}
	case *portfoliodomain.Overview:
		_ = writer.Write([]string{"Metric", "Value"})
		_ = writer.Write([]string{"Total Accounts", strconv.Itoa(v.TotalAccounts)})
		_ = writer.Write([]string{"Total ARR", v.TotalARR.StringFixed(2)})
		_ = writer.Write([]string{"At-Risk ARR", v.AtRiskARR.StringFixed(2)})
		_ = writer.Write([]string{"Average Health", strconv.FormatFloat(v.AverageHealth, 'f', 1, 64)})
		_ = writer.Write([]string{"Renewals Due Soon", strconv.Itoa(v.RenewalsDueSoon)})
		for _, sc := range v.StatusCounts {
			_ = writer.Write([]string{sc.Label + " Accounts", strconv.Itoa(sc.Count)})
		}
	default:
		// Unknown payloads export as an empty file.
	}
}
