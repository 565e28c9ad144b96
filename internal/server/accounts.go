package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
)

type createAccountRequest struct {
	Name        string          `json:"name"`
	Industry    string          `json:"industry"`
	Tier        string          `json:"tier"`
	ARR         decimal.Decimal `json:"arr"`
	Employees   int             `json:"employees"`
	RenewalDate time.Time       `json:"renewal_date"`
	LastTouchAt time.Time       `json:"last_touch_at"`
	HealthScore int             `json:"health_score"`
	CSMOwner    string          `json:"csm_owner"`
}

func (s *Server) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.accountSvc.Create(c.Request.Context(), accountdomain.CreateAccountRequest{
		Name:        strings.TrimSpace(req.Name),
		Industry:    strings.TrimSpace(req.Industry),
		Tier:        accountdomain.Tier(strings.ToLower(strings.TrimSpace(req.Tier))),
		ARR:         req.ARR,
		Employees:   req.Employees,
		RenewalDate: req.RenewalDate,
		LastTouchAt: req.LastTouchAt,
		HealthScore: req.HealthScore,
		CSMOwner:    strings.TrimSpace(req.CSMOwner),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.activitySvc != nil {
		targetID := resp.ID.String()
		_ = s.activitySvc.Record(c.Request.Context(), activitydomain.ActorAPI, "account.create", "account", &targetID, map[string]any{
			"name": resp.Name,
			"tier": string(resp.Tier),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListAccounts(c *gin.Context) {
	var query struct {
		Tier     string `form:"tier"`
		Industry string `form:"industry"`
		Search   string `form:"search"`
		Limit    string `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	limit := 0
	if raw := strings.TrimSpace(query.Limit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = parsed
	}

	resp, err := s.accountSvc.List(c.Request.Context(), accountdomain.ListAccountsRequest{
		Tier:     accountdomain.Tier(strings.ToLower(strings.TrimSpace(query.Tier))),
		Industry: strings.TrimSpace(query.Industry),
		Search:   strings.TrimSpace(query.Search),
		Limit:    limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetAccountByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.accountSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
