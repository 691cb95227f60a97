package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"roomdesk/internal/app/dto"
	dashboardapp "roomdesk/internal/app/handlers/dashboard"
	"roomdesk/internal/app/queries"
)

type DashboardHandler struct {
	Queries queries.Bus
}

func (h DashboardHandler) Summary(c *gin.Context) {
	if h.Queries == nil {
		unavailable(c, "dashboard handler")
		return
	}
	query := dashboardapp.SummaryQuery{Account: c.GetHeader(accountHeader)}
	result, err := queries.Ask[dashboardapp.SummaryQuery, dto.Dashboard](c.Request.Context(), h.Queries, query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ DashboardHTTP = DashboardHandler{}
