package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oszuidwest/zwfm-webutils/internal/utils"
	"github.com/oszuidwest/zwfm-webutils/pkg/version"
)

// Health reports that the service is up.
func (h *Handlers) Health(c *gin.Context) {
	utils.Success(c, HealthResponse{
		Status:  "ok",
		Service: "webutils",
		Version: version.Version,
	})
}
