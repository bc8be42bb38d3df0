package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// ServiceController reports inference-service health and serves the
// persisted daemon configuration.
type ServiceController struct {
	prober *inference.Prober
}

func NewServiceController(prober *inference.Prober) *ServiceController {
	return &ServiceController{prober: prober}
}

// HandleServiceHealth probes the remote service (rate-limited; returns the
// cached result when the probe budget is exhausted).
// GET /api/self/v1/service-health
func (ctrl *ServiceController) HandleServiceHealth(c *gin.Context) {
	health := ctrl.prober.Check(c.Request.Context())
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(health))
}

// HandleConfigGet returns the persisted configuration.
// GET /api/self/v1/config
func HandleConfigGet(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(tool.GetCurrentConfig()))
}

// HandleConfigPatch updates persisted configuration fields. Service URL and
// port changes take effect on restart; the download folder applies
// immediately.
// PATCH /api/self/v1/config
func HandleConfigPatch(c *gin.Context) {
	updated := *tool.GetCurrentConfig()
	var patch types.AppConfig
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if patch.ServiceURL != "" {
		updated.ServiceURL = patch.ServiceURL
	}
	if patch.Port != 0 {
		updated.Port = patch.Port
	}
	if patch.DownloadFolder != "" {
		updated.DownloadFolder = patch.DownloadFolder
	}
	if patch.RequestTimeoutSec != 0 {
		updated.RequestTimeoutSec = patch.RequestTimeoutSec
	}
	tool.PersistAppConfig(&updated)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(updated))
}
