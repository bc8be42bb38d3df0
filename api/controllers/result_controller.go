package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spillscope/spillscope-go/session"
	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// ResultController serves display blobs and exports predictions.
type ResultController struct {
	manager *session.Manager
}

func NewResultController(manager *session.Manager) *ResultController {
	return &ResultController{manager: manager}
}

// HandleGetImage serves a live blob handle (preview or result image).
// GET /api/self/v1/get-image?id=<handle>
func (ctrl *ResultController) HandleGetImage(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing required parameter: id"))
		return
	}
	blob, ok := ctrl.manager.Store().Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Image not found or released"))
		return
	}
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

// HandleDownload exports the current prediction as <variant>_prediction.<ext>.
// GET /api/self/v1/download?to=<optional folder override>
func (ctrl *ResultController) HandleDownload(c *gin.Context) {
	dir := c.Query("to")
	if dir == "" {
		dir = tool.GetCurrentConfig().DownloadFolder
	}
	if dir == "" {
		dir = "downloads"
	}
	path, err := ctrl.manager.Download(dir)
	if err != nil {
		if errors.Is(err, session.ErrNoDownloadableResult) {
			c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Export failed: "+err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.DownloadResponse{Path: path}))
}
