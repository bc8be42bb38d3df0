package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spillscope/spillscope-go/session"
	"github.com/spillscope/spillscope-go/tool"
	"github.com/spillscope/spillscope-go/types"
)

// SessionController exposes the upload session over the local self API.
type SessionController struct {
	manager *session.Manager
}

func NewSessionController(manager *session.Manager) *SessionController {
	return &SessionController{manager: manager}
}

// HandleStatus returns the current session snapshot.
// GET /api/self/v1/status
func (ctrl *SessionController) HandleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.manager.Snapshot()))
}

// HandleSelectFile accepts a user-chosen file.
// POST /api/self/v1/select-file
// Supports two request formats:
// 1. multipart/form-data with a "file" field
// 2. JSON body with fileUrl (supports file:// protocol)
func (ctrl *SessionController) HandleSelectFile(c *gin.Context) {
	var fileName, fileType string
	var data []byte

	contentType := c.GetHeader("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request types.SelectFileRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
			return
		}
		if request.FileUrl == "" {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("fileUrl is required in JSON request"))
			return
		}
		name, detected, contents, err := tool.ReadFileURL(request.FileUrl)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read file: "+err.Error()))
			return
		}
		fileName, fileType, data = name, detected, contents
		if request.FileType != "" {
			fileType = request.FileType
		}
	} else {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Missing file field: "+err.Error()))
			return
		}
		opened, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to open uploaded file: "+err.Error()))
			return
		}
		defer func() {
			if err := opened.Close(); err != nil {
				tool.DefaultLogger.Errorf("Failed to close uploaded file: %v", err)
			}
		}()
		contents, err := io.ReadAll(opened)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to read uploaded file: "+err.Error()))
			return
		}
		fileName = fileHeader.Filename
		fileType = fileHeader.Header.Get("Content-Type")
		if fileType == "" {
			fileType = tool.DetectContentType(fileName)
		}
		data = contents
	}

	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("File data is empty"))
		return
	}

	if err := ctrl.manager.SelectFile(fileName, fileType, data); err != nil {
		if errors.Is(err, session.ErrInvalidInputKind) {
			c.JSON(http.StatusBadRequest, tool.FastReturnErrorWithData(err.Error(), map[string]any{"fileType": fileType}))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.manager.Snapshot()))
}

// HandleSelectVariant updates the analysis variant choice.
// POST /api/self/v1/variant
func (ctrl *SessionController) HandleSelectVariant(c *gin.Context) {
	var request types.SelectVariantRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if err := ctrl.manager.SelectVariant(request.Variant); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// HandleProcess triggers the submit/await/resolve cycle and blocks until the
// outcome is known. A trigger while a request is in flight is reported as a
// no-op rather than an error.
// POST /api/self/v1/process
func (ctrl *SessionController) HandleProcess(c *gin.Context) {
	started, err := ctrl.manager.Process(c.Request.Context())
	if err != nil {
		if errors.Is(err, session.ErrNoFileSelected) {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.ProcessResponse{
		Started:  started,
		Snapshot: ctrl.manager.Snapshot(),
	}))
}

// HandleReset clears the session back to Idle.
// POST /api/self/v1/reset
func (ctrl *SessionController) HandleReset(c *gin.Context) {
	ctrl.manager.Reset()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}
