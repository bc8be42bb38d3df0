package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/spillscope/spillscope-go/tool"
)

const (
	defaultQRSize = 200
	maxQRSize     = 512
)

// HandleUILinkQR returns a PNG QR code encoding the daemon's UI URL, so the
// session can be opened from a phone on the same machine's browser tools.
// GET /api/self/v1/create-qr-code?size=200
func HandleUILinkQR(c *gin.Context) {
	size := defaultQRSize
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid size parameter"))
			return
		}
		size = n
	}
	if size > maxQRSize {
		size = maxQRSize
	}

	link := fmt.Sprintf("http://127.0.0.1:%d/", tool.GetCurrentConfig().Port)
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to encode QR code: "+err.Error()))
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
