// Package router wires the HTTP routes of huff16d.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seiflotfy/huff16/internal/handler"
)

// Dependencies are the handlers the routes dispatch to.
type Dependencies struct {
	CodecHandler *handler.CodecHandler
}

// Register mounts /healthz and the /v1 codec routes on r.
func Register(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/encode", d.CodecHandler.Encode)
		v1.POST("/decode", d.CodecHandler.Decode)
		v1.POST("/stats", d.CodecHandler.Stats)
	}
}
