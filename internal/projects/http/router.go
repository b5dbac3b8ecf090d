package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.listSaved)
	rg.GET("/:id", h.get)
	rg.POST("/:id/start", h.start)
	rg.POST("/:id/messages", h.postMessage)
	rg.POST("/:id/save", h.save)
	rg.GET("/:id/code", h.downloadCode)
}
