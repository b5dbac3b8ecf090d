package userdata

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avan-studio/avan-backend/internal/auth"
)

// maxImportBytes bounds an uploaded data file.
const maxImportBytes = 10 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/data/export", h.export)
	rg.POST("/data/import", h.importData)
}

func (h *Handler) export(c *gin.Context) {
	data, err := h.svc.Export(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="avan_data_%d.json"`, time.Now().UnixMilli()))
	c.JSON(http.StatusOK, data)
}

// importData accepts the file either as a multipart "file" field or as the raw body.
func (h *Handler) importData(c *gin.Context) {
	var body []byte
	var err error

	if c.ContentType() == "multipart/form-data" {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidImport.Error()})
			return
		}
		f, oerr := fh.Open()
		if oerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidImport.Error()})
			return
		}
		defer f.Close()
		body, err = io.ReadAll(io.LimitReader(f, maxImportBytes))
	} else {
		body, err = io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": ErrInvalidImport.Error()})
		return
	}

	n, err := h.svc.Import(c.Request.Context(), auth.UserFirebaseUID(c), body)
	if err != nil {
		if errors.Is(err, ErrInvalidImport) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "imported": n})
}
