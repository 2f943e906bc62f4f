package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shipshape/backend/internal/application/verification"
)

// maxScanPages bounds a single scan upload
const maxScanPages = 10

// ScanHandler handles receipt scanning: page upload to blob storage,
// extraction, and presigned receipt downloads
type ScanHandler struct {
	BaseHandler
	scanService *verification.ScanService
	imageStore  verification.ReceiptImageStore
	presignTTL  time.Duration
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService *verification.ScanService, imageStore verification.ReceiptImageStore, presignTTL time.Duration) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
		imageStore:  imageStore,
		presignTTL:  presignTTL,
	}
}

// RegisterRoutes registers scan routes
func (h *ScanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	deliveries := rg.Group("/deliveries")
	{
		deliveries.POST("/scan", h.Scan)
		// the storage key contains slashes, so it travels as a query param
		deliveries.GET("/receipt-url", h.ReceiptURL)
	}
}

// Scan accepts a multipart upload of receipt pages, stores them, and builds
// a draft delivery from the recognized content. Form fields: "pages" (one
// file per receipt page, in order) and optional "supplier_id".
func (h *ScanHandler) Scan(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if !actor.IsRestaurant() {
		h.Forbidden(c, "Only restaurants can scan incoming deliveries")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		h.BadRequest(c, "Invalid multipart form: "+err.Error())
		return
	}
	files := form.File["pages"]
	if len(files) == 0 {
		h.BadRequest(c, "At least one receipt page is required")
		return
	}
	if len(files) > maxScanPages {
		h.BadRequest(c, fmt.Sprintf("At most %d receipt pages per scan", maxScanPages))
		return
	}

	var supplierID *uuid.UUID
	if raw := c.PostForm("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID")
			return
		}
		supplierID = &id
	}

	pages := make([]verification.PageImage, 0, len(files))
	for i, file := range files {
		key, err := h.storePage(c, actor.ID, file)
		if err != nil {
			h.InternalError(c, "Failed to store receipt page")
			return
		}
		pages = append(pages, verification.PageImage{Index: i, ImageKey: key})
	}

	result, err := h.scanService.Scan(c.Request.Context(), actor.ID, verification.ScanRequest{
		Pages:           pages,
		ReceiptImageKey: pages[0].ImageKey,
		SupplierID:      supplierID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// storePage uploads one page under a key scoped to the restaurant
func (h *ScanHandler) storePage(c *gin.Context, restaurantID uuid.UUID, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("receipts/%s/%s%s", restaurantID, uuid.NewString(), ext)

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.imageStore.Upload(c.Request.Context(), key, data, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// ReceiptURL returns a short-lived download URL for a stored receipt page.
// Keys are restaurant-scoped; only the owning restaurant may resolve them.
func (h *ScanHandler) ReceiptURL(c *gin.Context) {
	actor, ok := getPrincipal(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	key := c.Query("key")
	if key == "" {
		h.BadRequest(c, "Storage key is required")
		return
	}
	if !strings.HasPrefix(key, "receipts/"+actor.ID.String()+"/") {
		h.Forbidden(c, "Receipt does not belong to the caller")
		return
	}

	exists, err := h.imageStore.ObjectExists(c.Request.Context(), key)
	if err != nil {
		h.InternalError(c, "Failed to check receipt")
		return
	}
	if !exists {
		h.NotFound(c, "Receipt not found")
		return
	}

	url, expiresAt, err := h.imageStore.GenerateDownloadURL(c.Request.Context(), key, h.presignTTL)
	if err != nil {
		h.InternalError(c, "Failed to generate download URL")
		return
	}
	h.Success(c, gin.H{"url": url, "expires_at": expiresAt})
}
