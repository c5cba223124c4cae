package attachments

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sales_crm_backend/platform/httpkit"
)

const msgInvalidRequest = "invalid request"

type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	EntityType  string    `json:"entityType"`
	EntityID    uuid.UUID `json:"entityId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(a Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:entityType/:entityId", h.Upload)
	rg.GET("/:entityType/:entityId", h.ListByEntity)
	rg.GET("/:entityType/:entityId/:id/download-url", h.DownloadURL)
	rg.DELETE("/:entityType/:entityId/:id", h.Delete)
}

func (h *Handler) Upload(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing file upload", nil)
		return
	}
	body, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "unreadable file upload", nil)
		return
	}
	defer body.Close()

	attachment, err := h.svc.Upload(c.Request.Context(), UploadInput{
		EntityType:  c.Param("entityType"),
		EntityID:    entityID,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        body,
		UploadedBy:  identity.Name(),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, toResponse(attachment))
}

func (h *Handler) ListByEntity(c *gin.Context) {
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	attachments, err := h.svc.ListByEntity(c.Request.Context(), c.Param("entityType"), entityID)
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		out = append(out, toResponse(attachment))
	}
	httpkit.OK(c, out)
}

func (h *Handler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	link, expiresAt, err := h.svc.DownloadURL(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"url": link, "expiresAt": expiresAt})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"deleted": true})
}
