package handlers

import (
	"errors"
	"log"
	"net/http"

	"tagdo/internal/dto"
	"tagdo/internal/service"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	svc *service.TagService
}

func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{svc: svc}
}

// List godoc
// @Summary      List all tags with usage counts
// @Tags         tags
// @Produce      json
// @Success      200  {array}   dto.TagCountResponse
// @Failure      500  {object}  map[string]string
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	out := make([]dto.TagCountResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.TagCountResponse{ID: t.ID, Name: t.Name, Count: t.Count})
	}
	c.JSON(http.StatusOK, out)
}

// Create godoc
// @Summary      Create a tag, or return the existing one with the same canonical name
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTagRequest  true  "Tag body"
// @Success      200   {object}  dto.TagResponse  "tag already existed"
// @Success      201   {object}  dto.TagResponse  "tag created"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req dto.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag, created, err := h.svc.GetOrCreate(c.Request.Context(), req.Name)
	if err != nil {
		var tnErr *service.TagNameError
		if errors.As(err, &tnErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": tnErr.Error()})
			return
		}
		internalError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.TagResponse{ID: tag.ID, Name: tag.Name})
}

func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
