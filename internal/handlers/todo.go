package handlers

import (
	"errors"
	"net/http"
	"strconv"

	dom "tagdo/internal/domain"
	"tagdo/internal/dto"
	"tagdo/internal/repo"
	"tagdo/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.Ptr(),
		Completed:   req.Completed,
		Tags:        req.Tags,
	})
	if err != nil {
		var tnErr *service.TagNameError
		if errors.As(err, &tnErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": tnErr.Error()})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List todos with optional filtering
// @Tags         todos
// @Produce      json
// @Param        completed  query     bool    false  "Filter by completion"
// @Param        q          query     string  false  "Substring match on title/description"
// @Param        tags       query     string  false  "Comma-separated tag names"
// @Param        tagsMode   query     string  false  "and | or (default or)"
// @Param        limit      query     int     false  "Page size"
// @Param        offset     query     int     false  "Page offset"
// @Success      200  {array}   dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	in, ok := parseListQuery(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), in)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	t, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo (partial), optionally replacing its tag set
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Tags:        req.Tags,
	}
	if req.DueDate != nil {
		in.DueDate = req.DueDate.Ptr()
	}
	t, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		var tnErr *service.TagNameError
		if errors.As(err, &tnErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": tnErr.Error()})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "todo deleted"})
}

// AddTags godoc
// @Summary      Attach tags to a todo (idempotent)
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID"
// @Param        body  body      dto.AddTagsRequest  true  "Tag names"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /todos/{id}/tags [post]
func (h *TodoHandler) AddTags(c *gin.Context) {
	var req dto.AddTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.AddTags(c.Request.Context(), c.Param("id"), req.TagNames)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		var tnErr *service.TagNameError
		if errors.As(err, &tnErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": tnErr.Error()})
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// RemoveTag godoc
// @Summary      Detach a tag from a todo
// @Tags         todos
// @Param        id     path  string  true  "Todo ID"
// @Param        tagId  path  string  true  "Tag ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /todos/{id}/tags/{tagId} [delete]
func (h *TodoHandler) RemoveTag(c *gin.Context) {
	err := h.svc.RemoveTag(c.Request.Context(), c.Param("id"), c.Param("tagId"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "association not found"})
			return
		}
		internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseListQuery validates the GET /todos query params. On failure it writes
// a 400 and returns ok=false.
func parseListQuery(c *gin.Context) (service.ListTodosInput, bool) {
	var in service.ListTodosInput

	if raw := c.Query("completed"); raw != "" {
		switch raw {
		case "true":
			v := true
			in.Completed = &v
		case "false":
			v := false
			in.Completed = &v
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "completed must be true or false"})
			return in, false
		}
	}

	in.Query = c.Query("q")
	in.TagsCSV = c.Query("tags")

	switch mode := c.Query("tagsMode"); mode {
	case "", "or":
		in.TagsMode = repo.TagsModeOr
	case "and":
		in.TagsMode = repo.TagsModeAnd
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "tagsMode must be and or or"})
		return in, false
	}

	var ok bool
	if in.Limit, ok = parseNonNegativeInt(c, "limit"); !ok {
		return in, false
	}
	if in.Offset, ok = parseNonNegativeInt(c, "offset"); !ok {
		return in, false
	}
	return in, true
}

func parseNonNegativeInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	tags := make([]dto.TagResponse, 0, len(t.Tags))
	for _, tag := range t.Tags {
		tags = append(tags, dto.TagResponse{ID: tag.ID, Name: tag.Name})
	}
	return dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Tags:        tags,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
