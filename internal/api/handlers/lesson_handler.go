package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type LessonHandler struct {
	lessons services.LessonService
	log     *logger.Logger
}

func NewLessonHandler(lessons services.LessonService, log *logger.Logger) *LessonHandler {
	return &LessonHandler{lessons: lessons, log: log}
}

// POST /api/lesson-plans
func (h *LessonHandler) Generate(c *gin.Context) {
	var req models.LessonPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.lessons.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusCreated, plan)
}

// GET /api/lesson-plans?limit=&offset=
func (h *LessonHandler) List(c *gin.Context) {
	limit := queryInt(c, "limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	plans, err := h.lessons.ListPlans(c.Request.Context(), limit, offset)
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusOK, gin.H{"plans": plans, "limit": limit, "offset": offset})
}

// GET /api/lesson-plans/stats
func (h *LessonHandler) Stats(c *gin.Context) {
	stats, err := h.lessons.Stats(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusOK, stats)
}

// GET /api/lesson-plans/:id
func (h *LessonHandler) Get(c *gin.Context) {
	plan, err := h.lessons.GetPlan(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	utils.WriteJSONResponse(c, http.StatusOK, plan)
}

// DELETE /api/lesson-plans/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.lessons.DeletePlan(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
