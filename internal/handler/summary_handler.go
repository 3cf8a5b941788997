package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openlms/enrollment-summary-api/internal/dto"
	"github.com/openlms/enrollment-summary-api/internal/models"
	"github.com/openlms/enrollment-summary-api/internal/service"
	appErrors "github.com/openlms/enrollment-summary-api/pkg/errors"
	"github.com/openlms/enrollment-summary-api/pkg/response"
)

type filterResolver interface {
	Resolve(ctx context.Context, principal *models.JWTClaims, raw service.RawFilter) (models.FilterSpec, error)
}

type summaryProvider interface {
	List(ctx context.Context, spec models.FilterSpec) (*dto.SummaryPage, error)
	UserStats(ctx context.Context, principal *models.JWTClaims, userID int64) (*models.UserEnrollmentStats, error)
}

// SummaryHandler exposes the enrollment summary reporting endpoints.
type SummaryHandler struct {
	filters   filterResolver
	summaries summaryProvider
	maxAge    time.Duration
}

// NewSummaryHandler constructs SummaryHandler.
func NewSummaryHandler(filters filterResolver, summaries summaryProvider, maxAge time.Duration) *SummaryHandler {
	if maxAge <= 0 {
		maxAge = 5 * time.Minute
	}
	return &SummaryHandler{filters: filters, summaries: summaries, maxAge: maxAge}
}

// List godoc
// @Summary List enrollment summaries
// @Tags Summaries
// @Produce json
// @Param user_id query int false "Filter by user (staff only for foreign ids)"
// @Param active query string false "Filter by active status (true/false)"
// @Param course_key query string false "Filter by course key"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} dto.SummaryPage
// @Router /summary [get]
func (h *SummaryHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	raw := service.RawFilter{
		UserID:    c.Query("user_id"),
		Active:    c.Query("active"),
		CourseKey: c.Query("course_key"),
		Page:      c.Query("page"),
		PageSize:  c.Query("page_size"),
	}

	spec, err := h.filters.Resolve(c.Request.Context(), claims, raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	page, err := h.summaries.List(c.Request.Context(), spec)
	if err != nil {
		response.Error(c, err)
		return
	}

	page.Next, page.Previous = response.PageLinks(c.Request, page.Page, page.TotalPages)

	response.Fresh(c, h.maxAge)
	if etag := response.ETag(page.Results); etag != "" {
		c.Header("ETag", etag)
	}
	c.JSON(http.StatusOK, page)
}

// UserStats godoc
// @Summary Enrollment statistics for one user
// @Tags Summaries
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserEnrollmentStats
// @Router /summary/users/{id}/stats [get]
func (h *SummaryHandler) UserStats(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidParameter, "user id must be a valid positive integer"))
		return
	}

	stats, err := h.summaries.UserStats(c.Request.Context(), claims, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}
