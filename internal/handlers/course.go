package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"learnhub/internal/models"
	"learnhub/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgCoursePublished = "Course published successfully!"

	errTitleLevelRequired = "Title and Level are required"
	errInvalidLevel       = "Invalid course level"
	errInvalidCourseID    = "Invalid Course ID format"
	errCourseNotFound     = "Course not found"
	errInvalidBodyPref    = "invalid body: "
)

type createCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"` // beginner | intermediate | advanced
}

type stepInput struct {
	Title  string                `json:"title"`
	Blocks []models.ContentBlock `json:"blocks"`
}

type publishRequest struct {
	Steps []stepInput `json:"steps"`
}

// courseIDParam validates that :courseId is numeric before any store access.
func courseIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("courseId"))
	if err != nil {
		respondError(c, http.StatusBadRequest, errInvalidCourseID)
		return 0, false
	}
	return id, true
}

// @Summary      List published courses
// @Tags         courses
// @Produce      json
// @Success      200  {object}  apiResponse  "array of courses"
// @Failure      500  {object}  apiResponse
// @Router       /api/courses [get]
func (h *Handler) listPublishedCourses(c *gin.Context) {
	courses, err := h.services.ListPublished(c.Request.Context())
	if err != nil {
		h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "courses_list_failed", err)
		return
	}
	respondData(c, http.StatusOK, courses)
}

// @Summary      Get a course with its steps
// @Description  Steps come back ordered; drafts are readable by ID.
// @Tags         courses
// @Produce      json
// @Param        courseId  path      int  true  "Course ID"
// @Success      200       {object}  apiResponse
// @Failure      400       {object}  apiResponse
// @Failure      404       {object}  apiResponse
// @Failure      500       {object}  apiResponse
// @Router       /api/courses/{courseId} [get]
func (h *Handler) getCourseByID(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		return
	}

	course, err := h.services.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			respondError(c, http.StatusNotFound, errCourseNotFound)
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "courses_get_failed", err, "course_id", id)
		return
	}
	respondData(c, http.StatusOK, course)
}

// @Summary      List the caller's courses
// @Description  Steps are reduced to their identifiers.
// @Tags         courses
// @Produce      json
// @Success      200  {object}  apiResponse  "array of owned courses"
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /api/courses/my-courses [get]
// @Security     BearerAuth
func (h *Handler) listOwnCourses(c *gin.Context) {
	courses, err := h.services.ListOwned(c.Request.Context(), callerID(c))
	if err != nil {
		h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "courses_list_owned_failed", err, "user_id", callerID(c))
		return
	}
	respondData(c, http.StatusOK, courses)
}

// @Summary      Create a course draft
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        body  body      createCourseRequest  true  "New course"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Failure      500   {object}  apiResponse
// @Router       /api/courses [post]
// @Security     BearerAuth
func (h *Handler) createCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errTitleLevelRequired)
		return
	}

	course, err := h.services.Create(c.Request.Context(), callerID(c), service.CreateCourseParams{
		Title:       req.Title,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTitleLevelRequired):
			respondError(c, http.StatusBadRequest, errTitleLevelRequired)
		case errors.Is(err, service.ErrInvalidCourseLevel):
			respondError(c, http.StatusBadRequest, errInvalidLevel)
		default:
			h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "courses_create_failed", err, "user_id", callerID(c))
		}
		return
	}

	respondData(c, http.StatusCreated, course)
}

// @Summary      Publish course content
// @Description  Replaces the course's step set wholesale and marks it published.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        courseId  path      int             true  "Course ID"
// @Param        body      body      publishRequest  true  "Ordered steps"
// @Success      200       {object}  apiResponse
// @Failure      400       {object}  apiResponse
// @Failure      401       {object}  apiResponse
// @Failure      404       {object}  apiResponse
// @Failure      500       {object}  apiResponse
// @Router       /api/courses/{courseId}/publish [post]
// @Security     BearerAuth
func (h *Handler) publishCourse(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		return
	}

	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errInvalidBodyPref+err.Error())
		return
	}

	steps := make([]service.StepInput, 0, len(req.Steps))
	for _, st := range req.Steps {
		steps = append(steps, service.StepInput{Title: st.Title, Blocks: st.Blocks})
	}

	if err := h.services.Publish(c.Request.Context(), id, callerID(c), steps); err != nil {
		switch {
		// An owner mismatch answers like a missing course so course IDs are
		// not probeable by other accounts.
		case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrNotCourseOwner):
			respondError(c, http.StatusNotFound, errCourseNotFound)
		default:
			h.logAndRespondError(c, http.StatusInternalServerError, errInternal, "courses_publish_failed", err, "course_id", id, "user_id", callerID(c))
		}
		return
	}

	respondMessage(c, http.StatusOK, msgCoursePublished, nil)
}
