// Course catalog and dashboard HTTP handlers.
//
// This file exposes:
//   - GET /courses/search?q=…   (course code lookup or free-text search)
//   - GET /me/dashboard         (the caller's swaps, offers and matches)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/course-swap-backend/internal/catalog"
	"github.com/tbourn/course-swap-backend/internal/utils"
)

// CourseSearchResponse answers a catalog query. Mode "lookup" fills Course,
// mode "search" fills Results.
type CourseSearchResponse struct {
	Mode    string                      `json:"mode" example:"lookup"`
	Course  *catalog.CourseWithSections `json:"course,omitempty"`
	Results []catalog.Result            `json:"results,omitempty"`
}

// SearchCourses godoc
// @ID          searchCourses
// @Summary     Look up or search courses
// @Description A course code such as "CS 180" resolves to the course and its sections (Purdue catalog, with an offline fallback).
// @Description Anything else is ranked against known course titles.
// @Tags        Courses
// @Produce     json
// @Security    BearerAuth
//
// @Param       q  query  string  true   "Course code or free text"  example(CS 180)
// @Param       k  query  int     false  "Max search results"        minimum(1) maximum(20) default(5)
//
// @Success     200  {object} handlers.CourseSearchResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     404  {object} handlers.ErrorResponse "Course not found"
// @Failure     503  {object} handlers.ErrorResponse "Catalog unavailable"
// @Router      /courses/search [get]
func (h *Handlers) SearchCourses(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q required")
		return
	}

	if _, _, err := catalog.ParseCourseInput(q); err == nil {
		cws, err := h.courses.Lookup(c.Request.Context(), q)
		if err != nil {
			failErr(c, err, "")
			return
		}
		ok(c, http.StatusOK, CourseSearchResponse{Mode: "lookup", Course: cws})
		return
	}

	k := utils.Clamp(utils.AtoiDefault(c.Query("k"), 5), 1, 20)
	ok(c, http.StatusOK, CourseSearchResponse{
		Mode:    "search",
		Results: h.courses.Search(c.Request.Context(), q, k),
	})
}

// Dashboard godoc
// @ID          myDashboard
// @Summary     The caller's dashboard
// @Description Swaps the caller listed (with offer counts), offers they made, and their matches with the counterpart's contact details.
// @Tags        Dashboard
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object} services.Dashboard
// @Header      200  {string} Cache-Control "no-store"
// @Failure     401  {object} handlers.ErrorResponse "Unauthenticated"
// @Failure     503  {object} handlers.ErrorResponse "Store unavailable"
// @Router      /me/dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	d, err := h.dash.For(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, "")
		return
	}
	ok(c, http.StatusOK, d)
}
