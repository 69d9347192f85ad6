package projection

import (
	"net/http"
	"strings"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	httperr "github.com/aevon-lab/nrega-dashboard/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the read API on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/api/districts/:state", s.HandleDistricts)
	r.GET("/api/district/:state/:districtCode", s.HandleDistrict)
	r.GET("/api/stats/:state", s.HandleStats)
	r.GET("/api/years/:state", s.HandleYears)
	r.GET("/api/health", s.HandleHealth)
}

// HandleDistricts handles GET /api/districts/:state?fin_year=
func (s *Service) HandleDistricts(c *gin.Context) {
	state := c.Param("state")
	finYear, ok := bindFinYear(c)
	if !ok {
		return
	}

	records := s.Districts(c.Request.Context(), state, finYear)
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success":    false,
			"error_type": httperr.HttpNotFoundError,
			"message":    "No data found for this state",
			"state":      state,
			"cached":     s.store.Len() > 0,
		})
		return
	}

	c.JSON(http.StatusOK, DistrictsResponse{
		Success:  true,
		Count:    len(records),
		Data:     records,
		LastSync: s.store.LastSync(),
	})
}

// HandleDistrict handles GET /api/district/:state/:districtCode
func (s *Service) HandleDistrict(c *gin.Context) {
	code := c.Param("districtCode")

	resp := s.District(c.Param("state"), code)
	if resp.Count == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success":       false,
			"error_type":    httperr.HttpNotFoundError,
			"message":       "No data found for this district",
			"district_code": code,
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleStats handles GET /api/stats/:state?fin_year=
func (s *Service) HandleStats(c *gin.Context) {
	finYear, ok := bindFinYear(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Stats(c.Param("state"), finYear))
}

// HandleYears handles GET /api/years/:state
func (s *Service) HandleYears(c *gin.Context) {
	state := c.Param("state")
	c.JSON(http.StatusOK, YearsResponse{
		Success: true,
		State:   state,
		Years:   s.store.DistinctYears(state),
	})
}

// HandleHealth handles GET /api/health
func (s *Service) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.Health())
}

// bindFinYear reads the optional fin_year query parameter, answering 400 when malformed.
func bindFinYear(c *gin.Context) (string, bool) {
	finYear := strings.TrimSpace(c.Query("fin_year"))
	if finYear != "" && !v1.ValidFinYear(finYear) {
		c.JSON(http.StatusBadRequest, httperr.New(
			httperr.HttpInvalidRequestError,
			"Invalid query parameters",
			"fin_year must look like YYYY-YYYY",
		))
		return "", false
	}
	return finYear, true
}
