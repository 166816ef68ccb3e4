package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/subplan-io/subplan-api/internal/middleware"
	"github.com/subplan-io/subplan-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Teachers      *TeacherHandler
	Classes       *ClassHandler
	TimeSlots     *TimeSlotHandler
	Absences      *AbsenceHandler
	Coverage      *CoverageHandler
	Substitutions *SubstitutionHandler
}

// Register mounts every API route under the prefix group. Reads are
// open; every mutating route requires a valid access token.
func Register(group *gin.RouterGroup, h Handlers, metrics *service.MetricsService, jwtSecret string, exportsEnabled bool) {
	group.Use(middleware.Metrics(metrics))
	auth := middleware.JWT(jwtSecret)

	teachers := group.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.POST("", auth, h.Teachers.Create)
		teachers.PUT("/:id", auth, h.Teachers.Update)
		teachers.DELETE("/:id", auth, h.Teachers.Delete)

		teachers.GET("/:id/absences", h.Absences.ListForTeacher)
		teachers.PUT("/:id/absences", auth, h.Absences.SetForDate)
	}
	group.DELETE("/absences/:id", auth, h.Absences.Delete)

	classes := group.Group("/classes")
	{
		classes.GET("", h.Classes.List)
		classes.GET("/:id", h.Classes.Get)
		classes.POST("", auth, h.Classes.Create)
		classes.PUT("/:id", auth, h.Classes.Update)
		classes.DELETE("/:id", auth, h.Classes.Delete)
	}

	group.GET("/time-slots", h.TimeSlots.List)
	group.PUT("/time-slots", auth, h.TimeSlots.Replace)

	group.GET("/coverage/affected-lessons", h.Coverage.AffectedLessons)
	if exportsEnabled {
		group.GET("/coverage/uncovered/export", h.Coverage.ExportUncovered)
	}

	group.POST("/substitutions/recommend", h.Substitutions.Recommend)
	group.POST("/substitutions", auth, h.Substitutions.Confirm)
}
