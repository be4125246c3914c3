package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medbay/medbay-api/internal/middleware"
)

// RegisterRoutes wires the route groups and their guard chains. Guards run
// strictly before the terminal handler; a failing guard short-circuits.
func (h *Handler) RegisterRoutes(r *gin.Engine, limiter *middleware.RateLimiter) {
	authenticate := middleware.Authenticate(h.Users, h.Tokens, h.Audit)
	limited := middleware.RateLimit(limiter)

	r.POST("/", h.Logout)

	users := r.Group("/users")
	{
		users.POST("/new", limited, h.RegisterDoctor)
		users.POST("/login", limited, authenticate, h.DoctorLogin)

		v := users.Group("/v", middleware.Authorise(h.Tokens))
		{
			v.GET("/dashboard", h.DoctorDashboard)
			v.GET("/profile", h.DoctorProfile)
			v.POST("/update", h.UpdateDoctor)

			report := v.Group("/report", middleware.DoctorOnly(h.Tokens))
			{
				report.POST("/create", h.CreateReport)
				report.GET("/all", h.ListReports)
				report.GET("/mine", h.MyReports)
				report.POST("/fetch", h.FetchReport)
				report.GET("/k/:reportId", h.GetReport)
				report.POST("/k/:reportId/update", h.UpdateReport)
				report.POST("/k/:reportId/delete", h.DeleteReport)
			}
		}
	}

	admin := r.Group("/admin")
	{
		admin.POST("/new", limited, h.RegisterAdmin)
		admin.POST("/login", limited, authenticate, h.AdminLogin)

		va := admin.Group("/va", middleware.AdminOnly(h.Tokens))
		{
			va.GET("/dashboard", h.AdminDashboard)
			va.GET("/profile", h.AdminProfile)
			va.POST("/update", h.UpdateAdmin)
			va.POST("/doctor/endorse", h.EndorseDoctor)
			va.POST("/doctor/delete", h.DeleteDoctor)
			va.GET("/report/all", h.ListReports)
			va.POST("/report/fetch", h.FetchReport)
			va.GET("/report/k/:reportId", h.GetReport)
		}
	}
}
