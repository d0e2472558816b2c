package routes

import (
	"labdesk/admin"
	"labdesk/auth"
	"labdesk/booking"
	"labdesk/middleware"
	"labdesk/profile"
	"labdesk/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/signup", rl.Limit(middleware.RequireAnonymous(h.Signup)))
	router.POST("/api/login", rl.Limit(middleware.RequireAnonymous(h.Login)))
	router.POST("/api/auth/logout", middleware.RequireLogin(h.Logout))

	router.GET("/api/chat/key", h.RelayKey)
	router.GET("/api/chat/ticket", middleware.RequireLogin(h.RelayTicket))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler) {
	router.GET("/api/profile", middleware.RequireLogin(h.Get))
	router.PATCH("/api/profile", middleware.RequireLogin(h.Update))
	router.POST("/api/profile/password", middleware.RequireLogin(h.ChangePassword))
}

func AddAdminRoutes(router *httprouter.Router, h *admin.Handler) {
	router.GET("/api/admin/users", middleware.RequireAdmin(h.ListUsers))
	router.PATCH("/api/admin/user/:id", middleware.RequireAdmin(h.ApproveUser))
	router.DELETE("/api/admin/user/:id", middleware.RequireAdmin(h.DenyUser))
	router.PATCH("/api/admin/booking/:id", middleware.RequireAdmin(h.SetBookingStatus))
}

func AddBookingRoutes(router *httprouter.Router, h *booking.Handler, rl *ratelim.RateLimiter) {
	router.GET("/api/bookings", middleware.RequireLogin(h.List))
	router.POST("/api/bookings", rl.Limit(h.Create)) // guests may book too
	router.DELETE("/api/bookings/:id", middleware.RequireLogin(h.Delete))
	router.GET("/api/bookings/:id/confirmation", middleware.RequireLogin(h.Confirmation))

	router.GET("/api/timeslots", h.ListTimeslots)
	router.POST("/api/timeslots", middleware.RequireAdmin(h.CreateTimeslot))
	router.DELETE("/api/timeslots/:id", middleware.RequireAdmin(h.DeleteTimeslot))

	router.GET("/api/testbeds", h.ListTestbeds)
	router.POST("/api/testbeds", middleware.RequireAdmin(h.CreateTestbed))
	router.DELETE("/api/testbeds/:id", middleware.RequireAdmin(h.DeleteTestbed))

	router.GET("/ws/bookings/:date", booking.HandleWS)
}
