package app

import (
	"learnhub_backend/docs"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	a.registerPublicRoutes(router, c, cfg)
	a.registerStudentRoutes(router, c, cfg)
	a.registerInstructorRoutes(router, c, cfg)
}

// Public routes: browsing never requires an account. Course detail takes
// an optional token so logged-in viewers see their enrollment state.
func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", middleware.OptionalAuth(cfg), c.course.GetCourse)
		public.GET("/courses/:id/reviews", c.review.ListReviews)
	}
}

func (a *App) registerStudentRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(cfg))
	{
		authorized.GET("/auth/me", c.auth.Me)

		authorized.GET("/users/profile", c.user.GetProfile)
		authorized.PUT("/users/profile", c.user.UpdateProfile)
		authorized.PUT("/users/avatar", c.user.UpdateAvatar)
		authorized.GET("/users/courses", c.user.ListEnrolled)

		authorized.GET("/users/cart", c.user.GetCart)
		authorized.POST("/users/cart/:id", c.user.AddToCart)
		authorized.DELETE("/users/cart/:id", c.user.RemoveFromCart)

		authorized.POST("/courses/:id/enroll", c.user.EnrollFree)
		authorized.POST("/courses/:id/reviews", c.review.CreateReview)

		authorized.POST("/progress/lectures/:id/toggle", c.progress.ToggleLecture)
		authorized.GET("/progress/courses/:id", c.progress.GetCompletion)
		authorized.POST("/progress/courses/:id/touch", c.progress.TouchLastAccessed)

		authorized.POST("/checkout", c.checkout.InitiateCheckout)
		authorized.POST("/checkout/confirm", c.checkout.ConfirmPayment)
		authorized.GET("/purchases", c.checkout.ListPurchased)
		authorized.GET("/purchases/:id", c.checkout.PurchaseStatus)

		authorized.POST("/lectures/:id/notes", c.note.CreateNote)
		authorized.GET("/lectures/:id/notes", c.note.ListNotes)
		authorized.PUT("/notes/:id", c.note.UpdateNote)
		authorized.DELETE("/notes/:id", c.note.DeleteNote)
	}
}

func (a *App) registerInstructorRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	instructor := router.Group("/api/instructor")
	instructor.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Instructor))
	{
		instructor.GET("/courses", c.course.ListMyCourses)
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)

		instructor.POST("/courses/:id/sections", c.course.AddSection)
		instructor.PUT("/sections/:id", c.course.UpdateSection)
		instructor.DELETE("/sections/:id", c.course.DeleteSection)

		instructor.POST("/sections/:id/lectures", c.course.AddLecture)
		instructor.PUT("/lectures/:id", c.course.UpdateLecture)
		instructor.DELETE("/lectures/:id", c.course.DeleteLecture)
	}
}
