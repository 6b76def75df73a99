package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/uni10/storefront-api/controllers"
	"github.com/uni10/storefront-api/docs"
	"github.com/uni10/storefront-api/middleware"
)

// Options carries the authentication middlewares so tests can swap them
type Options struct {
	// Auth rejects requests without a valid token
	Auth gin.HandlerFunc
	// OptionalAuth attaches the caller when a token is sent
	OptionalAuth gin.HandlerFunc
	// CORSOrigins lists allowed origins; "*" allows all
	CORSOrigins []string
}

// NewRouter builds the engine with every /api/v1 route
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))

	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	Register(router.Group("/api/v1"), opts)
	return router
}

// Register mounts the API on group
func Register(v1 *gin.RouterGroup, opts Options) {
	auth := opts.Auth
	optional := opts.OptionalAuth
	admin := middleware.RequireAdmin()

	v1.GET("/health", controllers.HealthCheck)
	v1.GET("/database/status", controllers.DatabaseStatus)

	// Catalogue
	v1.GET("/categories", controllers.ListCategories)
	v1.GET("/products", controllers.ListProducts)
	v1.GET("/products/:idOrSlug", controllers.GetProduct)
	v1.GET("/uploads/:filename", controllers.GetUploadedImage)
	v1.GET("/settings/payment", controllers.GetPaymentSettings)

	// Orders
	orders := v1.Group("/orders")
	{
		orders.POST("", optional, controllers.CreateOrder)
		orders.GET("", auth, admin, controllers.ListOrders)
		orders.GET("/recent", optional, controllers.RecentOrders)
		orders.GET("/mine", auth, controllers.ListMyOrders)
		orders.GET("/:id", optional, controllers.GetOrder)
		orders.PUT("/:id", auth, admin, controllers.UpdateOrder)
		orders.POST("/:id/upi", optional, controllers.AttachUPIProof)
	}

	// Users
	users := v1.Group("/users", auth)
	{
		users.POST("", controllers.CreateUser)
		users.GET("/me", controllers.GetMyProfile)
		users.PUT("/me", controllers.UpdateMyProfile)
	}

	wishlist := v1.Group("/wishlist", auth)
	{
		wishlist.GET("", controllers.ListWishlist)
		wishlist.POST("", controllers.AddToWishlist)
		wishlist.DELETE("/:productId", controllers.RemoveFromWishlist)
	}

	support := v1.Group("/support", auth)
	{
		support.POST("/tickets", controllers.CreateTicket)
		support.GET("/tickets", controllers.ListMyTickets)
		support.GET("/tickets/:id", controllers.GetTicket)
		support.POST("/tickets/:id/replies", controllers.ReplyToTicket)

		support.GET("/admin/tickets", admin, controllers.AdminListTickets)
		support.GET("/admin/tickets/:id", admin, controllers.AdminGetTicket)
		support.PATCH("/admin/tickets/:id", admin, controllers.AdminUpdateTicket)
	}

	adminGroup := v1.Group("/admin", auth, admin)
	{
		adminGroup.GET("/orders/:id", controllers.GetAdminOrder)
		adminGroup.GET("/stats/overview", controllers.GetStatsOverview)

		adminGroup.GET("/categories", controllers.AdminListCategories)
		adminGroup.POST("/categories", controllers.CreateCategory)
		adminGroup.PATCH("/categories/:id", controllers.UpdateCategory)
		adminGroup.DELETE("/categories/:id", controllers.DeleteCategory)

		adminGroup.POST("/products", controllers.CreateProduct)
		adminGroup.PUT("/products/:id", controllers.UpdateProduct)
		adminGroup.DELETE("/products/:id", controllers.DeleteProduct)

		adminGroup.POST("/uploads", controllers.UploadImage)

		adminGroup.GET("/settings", controllers.GetSettings)
		adminGroup.PUT("/settings", controllers.UpdateSettings)

		adminGroup.GET("/users", controllers.AdminListUsers)
		adminGroup.DELETE("/users/:id", controllers.AdminDeleteUser)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Client-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
