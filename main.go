package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/models"
	"github.com/uni10/storefront-api/routes"
	"github.com/uni10/storefront-api/services"
)

// @title Storefront API
// @version 1.0
// @description Catalogue, checkout and order administration for the storefront.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("Starting Storefront API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitOrderCache(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to initialize recent orders cache: %v", err)
	}

	if cfg.UsesS3() {
		s3Service, err := services.InitS3Service(context.Background())
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		services.InitImageService(s3Service)
		log.Printf("Storing product images in S3 bucket %s", cfg.AWSS3Bucket)
	} else {
		services.InitLocalImageService(cfg.UploadDir)
		log.Printf("Storing product images in %s", cfg.UploadDir)
	}

	router := routes.NewRouter(routes.Options{
		Auth:         middleware.EnsureValidToken(cfg),
		OptionalAuth: middleware.OptionalToken(cfg),
		CORSOrigins:  cfg.CORSAllowedOrigins,
	})

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
