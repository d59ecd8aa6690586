// internal/router/router.go
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/tauro-app/tauro-backend/internal/config"
	"github.com/tauro-app/tauro-backend/internal/handlers"
	"github.com/tauro-app/tauro-backend/internal/middleware"
	"github.com/tauro-app/tauro-backend/internal/services"
)

// Initialize builds the engine. The returned stop func releases background
// workers started for it and must be called once the engine is done serving.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, func(), error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	materialService := services.NewMaterialService(db)
	garmentService := services.NewGarmentService(db)
	pricingService := services.NewPricingService(services.NewGormCatalogStore(db), cfg.Pricing)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	materialHandler := handlers.NewMaterialHandler(materialService)
	garmentHandler := handlers.NewGarmentHandler(garmentService, storageService)
	pricingHandler := handlers.NewPricingHandler(pricingService)

	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)

	// Initialize Gin router
	r := gin.New()
	if cfg.Storage.MaxImageSize > 0 {
		r.MaxMultipartMemory = cfg.Storage.MaxImageSize
	}

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.AuditLogMiddleware(db))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(limiter.Middleware())

	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		sizeGroups := v1.Group("/size-groups")
		{
			sizeGroups.GET("", pricingHandler.GetSizeGroups)
			sizeGroups.GET("/by-garment", pricingHandler.GetSizeGroupsByGarmentName)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", materialHandler.GetMaterials)
			materials.POST("", materialHandler.CreateMaterial)
			materials.GET("/:id", materialHandler.GetMaterial)
			materials.PUT("/:id", materialHandler.UpdateMaterial)
			materials.DELETE("/:id", materialHandler.DeleteMaterial)
		}

		garments := v1.Group("/garments")
		{
			garments.GET("", garmentHandler.GetGarments)
			garments.POST("", garmentHandler.CreateGarment)
			garments.GET("/:id", garmentHandler.GetGarment)
			garments.PUT("/:id", garmentHandler.UpdateGarment)
			garments.DELETE("/:id", garmentHandler.DeleteGarment)
			garments.POST("/:id/image", garmentHandler.UploadImage)
			garments.GET("/:id/size-groups", pricingHandler.GetGarmentSizeGroups)

			garments.GET("/:id/materials", garmentHandler.GetGarmentMaterials)
			garments.POST("/:id/materials", garmentHandler.AssignMaterials)
			garments.PUT("/:id/materials/:assignmentId", garmentHandler.UpdateAssignment)
			garments.DELETE("/:id/materials/:assignmentId", garmentHandler.RemoveAssignment)
		}

		v1.POST("/budgets", pricingHandler.ComputeBudget)
	}

	// Local uploads are served from disk when S3 is not configured
	if !storageService.UsesS3() {
		r.Static("/uploads", cfg.Storage.LocalPath)
	}

	return r, limiter.Stop, nil
}
