// Package api wires repositories, services and handlers into the HTTP
// surface.
package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/storelab/commerce-api/app/address"
	"github.com/storelab/commerce-api/app/auth"
	"github.com/storelab/commerce-api/app/catalog"
	"github.com/storelab/commerce-api/app/users"
	"github.com/storelab/commerce-api/config"
	"github.com/storelab/commerce-api/imagestore"
	"github.com/storelab/commerce-api/models"
)

func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	usersRepo := models.NewUsersRepository(db)
	addressesRepo := models.NewAddressesRepository(db)
	productsRepo := models.NewProductsRepository(db)
	imagesRepo := models.NewImagesRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	remote := imagestore.New(cfg.ImageStoreURL, cfg.ImageUploadPreset, cfg.PlaceholderURL, cfg.ImageTimeout)

	authHandler := auth.NewHandler(usersRepo, tokens)
	userHandler := users.NewHandler(usersRepo)
	addressHandler := address.NewHandler(addressesRepo)
	catalogService := catalog.NewService(productsRepo, imagesRepo, categoriesRepo, remote)
	catalogHandler := catalog.NewHandler(productsRepo, catalogService)

	router := gin.Default()
	router.Use(auth.Authenticate(tokens, usersRepo))

	// token issuance
	router.POST("/auth/", authHandler.HandleLogin)
	router.POST("/auth/refresh/", authHandler.HandleRefresh)

	// user management
	router.POST("/register/", userHandler.HandleRegister)
	router.GET("/users/", auth.RequireAdmin(), userHandler.HandleList)

	user := router.Group("/users/:id", auth.RequireAuthenticated())
	{
		user.GET("/", userHandler.HandleGet)
		user.PATCH("/", userHandler.HandlePatch)
		user.DELETE("/", userHandler.HandleDelete)
	}

	profile := router.Group("/profile", auth.RequireAuthenticated())
	{
		profile.GET("/", userHandler.HandleProfile)
		profile.PATCH("/", userHandler.HandleProfilePatch)
		profile.DELETE("/", userHandler.HandleProfileDelete)

		profile.POST("/address/", addressHandler.HandleCreate)
		profile.GET("/address/", addressHandler.HandleGet)
		profile.PATCH("/address/", addressHandler.HandlePatch)
		profile.DELETE("/address/", addressHandler.HandleDelete)
	}

	// catalog: reads are public, writes are admin-only
	router.GET("/products/catalog/", catalogHandler.HandleCatalog)
	router.GET("/product/create/", catalogHandler.HandleAdminList)
	router.POST("/product/create/", auth.RequireAdmin(), catalogHandler.HandleCreate)
	router.GET("/product/:slug/", catalogHandler.HandleGet)
	router.PATCH("/product/:slug/", auth.RequireAdmin(), catalogHandler.HandlePatch)
	router.DELETE("/product/:slug/", auth.RequireAdmin(), catalogHandler.HandleDelete)

	return router
}
