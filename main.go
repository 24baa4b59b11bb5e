package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nkpol/nkpolbackend/auth"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/controllers"
	"github.com/nkpol/nkpolbackend/database"
	"github.com/nkpol/nkpolbackend/middleware"
	"github.com/nkpol/nkpolbackend/storage"
	"github.com/nkpol/nkpolbackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := database.Connect(ctx, cfg.MongoURI, cfg.DatabaseName); err != nil {
		log.Fatal(err)
	}
	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal(err)
	}

	// seeding admin user
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal(err)
	}

	// construct the active adapter once so a bad storage mode or missing
	// provider credentials abort startup instead of failing the first upload
	if _, err := storage.New(cfg.Storage); err != nil {
		log.Fatal(err)
	}

	authn := auth.NewAuthenticator(
		auth.NewMongoUserStore(usersCol),
		auth.NewMongoRevocationStore(database.OpenCollection("revoked_tokens")),
		cfg.Auth,
	)

	logoValidator := utils.NewImageValidator(5)
	galleryValidator := utils.NewImageValidator(10)

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	log.Printf("Allowed origins: %v", allowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// login stays outside the guarded group so it is reachable unauthenticated
	r.POST("/auth/login", controllers.Login(authn, cfg.Auth.TokenTTL))

	r.GET("/services", controllers.GetServices())
	r.GET("/services/:id", controllers.GetService())
	r.GET("/gallery", controllers.GetGallery())
	r.GET("/testimonials", controllers.GetTestimonials())
	r.GET("/settings", controllers.GetSettings())

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authn))
	{
		admin.POST("/auth/logout", controllers.Logout(authn))
		admin.GET("/auth/me", controllers.Me())
		admin.POST("/auth/revoke", controllers.RevokeToken(authn))

		admin.POST("/services", controllers.AddService(cfg.Storage, logoValidator))
		admin.PATCH("/services/:id", controllers.UpdateService(cfg.Storage, logoValidator))
		admin.DELETE("/services/:id", controllers.DeleteService(cfg.Storage))

		admin.POST("/gallery", controllers.UploadGalleryImages(cfg.Storage, galleryValidator))
		admin.DELETE("/gallery/:id", controllers.DeleteGalleryImage(cfg.Storage))

		admin.POST("/testimonials", controllers.AddTestimonial(cfg.Storage, logoValidator))
		admin.PATCH("/testimonials/:id", controllers.UpdateTestimonial(cfg.Storage, logoValidator))
		admin.DELETE("/testimonials/:id", controllers.DeleteTestimonial(cfg.Storage))

		admin.PATCH("/settings", controllers.UpdateSettings())
		admin.POST("/settings/logo", controllers.UploadLogo(cfg.Storage, logoValidator))
		admin.GET("/storage/info", controllers.StorageInfo(cfg.Storage))

		admin.POST("/users", controllers.CreateUser())
		admin.POST("/users/me/password", controllers.ChangeMyPassword(authn))
	}

	// Server will listen on 0.0.0.0:8080 by default
	r.Run()
}
