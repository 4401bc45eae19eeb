package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/freightflowhq/freightflowbackend/cache"
	"github.com/freightflowhq/freightflowbackend/controllers"
	"github.com/freightflowhq/freightflowbackend/database"
	"github.com/freightflowhq/freightflowbackend/events"
	"github.com/freightflowhq/freightflowbackend/metrics"
	"github.com/freightflowhq/freightflowbackend/middleware"
	"github.com/freightflowhq/freightflowbackend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file")
	}

	ctx := context.Background()
	usersCol := database.OpenCollection("users")
	if err := utils.SeedAdminUser(ctx, usersCol); err != nil {
		log.Fatal(err)
	}

	rulesCache := cache.NewRulesCacheFromEnv()
	publisher := events.NewPublisherFromEnv()
	defer publisher.Close()

	r := gin.New()

	origins := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := map[string]bool{}
	for _, origin := range strings.Split(origins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
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
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/login", controllers.Login())
	r.POST("/auth/refresh", controllers.Refresh())
	r.POST("/auth/logout", controllers.Logout())

	// Public surface: customers submit requests and get instant estimates.
	r.POST("/quotations/requests", controllers.CreateQuoteRequest(publisher))
	r.POST("/quotations/calculate", controllers.CalculatePrice(rulesCache))

	staff := r.Group("/quotations")
	staff.Use(middleware.AuthMiddleware())
	{
		staff.GET("/requests", controllers.GetQuoteRequests())
		staff.GET("/requests/:id", controllers.GetQuoteRequest())
		staff.PUT("/requests/:id/quote", controllers.ProvideQuote(publisher))
		staff.PUT("/requests/:id/status", controllers.UpdateQuoteStatus(publisher))
		staff.POST("/requests/mark-expired", controllers.MarkExpiredQuotes(publisher))
		staff.GET("/requests/:id/notes", controllers.GetQuoteNotes())
		staff.POST("/requests/:id/notes", controllers.AddQuoteNote())

		staff.POST("/pricing-rules", controllers.CreatePricingRule(rulesCache))
		staff.GET("/pricing-rules", controllers.GetPricingRules())
		staff.GET("/pricing-rules/:id", controllers.GetPricingRule())
		staff.PUT("/pricing-rules/:id", controllers.UpdatePricingRule(rulesCache))
		staff.DELETE("/pricing-rules/:id", controllers.DeletePricingRule(rulesCache))

		staff.GET("/analytics", controllers.GetAnalytics())

		staff.POST("/users", middleware.RequireAdmin(), controllers.CreateUser())
		staff.POST("/users/me/password", controllers.ChangeMyPassword())
	}

	r.Run()
}
