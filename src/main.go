package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"time"

	"travl/src/boot"
	"travl/src/common"
	"travl/src/config"
	"travl/src/lib"
	"travl/src/middlewares"
	"travl/src/validation"

	"github.com/covalenthq/lumberjack/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiPrefix string = "/api"
)

type services struct {
	bookings *common.BookingService
	payments *common.PaymentService
}

func setupRouter(c *config.Config, svc *services) *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders, lib.MetricsMiddleware)
	router.Use(corsMiddleware(c))
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"service":   c.ServiceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router = maintenanceModeMiddleware(router, c)

	stripeWebhookRoute(router, svc.bookings, c.Stripe.WebhookSecret)

	api := router.Group(apiPrefix)
	api.Use(middlewares.NewAuthMiddleware([]byte(c.JWTSecret)))
	bookingHandlers(api.Group("/bookings"), svc.bookings)
	paymentHandlers(api.Group("/payments"), svc.payments)
	return router
}

func maintenanceModeMiddleware(g *gin.Engine, c *config.Config) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		if c.MaintenanceMode {
			log.Println("server is under maintenance")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "server is under maintenance"})
			return
		}
	})
	return g
}

func corsMiddleware(c *config.Config) gin.HandlerFunc {
	if c.IsLocal() {
		return cors.Default()
	}
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", "Stripe-Signature")
	cc.AllowOriginFunc = func(origin string) bool {
		match, _ := regexp.MatchString(c.AppHost, origin)
		return c.AppHost != "" && match
	}
	cc.AllowCredentials = true
	return cors.New(cc)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Register(v)
	}
}

func initLogger(c *config.Config) {
	cwd, _ := os.Getwd()
	logDir := path.Join(cwd, c.LogDir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Printf("Could not create log directory: %s\n", err.Error())
		return
	}
	gin.ForceConsoleColor()

	f, _ := os.Create(path.Join(logDir, "api.log"))
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   path.Join(logDir, "server.log"),
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}))
}

func main() {
	if os.Getenv("API_ENV") == "" || os.Getenv("API_ENV") == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			log.Printf("No .env loaded: %s\n", err.Error())
		}
	}
	c := config.Get()
	initLogger(c)
	registerValidators()

	repo := boot.InitRepository(c)
	svc := &services{
		bookings: common.NewBookingService(repo, lib.NewEventPublisher(c)),
		payments: common.NewPaymentService(lib.NewStripeProcessor(lib.GetStripeClient()), boot.InitWalletStore()),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	boot.InitScheduler(c, svc.bookings)
	defer boot.StopScheduler()
	go boot.InitBroker(ctx, c)

	router := setupRouter(c, svc)
	log.Printf("%s listening on :%s\n", c.ServiceName, c.Port)
	if err := router.Run(":" + c.Port); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
