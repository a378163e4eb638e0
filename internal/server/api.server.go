package serverApp

import (
	"context"
	"sync"
	"time"

	config "jengamart/configs"
	"jengamart/internal/pkg/clock"
	database "jengamart/internal/pkg/db"
	"jengamart/internal/pkg/middleware"
	mpesaPkg "jengamart/internal/pkg/mpesa"
	ordersPkg "jengamart/internal/pkg/orders"
	"jengamart/internal/pkg/poller"
	"jengamart/internal/pkg/rabbitmq"
	"jengamart/internal/pkg/redis"
	s3aws "jengamart/internal/pkg/storage/s3"
	"jengamart/internal/repository"
	checkoutRepo "jengamart/internal/repository/checkout"
	flowsessionRepo "jengamart/internal/repository/flowsession"

	checkoutHandler "jengamart/internal/handler/checkout"
	paymentHandler "jengamart/internal/handler/payment"
	checkoutService "jengamart/internal/service/checkout"
	paymentService "jengamart/internal/service/payment"

	"github.com/gin-gonic/gin"
)

// Setup initializes the HTTP server with middleware and routes
func Setup(
	engine *gin.Engine,
	ctx context.Context,
	wg *sync.WaitGroup,
	db *database.Database,
	redisClient redis.IRedis,
	rb *rabbitmq.ConnectionManager,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
	ordersClient ordersPkg.IOrders,
	mpesaClient mpesaPkg.IMpesa,
	env *config.Config,
	pollers *poller.Registry,
) {
	InitMiddleware(engine)

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		rabbitmqHealth := "unhealthy"
		redisHealth := "unhealthy"
		databaseHealth := "unhealthy"
		rbCon := rb.GetConnection()

		if db != nil && !db.IsCloseConnection() {
			databaseHealth = "healthy"
		}
		if rbCon != nil && !rbCon.IsClosed() {
			rabbitmqHealth = "healthy"
		}
		if redisClient != nil && redisClient.Ping() == nil {
			redisHealth = "healthy"
		}

		c.JSON(200, gin.H{
			"status": 200,
			"service": gin.H{
				"rabbitmq": gin.H{
					"status": rabbitmqHealth,
				},
				"redis": gin.H{
					"status": redisHealth,
				},
				"database": gin.H{
					"status": databaseHealth,
				},
			},
		})
	})

	e := engine.Group(BasePath())
	InitRoutes(e, ctx, db, redisClient, publisher, s3, ordersClient, mpesaClient, env, pollers)
}

// BasePath returns the base API path
func BasePath() string {
	return "/api"
}

// InitMiddleware initializes global middleware
func InitMiddleware(e *gin.Engine) {
	e.Use(middleware.CorsMiddleware())
	e.Use(middleware.RequestInit())
	e.Use(middleware.ResponseInit())
}

func InitRoutes(
	e *gin.RouterGroup,
	ctx context.Context,
	db *database.Database,
	redisClient redis.IRedis,
	publisher *rabbitmq.Publisher,
	s3 s3aws.Is3,
	ordersClient ordersPkg.IOrders,
	mpesaClient mpesaPkg.IMpesa,
	env *config.Config,
	pollers *poller.Registry,
) {
	// setup repo
	rp := repository.IRepository{
		Checkout:    checkoutRepo.NewRepo(db),
		FlowSession: flowsessionRepo.NewStore(redisClient),
	}

	locks := flowsessionRepo.NewKeyedMutex()
	clk := clock.NewSystem()

	// === Checkout ===
	CheckoutService := checkoutService.NewService(ctx, rp, ordersClient, publisher, s3, pollers, locks, clk, checkoutService.Options{
		ShippingFee:   int64(env.ShippingFee),
		PaymentWindow: time.Duration(env.PaymentWindowSec) * time.Second,
		EventsQueue:   env.EventsQueue,
	})
	CheckoutHandler := checkoutHandler.NewHandler(ctx, CheckoutService)
	CheckoutHandler.NewRoutes(e)

	// === Payment verification ===
	PaymentService := paymentService.NewService(ctx, rp, mpesaClient, CheckoutService, pollers, locks, clk,
		time.Duration(env.PollIntervalSec)*time.Second)
	PaymentHandler := paymentHandler.NewHandler(ctx, PaymentService)
	PaymentHandler.NewRoutes(e)
}
