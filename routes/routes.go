package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotel-chain/controllers"
	"hotel-chain/metrics"
	"hotel-chain/middleware"
)

type Options struct {
	CORSOrigins []string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter registers every route on a new engine.
func SetupRouter(
	rc *controllers.RoomController,
	ac *controllers.AccountController,
	tc *controllers.TransactionController,
	opts Options,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(opts.Logger, opts.Metrics))
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)

			rooms.POST("/:id/reservations", rc.ReserveRoom)
			rooms.DELETE("/:id/reservations", rc.EndReservation)
		}

		api.GET("/accounts/:address/balance", ac.GetBalance)
		api.GET("/transactions", tc.GetTransactions)
	}

	return r
}
