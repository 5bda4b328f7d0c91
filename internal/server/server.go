/**
* Name: 			server.go
* Description: 		센서 릴레이 HTTP 서버 구성
* Workflow: 		CORS -> IP 별 요청 제한 -> 라우트(health, pair, sensor 페이지, ws, history, swagger)
 */
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	_ "RentalNegotiator/docs"
	"RentalNegotiator/internal/auth"
	"RentalNegotiator/internal/handler"
	"RentalNegotiator/internal/middleware"
	"RentalNegotiator/internal/relay"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	limit "github.com/yangxikun/gin-limit-by-key"
	"golang.org/x/time/rate"
)

type Options struct {
	Addr      string
	PublicURL string
	Hub       *relay.Hub
	Tokens    *auth.TokenManager
	TokenTTL  time.Duration
}

// NewRouter 는 릴레이 라우터를 만든다.
func NewRouter(opts Options) *gin.Engine {
	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	router.Use(cors.New(config))

	// WebSocket 프레임은 연결 하나로 오므로 HTTP 요청 단위 제한만 건다.
	router.Use(limit.NewRateLimiter(func(c *gin.Context) string {
		return c.ClientIP()
	}, func(c *gin.Context) (*rate.Limiter, time.Duration) {
		return rate.NewLimiter(rate.Every(100*time.Millisecond), 20), time.Hour
	}, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	}))

	pair := &handler.PairHandler{Hub: opts.Hub, Tokens: opts.Tokens, PublicURL: opts.PublicURL, TTL: opts.TokenTTL}
	sensor := &handler.SensorHandler{Hub: opts.Hub}

	router.GET("/health", pair.Health)
	router.POST("/pair", middleware.LocalOnly(), pair.Pair)
	router.GET("/sensor", middleware.PairingAuth(opts.Tokens), pair.SensorPage)
	router.GET("/ws/sensor", middleware.PairingAuth(opts.Tokens), sensor.HandleSensor)

	api := router.Group("/api").Use(middleware.LocalOnly())
	{
		api.GET("/history", handler.GetHistory)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return router
}

// Serve 는 ctx 가 끝날 때까지 릴레이를 띄워 둔다.
func Serve(ctx context.Context, opts Options) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, opts)
}

// ServeListener 는 이미 열어 둔 리스너로 릴레이를 띄운다.
func ServeListener(ctx context.Context, ln net.Listener, opts Options) error {
	srv := &http.Server{Handler: NewRouter(opts)}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serve(): sensor relay listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] Serve(): relay shutdown: %v", err)
		}
		return <-errCh
	}
}
