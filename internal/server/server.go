package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudkitchen/backend/internal/config"
	"github.com/cloudkitchen/backend/internal/handler"
	appmw "github.com/cloudkitchen/backend/internal/middleware"
	"github.com/cloudkitchen/backend/internal/repository"
	"github.com/cloudkitchen/backend/internal/service"
	"github.com/cloudkitchen/backend/internal/storage"
	"github.com/cloudkitchen/backend/internal/stream"
	"github.com/cloudkitchen/backend/internal/ws"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e      *echo.Echo
	logger *zap.Logger
}

func New(db *gorm.DB, rdb *redis.Client, uploader *storage.Uploader, cfg *config.Config, logger *zap.Logger, sha, buildTime string) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			host := u.Hostname()
			if strings.HasSuffix(host, "vercel.app") || strings.HasSuffix(host, "web.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	menuRepo := repository.NewMenuItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	convRepo := repository.NewConversationRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	draftRepo := repository.NewDraftRepository(rdb, time.Duration(cfg.DraftTTLHours)*time.Hour)

	broker := stream.NewBroker(convRepo.ListMessages, logger)

	notifSvc := service.NewNotificationService(notifRepo)
	menuSvc := service.NewMenuService(menuRepo)
	orderSvc := service.NewOrderService(orderRepo, menuRepo, notifSvc, cfg.DeliveryFee)
	convSvc := service.NewConversationService(convRepo, draftRepo, broker, notifSvc)
	profileSvc := service.NewProfileService(profileRepo, convSvc)

	menuHandler := handler.NewMenuHandler(menuSvc, uploader)
	orderHandler := handler.NewOrderHandler(orderSvc)
	convHandler := handler.NewConversationHandler(convSvc, profileSvc)
	userHandler := handler.NewUserHandler(profileSvc, draftRepo)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	chatSocket := ws.NewChatSocketHandler(broker, convSvc, profileSvc, logger)

	authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID, profileRepo)
	if err != nil {
		return nil, err
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Storefront, no auth needed to browse.
	api.GET("/menu", menuHandler.List)
	api.GET("/menu/:id", menuHandler.Get)

	// Admin menu management.
	api.POST("/menu", menuHandler.Create, authMw.RequireAuth, authMw.RequireAdmin)
	api.PUT("/menu/:id", menuHandler.Update, authMw.RequireAuth, authMw.RequireAdmin)
	api.DELETE("/menu/:id", menuHandler.Delete, authMw.RequireAuth, authMw.RequireAdmin)
	api.PUT("/menu/:id/capacity", menuHandler.SetCapacity, authMw.RequireAuth, authMw.RequireAdmin)
	api.POST("/menu/:id/image", menuHandler.UploadImage, authMw.RequireAuth, authMw.RequireAdmin)

	// Orders.
	api.POST("/orders", orderHandler.Submit, authMw.RequireAuth)
	api.GET("/orders", orderHandler.ListAll, authMw.RequireAuth, authMw.RequireAdmin)
	api.GET("/orders/:id", orderHandler.Get, authMw.RequireAuth)
	api.POST("/orders/:id/status", orderHandler.UpdateStatus, authMw.RequireAuth, authMw.RequireAdmin)
	api.POST("/orders/:id/cancel", orderHandler.Cancel, authMw.RequireAuth)
	api.GET("/me/orders", orderHandler.ListMine, authMw.RequireAuth)

	// Support chat.
	api.POST("/me/conversation", convHandler.StartMine, authMw.RequireAuth)
	api.GET("/conversations", convHandler.List, authMw.RequireAuth, authMw.RequireAdmin)
	api.GET("/conversations/:id", convHandler.Get, authMw.RequireAuth)
	api.GET("/conversations/:id/messages", convHandler.ListMessages, authMw.RequireAuth)
	api.POST("/conversations/:id/messages", convHandler.CreateMessage, authMw.RequireAuth)
	api.POST("/conversations/:id/read", convHandler.MarkRead, authMw.RequireAuth)
	api.POST("/conversations/:id/archive", convHandler.Archive, authMw.RequireAuth, authMw.RequireAdmin)
	api.GET("/conversations/:id/draft", convHandler.LoadDraft, authMw.RequireAuth)
	api.PUT("/conversations/:id/draft", convHandler.SaveDraft, authMw.RequireAuth)
	api.GET("/ws/conversations/:id", chatSocket.Handle, authMw.RequireAuth)

	// Profile and preferences.
	api.GET("/me/profile", userHandler.GetProfile, authMw.RequireAuth)
	api.PUT("/me/profile", userHandler.UpdateProfile, authMw.RequireAuth)
	api.GET("/me/preferences/:key", userHandler.GetPreference, authMw.RequireAuth)
	api.PUT("/me/preferences/:key", userHandler.SetPreference, authMw.RequireAuth)

	// Notifications.
	api.GET("/me/notifications", notifHandler.List, authMw.RequireAuth)
	api.POST("/me/notifications/read", notifHandler.MarkAllRead, authMw.RequireAuth)

	return &Server{e: e, logger: logger}, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
