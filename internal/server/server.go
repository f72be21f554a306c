package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/netpointcafe/portal-backend/internal/ai"
	"github.com/netpointcafe/portal-backend/internal/config"
	"github.com/netpointcafe/portal-backend/internal/handler"
	appmw "github.com/netpointcafe/portal-backend/internal/middleware"
	"github.com/netpointcafe/portal-backend/internal/realtime"
	"github.com/netpointcafe/portal-backend/internal/repository"
	"github.com/netpointcafe/portal-backend/internal/service"
	"github.com/netpointcafe/portal-backend/internal/storage"
	"gorm.io/gorm"
)

type Server struct {
	e           *echo.Echo
	hub         *realtime.Hub
	chatRepo    repository.ChatRepository
	profileRepo repository.ProfileRepository
	catalogRepo repository.CatalogRepository
	orderRepo   repository.OrderRepository
	docRepo     repository.DocumentRepository
	sha         string
	build       string
}

func New(db *gorm.DB, cfg *config.Config, sha, buildTime string) *Server {
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
			if strings.HasSuffix(host, "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	hub := realtime.NewHub()

	chatRepo := repository.NewChatRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	profileSvc := service.NewProfileService(profileRepo)
	chatSvc := service.NewChatService(chatRepo, profileRepo, hub)
	catalogSvc := service.NewCatalogReadService(catalogRepo)
	orderSvc := service.NewOrderService(orderRepo, catalogRepo)

	var uploader service.DocumentUploader
	if cfg.StorageBucket != "" {
		up, err := storage.NewUploader(context.Background(), cfg.StorageBucket)
		if err != nil {
			log.Printf("storage uploader init failed, document upload disabled: %v", err)
		} else {
			uploader = up
		}
	}
	docSvc := service.NewDocumentService(docRepo, uploader)

	chatHandler := handler.NewChatHandler(chatSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)
	docHandler := handler.NewDocumentHandler(docSvc)
	wsHandler := handler.NewWSHandler(hub, chatSvc, profileSvc)
	aiHandler := handler.NewAIHandler(chatSvc, ai.NewSuggestClient(cfg.GeminiModel))

	authMw, err := appmw.NewAuthMiddleware(context.Background(), cfg.FirebaseProjectID)
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}
	requireStaff := authMw.RequireStaff(profileSvc)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/services", catalogHandler.List)
	api.GET("/services/:id", catalogHandler.Get)

	api.GET("/me/profile", profileHandler.GetMe, authMw.RequireAuth)
	api.PUT("/me/profile", profileHandler.UpsertMe, authMw.RequireAuth)
	api.GET("/me/orders", orderHandler.ListMine, authMw.RequireAuth)
	api.POST("/orders", orderHandler.Create, authMw.RequireAuth)
	api.GET("/me/payments", orderHandler.ListMyPayments, authMw.RequireAuth)
	api.GET("/me/documents", docHandler.ListMine, authMw.RequireAuth)
	api.POST("/me/documents", docHandler.Upload, authMw.RequireAuth)

	api.POST("/chat/conversation", chatHandler.Resolve, authMw.RequireAuth)
	api.GET("/chat/conversations/:id/messages", chatHandler.History, authMw.RequireAuth)
	api.POST("/chat/conversations/:id/messages", chatHandler.Send, authMw.RequireAuth)

	care := api.Group("/care", authMw.RequireAuth, requireStaff)
	care.GET("/conversations", chatHandler.ListConversations)
	care.GET("/conversations/:id/messages", chatHandler.StaffHistory)
	care.POST("/conversations/:id/messages", chatHandler.StaffSend)
	care.POST("/conversations/:id/close", chatHandler.CloseConversation)
	care.POST("/conversations/:id/suggest", aiHandler.SuggestReply)

	e.GET("/ws", wsHandler.Handle, authMw.RequireAuth)

	return &Server{
		e:           e,
		hub:         hub,
		chatRepo:    chatRepo,
		profileRepo: profileRepo,
		catalogRepo: catalogRepo,
		orderRepo:   orderRepo,
		docRepo:     docRepo,
		sha:         sha,
		build:       buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects the connection into every repository once the async connect
// in cmd/api succeeds.
func (s *Server) SetDB(db *gorm.DB) {
	s.chatRepo.SetDB(db)
	s.profileRepo.SetDB(db)
	s.catalogRepo.SetDB(db)
	s.orderRepo.SetDB(db)
	s.docRepo.SetDB(db)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.e.Shutdown(ctx)
}
