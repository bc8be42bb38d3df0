package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/spillscope/spillscope-go/api/controllers"
	"github.com/spillscope/spillscope-go/api/middlewares"
	"github.com/spillscope/spillscope-go/api/notifyhub"
	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/session"
	"github.com/spillscope/spillscope-go/tool"
)

// Server is the localhost-only HTTP API the UI drives.
type Server struct {
	port    int
	manager *session.Manager
	prober  *inference.Prober
	hub     *notifyhub.Hub // nil when notify WS is disabled
	engine  *gin.Engine
	server  *http.Server
	mu      sync.RWMutex
}

func NewServer(port int, manager *session.Manager, prober *inference.Prober, hub *notifyhub.Hub) *Server {
	return &Server{
		port:    port,
		manager: manager,
		prober:  prober,
		hub:     hub,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	sessionCtrl := controllers.NewSessionController(s.manager)
	resultCtrl := controllers.NewResultController(s.manager)
	serviceCtrl := controllers.NewServiceController(s.prober)

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/status", sessionCtrl.HandleStatus)
		self.POST("/select-file", sessionCtrl.HandleSelectFile)
		self.POST("/variant", sessionCtrl.HandleSelectVariant)
		self.POST("/process", sessionCtrl.HandleProcess)
		self.POST("/reset", sessionCtrl.HandleReset)
		self.GET("/get-image", resultCtrl.HandleGetImage)
		self.GET("/download", resultCtrl.HandleDownload)
		self.GET("/service-health", serviceCtrl.HandleServiceHealth)
		self.GET("/config", controllers.HandleConfigGet)
		self.PATCH("/config", controllers.HandleConfigPatch)
		self.GET("/create-qr-code", controllers.HandleUILinkQR)
		if s.hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}

	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting self API on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}
