// Package httpapi exposes the ordering assistant over HTTP: a chat
// endpoint backed by the orchestrator and direct order endpoints that
// bypass the LLM entirely.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	contractx "github.com/dhabaai/dhaba/agent/contract"
	orderx "github.com/dhabaai/dhaba/agent/order"
)

// ChatService runs one conversational turn.
type ChatService interface {
	HandleMessage(ctx context.Context, userID, message string) (contractx.ChatResult, error)
}

// OrderService mutates and reads a user's order directly.
type OrderService interface {
	AddItem(userID, itemName string, quantity int) (orderx.AddResult, error)
	Summarize(userID string) ([]contractx.OrderLine, float64)
}

type Server struct {
	engine *gin.Engine
	chat   ChatService
	orders OrderService
	addr   string
}

type Config struct {
	ListenAddr string
	Chat       ChatService
	Orders     OrderService
}

func NewServer(cfg Config) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Orders == nil {
		return nil, errors.New("order service is required")
	}
	addr := cfg.ListenAddr
	if addr == "" {
		addr = ":8000"
	}

	s := &Server{
		chat:   cfg.Chat,
		orders: cfg.Orders,
		addr:   addr,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger())
	s.registerRoutes(engine)
	s.engine = engine

	return s, nil
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/", s.handleWelcome)
	engine.POST("/chat", s.handleChat)

	order := engine.Group("/order")
	order.POST("/add", s.handleOrderAdd)
	order.GET("/summary", s.handleOrderSummary)
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
