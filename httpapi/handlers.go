package httpapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/dhabaai/dhaba/agent/contract"
	"github.com/dhabaai/dhaba/agent/orchestrator"
)

const defaultUserID = "default_user"

const internalErrorMessage = "Internal server error processing your request."

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type chatResponse struct {
	Tool     string `json:"tool"`
	Response string `json:"response"`
}

func (s *Server) handleWelcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Dhaba ordering assistant. POST /chat to talk to it.",
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserID == "" {
		req.UserID = defaultUserID
	}

	result, err := s.chat.HandleMessage(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		return
	}

	c.JSON(http.StatusOK, chatResponse{
		Tool:     result.Tool,
		Response: result.Response,
	})
}

func (s *Server) handleOrderAdd(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = defaultUserID
	}
	itemName := c.Query("item_name")
	if itemName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_name is required"})
		return
	}

	quantity := 0
	if raw := c.Query("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be an integer"})
			return
		}
		quantity = q
	}

	result, err := s.orders.AddItem(userID, itemName, quantity)
	if err != nil {
		switch {
		case errors.Is(err, contractx.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		case errors.Is(err, contractx.ErrItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("item %q is not on the menu", itemName)})
		default:
			log.Error().Err(err).Str("item_name", itemName).Msg("order add failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
		}
		return
	}

	if result.Pending {
		c.JSON(http.StatusOK, gin.H{
			"status":  "pending_quantity",
			"message": fmt.Sprintf("'%s' selected. Price: ₹%.2f. How many?", result.ItemName, result.UnitPrice),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"message": fmt.Sprintf("Added %d x %s. Total: ₹%.2f.",
			result.Added, result.ItemName, result.OrderTotal),
		"current_order_total": round2(result.OrderTotal),
		"ordered_item_info": gin.H{
			"item":     result.ItemName,
			"quantity": result.LineQuantity,
			"price":    result.UnitPrice,
		},
	})
}

func (s *Server) handleOrderSummary(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = defaultUserID
	}

	lines, total := s.orders.Summarize(userID)
	c.JSON(http.StatusOK, gin.H{
		"order_items": lines,
		"total_price": round2(total),
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
