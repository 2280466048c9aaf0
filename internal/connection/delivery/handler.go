package delivery

import (
	"net/http"

	"github.com/thamiresml/thracker-sub002/internal/connection/usecase"

	"github.com/gin-gonic/gin"
)

type ConnectionHandler struct {
	connUsecase usecase.ConnectionUsecase
}

func NewConnectionHandler(connUsecase usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{
		connUsecase: connUsecase,
	}
}

func (h *ConnectionHandler) List(c *gin.Context) {
	userID := c.GetString("userID")

	conns, err := h.connUsecase.ListConnections(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connections": conns})
}

func (h *ConnectionHandler) Connect(c *gin.Context) {
	userID := c.GetString("userID")

	url, err := h.connUsecase.AuthorizationURL(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorization_url": url})
}

func (h *ConnectionHandler) Callback(c *gin.Context) {
	userID := c.GetString("userID")

	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing state or code"})
		return
	}

	conn, err := h.connUsecase.CompleteCallback(c.Request.Context(), userID, state, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("userID")
	id := c.Param("id")

	if err := h.connUsecase.Disconnect(c.Request.Context(), userID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "connection removed"})
}
