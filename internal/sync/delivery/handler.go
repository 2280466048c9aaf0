package delivery

import (
	"errors"
	"net/http"

	syncdomain "github.com/thamiresml/thracker-sub002/internal/sync/domain"
	syncdto "github.com/thamiresml/thracker-sub002/internal/sync/dto"
	"github.com/thamiresml/thracker-sub002/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

func (h *SyncHandler) TriggerSync(c *gin.Context) {
	userID := c.GetString("userID")
	connectionID := c.Param("id")

	var req syncdto.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.syncUsecase.Run(c.Request.Context(), userID, connectionID, &req)
	if err != nil {
		if errors.Is(err, syncdomain.ErrSyncAlreadyRunning) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SyncHandler) SyncStatus(c *gin.Context) {
	userID := c.GetString("userID")
	connectionID := c.Param("id")

	status, err := h.syncUsecase.Status(userID, connectionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, status)
}
