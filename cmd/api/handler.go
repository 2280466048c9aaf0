package api

import (
	authUsecase "github.com/thamiresml/thracker-sub002/internal/auth/usecase"
	connUsecase "github.com/thamiresml/thracker-sub002/internal/connection/usecase"
	syncUsecase "github.com/thamiresml/thracker-sub002/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	router *gin.Engine
}

func NewHandler(authUc authUsecase.AuthUsecase, connUc connUsecase.ConnectionUsecase, syncUc syncUsecase.SyncUsecase) *Handler {
	router := gin.Default()
	SetupRoutes(router, authUc, connUc, syncUc)

	return &Handler{
		router: router,
	}
}

func (h *Handler) Start(addr string) error {
	return h.router.Run(addr)
}
