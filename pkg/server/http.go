package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/outcome-gg/outcome-engine/pkg/api"
	"github.com/outcome-gg/outcome-engine/pkg/logging"
	"github.com/rs/zerolog"
)

// NewRouter builds the HTTP surface of the engine service:
//
//	POST /v1/order   submit one order
//	POST /v1/orders  submit an ordered batch
//	GET  /v1/book    best-first depth snapshot
//	GET  /healthz    liveness
func NewRouter(svc *EngineService, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(logging.GinMiddleware(logger), gin.Recovery())

	r.POST("/v1/order", func(c *gin.Context) {
		var payload api.OrderPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			return
		}

		ack, ok := svc.SubmitOrder(c.Request.Context(), payload)
		if !ok {
			c.JSON(http.StatusBadRequest, ack)
			return
		}
		c.JSON(http.StatusOK, ack)
	})

	r.POST("/v1/orders", func(c *gin.Context) {
		var payloads []api.OrderPayload
		if err := c.ShouldBindJSON(&payloads); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
			return
		}

		c.JSON(http.StatusOK, svc.SubmitBatch(c.Request.Context(), payloads))
	})

	r.GET("/v1/book", func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.BookSnapshot())
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "market": svc.Market()})
	})

	return r
}
