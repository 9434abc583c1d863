package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Morph/internal/app"
	"github.com/dkeye/Morph/internal/config"
	"github.com/dkeye/Morph/internal/core"
)

type offerRequest struct {
	Offer     string `json:"offer"`
	SessionID string `json:"session_id"`
}

type offerResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

func SetupRouter(cfg *config.Config, node *app.Node) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, node.Health())
	})

	// Push-path ingress: offer in, answer out, same exchange.
	r.POST("/signaling/offer", func(c *gin.Context) {
		var req offerRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Offer == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing offer SDP"})
			return
		}

		answer, sid, err := node.HandleOffer(c.Request.Context(), core.SessionID(req.SessionID), req.Offer)
		switch {
		case errors.Is(err, core.ErrCapacity):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		case errors.Is(err, core.ErrDuplicateSession), errors.Is(err, core.ErrSessionClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Error().Err(err).Str("module", "adapters.http").Msg("offer handling failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, offerResponse{Answer: answer, SessionID: string(sid)})
	})

	r.POST("/configure", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		log.Info().Str("module", "adapters.http").Interface("config", body).Msg("configuration update requested")
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Configuration updated"})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
