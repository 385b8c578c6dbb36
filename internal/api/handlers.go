package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/txparse/internal/logger"
	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/receipt"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   s.config.Version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) parseVoice(c *gin.Context) {
	var req VoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Debug().Err(err).Msg("bad voice request")
		c.JSON(http.StatusBadRequest, BadRequestError("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusUnprocessableEntity, ValidationError("text is required"))
		return
	}

	rec := s.voice.Parse(req.Text)
	c.JSON(http.StatusOK, s.respond(rec))
}

func (s *Server) parseReceipt(c *gin.Context) {
	var ocr model.OCRResult
	if err := c.ShouldBindJSON(&ocr); err != nil {
		log := logger.FromContext(c.Request.Context())
		log.Debug().Err(err).Msg("bad receipt request")
		c.JSON(http.StatusBadRequest, BadRequestError("invalid JSON body"))
		return
	}
	if strings.TrimSpace(ocr.Text) == "" && len(ocr.Annotations) == 0 {
		c.JSON(http.StatusUnprocessableEntity, ValidationError("text or annotations are required"))
		return
	}

	in := receipt.FromOCR(ocr)
	resp := s.respond(s.receipt.Parse(in))
	if c.Query("explain") == "true" {
		a := s.receipt.Analyze(in)
		resp.Analysis = &a
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) getTaxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, TaxonomyResponse{
		Categories: s.tax.Categories,
		Merchants:  s.tax.Merchants,
	})
}

func (s *Server) respond(rec model.Transaction) ParseResponse {
	return ParseResponse{
		Transaction:  rec,
		ReviewNeeded: rec.NeedsReview(s.config.MinConfidence),
	}
}
