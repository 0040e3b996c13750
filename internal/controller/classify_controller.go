package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"langid-go/internal/service"
)

type ClassifyController struct {
	classifier *service.Classifier
	logger     *zap.Logger
}

func NewClassifyController(classifier *service.Classifier, logger *zap.Logger) *ClassifyController {
	return &ClassifyController{
		classifier: classifier,
		logger:     logger,
	}
}

type ClassifyRequest struct {
	Text string `json:"text" binding:"required"`
}

type ClassifyResponse struct {
	Language  string `json:"language"`
	RequestID string `json:"request_id,omitempty"`
}

func (cc *ClassifyController) Classify(c *gin.Context) {
	var request ClassifyRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		cc.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	language, err := cc.classifier.ClassifyText(request.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Text produced no tokens to classify",
			})
			return
		}
		cc.logger.Error("Classification failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Classification failed",
			"details": err.Error(),
		})
		return
	}

	cc.logger.Debug("Classified text",
		zap.String("language", language),
		zap.Int("text_length", len(request.Text)))

	c.JSON(http.StatusOK, ClassifyResponse{
		Language:  language,
		RequestID: c.GetString("request_id"),
	})
}

func (cc *ClassifyController) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"languages": cc.classifier.Languages(),
	})
}
