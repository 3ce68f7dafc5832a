package handler

import (
	"log"
	"net/http"

	"cowrite-test/internal/service"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	client *service.OpenAIClient
}

func NewAIHandler(client *service.OpenAIClient) *AIHandler {
	return &AIHandler{client: client}
}

// Generate 单轮补全直通：失败不重试，前端留空草稿让用户再点一次
func (h *AIHandler) Generate(c *gin.Context) {
	var req struct {
		Input string `json:"input" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.client.Complete(c.Request.Context(), req.Input)
	if err != nil {
		log.Printf("AI补全失败: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}
