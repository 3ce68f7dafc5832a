package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cowrite-test/internal/checker"
	"cowrite-test/internal/db"
	"cowrite-test/internal/experiment"
	"cowrite-test/internal/model"
	"cowrite-test/internal/task"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RoundHandler struct {
}

func NewRoundHandler() *RoundHandler {
	return &RoundHandler{}
}

// StartRound 建轮次记录。提交之前必须先调用这里；重复调用幂等。
func (h *RoundHandler) StartRound(c *gin.Context) {
	var req struct {
		SessionID  string `json:"session_id" binding:"required"`
		RoundIndex int    `json:"round_index" binding:"required"`
		Workflow   string `json:"workflow" binding:"required"`
		TaskID     string `json:"task_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !experiment.Workflow(req.Workflow).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的工作流"})
		return
	}

	var session model.Session
	if err := db.DB.Where("session_id = ?", req.SessionID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}

	var round model.Round
	err := db.DB.Where(model.Round{SessionID: req.SessionID, RoundIndex: req.RoundIndex}).
		Assign(model.Round{Workflow: req.Workflow, TaskID: req.TaskID}).
		FirstOrCreate(&round).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"round_id": round.ID,
	})
}

// SubmitRound 提交本轮文本：服务端复跑校验器，指标与逐条报告一并入库。
// 没有先 start 的轮次一律 404 round not found。
func (h *RoundHandler) SubmitRound(c *gin.Context) {
	var req struct {
		SessionID  string `json:"session_id" binding:"required"`
		RoundIndex int    `json:"round_index" binding:"required"`
		Workflow   string `json:"workflow"`
		Text       string `json:"text"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var round model.Round
	err := db.DB.Where("session_id = ? AND round_index = ?", req.SessionID, req.RoundIndex).
		First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "round not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	spec, ok := task.Get(round.TaskID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "轮次未绑定有效任务"})
		return
	}

	result := checker.Check(req.Text, spec.Requirements)
	metrics := checker.Metrics(req.Text, spec.Requirements)
	reportJSON, _ := json.Marshal(result)

	now := time.Now()
	passed := result.Passed
	round.Text = req.Text
	round.SubmittedAt = &now
	round.WordCount = metrics.WordCount
	round.MeetsRequiredWords = metrics.MeetsRequiredWords
	round.MeetsAvoidWords = metrics.MeetsAvoidWords
	round.Passed = &passed
	round.ReportJSON = string(reportJSON)
	if req.Workflow != "" && experiment.Workflow(req.Workflow).Valid() {
		round.Workflow = req.Workflow
	}

	if err := db.DB.Save(&round).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"round_id": round.ID,
		"result":   result,
		"metrics":  metrics,
	})
}
