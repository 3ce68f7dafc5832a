package handler

import (
	"net/http"
	"time"

	"cowrite-test/internal/db"
	"cowrite-test/internal/experiment"
	"cowrite-test/internal/model"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
}

func NewFeedbackHandler() *FeedbackHandler {
	return &FeedbackHandler{}
}

func likertOK(v int) bool {
	return v >= 1 && v <= 5
}

// SubmitRoundFeedback 每轮问卷入库。
// trust 是否必填只问 Workflow.UsesAI()，校验逻辑不在别处重复。
func (h *FeedbackHandler) SubmitRoundFeedback(c *gin.Context) {
	var req struct {
		SessionID      string `json:"session_id" binding:"required"`
		RoundIndex     int    `json:"round_index" binding:"required"`
		Workflow       string `json:"workflow" binding:"required"`
		Liking         int    `json:"liking"`
		Trust          *int   `json:"trust"`
		Satisfaction   int    `json:"satisfaction"`
		MentalDemand   int    `json:"mental_demand"`
		PhysicalDemand int    `json:"physical_demand"`
		TemporalDemand int    `json:"temporal_demand"`
		Effort         int    `json:"effort"`
		Frustration    int    `json:"frustration"`
		Comment        string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workflow := experiment.Workflow(req.Workflow)
	if !workflow.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的工作流"})
		return
	}

	likerts := map[string]int{
		"liking":          req.Liking,
		"satisfaction":    req.Satisfaction,
		"mental_demand":   req.MentalDemand,
		"physical_demand": req.PhysicalDemand,
		"temporal_demand": req.TemporalDemand,
		"effort":          req.Effort,
		"frustration":     req.Frustration,
	}
	for field, v := range likerts {
		if !likertOK(v) {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " 必须是1-5的整数"})
			return
		}
	}

	if workflow.UsesAI() {
		if req.Trust == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "涉及AI的工作流必须填写 trust"})
			return
		}
	}
	if req.Trust != nil && !likertOK(*req.Trust) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trust 必须是1-5的整数"})
		return
	}

	feedback := model.RoundFeedback{
		SessionID:      req.SessionID,
		RoundIndex:     req.RoundIndex,
		Workflow:       req.Workflow,
		Liking:         req.Liking,
		Trust:          req.Trust,
		Satisfaction:   req.Satisfaction,
		MentalDemand:   req.MentalDemand,
		PhysicalDemand: req.PhysicalDemand,
		TemporalDemand: req.TemporalDemand,
		Effort:         req.Effort,
		Frustration:    req.Frustration,
		Comment:        req.Comment,
	}

	if err := db.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SubmitSessionFeedback 场末问卷入库，同时给会话盖上结束时间与总时长
func (h *FeedbackHandler) SubmitSessionFeedback(c *gin.Context) {
	var req struct {
		SessionID      string `json:"session_id" binding:"required"`
		Satisfaction   int    `json:"satisfaction"`
		Clarity        int    `json:"clarity"`
		Effort         int    `json:"effort"`
		Frustration    int    `json:"frustration"`
		Recommendation int    `json:"recommendation"`
		WorkflowBest   string `json:"workflow_best"`
		Comment        string `json:"comment"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	likerts := map[string]int{
		"satisfaction":   req.Satisfaction,
		"clarity":        req.Clarity,
		"effort":         req.Effort,
		"frustration":    req.Frustration,
		"recommendation": req.Recommendation,
	}
	for field, v := range likerts {
		if !likertOK(v) {
			c.JSON(http.StatusBadRequest, gin.H{"error": field + " 必须是1-5的整数"})
			return
		}
	}

	if req.WorkflowBest != "" && !experiment.Workflow(req.WorkflowBest).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的工作流"})
		return
	}

	var session model.Session
	if err := db.DB.Where("session_id = ?", req.SessionID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "会话不存在"})
		return
	}

	feedback := model.SessionFeedback{
		SessionID:      req.SessionID,
		Satisfaction:   req.Satisfaction,
		Clarity:        req.Clarity,
		Effort:         req.Effort,
		Frustration:    req.Frustration,
		Recommendation: req.Recommendation,
		WorkflowBest:   req.WorkflowBest,
		Comment:        req.Comment,
	}

	if err := db.DB.Create(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	session.FinishedAt = &now
	session.TimeMs = now.Sub(session.CreatedAt).Milliseconds()
	if err := db.DB.Save(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
