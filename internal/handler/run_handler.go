package handler

import (
	"errors"
	"net/http"

	"cowrite-test/internal/experiment"
	"cowrite-test/internal/service"

	"github.com/gin-gonic/gin"
)

type RunHandler struct {
	manager *service.RunManager
}

func NewRunHandler(manager *service.RunManager) *RunHandler {
	return &RunHandler{manager: manager}
}

// StartRun 启动（或恢复）实验进程状态机
func (h *RunHandler) StartRun(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id"`
		SessionID     string `json:"session_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.manager.Start(req.ParticipantID, req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"run": run,
	})
}

// GetRun 当前实验进度（只读）
func (h *RunHandler) GetRun(c *gin.Context) {
	sessionID := c.Param("session_id")

	run, ok := h.manager.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "运行实例不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run": run,
	})
}

// DispatchEvent 派发一个状态机事件。
// 守卫拒绝时返回409并带回当前阶段，状态保持不变。
func (h *RunHandler) DispatchEvent(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req struct {
		Type     string `json:"type" binding:"required"`
		Workflow string `json:"workflow"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, res, err := h.manager.Dispatch(sessionID, experiment.Event{
		Type:     experiment.EventType(req.Type),
		Workflow: experiment.Workflow(req.Workflow),
	})
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "运行实例不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !res.Applied {
		c.JSON(http.StatusConflict, gin.H{
			"error": res.Reason,
			"phase": run.Phase,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"run": run,
	})
}

// ResetRun 清空实验进度与持久化快照，回到初始状态
func (h *RunHandler) ResetRun(c *gin.Context) {
	sessionID := c.Param("session_id")

	run, err := h.manager.Reset(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "运行实例不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":  true,
		"run": run,
	})
}
