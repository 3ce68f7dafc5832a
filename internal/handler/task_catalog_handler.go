package handler

import (
	"net/http"

	"cowrite-test/internal/checker"
	"cowrite-test/internal/task"

	"github.com/gin-gonic/gin"
)

type TaskCatalogHandler struct {
}

func NewTaskCatalogHandler() *TaskCatalogHandler {
	return &TaskCatalogHandler{}
}

// ListTasks 列出全部写作任务（提示词+要求），供前端渲染
func (h *TaskCatalogHandler) ListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tasks": task.All(),
	})
}

// GetTask 按ID取单个任务
func (h *TaskCatalogHandler) GetTask(c *gin.Context) {
	id := c.Param("id")

	spec, ok := task.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task": spec,
	})
}

// CheckSubmission 提交前的要求校验：纯函数复跑，不落库
func (h *TaskCatalogHandler) CheckSubmission(c *gin.Context) {
	var req struct {
		TaskID string `json:"task_id" binding:"required"`
		Text   string `json:"text"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec, ok := task.Get(req.TaskID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "任务不存在"})
		return
	}

	result := checker.Check(req.Text, spec.Requirements)
	metrics := checker.Metrics(req.Text, spec.Requirements)

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"metrics": metrics,
	})
}
