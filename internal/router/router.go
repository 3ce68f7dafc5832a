package router

import (
	"cowrite-test/internal/handler"
	"cowrite-test/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(svcCtx *service.ServiceContext) *gin.Engine {
	r := gin.Default()

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// 初始化handlers
	sessionHandler := handler.NewSessionHandler()
	roundHandler := handler.NewRoundHandler()
	feedbackHandler := handler.NewFeedbackHandler()
	taskCatalogHandler := handler.NewTaskCatalogHandler()
	aiHandler := handler.NewAIHandler(svcCtx.AIClient)
	runHandler := handler.NewRunHandler(svcCtx.RunManager)

	// API路由
	api := r.Group("/api")
	{
		// 会话与知情同意
		session := api.Group("/session")
		{
			session.POST("/start", sessionHandler.StartSession)
		}
		api.POST("/consent", sessionHandler.SubmitConsent)

		// 轮次
		round := api.Group("/round")
		{
			round.POST("/start", roundHandler.StartRound)
			round.POST("/submit", roundHandler.SubmitRound)
		}

		// 问卷
		feedback := api.Group("/feedback")
		{
			feedback.POST("/round", feedbackHandler.SubmitRoundFeedback)
			feedback.POST("/session", feedbackHandler.SubmitSessionFeedback)
		}

		// 任务表与提交校验
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskCatalogHandler.ListTasks)
			tasks.GET("/:id", taskCatalogHandler.GetTask)
		}
		api.POST("/check", taskCatalogHandler.CheckSubmission)

		// AI直通
		api.POST("/ai", aiHandler.Generate)

		// 实验进程状态机
		run := api.Group("/run")
		{
			run.POST("/start", runHandler.StartRun)
			run.GET("/:session_id", runHandler.GetRun)
			run.POST("/:session_id/event", runHandler.DispatchEvent)
			run.POST("/:session_id/reset", runHandler.ResetRun)
		}
	}

	return r
}
