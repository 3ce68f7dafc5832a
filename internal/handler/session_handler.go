package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"cowrite-test/internal/db"
	"cowrite-test/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// StartSession 幂等创建会话：同一 session_id 重复调用不报错。
// 客户端没带ID时由服务端补UUID并原样返回。
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id"`
		SessionID     string `json:"session_id"`
		TotalTrials   int    `json:"total_trials"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ParticipantID == "" {
		req.ParticipantID = uuid.NewString()
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	var session model.Session
	err := db.DB.Where(model.Session{SessionID: req.SessionID}).
		Attrs(model.Session{
			ParticipantID: req.ParticipantID,
			TotalTrials:   req.TotalTrials,
		}).
		FirstOrCreate(&session).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"participant_id": session.ParticipantID,
		"session_id":     session.SessionID,
	})
}

// SubmitConsent 存知情同意：只留同意书文本的SHA-256摘要，不落原文
func (h *SessionHandler) SubmitConsent(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participant_id" binding:"required"`
		SessionID     string `json:"session_id" binding:"required"`
		Consented     *bool  `json:"consented" binding:"required"`
		Version       string `json:"version"`
		ConsentText   string `json:"consent_text"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sum := sha256.Sum256([]byte(req.ConsentText))
	consent := model.Consent{
		ParticipantID: req.ParticipantID,
		SessionID:     req.SessionID,
		Consented:     *req.Consented,
		Version:       req.Version,
		ConsentHash:   hex.EncodeToString(sum[:]),
	}

	if err := db.DB.Create(&consent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
