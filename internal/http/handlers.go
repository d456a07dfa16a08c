package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token        string   `json:"token"`
	Username     string   `json:"username"`
	Role         string   `json:"role"`
	Capabilities []string `json:"capabilities"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "username and password required")
		return
	}
	if s.limiter != nil {
		allowed, retryAt, err := s.limiter.Allow(c.Request.Context(), req.Username)
		if err != nil {
			writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "login limiter unavailable")
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAt.UTC().Format(time.RFC1123))
			writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
			return
		}
	}
	user, err := s.identity.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		writeError(c, err)
		return
	}
	caps := custody.CapabilitiesFor(user.Role)
	capStrings := make([]string, 0, len(caps))
	for _, capability := range caps {
		capStrings = append(capStrings, string(capability))
	}
	c.JSON(http.StatusOK, loginResponse{
		Token:        token,
		Username:     user.Username,
		Role:         string(user.Role),
		Capabilities: capStrings,
	})
}

func (s *Server) handleListCustodyEligibleUsers(c *gin.Context) {
	if _, ok := authContextFrom(c); !ok {
		return
	}
	users, err := s.identity.ListCustodyEligibleUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	type userResponse struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, userResponse{Username: user.Username, Role: string(user.Role)})
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type createEvidenceRequest struct {
	CaseNumber   string `json:"case_number"`
	Description  string `json:"description"`
	EvidenceType string `json:"evidence_type"`
	Content      string `json:"content"`
}

func (s *Server) handleCreateEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	input, ok := s.createInput(c)
	if !ok {
		return
	}
	item, err := s.service.CreateEvidence(c.Request.Context(), authCtx.Actor(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEvidenceResponse(item))
}

// createInput accepts either a JSON body or a multipart form with an optional
// evidence_file part.
func (s *Server) createInput(c *gin.Context) (usecase.CreateEvidenceInput, bool) {
	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		input := usecase.CreateEvidenceInput{
			CaseNumber:   c.PostForm("case_number"),
			Description:  c.PostForm("description"),
			EvidenceType: c.PostForm("evidence_type"),
		}
		file, err := c.FormFile("evidence_file")
		if err == nil && file != nil {
			opened, err := file.Open()
			if err != nil {
				writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable evidence file")
				return usecase.CreateEvidenceInput{}, false
			}
			defer opened.Close()
			content, err := io.ReadAll(opened)
			if err != nil {
				writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "unreadable evidence file")
				return usecase.CreateEvidenceInput{}, false
			}
			input.Content = content
		}
		return input, true
	}

	var req createEvidenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return usecase.CreateEvidenceInput{}, false
	}
	return usecase.CreateEvidenceInput{
		CaseNumber:   req.CaseNumber,
		Description:  req.Description,
		EvidenceType: req.EvidenceType,
		Content:      []byte(req.Content),
	}, true
}

func (s *Server) handleListEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	items, err := s.service.ListEvidence(c.Request.Context(), authCtx.Actor())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]EvidenceResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toEvidenceResponse(item))
	}
	c.JSON(http.StatusOK, gin.H{"evidence": out})
}

func (s *Server) handleGetEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	item, err := s.service.GetEvidence(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEvidenceResponse(item))
}

func (s *Server) handleGetContent(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	content, err := s.service.GetContent(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", content)
}

type transferRequest struct {
	TransferredTo string `json:"transferred_to"`
	Notes         string `json:"notes"`
}

func (s *Server) handleTransferEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}
	entry, err := s.service.TransferEvidence(c.Request.Context(), authCtx.Actor(), c.Param("id"), req.TransferredTo, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLogEntryResponse(entry))
}

func (s *Server) handleVerifyIntegrity(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	result, err := s.service.VerifyIntegrity(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"is_valid":      result.IsValid,
		"status":        string(result.Status),
		"original_hash": result.OriginalHash,
		"current_hash":  result.CurrentHash,
	})
}

func (s *Server) handleSealEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	entry, err := s.service.SealEvidence(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLogEntryResponse(entry))
}

type updateContentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleUpdateContent(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	var req updateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", "malformed request body")
		return
	}
	entry, err := s.service.UpdateContent(c.Request.Context(), authCtx.Actor(), c.Param("id"), []byte(req.Content))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLogEntryResponse(entry))
}

func (s *Server) handleDeleteEvidence(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	if err := s.service.DeleteEvidence(c.Request.Context(), authCtx.Actor(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (s *Server) handleCustodyLog(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	entries, err := s.service.CustodyLog(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": toLogEntryResponses(entries)})
}

func (s *Server) handleAuditChain(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	err := s.service.AuditCustodyChain(c.Request.Context(), authCtx.Actor(), c.Param("id"))
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"valid": true})
		return
	}
	if writeKnown(c, err) {
		return
	}
	c.JSON(http.StatusConflict, gin.H{"valid": false, "detail": err.Error()})
}

func (s *Server) handleAllLogs(c *gin.Context) {
	authCtx, ok := authContextFrom(c)
	if !ok {
		return
	}
	entries, err := s.service.AllLogs(c.Request.Context(), authCtx.Actor())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": toLogEntryResponses(entries)})
}
