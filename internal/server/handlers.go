package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/importer"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/alexanderramin/clarity/internal/scoring"
	"github.com/alexanderramin/clarity/internal/service"
	"github.com/alexanderramin/clarity/internal/wheel"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func fail(c *gin.Context, code int, err error) {
	_ = c.Error(err)
	c.JSON(code, errorResponse{Success: false, Error: userMessage(err)})
}

// userMessage maps known errors to their display text.
func userMessage(err error) string {
	if msg := service.EmailMessage(err); msg != "" {
		return msg
	}
	if errors.Is(err, intelligence.ErrNoAnalysisData) {
		return intelligence.NoAnalysisDataMessage
	}
	return err.Error()
}

// statusFor picks the response code for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyEmail),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrSessionRequired),
		errors.Is(err, service.ErrIncompleteAnswers),
		errors.Is(err, intelligence.ErrNoAnalysisData):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, intelligence.ErrNoClusterer):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Catalog)
}

type scoreResponse struct {
	SessionID    string                 `json:"session_id"`
	Result       domain.QuizResult      `json:"result"`
	PathContent  scoring.PathContent    `json:"path_content"`
	NeedGuidance []scoring.NeedGuidance `json:"need_guidance"`
	QuizResultID string                 `json:"quiz_result_id,omitempty"`
}

func (s *Server) handleScoreQuiz(c *gin.Context) {
	var req importer.AnswersSchema
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	if errs := importer.ValidateAnswersSchema(s.deps.Catalog, &req); len(errs) > 0 {
		fail(c, http.StatusBadRequest, fmt.Errorf("%w: %w", service.ErrIncompleteAnswers, errors.Join(errs...)))
		return
	}
	needs, structural := importer.Convert(&req)
	out, err := s.deps.Quiz.Submit(c.Request.Context(), req.SessionID, needs, structural)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, scoreResponse{
		SessionID:    out.SessionID,
		Result:       out.Result,
		PathContent:  out.Content,
		NeedGuidance: out.Guidance,
		QuizResultID: out.QuizResultID(),
	})
}

type quizEmailRequest struct {
	QuizResultID string `json:"quiz_result_id"`
	Email        string `json:"email"`
}

func (s *Server) handleQuizEmail(c *gin.Context) {
	var req quizEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	if err := s.deps.Quiz.CaptureEmail(c.Request.Context(), req.QuizResultID, req.Email); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleGetQuiz(c *gin.Context) {
	rec, err := s.deps.Quiz.Get(c.Request.Context(), c.Param("session"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                 rec.ID,
		"session_id":         rec.SessionID,
		"need_answers":       rec.NeedAnswers,
		"structural_answers": rec.StructuralAnswers,
		"path_result":        rec.PathResult,
		"unmet_needs":        rec.UnmetNeeds,
		"accomplish_score":   rec.AccomplishScore,
		"employment_score":   rec.EmploymentScore,
		"created_at":         rec.CreatedAt,
	})
}

type sessionRequest struct {
	SessionID string          `json:"session_id" binding:"required"`
	FlowType  domain.FlowType `json:"flow_type" binding:"required"`
}

func sessionJSON(fs *domain.FlowSession) gin.H {
	return gin.H{
		"id":           fs.ID,
		"session_id":   fs.SessionID,
		"flow_type":    fs.FlowType,
		"status":       fs.Status,
		"created_at":   fs.CreatedAt,
		"completed_at": fs.CompletedAt,
	}
}

func (s *Server) handleEnsureSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	if !domain.ValidFlowTypes[req.FlowType] {
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown flow type %q", req.FlowType))
		return
	}
	fs, err := s.deps.Sessions.Ensure(c.Request.Context(), req.SessionID, req.FlowType)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, sessionJSON(fs))
}

// handleCompleteSession marks a flow session row completed by row id.
func (s *Server) handleCompleteSession(c *gin.Context) {
	if err := s.deps.Sessions.Complete(c.Request.Context(), c.Param("session")); err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type clusterRequest struct {
	SessionID   string              `json:"session_id"`
	ClusterType domain.ClusterType  `json:"cluster_type" binding:"required"`
	Items       []string            `json:"items"`
	Stage       domain.ClusterStage `json:"stage"`
	Save        bool                `json:"save"`
}

func (s *Server) handleCluster(c *gin.Context) {
	var req clusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	if !domain.ValidClusterTypes[req.ClusterType] {
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown cluster type %q", req.ClusterType))
		return
	}
	if req.Stage == "" {
		req.Stage = domain.ClusterStageFinal
	}
	final := req.Stage == domain.ClusterStageFinal

	ctx := c.Request.Context()
	clusters, err := s.deps.Discovery.Cluster(ctx, req.ClusterType, req.Items, final)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	if clusters == nil {
		clusters = []domain.Cluster{}
	}

	if req.Save {
		if final {
			err = s.deps.Discovery.SaveFinal(ctx, req.SessionID, req.ClusterType, clusters)
		} else {
			err = s.deps.Discovery.SavePreview(ctx, req.SessionID, req.ClusterType, clusters)
		}
		if err != nil {
			fail(c, statusFor(err), err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "clusters": clusters})
}

func (s *Server) handleListClusters(c *gin.Context) {
	typ := domain.ClusterType(c.Query("type"))
	if !domain.ValidClusterTypes[typ] {
		fail(c, http.StatusBadRequest, fmt.Errorf("unknown cluster type %q", typ))
		return
	}
	clusters, err := s.deps.Discovery.List(c.Request.Context(), c.Param("session"), typ)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

func (s *Server) handleProfile(c *gin.Context) {
	p, err := s.deps.Integration.LoadProfile(c.Request.Context(), c.Param("session"))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": p.SessionID,
		"counts":     p.Counts(),
		"has_quiz":   p.Quiz != nil,
		"top_labels": gin.H{
			string(domain.ClusterProblems): p.TopLabels(domain.ClusterProblems, 3),
			string(domain.ClusterPersona):  p.TopLabels(domain.ClusterPersona, 3),
			string(domain.ClusterSkills):   p.TopLabels(domain.ClusterSkills, 3),
		},
	})
}

type analysisRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (s *Server) handleCareerAnalysis(c *gin.Context) {
	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return
	}
	a, err := s.deps.Integration.Analyze(c.Request.Context(), req.SessionID)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": a})
}

// handleExport runs the analysis and returns it as the downloadable text
// file. An email query parameter is captured first.
func (s *Server) handleExport(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("session")

	if email, ok := c.GetQuery("email"); ok {
		if err := s.deps.Integration.CaptureDownloadEmail(ctx, sessionID, email); err != nil {
			fail(c, statusFor(err), err)
			return
		}
	}
	a, err := s.deps.Integration.Analyze(ctx, sessionID)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	now := s.deps.Now()
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFilename(now)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.ExportText(a, now)))
}

func (s *Server) handleWheel(c *gin.Context) {
	kind := domain.ClusterType(c.Param("kind"))
	w, err := s.deps.Taxonomy.Wheel(kind)
	if err != nil {
		fail(c, http.StatusNotFound, err)
		return
	}

	lit := wheel.CellSet{}
	if sessionID := c.Query("session"); sessionID != "" {
		clusters, err := s.deps.Discovery.List(c.Request.Context(), sessionID, kind)
		if err != nil {
			fail(c, statusFor(err), err)
			return
		}
		lit = w.LitCells(clusters)
	}

	var buf bytes.Buffer
	if err := w.RenderSVG(&buf, lit, wheel.SVGOptions{ShowLabels: c.Query("labels") != "false"}); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) handleIdentity(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := c.Param("session")

	byKind := make(map[domain.ClusterType][]domain.Cluster, len(wheel.Kinds))
	for _, kind := range wheel.Kinds {
		clusters, err := s.deps.Discovery.List(ctx, sessionID, kind)
		if err != nil {
			fail(c, statusFor(err), err)
			return
		}
		byKind[kind] = clusters
	}
	c.JSON(http.StatusOK, gin.H{"identity": s.deps.Taxonomy.IdentityFor(byKind)})
}
