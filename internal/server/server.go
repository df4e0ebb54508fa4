package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jmorgan/ikigai-copilot/internal/chat"
	"github.com/jmorgan/ikigai-copilot/internal/config"
	"github.com/jmorgan/ikigai-copilot/internal/db"
	"github.com/jmorgan/ikigai-copilot/internal/jobsearch"
	"github.com/jmorgan/ikigai-copilot/internal/knowledge"
	"github.com/jmorgan/ikigai-copilot/internal/llm"
	"github.com/jmorgan/ikigai-copilot/internal/profile"
	"github.com/jmorgan/ikigai-copilot/internal/recommend"
	"github.com/jmorgan/ikigai-copilot/internal/roadmap"
	"github.com/jmorgan/ikigai-copilot/internal/server/middleware"
	"github.com/jmorgan/ikigai-copilot/internal/server/ratelimit"
	"github.com/jmorgan/ikigai-copilot/internal/types"
	"github.com/jmorgan/ikigai-copilot/internal/vectorstore"
)

// ChatService runs the chat pipeline for one user turn.
type ChatService interface {
	HandleChatMessage(ctx context.Context, userID, sessionID string, input types.ChatInput) (string, error)
}

// RecommendService runs the career-recommendation pipeline.
type RecommendService interface {
	Recommend(ctx context.Context, userID string, input types.IkigaiInput) (string, *types.RecommendationOutput, error)
}

// JobSearchService runs the personalized job-search pipeline.
type JobSearchService interface {
	Search(ctx context.Context, userID string, input types.JobSearchInput) (*types.JobSearchOutput, error)
}

// RoadmapService creates roadmaps and applies task-completion updates.
type RoadmapService interface {
	CreateRoadmapForJob(ctx context.Context, userID string, job types.JobDetails) (*types.Roadmap, error)
	GetRoadmap(ctx context.Context, userID, roadmapID string) (*types.Roadmap, error)
	UpdateTaskStatus(ctx context.Context, userID, roadmapID string, update types.RoadmapUpdate) error
}

// ProfileService reads and updates profiles and stores profile files.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*types.UserProfile, error)
	Update(ctx context.Context, userID string, patch types.UserProfile) (*types.UserProfile, error)
	UploadFile(ctx context.Context, userID string, kind profile.FileKind, filename, contentType string, data []byte) (string, error)
}

// KnowledgeService ingests uploaded documents into the knowledge base.
type KnowledgeService interface {
	AddDocument(ctx context.Context, filename, mimeType string, data []byte) (int, error)
}

// SessionStore is the subset of the db layer behind the session endpoints.
type SessionStore interface {
	CreateSession(ctx context.Context, userID string) (string, error)
	ListSessions(ctx context.Context, userID string) ([]types.Session, error)
	ListMessages(ctx context.Context, userID, sessionID string) ([]types.ChatMessage, error)
	SessionExists(ctx context.Context, userID, sessionID string) (bool, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	model       llm.Client
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler

	chat      ChatService
	recommend RecommendService
	jobs      JobSearchService
	roadmaps  RoadmapService
	profiles  ProfileService
	knowledge KnowledgeService
	sessions  SessionStore
}

// New creates a new server instance and wires every pipeline against the
// real collaborators.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	model, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	index := vectorstore.NewPostgresIndex(database.Pool(), model)
	normalizer := &llm.FenceBraceNormalizer{}

	chatSvc, err := chat.NewService(model, index, database, database)
	if err != nil {
		return nil, fmt.Errorf("failed to build chat pipeline: %w", err)
	}
	recommendSvc, err := recommend.NewService(model, normalizer, database)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation pipeline: %w", err)
	}

	var tool jobsearch.SearchTool = jobsearch.SimulatedTool{}
	if cfg.SerpAPIKey != "" {
		tool = jobsearch.NewSerpAPIClient(cfg.SerpAPIKey, nil)
	} else {
		log.Println("[server] SERPAPI_API_KEY not set, using simulated job search tool")
	}
	jobsSvc, err := jobsearch.NewService(model, normalizer, tool, database, database)
	if err != nil {
		return nil, fmt.Errorf("failed to build job search pipeline: %w", err)
	}

	roadmapSvc, err := roadmap.NewService(model, normalizer, database, database)
	if err != nil {
		return nil, fmt.Errorf("failed to build roadmap pipeline: %w", err)
	}

	var files profile.FileStore
	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		files = profile.NewS3FileStore(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Region)
	} else {
		log.Println("[server] S3_BUCKET not set, profile file uploads disabled")
	}

	s := &Server{
		db:        database,
		model:     model,
		chat:      chatSvc,
		recommend: recommendSvc,
		jobs:      jobsSvc,
		roadmaps:  roadmapSvc,
		profiles:  profile.NewService(database, files),
		knowledge: knowledge.NewService(index),
		sessions:  database,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(NewUserService(database, passwordConfig), s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // job search makes three model calls per request
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the route table. Everything except health and auth sits
// behind the bearer-token middleware.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /api/chat/sessions", s.handleCreateSession)
	authed.HandleFunc("GET /api/chat/sessions", s.handleListSessions)
	authed.HandleFunc("GET /api/chat/sessions/{session_id}", s.handleListSessionMessages)
	authed.HandleFunc("POST /api/chat/sessions/{session_id}/messages", s.handleChatMessage)

	authed.HandleFunc("POST /api/recommendation", s.handleRecommendation)
	authed.HandleFunc("POST /api/jobs/search", s.handleJobSearch)

	authed.HandleFunc("POST /api/roadmaps", s.handleCreateRoadmap)
	authed.HandleFunc("GET /api/roadmaps/{roadmap_id}", s.handleGetRoadmap)
	authed.HandleFunc("PATCH /api/roadmaps/{roadmap_id}/tasks", s.handleUpdateRoadmapTask)

	authed.HandleFunc("GET /api/profile", s.handleGetProfile)
	authed.HandleFunc("PATCH /api/profile", s.handleUpdateProfile)
	authed.HandleFunc("POST /api/profile/picture", s.handleUploadPicture)
	authed.HandleFunc("POST /api/profile/resume", s.handleUploadResume)

	authed.HandleFunc("POST /api/knowledge/upload", s.handleKnowledgeUpload)

	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	mux.Handle("/api/", requireAuth(authed))

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.model != nil {
		_ = s.model.Close()
	}
	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	writeJSON(w, http.StatusTooManyRequests, response)
}
