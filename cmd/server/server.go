package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ventureforge/planscope/internal/cache"
	"github.com/ventureforge/planscope/internal/config"
	"github.com/ventureforge/planscope/internal/database"
	"github.com/ventureforge/planscope/internal/errors"
	"github.com/ventureforge/planscope/internal/evaluation"
	"github.com/ventureforge/planscope/internal/export"
	"github.com/ventureforge/planscope/internal/generator"
	"github.com/ventureforge/planscope/internal/monitoring"
	"github.com/ventureforge/planscope/internal/plan"
	"github.com/ventureforge/planscope/internal/ratelimit"
)

// cachedPrefixes lists the read endpoints whose responses are cached until
// the next successful write.
var cachedPrefixes = []string{"/api/plans", "/api/rankings", "/api/analytics"}

type server struct {
	cfg       *config.Config
	db        *database.DB
	repo      *database.Repository
	generator *generator.Generator
	writer    *export.Writer
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	limiter   *ratelimit.RateLimiter
	cache     *cache.Cache
}

func newServer(cfg *config.Config, db *database.DB, gen *generator.Generator, writer *export.Writer, limiter *ratelimit.RateLimiter, metrics *monitoring.Metrics) *server {
	return &server{
		cfg:       cfg,
		db:        db,
		repo:      database.NewRepository(db),
		generator: gen,
		writer:    writer,
		metrics:   metrics,
		logger:    monitoring.NewLogger(),
		limiter:   limiter,
		cache:     cache.NewCache(cfg.CacheTTL),
	}
}

func (s *server) setupRouter() *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	r.Use(monitoring.MonitoringMiddleware(s.metrics, s.logger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())
	r.Use(s.limiter.IPRateLimitMiddleware())
	r.Use(s.cache.Middleware(s.metrics, s.logger, cachedPrefixes))

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/plans", s.handleListPlans)
		api.GET("/plans/:id", s.handleGetPlan)
		api.POST("/generate", s.limiter.GenerateRateLimitMiddleware(), s.handleGenerate)
		api.GET("/rankings", s.handleRankings)
		api.GET("/compare/:id1/:id2", s.handleCompare)
		api.GET("/analytics", s.handleAnalytics)
	}

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.metrics.GetStats())
	})
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.cache.Stats())
	})
	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.limiter.GetStats())
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *server) handleHealth(c *gin.Context) {
	status := "ok"
	redisStatus := "ok"
	if err := s.limiter.CheckRedis(c.Request.Context()); err != nil {
		// The limiter degrades to in-memory, so the API stays up.
		status = "degraded"
		redisStatus = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"redis":     redisStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"database":  s.db.GetPoolStats(),
		"metrics":   s.metrics.GetStats(),
	})
}

// planSummary is the list-view projection of an evaluated plan.
type planSummary struct {
	Rank             int     `json:"rank"`
	Percentile       float64 `json:"percentile"`
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Category         string  `json:"category"`
	Composite        float64 `json:"composite"`
	Feasibility      float64 `json:"feasibility"`
	Profitability    float64 `json:"profitability"`
	Innovation       float64 `json:"innovation"`
	MarketSize       float64 `json:"market_size,omitempty"`
	Year5Revenue     float64 `json:"year5_revenue,omitempty"`
	ValueProposition string  `json:"value_proposition,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

func summarize(rp evaluation.RankedPlan) planSummary {
	summary := planSummary{
		Rank:             rp.Rank,
		Percentile:       rp.Percentile,
		ID:               rp.Plan.ID,
		Title:            rp.Plan.Title,
		Category:         string(rp.Plan.Category),
		Composite:        rp.Result.Composite,
		Feasibility:      rp.Result.Feasibility,
		Profitability:    rp.Result.Profitability,
		Innovation:       rp.Result.Innovation,
		ValueProposition: rp.Plan.ValueProposition,
		CreatedAt:        rp.Plan.CreatedAt.Format(time.RFC3339),
	}
	if rp.Plan.Market != nil {
		summary.MarketSize = rp.Plan.Market.MarketSize
	}
	if rp.Plan.Financials != nil {
		summary.Year5Revenue = rp.Plan.Financials.Year5Revenue
	}
	return summary
}

func (s *server) rankedPopulation() ([]evaluation.RankedPlan, error) {
	population, err := s.repo.ListEvaluated(evaluation.RubricVersion)
	if err != nil {
		return nil, err
	}
	if len(population) == 0 {
		return nil, nil
	}
	return evaluation.Rank(population)
}

func (s *server) handleListPlans(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 10, 1, 100)
	offset := parseQueryInt(c, "offset", 0, 0, 1<<30)

	ranked, err := s.rankedPopulation()
	if err != nil {
		s.respondError(c, err)
		return
	}

	total := len(ranked)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	summaries := make([]planSummary, 0, end-offset)
	for _, rp := range ranked[offset:end] {
		summaries = append(summaries, summarize(rp))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  total,
		"offset": offset,
		"limit":  limit,
		"plans":  summaries,
	})
}

func (s *server) handleGetPlan(c *gin.Context) {
	id := c.Param("id")

	p, err := s.repo.GetPlan(id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	response := gin.H{"plan": p}

	result, err := s.repo.GetEvaluation(id, evaluation.RubricVersion)
	if err == nil {
		response["evaluation"] = result

		if ranked, rerr := s.rankedPopulation(); rerr == nil {
			for _, rp := range ranked {
				if rp.Plan.ID == id {
					response["rank"] = rp.Rank
					response["percentile"] = rp.Percentile
					break
				}
			}
		}
	} else if !errors.IsNotFound(err) {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

type generateRequest struct {
	Count    int    `json:"count"`
	Category string `json:"category"`
}

func (s *server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > s.cfg.MaxGeneratePerRequest {
		s.respondError(c, errors.NewValidationError(
			"count exceeds the per-request maximum",
			strconv.Itoa(s.cfg.MaxGeneratePerRequest)))
		return
	}

	var category plan.Category
	if req.Category != "" {
		parsed, ok := plan.ParseCategory(req.Category)
		if !ok {
			s.respondError(c, errors.NewInvalidCategoryError(req.Category))
			return
		}
		category = parsed
	}

	existing, err := s.repo.ListPlans()
	if err != nil {
		s.respondError(c, err)
		return
	}

	summaries := make([]planSummary, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		start := time.Now()

		p, source, err := s.generator.Generate(c.Request.Context(), category, existing)
		if err != nil {
			s.respondError(c, err)
			return
		}
		s.metrics.IncrementPlanGenerated(source == generator.SourceLLM)
		s.logger.GenerationLogger(string(p.Category), string(source), time.Since(start))

		evalStart := time.Now()
		result := evaluation.Evaluate(p)
		s.metrics.IncrementEvaluation()
		s.logger.EvaluationLogger(p.ID, string(p.Category), result.Composite, time.Since(evalStart))

		if err := s.repo.SavePlan(p); err != nil {
			s.respondError(c, err)
			return
		}
		if err := s.repo.SaveEvaluation(&result); err != nil {
			s.respondError(c, err)
			return
		}

		if s.writer != nil {
			if _, err := s.writer.WritePlan(p, result); err != nil {
				slog.Warn("Failed to write plan artifact", "plan_id", p.ID, "error", err)
			}
		}

		existing = append(existing, p)
		summaries = append(summaries, planSummary{
			ID:               p.ID,
			Title:            p.Title,
			Category:         string(p.Category),
			Composite:        result.Composite,
			Feasibility:      result.Feasibility,
			Profitability:    result.Profitability,
			Innovation:       result.Innovation,
			ValueProposition: p.ValueProposition,
			CreatedAt:        p.CreatedAt.Format(time.RFC3339),
		})
	}

	s.writeSummaryReport()

	c.JSON(http.StatusOK, gin.H{
		"count": len(summaries),
		"plans": summaries,
	})
}

// writeSummaryReport refreshes the markdown summary artifact after a
// generation batch. Failures are logged, never surfaced to the caller.
func (s *server) writeSummaryReport() {
	if s.writer == nil {
		return
	}

	population, err := s.repo.ListEvaluated(evaluation.RubricVersion)
	if err != nil || len(population) == 0 {
		return
	}

	report, err := evaluation.Aggregate(population)
	if err != nil {
		return
	}

	if _, err := s.writer.WriteSummary(population, report); err != nil {
		slog.Warn("Failed to write summary report", "error", err)
	}
}

func (s *server) handleRankings(c *gin.Context) {
	ranked, err := s.rankedPopulation()
	if err != nil {
		s.respondError(c, err)
		return
	}

	summaries := make([]planSummary, 0, len(ranked))
	for _, rp := range ranked {
		summaries = append(summaries, summarize(rp))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    len(summaries),
		"rankings": summaries,
	})
}

func (s *server) handleCompare(c *gin.Context) {
	id1 := c.Param("id1")
	id2 := c.Param("id2")

	population, err := s.repo.ListEvaluated(evaluation.RubricVersion)
	if err != nil {
		s.respondError(c, err)
		return
	}

	var a, b *evaluation.Evaluated
	for i := range population {
		switch population[i].Plan.ID {
		case id1:
			a = &population[i]
		case id2:
			b = &population[i]
		}
	}

	if a == nil {
		s.respondError(c, errors.NewNotFoundError("plan", id1))
		return
	}
	if b == nil {
		s.respondError(c, errors.NewNotFoundError("plan", id2))
		return
	}

	report := evaluation.Compare(*a, *b)
	s.metrics.IncrementComparison()

	c.JSON(http.StatusOK, report)
}

func (s *server) handleAnalytics(c *gin.Context) {
	population, err := s.repo.ListEvaluated(evaluation.RubricVersion)
	if err != nil {
		s.respondError(c, err)
		return
	}

	report, err := evaluation.Aggregate(population)
	if err != nil {
		if errors.IsEmptyPopulation(err) {
			// An empty corpus is a normal state, not a client mistake.
			c.JSON(http.StatusOK, gin.H{
				"total_plans": 0,
				"statistics":  nil,
			})
			return
		}
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) respondError(c *gin.Context, err error) {
	appErr := errors.ToAppError(err)
	errors.LogError(c, appErr)
	c.JSON(appErr.HTTPStatus, appErr)
}

func parseQueryInt(c *gin.Context, name string, def, min, max int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
