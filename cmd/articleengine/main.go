// Command articleengine runs the long-form AEO article generation service,
// grounded on the teacher's cmd/upal/main.go dispatch style: a single binary
// with a "serve" subcommand, config.LoadDefault before wiring collaborators.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ai-visible/articleengine/internal/api"
	"github.com/ai-visible/articleengine/internal/collab"
	"github.com/ai-visible/articleengine/internal/config"
	"github.com/ai-visible/articleengine/internal/llm"
	"github.com/ai-visible/articleengine/internal/quality"
	"github.com/ai-visible/articleengine/internal/render"
	"github.com/ai-visible/articleengine/internal/rewrite"
	"github.com/ai-visible/articleengine/internal/stages"
	"github.com/ai-visible/articleengine/internal/workflow"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve()
		return
	}
	fmt.Println("articleengine v0.1.0")
	fmt.Println("Usage: articleengine serve")
}

func serve() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading configuration from environment and config.yaml only")
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}
	applyEnvOverrides(cfg)

	var llmOpts []llm.AnthropicOption
	if cfg.LLM.BaseURL != "" {
		llmOpts = append(llmOpts, llm.WithBaseURL(cfg.LLM.BaseURL))
	}
	llmClient := llm.NewAnthropicClient(cfg.LLM.APIKey, cfg.LLM.Model, llmOpts...)

	var imageGen collab.ImageGenerator
	if cfg.Image.Enabled && cfg.Image.APIKey != "" {
		imageGen = collab.NewGeminiImageGenerator(cfg.Image.APIKey, cfg.Image.Model)
	}

	persistence, err := buildPersistence(cfg.Persistence)
	if err != nil {
		slog.Error("persistence error", "err", err)
		os.Exit(1)
	}

	var pdfConverter render.PDFConverter
	if cfg.PDF.Enabled && cfg.PDF.ServiceURL != "" {
		pdfConverter = render.NewHTTPPDFConverter(cfg.PDF.ServiceURL)
	}

	rewriteEngine := rewrite.New(llmClient)

	registry := stages.NewDefaultRegistry(stages.Dependencies{
		CompanyHarvester: collab.NewHTTPCompanyDataHarvester(),
		SitemapFetcher:   collab.NewHTTPSitemapFetcher(),
		LLM:              llmClient,
		Rewriter:         rewriteEngine,
		URLHealth:        collab.NewUrlHealthCache(nil),
		ImageGenerator:   imageGen,
		Persistence:      persistence,
		PDFConverter:     pdfConverter,
		BaseURL:          cfg.Server.BaseURL,
	})

	engine := workflow.NewWorkflowEngine(registry)
	engine.ParallelConcurrency = cfg.Pipeline.ParallelConcurrency
	engine.Rewriter = rewriteEngine
	engine.Rescorer = quality.Rescorer{}
	engine.BuildInstruction = func(issue workflow.Issue, ec *workflow.ExecutionContext) (workflow.RewriteInstruction, bool) {
		return quality.BuildInstruction(issue, ec.JobConfig.PrimaryKeyword)
	}

	srv := api.NewServer(engine, rewriteEngine, cfg.Auth.JWTSecret)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting articleengine server", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

// buildPersistence selects the Storage/Export backend named in config.
func buildPersistence(pcfg config.PersistenceConfig) (collab.Persistence, error) {
	switch pcfg.Backend {
	case "postgres":
		return collab.NewPostgresPersistence(context.Background(), pcfg.DatabaseURL)
	default:
		dir := pcfg.LocalDir
		if dir == "" {
			dir = "data/articles"
		}
		return collab.NewLocalPersistence(dir)
	}
}

// applyEnvOverrides lets the common secrets (API keys, JWT secret, database
// URL) come from the process environment via .env rather than living in
// config.yaml, matching the teacher's preference for keeping credentials out
// of checked-in YAML.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Image.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Persistence.DatabaseURL = v
		cfg.Persistence.Backend = "postgres"
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("PDF_SERVICE_URL"); v != "" {
		cfg.PDF.ServiceURL = v
		cfg.PDF.Enabled = true
	}
}
