package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"golang.org/x/time/rate"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/agent"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/config"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/logger"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/storage"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/workflow"
)

// request is the input document the CLI consumes, mirroring the gateway's
// submit payload.
type request struct {
	PersonalInfo schema.PersonalInfo `json:"personal_info"`
	ProjectInfo  schema.ProjectInfo  `json:"project_info"`
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	inputPath := flag.String("input", "", "path to request JSON file")
	outputPath := flag.String("output", "", "write the full report JSON here (default stdout summary only)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Log

	if *inputPath == "" {
		log.Error("missing -input: a request JSON file is required")
		os.Exit(1)
	}
	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Errorf("read request file: %v", err)
		os.Exit(1)
	}
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		log.Errorf("parse request file: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		log.Errorf("create chat model: %v", err)
		os.Exit(1)
	}

	runnerOpts := []agent.Option{agent.WithLogger(log)}
	if cfg.Concurrency.RPM > 0 {
		limit := rate.Every(time.Minute / time.Duration(cfg.Concurrency.RPM))
		runnerOpts = append(runnerOpts, agent.WithLimiter(rate.NewLimiter(limit, 1)))
	} else if cfg.Concurrency.QPS > 0 {
		runnerOpts = append(runnerOpts, agent.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Concurrency.QPS), 1)))
	}
	if cfg.Workflow.CallTimeoutSeconds > 0 {
		runnerOpts = append(runnerOpts, agent.WithCallTimeout(time.Duration(cfg.Workflow.CallTimeoutSeconds)*time.Second))
	}
	if cfg.Workflow.MaxRetries > 0 {
		runnerOpts = append(runnerOpts, agent.WithRetry(cfg.Workflow.MaxRetries))
	}

	orchOpts := []workflow.OrchestratorOption{
		workflow.WithLogger(log),
		workflow.WithRunnerOptions(runnerOpts...),
	}
	if cfg.Workflow.StrictItemCount {
		orchOpts = append(orchOpts, workflow.WithStrictItemCount())
	}
	if cfg.DB.Host != "" {
		st, err := storage.NewStorage(cfg.DB.DSN())
		if err != nil {
			log.Errorf("connect storage: %v", err)
			os.Exit(1)
		}
		defer st.Close()
		if err := st.InitSchema(ctx); err != nil {
			log.Errorf("init storage schema: %v", err)
			os.Exit(1)
		}
		orchOpts = append(orchOpts, workflow.WithStore(st))
	}

	orch := workflow.NewOrchestrator(cm, orchOpts...)

	start := time.Now()
	rep, err := orch.Run(ctx, req.PersonalInfo, req.ProjectInfo)
	if err != nil {
		log.Errorf("workflow failed: %v", err)
		os.Exit(1)
	}
	log.Infof("workflow finished in %s: %d items, %d roadmaps",
		time.Since(start).Round(time.Millisecond), len(rep.RecommendedItems), len(rep.Roadmaps))

	fmt.Println(rep.ExecutiveSummary)

	if *outputPath != "" {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			log.Errorf("marshal report: %v", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
			log.Errorf("write report: %v", err)
			os.Exit(1)
		}
		log.Infof("report written to %s", *outputPath)
	}
}
