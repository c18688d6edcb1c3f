package server

import (
	"context"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/time/rate"

	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/conf"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/agent"
	navConfig "github.com/codyssey-team/fnb_navigator/app/navigator/pkg/config"
	navLogger "github.com/codyssey-team/fnb_navigator/app/navigator/pkg/logger"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/storage"
	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/workflow"
)

// NewPipeline assembles the workflow orchestrator from gateway config.
func NewPipeline(c *conf.Navigator, logger log.Logger) (*workflow.Orchestrator, func(), error) {
	helper := log.NewHelper(logger)

	if err := navLogger.InitLogger(c.Log.Level, c.Log.File); err != nil {
		helper.Errorf("failed to init navigator logger: %v", err)
		_ = navLogger.InitLogger("info", "")
	}

	ctx := context.Background()
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: c.Llm.BaseUrl,
		APIKey:  c.Llm.ApiKey,
		Model:   c.Llm.Model,
	})
	if err != nil {
		helper.Errorf("failed to init chat model: %v", err)
		return nil, nil, err
	}

	runnerOpts := []agent.Option{agent.WithLogger(navLogger.Log)}
	if c.Concurrency != nil {
		if c.Concurrency.Rpm > 0 {
			limit := rate.Every(time.Minute / time.Duration(c.Concurrency.Rpm))
			runnerOpts = append(runnerOpts, agent.WithLimiter(rate.NewLimiter(limit, 1)))
		} else if c.Concurrency.Qps > 0 {
			runnerOpts = append(runnerOpts, agent.WithLimiter(rate.NewLimiter(rate.Limit(c.Concurrency.Qps), 1)))
		}
	}
	if c.Workflow != nil {
		if c.Workflow.CallTimeoutSeconds > 0 {
			runnerOpts = append(runnerOpts, agent.WithCallTimeout(time.Duration(c.Workflow.CallTimeoutSeconds)*time.Second))
		}
		if c.Workflow.MaxRetries > 0 {
			runnerOpts = append(runnerOpts, agent.WithRetry(int(c.Workflow.MaxRetries)))
		}
	}

	orchOpts := []workflow.OrchestratorOption{
		workflow.WithLogger(navLogger.Log),
		workflow.WithRunnerOptions(runnerOpts...),
	}
	if c.Workflow != nil && c.Workflow.StrictItemCount {
		orchOpts = append(orchOpts, workflow.WithStrictItemCount())
	}

	cleanup := func() {
		helper.Info("cleaning up navigator pipeline")
	}

	if c.Db != nil && c.Db.Host != "" {
		dbCfg := navConfig.DBConfig{
			Host:     c.Db.Host,
			Port:     int(c.Db.Port),
			User:     c.Db.User,
			Password: c.Db.Password,
			Name:     c.Db.Name,
		}
		st, err := storage.NewStorage(dbCfg.DSN())
		if err != nil {
			helper.Errorf("failed to init storage: %v", err)
			return nil, nil, err
		}
		if err := st.InitSchema(ctx); err != nil {
			helper.Errorf("failed to init storage schema: %v", err)
			st.Close()
			return nil, nil, err
		}
		orchOpts = append(orchOpts, workflow.WithStore(st))
		cleanup = func() {
			helper.Info("cleaning up navigator pipeline")
			st.Close()
		}
	}

	return workflow.NewOrchestrator(cm, orchOpts...), cleanup, nil
}
