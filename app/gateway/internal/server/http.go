package server

import (
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/rs/cors"

	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/conf"
	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/service"
)

func NewHTTPServer(c *conf.Server, s *service.NavigatorService, logger log.Logger) *http.Server {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{nethttp.MethodGet, nethttp.MethodPost, nethttp.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
		http.Filter(corsHandler.Handler),
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != "" {
		if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)

	r := srv.Route("/")
	r.GET("/", func(ctx http.Context) error {
		return ctx.Result(nethttp.StatusOK, map[string]string{
			"service": "fnb-navigator-gateway",
			"status":  "ok",
		})
	})
	r.GET("/health", func(ctx http.Context) error {
		return ctx.Result(nethttp.StatusOK, map[string]string{"status": "ok"})
	})
	r.POST("/api/submit", func(ctx http.Context) error {
		var req service.SubmitRequest
		if err := ctx.Bind(&req); err != nil {
			return err
		}
		reply, err := s.Submit(ctx, &req)
		if err != nil {
			return err
		}
		return ctx.Result(nethttp.StatusOK, reply)
	})

	return srv
}
