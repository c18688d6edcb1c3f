package main

import (
	"flag"
	"os"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/conf"
	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/server"
	"github.com/codyssey-team/fnb_navigator/app/gateway/internal/service"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name is the registered service name.
	Name string = "gateway"
	// Version is the service version.
	Version string
	// flagconf is the config file path flag.
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "app/gateway/configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	logger := log.With(log.NewStdLogger(os.Stdout),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
		"service.id", id,
		"service.name", Name,
		"service.version", Version,
	)

	c := config.New(
		config.WithSource(
			file.NewSource(flagconf),
		),
	)
	defer c.Close()

	if err := c.Load(); err != nil {
		panic(err)
	}

	var bc conf.Bootstrap
	if err := c.Scan(&bc); err != nil {
		panic(err)
	}

	pipeline, cleanup, err := server.NewPipeline(bc.Navigator, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	svc := service.NewNavigatorService(pipeline, logger)
	httpSrv := server.NewHTTPServer(bc.Server, svc, logger)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Logger(logger),
		kratos.Server(httpSrv),
	)
	if err := app.Run(); err != nil {
		panic(err)
	}
}
