package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"apod/pkg/client"
	"apod/pkg/config"
	"apod/pkg/handler"
	srvc "apod/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	configPath := flag.String("config", "", "path to a yaml/toml/env config file, environment is used when empty")
	flag.Parse()

	cnf, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %s", err.Error())
	}

	log := cnf.Logger()

	apodClient, err := client.New(cnf.Client(), client.WithLogger(log))
	if err != nil {
		log.Fatalf("failed to initialize apod client: %s", err.Error())
	}
	if apodClient.UsesDemoKey() {
		log.Warn("NASA_API_KEY not set, using the demo key: range, recent and random galleries stay empty")
	}

	sizes := srvc.Sizes{RecentDays: cnf.APOD.RecentDays, RandomCount: cnf.APOD.RandomCount}
	handlers, err := handler.NewHandler(srvc.NewService(apodClient, sizes), handler.Options{
		Sizes:          sizes,
		AllowedOrigins: cnf.App.AllowedOrigins,
		Logger:         log,
	})
	if err != nil {
		log.Fatalf("failed to initialize handlers: %s", err.Error())
	}

	srv := new(server)
	go func() {
		if err := srv.Run(cnf.App.Port, handlers.InitRoutes()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	log.WithField("port", cnf.App.Port).Info("apod gallery started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Printf("apod gallery shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

type server struct {
	httpSrv *http.Server
}

// WriteTimeout covers a full retry sequence of the home page: three
// attempts of 10s plus waits of up to 21s.
func (s *server) Run(port string, h http.Handler) error {
	s.httpSrv = &http.Server{
		Addr:           ":" + port,
		Handler:        h,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   90 * time.Second,
		IdleTimeout:    10 * time.Second,
	}

	return s.httpSrv.ListenAndServe()
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
