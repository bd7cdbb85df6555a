// Command huff16d serves the huff16 codec over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/seiflotfy/huff16/internal/config"
	"github.com/seiflotfy/huff16/internal/handler"
	"github.com/seiflotfy/huff16/internal/router"
	"github.com/seiflotfy/huff16/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	codecSvc := service.NewCodecService(cfg.MaxBytes, log)
	codecH := handler.NewCodecHandler(codecSvc, cfg.MaxBytes)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))
	router.Register(r, router.Dependencies{
		CodecHandler: codecH,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "max_bytes": cfg.MaxBytes}).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("http request")
	}
}
