// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/langcheck/pkg/logging"
	"github.com/AleutianAI/langcheck/services/lint/report"
)

// DefaultListen is the status server address.
const DefaultListen = ":8089"

// NewRouter builds the status API.
//
//	GET /healthz     liveness
//	GET /v1/results  latest result per file; ?file= selects one
//	GET /metrics     prometheus exposition, when metrics is non-nil
//	GET /events      websocket stream of results
func NewRouter(svc *Service, hub *Hub, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("langcheck"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.GET("/results", func(c *gin.Context) {
		if file := c.Query("file"); file != "" {
			res, ok := svc.Latest(file)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no result for file"})
				return
			}
			c.JSON(http.StatusOK, report.NewJSONReport(res))
			return
		}

		results := svc.Results()
		out := make([]report.JSONReport, 0, len(results))
		for _, res := range results {
			out = append(out, report.NewJSONReport(res))
		}
		c.JSON(http.StatusOK, gin.H{"results": out})
	})

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}
	if hub != nil {
		router.GET("/events", hub.HandleEvents())
	}
	return router
}

// Serve runs handler on addr until ctx is canceled, then shuts down
// gracefully. A nil error means a clean shutdown.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("status server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
