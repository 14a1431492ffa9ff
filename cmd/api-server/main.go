package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fixhub/internal/catalog"
	"fixhub/internal/logger"
	"fixhub/internal/solutions"
	synchub "fixhub/internal/sync"
	"fixhub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg := logger.New(cfg.LogLevel)

	store := catalog.NewStore(lg)
	if err := store.LoadFile(cfg.DataPath); err != nil {
		// persistent error state: serve with an empty collection, no retry
		lg.Error("starting with empty catalog", "err", err)
	}

	router := gin.Default()

	// avoid the "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Start the TCP feed first so binding errors show up early
	hub := synchub.NewHub()
	router.GET("/ws", synchub.WSHandler(hub))
	tcpSrv := synchub.NewServer(cfg.FeedAddr, hub)

	router.GET("/health", func(c *gin.Context) {
		if msg := store.DescribeLoadErr(); msg != "" {
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "load_error": msg})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "data": cfg.DataPath})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		if msg := store.DescribeLoadErr(); msg != "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"load_error":  msg,
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"records":     store.Len(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"data":        cfg.DataPath,
			"records":     store.Len(),
			"pending":     store.PendingCount(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	handler := solutions.NewHandler(store, hub)
	handler.RegisterRoutes(router.Group("/solutions"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
