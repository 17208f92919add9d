package servehttp

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"landdesk/common"

	"github.com/gin-gonic/gin"
)

// ServiceAddress SERVICE_ADDRESS, default ":8080"
func ServiceAddress() string {
	addr := os.Getenv("SERVICE_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	return addr
}

func StartHTTPServer(engine *gin.Engine) {
	srv := &http.Server{
		Addr:    ServiceAddress(),
		Handler: engine,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	// kill (no param) default send syscall.SIGTERM
	// kill -2 send syscall.SIGINT
	// kill -9 send syscall.SIGKILL, can't be caught
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	common.Log.Infoln("shutdown signal has been received, the service will exit in 3 seconds")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	// graceful shutdown http.Server
	if err := srv.Shutdown(ctx); err != nil {
		common.Log.Fatalf("http server shutdown failed: %v\n", err)
	}
	common.Log.Infoln("http server is shutdown gracefully, new request will be rejected")

	<-ctx.Done()
	common.Log.Infoln("service exiting")
}
