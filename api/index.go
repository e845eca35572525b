// Package handler is the serverless entry point. The service graph is built on
// the first invocation and reused while the instance stays warm.
package handler

import (
	"net/http"
	"sync"
	"taskpal/config"
	"taskpal/di"
	"taskpal/shared/logger"
)

var service = sync.OnceValue(func() http.Handler {
	cfg := config.Get()

	logger.InitLogger()
	logger.SetLogLevel(cfg)

	return di.InitializeService()
})

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	service().ServeHTTP(w, r)
}
