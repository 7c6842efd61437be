// HTTP server exposing discovery, querying and Prometheus scraping of metric data on the local system
package server

import (
	"context"
	"detailq/internal/global"
	"detailq/internal/logctx"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Builds the metric query server bound to localhost. A nil gatherer leaves
// the Prometheus endpoint unregistered.
func SetupListener(ctx context.Context, port int, search DataSearcher, discover Discoverer, aggregation AggSearcher, gatherer prometheus.Gatherer) (server *http.Server, err error) {
	if search == nil || discover == nil || aggregation == nil {
		err = fmt.Errorf("metric server requires search, discovery and aggregation functions")
		return
	}
	if port < 1 || port > 65535 {
		err = fmt.Errorf("invalid metric server port %d", port)
		return
	}

	handler := &queryHandler{
		ctx:       ctx,
		search:    search,
		discover:  discover,
		aggregate: aggregation,
	}
	helpPage := renderHelp(port)
	errorLog := log.New(httpLogWriter{ctx: ctx}, "", 0)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		serverResponder.Header().Set("Content-Type", "text/html; charset=utf-8")
		serverResponder.Write(helpPage)
	})
	mux.HandleFunc("GET "+global.DiscoveryPath, handler.serveDiscovery)
	mux.HandleFunc("GET "+global.DataPath, handler.serveData)
	mux.HandleFunc("GET "+global.AggregationPath, handler.serveAggregation)
	if gatherer != nil {
		mux.Handle("GET "+global.PrometheusPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorLog: errorLog,
		}))
	}

	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      mux,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     errorLog,
	}
	return
}

// Blocks serving requests until the server is shut down
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Metric query server listening on http://%s/\n", server.Addr)

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Metric query server failed: %v\n", err)
	}
}

func renderHelp(port int) (page []byte) {
	replacer := strings.NewReplacer(
		"@@LISTEN_ADDR@@", global.HTTPListenAddr,
		"@@LISTEN_PORT@@", strconv.Itoa(port),
		"@@DATA_PATH@@", global.DataPath,
		"@@DISCOVER_PATH@@", global.DiscoveryPath,
		"@@AGGREGATION_PATH@@", global.AggregationPath,
		"@@PROMETHEUS_PATH@@", global.PrometheusPath,
	)
	page = []byte(replacer.Replace(helpTemplate))
	return
}

func writeJSON(ctx context.Context, serverResponder http.ResponseWriter, status int, content any) {
	body, err := json.Marshal(content)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling metric results: %v\n", err)
		serverResponder.WriteHeader(http.StatusInternalServerError)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(status)
	serverResponder.Write(append(body, '\n'))
}

func writeError(ctx context.Context, serverResponder http.ResponseWriter, status int, msg string) {
	writeJSON(ctx, serverResponder, status, Jerror{Msg: msg})
}

// Routes net/http server errors into the context logger
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return
	}
	logctx.LogEvent(logWriter.ctx, global.VerbosityStandard, global.ErrorLog, "%s\n", msg)
	return
}
