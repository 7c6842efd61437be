package server

import (
	"detailq/internal/global"
	"detailq/internal/metrics"
	"net/http"
	"strings"
)

// Namespace comes from the path below the endpoint prefix, e.g.
// /data/Daemon/Feed?name=records_read
func parseQuery(clientRequest *http.Request, prefix string, windowed bool) (q query, ok bool) {
	rawNamespace := strings.Trim(strings.TrimPrefix(clientRequest.URL.Path, prefix), "/")
	if rawNamespace != "" {
		q.namespace = strings.Split(rawNamespace, "/")
	}
	q.name = clientRequest.FormValue("name")

	if !windowed {
		ok = true
		return
	}
	q.start, q.end, ok = parseWindow(clientRequest)
	return
}

func (handler *queryHandler) serveData(serverResponder http.ResponseWriter, clientRequest *http.Request) {
	q, ok := parseQuery(clientRequest, global.DataPath, true)
	if !ok {
		writeError(handler.ctx, serverResponder, http.StatusBadRequest, "invalid time window")
		return
	}
	results := handler.search(q.name, q.namespace, q.start, q.end)
	handler.writeResults(serverResponder, results)
}

// Lists one value-less sample per series matching the filters
func (handler *queryHandler) serveDiscovery(serverResponder http.ResponseWriter, clientRequest *http.Request) {
	q, _ := parseQuery(clientRequest, global.DiscoveryPath, false)

	metricType, ok := parseMetricType(clientRequest.FormValue("type"))
	if !ok {
		writeError(handler.ctx, serverResponder, http.StatusBadRequest, "unknown metric type")
		return
	}

	results := handler.discover(q.name,
		clientRequest.FormValue("description"),
		q.namespace,
		clientRequest.FormValue("unit"),
		metricType)
	handler.writeResults(serverResponder, results)
}

func (handler *queryHandler) serveAggregation(serverResponder http.ResponseWriter, clientRequest *http.Request) {
	q, ok := parseQuery(clientRequest, global.AggregationPath, true)
	if !ok {
		writeError(handler.ctx, serverResponder, http.StatusBadRequest, "invalid time window")
		return
	}

	result, err := handler.aggregate(clientRequest.FormValue("aggregation"), q.name, q.namespace, q.start, q.end)
	if err != nil {
		writeError(handler.ctx, serverResponder, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(handler.ctx, serverResponder, http.StatusOK, result.Convert())
}

func (handler *queryHandler) writeResults(serverResponder http.ResponseWriter, results []metrics.Metric) {
	if len(results) == 0 {
		writeError(handler.ctx, serverResponder, http.StatusNotFound, "search returned no results")
		return
	}

	converted := make([]metrics.JMetric, 0, len(results))
	for _, result := range results {
		converted = append(converted, result.Convert())
	}
	writeJSON(handler.ctx, serverResponder, http.StatusOK, converted)
}

// Empty means any type
func parseMetricType(raw string) (metricType metrics.MetricType, ok bool) {
	metricType = metrics.MetricType(strings.ToLower(raw))
	switch metricType {
	case "", metrics.Counter, metrics.Gauge, metrics.Summary:
		ok = true
	}
	return
}
