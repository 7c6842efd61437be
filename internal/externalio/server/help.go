package server

const helpTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>detailq metrics</title></head>
<body>
<h1>detailq metric query server</h1>
<p>Listening on http://@@LISTEN_ADDR@@:@@LISTEN_PORT@@/</p>
<h2>Discovery</h2>
<p><code>GET @@DISCOVER_PATH@@&lt;namespace&gt;?name=&amp;description=&amp;unit=&amp;type=counter|gauge|summary</code></p>
<p>Lists one sample per metric matching the filters, without data.</p>
<h2>Data</h2>
<p><code>GET @@DATA_PATH@@&lt;namespace&gt;?name=&amp;starttime=&amp;endtime=</code></p>
<p>starttime is RFC3339 or relative to now (for example -5m), endtime is RFC3339 or "now". Defaults to the last minute.</p>
<h2>Aggregation</h2>
<p><code>GET @@AGGREGATION_PATH@@&lt;namespace&gt;?name=&amp;aggregation=sum|min|max|avg&amp;starttime=&amp;endtime=</code></p>
<h2>Prometheus</h2>
<p><code>GET @@PROMETHEUS_PATH@@</code> serves the text exposition format.</p>
<p>Namespaces are slash separated, for example Daemon/Feed/Stream.</p>
</body>
</html>
`
