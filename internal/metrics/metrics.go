package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for HTTP requests and conversion work.
// This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	blocksConverted = make(map[string]int64)
	warningsTotal   = make(map[string]int64)
	widgetsDetected = make(map[string]int64)
	scriptPurposes  = make(map[string]int64)
	pagesConverted  int64
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

// RecordRequest increments the request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordBlock increments the per-type counter of emitted blocks.
func RecordBlock(blockType string) {
	mu.Lock()
	defer mu.Unlock()
	blocksConverted[blockType]++
}

// RecordWarning increments the per-type counter of conversion warnings.
func RecordWarning(warningType string) {
	mu.Lock()
	defer mu.Unlock()
	warningsTotal[warningType]++
}

// RecordWidget increments the per-action counter of detected widgets.
func RecordWidget(action string) {
	mu.Lock()
	defer mu.Unlock()
	widgetsDetected[action]++
}

// RecordScriptPurpose increments the per-purpose counter of classified
// scripts.
func RecordScriptPurpose(purpose string) {
	mu.Lock()
	defer mu.Unlock()
	scriptPurposes[purpose]++
}

// RecordPageConverted increments the converted-page counter.
func RecordPageConverted() {
	mu.Lock()
	defer mu.Unlock()
	pagesConverted++
}

func writeCounter(b *strings.Builder, name, help, label string, m map[string]int64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s counter\n", name)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s{%s=\"%s\"} %d\n", name, label, k, m[k])
	}
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP wamigrate_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE wamigrate_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		fmt.Fprintf(&b, "wamigrate_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP wamigrate_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE wamigrate_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP wamigrate_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE wamigrate_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		fmt.Fprintf(&b, "wamigrate_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "wamigrate_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	writeCounter(&b, "wamigrate_blocks_converted_total", "Total blocks emitted by type", "block_type", blocksConverted)
	writeCounter(&b, "wamigrate_conversion_warnings_total", "Total conversion warnings by type", "warning_type", warningsTotal)
	writeCounter(&b, "wamigrate_widgets_detected_total", "Total recognized widgets by migration action", "action", widgetsDetected)
	writeCounter(&b, "wamigrate_script_purposes_total", "Total classified scripts by purpose", "purpose", scriptPurposes)

	b.WriteString("# HELP wamigrate_pages_converted_total Total pages converted\n")
	b.WriteString("# TYPE wamigrate_pages_converted_total counter\n")
	fmt.Fprintf(&b, "wamigrate_pages_converted_total %d\n", pagesConverted)

	return b.String()
}
