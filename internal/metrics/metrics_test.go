package metrics

import (
	"strings"
	"testing"
)

func TestRecordRequestAndExport(t *testing.T) {
	// Record a single request and ensure it appears in the export.
	RecordRequest("POST", "/v1/convert", 200, 12)

	out := Export()
	if !strings.Contains(out, "wamigrate_http_requests_total{method=\"POST\",path=\"/v1/convert\",status=\"200\"}") {
		t.Fatalf("expected HTTP request metric for POST /v1/convert in export, got:\n%s", out)
	}
	if !strings.Contains(out, "wamigrate_http_request_duration_ms_sum") || !strings.Contains(out, "wamigrate_http_request_duration_ms_count") {
		t.Fatalf("expected latency metrics headers in export, got:\n%s", out)
	}
}

func TestRecordConversionMetrics(t *testing.T) {
	RecordBlock("heading")
	RecordBlock("heading")
	RecordWarning("complex_html")
	RecordWidget("placeholder")
	RecordScriptPurpose("analytics")
	RecordPageConverted()

	out := Export()
	if !strings.Contains(out, "wamigrate_blocks_converted_total{block_type=\"heading\"}") {
		t.Fatalf("expected block counter for heading, got:\n%s", out)
	}
	if !strings.Contains(out, "wamigrate_conversion_warnings_total{warning_type=\"complex_html\"}") {
		t.Fatalf("expected warning counter for complex_html, got:\n%s", out)
	}
	if !strings.Contains(out, "wamigrate_widgets_detected_total{action=\"placeholder\"}") {
		t.Fatalf("expected widget counter, got:\n%s", out)
	}
	if !strings.Contains(out, "wamigrate_script_purposes_total{purpose=\"analytics\"}") {
		t.Fatalf("expected script purpose counter, got:\n%s", out)
	}
	if !strings.Contains(out, "wamigrate_pages_converted_total") {
		t.Fatalf("expected pages converted counter, got:\n%s", out)
	}
}

func TestExportStable(t *testing.T) {
	RecordBlock("text")
	RecordBlock("image")

	first := Export()
	second := Export()
	if first != second {
		t.Fatalf("export must be stable between calls with no new records")
	}
}
