package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for the extraction service.
// In-memory only; exported as text on /metrics.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	extractionsTotal = make(map[extractionKey]int64)
	extractionMsSum  int64
	extractionCount  int64

	assetDownloads = make(map[assetKey]int64)
	assetBytes     = make(map[string]int64)
	tokenSources   = make(map[string]int64)

	retentionExtractionsDeleted int64
	retentionProjectsRemoved    int64
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

type extractionKey struct {
	Tier    string
	Outcome string
}

type assetKey struct {
	Category string
	Outcome  string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordExtraction counts one extraction run. Outcome is "completed" or
// "failed".
func RecordExtraction(tier, outcome string, durationMs int64) {
	mu.Lock()
	defer mu.Unlock()

	extractionsTotal[extractionKey{Tier: tier, Outcome: outcome}]++
	extractionMsSum += durationMs
	extractionCount++
}

// RecordAssetDownload counts one asset fetch attempt and the bytes stored
// when it succeeded.
func RecordAssetDownload(category string, ok bool, bytes int64) {
	mu.Lock()
	defer mu.Unlock()

	outcome := "failed"
	if ok {
		outcome = "stored"
		assetBytes[category] += bytes
	}
	assetDownloads[assetKey{Category: category, Outcome: outcome}]++
}

// RecordTokenSource counts which path produced the design tokens.
func RecordTokenSource(source string) {
	mu.Lock()
	defer mu.Unlock()
	tokenSources[source]++
}

// RecordRetention adds the results of one retention sweep.
func RecordRetention(extractionsDeleted, projectsRemoved int64) {
	if extractionsDeleted <= 0 && projectsRemoved <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	retentionExtractionsDeleted += extractionsDeleted
	retentionProjectsRemoved += projectsRemoved
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP designlift_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE designlift_http_requests_total counter\n")

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
		fmt.Fprintf(&b, "designlift_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP designlift_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE designlift_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP designlift_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE designlift_http_request_duration_ms_count counter\n")

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
		fmt.Fprintf(&b, "designlift_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "designlift_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	b.WriteString("# HELP designlift_extractions_total Extraction runs by tier and outcome\n")
	b.WriteString("# TYPE designlift_extractions_total counter\n")

	var exKeys []extractionKey
	for k := range extractionsTotal {
		exKeys = append(exKeys, k)
	}
	sort.Slice(exKeys, func(i, j int) bool {
		if exKeys[i].Tier != exKeys[j].Tier {
			return exKeys[i].Tier < exKeys[j].Tier
		}
		return exKeys[i].Outcome < exKeys[j].Outcome
	})
	for _, k := range exKeys {
		fmt.Fprintf(&b, "designlift_extractions_total{tier=\"%s\",outcome=\"%s\"} %d\n",
			k.Tier, k.Outcome, extractionsTotal[k])
	}
	fmt.Fprintf(&b, "designlift_extraction_duration_ms_sum %d\n", extractionMsSum)
	fmt.Fprintf(&b, "designlift_extraction_duration_ms_count %d\n", extractionCount)

	b.WriteString("# HELP designlift_asset_downloads_total Asset fetch attempts by category and outcome\n")
	b.WriteString("# TYPE designlift_asset_downloads_total counter\n")

	var assetKeys []assetKey
	for k := range assetDownloads {
		assetKeys = append(assetKeys, k)
	}
	sort.Slice(assetKeys, func(i, j int) bool {
		if assetKeys[i].Category != assetKeys[j].Category {
			return assetKeys[i].Category < assetKeys[j].Category
		}
		return assetKeys[i].Outcome < assetKeys[j].Outcome
	})
	for _, k := range assetKeys {
		fmt.Fprintf(&b, "designlift_asset_downloads_total{category=\"%s\",outcome=\"%s\"} %d\n",
			k.Category, k.Outcome, assetDownloads[k])
	}

	b.WriteString("# HELP designlift_asset_bytes_total Bytes stored by asset category\n")
	b.WriteString("# TYPE designlift_asset_bytes_total counter\n")
	writeStringCounter(&b, "designlift_asset_bytes_total", "category", assetBytes)

	b.WriteString("# HELP designlift_token_source_total Token extraction results by source\n")
	b.WriteString("# TYPE designlift_token_source_total counter\n")
	writeStringCounter(&b, "designlift_token_source_total", "source", tokenSources)

	b.WriteString("# HELP designlift_retention_extractions_deleted_total Extraction records deleted by TTL\n")
	b.WriteString("# TYPE designlift_retention_extractions_deleted_total counter\n")
	fmt.Fprintf(&b, "designlift_retention_extractions_deleted_total %d\n", retentionExtractionsDeleted)

	b.WriteString("# HELP designlift_retention_projects_removed_total Asset namespaces removed by TTL\n")
	b.WriteString("# TYPE designlift_retention_projects_removed_total counter\n")
	fmt.Fprintf(&b, "designlift_retention_projects_removed_total %d\n", retentionProjectsRemoved)

	return b.String()
}

func writeStringCounter(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s{%s=\"%s\"} %d\n", name, label, k, values[k])
	}
}
