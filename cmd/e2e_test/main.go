package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base URL")
	code := flag.String("code", "161725", "fund code used for the per-fund endpoints")
	wait := flag.Duration("wait", 2*time.Second, "delay before the first request")
	flag.Parse()

	// Wait for server to start
	time.Sleep(*wait)

	c := &checker{base: *baseURL, http: &http.Client{Timeout: 30 * time.Second}}

	// 1. Health and static
	c.check("GET", "/health", 200, "status")
	c.check("GET", "/api/fund-list", 200, "")
	c.check("OPTIONS", "/anything", 200, "")
	c.check("GET", "/no-such-route", 404, "")

	// 2. Market data
	c.check("GET", "/api/indices", 200, "indices")
	c.check("GET", "/api/ranking?type=up&limit=5", 200, "ranking")
	c.check("GET", "/api/ranking?type=down&limit=5", 200, "ranking")
	c.check("GET", "/api/ranking/estimate?type=up&limit=5", 200, "ranking")

	// 3. Single fund
	c.check("GET", "/api/fund/estimate", 400, "error")
	c.check("GET", "/api/fund/"+*code+"/detail", 200, "detail")
	c.check("GET", "/api/fund/"+*code+"/portfolio", 200, "stocks")
	c.check("GET", "/api/fund/"+*code+"/performance", 200, "performance")
	c.check("GET", "/api/fund/abc/detail", 404, "")

	fmt.Println("ALL TESTS PASSED")
}

type checker struct {
	base string
	http *http.Client
}

// check fails the run on an unexpected status, or when key is set and missing from
// the JSON object body.
func (c *checker) check(method, path string, expectedStatus int, key string) {
	fmt.Printf("Testing %s %s...\n", method, path)
	req, err := http.NewRequest(method, c.base+path, nil)
	if err != nil {
		log.Fatalf("Bad request: %v", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(body))
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		log.Fatalf("Missing CORS header on %s", path)
	}
	if key != "" {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			log.Fatalf("Body is not a JSON object: %v", err)
		}
		if _, ok := obj[key]; !ok {
			log.Fatalf("Response missing %q: %s", key, string(body))
		}
	}
	if len(body) > 200 {
		body = append(body[:200], "..."...)
	}
	fmt.Printf("Response: %s\n", string(body))
}
