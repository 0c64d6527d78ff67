package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/hudu-tools/hudu-api-client/pkg/client"
	"github.com/hudu-tools/hudu-api-client/pkg/logging"
)

// hudu-proxy fronts a Hudu instance with the rate-limited client so that
// scripts and integrations share one request budget and one response cache.
func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") != "",
		Output: os.Stderr,
	})

	baseURL := os.Getenv("HUDU_BASE_URL")
	apiKey := os.Getenv("HUDU_API_KEY")
	if baseURL == "" || apiKey == "" {
		logger.Fatal().Msg("HUDU_BASE_URL and HUDU_API_KEY are required")
	}

	redisURL := getEnv("REDIS_URL", "")
	port := getEnv("PORT", "8080")

	cfg := client.DefaultConfig(baseURL, apiKey)

	var redisClient *redis.Client
	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisURL})

		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis", redisURL).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("redis", redisURL).Msg("Connected to Redis")
		cfg.Redis = redisClient
	}

	huduClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Hudu client")
	}
	defer huduClient.Close()

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/hudu/", huduProxyHandler(huduClient))

	addr := ":" + port
	logger.Info().Str("addr", addr).Str("hudu", baseURL).Msg("Starting Hudu proxy server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness. With Redis configured, readiness requires
// a reachable Redis; without it, the proxy is ready as soon as it serves.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, fmt.Sprintf("redis unavailable: %v", err), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// huduProxyHandler forwards GET requests through the rate-limited client.
// Example: /hudu/companies?page=2 -> GET {base}/api/v1/companies?page=2.
func huduProxyHandler(huduClient *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "only GET is proxied", http.StatusMethodNotAllowed)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/hudu/")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		resp, err := huduClient.Get(ctx, path, r.URL.Query())
		if err != nil {
			status := http.StatusBadGateway
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
				status = apiErr.StatusCode
			}
			http.Error(w, fmt.Sprintf("hudu request failed: %v", err), status)
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)
		w.Write(resp.Body)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
