// AngelaMos | 2026
// security.go

package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
)

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		next.ServeHTTP(w, r)
	})
}

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowedOrigins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" {
				if _, ok := allowedOrigins[origin]; ok {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Vary", "Origin")
					if cfg.AllowCredentials {
						h.Set("Access-Control-Allow-Credentials", "true")
					}

					if r.Method == http.MethodOptions {
						h.Set("Access-Control-Allow-Methods", methods)
						h.Set("Access-Control-Allow-Headers", headers)
						h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
						w.WriteHeader(http.StatusNoContent)
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Free-text fields that legitimately contain prose. They are sanitized at
// the service layer instead of scanned here.
var sqlScanExempt = map[string]struct{}{
	"note":                {},
	"description":         {},
	"explanation":         {},
	"message":             {},
	"why_join_us":         {},
	"why_left_prior_clan": {},
	"preferences":         {},
	"portfolio_links":     {},
}

var sqlMetaTokens = []string{
	"--",
	"/*",
	"*/",
	"union select",
	"drop table",
	"drop database",
	"truncate table",
	"exec(",
	"execute(",
	"xp_cmdshell",
}

// BlockSQLMeta rejects query parameters and shallow JSON string fields that
// carry SQL metacharacters. Long values and known prose fields are skipped.
func BlockSQLMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, values := range r.URL.Query() {
			for _, v := range values {
				if containsSQLMeta(key, v) {
					core.BadRequest(w, "invalid characters in request")
					return
				}
			}
		}

		next.ServeHTTP(w, r)
	})
}

func containsSQLMeta(key, value string) bool {
	if _, exempt := sqlScanExempt[key]; exempt {
		return false
	}
	if len(value) > 128 {
		return false
	}

	lower := strings.ToLower(value)
	for _, token := range sqlMetaTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ScanJSONBody reports whether a decoded JSON object carries SQL
// metacharacters in any non-exempt top-level string field. Services call
// this on request DTO maps when accepting untrusted public input.
func ScanJSONBody(raw json.RawMessage) bool {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}

	for key, v := range body {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if containsSQLMeta(key, s) {
			return true
		}
	}
	return false
}
