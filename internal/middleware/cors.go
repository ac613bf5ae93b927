package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig describes which browser origins may call the API.
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        int
}

// DonorCORS is the policy for the donation frontend. Responses expose the
// request id and the rate limiter's Retry-After.
func DonorCORS(origins []string) CORSConfig {
	return CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Locale", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:        600,
	}
}

type corsPolicy struct {
	origins   map[string]struct{}
	anyOrigin bool
	methods   map[string]struct{}
	headers   map[string]struct{}
	cfg       CORSConfig
}

// CORS applies cfg. Origins match exactly after lowercasing and dropping a
// trailing slash. "*" admits any origin without credentials. A preflight
// for an unknown origin, method or header is refused with 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	p := corsPolicy{
		origins: make(map[string]struct{}, len(cfg.AllowOrigins)),
		methods: make(map[string]struct{}, len(cfg.AllowMethods)),
		headers: make(map[string]struct{}, len(cfg.AllowHeaders)),
		cfg:     cfg,
	}
	for _, origin := range cfg.AllowOrigins {
		if origin == "*" {
			p.anyOrigin = true
			continue
		}
		p.origins[normalizeOrigin(origin)] = struct{}{}
	}
	for _, m := range cfg.AllowMethods {
		p.methods[strings.ToUpper(m)] = struct{}{}
	}
	for _, h := range cfg.AllowHeaders {
		p.headers[http.CanonicalHeaderKey(h)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if origin == "" {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if preflight {
				p.preflight(w, r, origin)
				return
			}
			if p.admit(w, origin) && len(cfg.ExposeHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// admit writes the allow-origin headers when origin passes the allowlist.
func (p corsPolicy) admit(w http.ResponseWriter, origin string) bool {
	if _, ok := p.origins[normalizeOrigin(origin)]; ok {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		return true
	}
	if p.anyOrigin {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		return true
	}
	return false
}

func (p corsPolicy) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	w.Header().Add("Vary", "Access-Control-Request-Method")
	w.Header().Add("Vary", "Access-Control-Request-Headers")

	method := strings.ToUpper(r.Header.Get("Access-Control-Request-Method"))
	if _, ok := p.methods[method]; !ok {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	requested := requestedHeaders(r.Header.Get("Access-Control-Request-Headers"))
	for _, h := range requested {
		if _, ok := p.headers[h]; !ok {
			w.WriteHeader(http.StatusForbidden)
			return
		}
	}
	if !p.admit(w, origin) {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	w.Header().Set("Access-Control-Allow-Methods", strings.Join(p.cfg.AllowMethods, ","))
	if len(requested) > 0 {
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(requested, ", "))
	}
	if p.cfg.MaxAge > 0 {
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(p.cfg.MaxAge))
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestedHeaders(raw string) []string {
	var out []string
	for _, h := range strings.Split(raw, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, http.CanonicalHeaderKey(h))
		}
	}
	return out
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
