package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type assertError string

func (e assertError) Error() string { return string(e) }

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		country  string
		want     string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "HI")
			},
			country: "US",
			want:    "hi",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			want: "en",
		},
		{
			name: "accept-language hindi preference",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "hi-IN,en;q=0.8")
			},
			want: "hi",
		},
		{
			name: "unsupported first choice falls through to hindi",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "fr-FR,hi;q=0.5")
			},
			want: "hi",
		},
		{
			name: "quality order respected",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en;q=0.3,hi-IN;q=0.9")
			},
			want: "hi",
		},
		{
			name: "malformed accept-language ignored",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "!!!")
			},
			fallback: "hi",
			want:     "hi",
		},
		{
			name:    "known country uses en",
			country: "IN",
			want:    "en",
		},
		{
			name:     "configured fallback",
			fallback: "hi",
			want:     "hi",
		},
		{
			name:     "unsupported fallback normalised",
			fallback: "fr",
			want:     "en",
		},
		{
			name: "default to en",
			want: "en",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.setup != nil {
				tc.setup(req)
			}
			got := detectLocale(req, tc.fallback, tc.country)
			if got != tc.want {
				t.Fatalf("detectLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		resolver CountryLookup
		want     string
	}{
		{
			name: "header precedence",
			setup: func(r *http.Request) {
				r.Header.Set("X-Country-Code", "us")
				r.Header.Set("CF-IPCountry", "in")
			},
			want: "US",
		},
		{
			name: "locale region fallback",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "en-AU")
			},
			want: "AU",
		},
		{
			name: "accept-language region",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-GB,en;q=0.9")
			},
			want: "GB",
		},
		{
			name: "hindi locale implies india",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "hi;q=0.8")
			},
			want: "IN",
		},
		{
			name: "x-locale region beats accept-language",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "hi-NP")
				r.Header.Set("Accept-Language", "en-GB")
			},
			want: "NP",
		},
		{
			name: "resolver fallback",
			resolver: func(ip string) (string, error) {
				if ip != "203.0.113.4" {
					t.Fatalf("unexpected ip: %s", ip)
				}
				return "my", nil
			},
			want: "MY",
		},
		{
			name: "resolver error returns empty",
			resolver: func(ip string) (string, error) {
				return "", assertError("boom")
			},
			want: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "203.0.113.4:80"
			if tc.setup != nil {
				tc.setup(req)
			}
			got := ResolveCountry(req, tc.resolver)
			if got != tc.want {
				t.Fatalf("ResolveCountry() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocaleFromContext(t *testing.T) {
	ctx := context.Background()
	if got := LocaleFromContext(ctx); got != "en" {
		t.Fatalf("LocaleFromContext() default = %q, want %q", got, "en")
	}
	ctx = context.WithValue(ctx, LocaleKey, "hi")
	if got := LocaleFromContext(ctx); got != "hi" {
		t.Fatalf("LocaleFromContext() with value = %q, want %q", got, "hi")
	}
}

func TestI18NMiddleware(t *testing.T) {
	var locale, country string
	h := I18N("en", func(ip string) (string, error) { return "in", nil })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
		country = CountryFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.4:80"
	req.Header.Set("X-Locale", "hi")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if locale != "hi" || country != "IN" {
		t.Fatalf("locale, country = %q, %q; want hi, IN", locale, country)
	}
}
