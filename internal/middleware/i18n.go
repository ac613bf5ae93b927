package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// Supported response locales; the first is the default.
var (
	supportedLocales = []language.Tag{language.English, language.Hindi}
	localeMatcher    = language.NewMatcher(supportedLocales)
	hindi, _         = language.Hindi.Base()
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

// I18N stores the request locale and the donor country in the context. The
// country feeds the donation record; the locale selects label and amount
// formatting.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			locale := detectLocale(r, defaultLocale, country)
			ctx := context.WithValue(r.Context(), LocaleKey, locale)
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func detectLocale(r *http.Request, fallback string, country string) string {
	if v := r.Header.Get("X-Locale"); v != "" {
		return normalizeLocale(v)
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if country != "" {
		return "en"
	}
	if fallback != "" {
		return normalizeLocale(fallback)
	}
	return "en"
}

// parseAcceptLanguage returns the supported locale that best matches the
// header, or "" when the header is empty or malformed.
func parseAcceptLanguage(header string) string {
	tags := acceptedTags(header)
	if len(tags) == 0 {
		return ""
	}
	_, idx, _ := localeMatcher.Match(tags...)
	return localeName(supportedLocales[idx])
}

func acceptedTags(header string) []language.Tag {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return nil
	}
	return tags
}

// normalizeLocale maps a language tag to one of the supported locales,
// "hi" or "en".
func normalizeLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return "en"
	}
	return localeName(tag)
}

func localeName(tag language.Tag) string {
	if base, _ := tag.Base(); base == hindi {
		return "hi"
	}
	return "en"
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// LocaleFromContext returns the request locale, "en" when unset.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return "en"
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort ISO country code for the request.
// Proxy country headers win, then an explicit region in the locale headers,
// then Hindi implying India, then the IP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"} {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}

	var tags []language.Tag
	if tag, err := language.Parse(strings.TrimSpace(r.Header.Get("X-Locale"))); err == nil {
		tags = append(tags, tag)
	}
	tags = append(tags, acceptedTags(r.Header.Get("Accept-Language"))...)
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	for _, tag := range tags {
		if localeName(tag) == "hi" {
			return "IN"
		}
	}

	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}
