package middleware

import (
	"net/http"

	"github.com/satshine/satshine-backend/internal/pkg/i18n"
	"golang.org/x/text/language"
)

var supportedLocales = []language.Tag{language.English, language.Hindi}

var localeMatcher = language.NewMatcher(supportedLocales)

// Locale picks the response language from Accept-Language. Unsupported or
// missing headers leave the configured default in place.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Accept-Language")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tags, _, err := language.ParseAcceptLanguage(header)
		if err != nil || len(tags) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		_, index, confidence := localeMatcher.Match(tags...)
		if confidence == language.No {
			next.ServeHTTP(w, r)
			return
		}

		base, _ := supportedLocales[index].Base()
		if !i18n.Supported(base.String()) {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), base.String())))
	})
}
