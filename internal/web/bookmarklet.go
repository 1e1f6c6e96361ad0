package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
)

// Bookmarklet builds the javascript: URL that opens the add-link form
// pre-filled with the title and location of the page being viewed.
func (s Site) Bookmarklet(r *http.Request) template.URL {
	base := s.AbsoluteHref(r, "/link?action=add")
	code := fmt.Sprintf(`(function(){window.location.href = %q + "&title=" + `+
		`encodeURIComponent(document.title) + "&url=" + `+
		`encodeURIComponent(window.location.href);})();`, base)

	encoded := rawURLEncode(code)
	encoded = strings.NewReplacer("%28", "(", "%29", ")").Replace(encoded)

	return template.URL("javascript:" + encoded)
}

// pathSafe are the characters url.PathEscape keeps that a javascript: URL
// must still carry escaped.
var pathSafe = strings.NewReplacer(
	"$", "%24",
	"&", "%26",
	"+", "%2B",
	":", "%3A",
	"=", "%3D",
	"@", "%40",
)

// rawURLEncode percent-encodes everything outside the RFC 3986 unreserved set.
func rawURLEncode(s string) string {
	return pathSafe.Replace(url.PathEscape(s))
}
