package dispatch

import (
	"net/http"
	"strings"
)

// Format is the response encoding requested with the format parameter.
type Format int

const (
	FormatUnknown Format = iota
	FormatHTML
	FormatJSON
	FormatXML
)

// ParseFormat maps a format parameter to a Format. An empty value selects
// HTML; anything unrecognized yields FormatUnknown.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML
	case "json":
		return FormatJSON
	case "xml":
		return FormatXML
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	switch f {
	case FormatHTML:
		return "html"
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// ContentType is the header value used for successful responses.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatXML:
		return "application/xml; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Method is one of the HTTP methods a handler can be registered for.
type Method int

const (
	MethodGet Method = iota + 1
	MethodPost
	MethodPut
	MethodDelete
)

// ParseMethod recognizes GET, POST, PUT and DELETE.
func ParseMethod(s string) (Method, bool) {
	switch strings.ToUpper(s) {
	case http.MethodGet:
		return MethodGet, true
	case http.MethodPost:
		return MethodPost, true
	case http.MethodPut:
		return MethodPut, true
	case http.MethodDelete:
		return MethodDelete, true
	default:
		return 0, false
	}
}

func (m Method) String() string {
	switch m {
	case MethodGet:
		return http.MethodGet
	case MethodPost:
		return http.MethodPost
	case MethodPut:
		return http.MethodPut
	case MethodDelete:
		return http.MethodDelete
	default:
		return "UNKNOWN"
	}
}
