package web

import (
	"bytes"
	"errors"
	"strings"
)

var errMalformedRequest = errors.New("malformed request line")

// Paths recognized by the report listener.
const (
	PathSendReport   = "/send_report"
	PathUpdateStatus = "/update_status"
	PathBuzzerAlert  = "/buzzer_alert"
	PathLEDAlert     = "/led_alert"
)

type requestLine struct {
	method string
	path   string
}

// parseRequestLine extracts the method and path from the first line of an
// HTTP/1.x request. Headers and body are ignored. The query string is
// dropped, since the page's forms submit as GET /path?.
func parseRequestLine(data []byte) (requestLine, error) {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	line = bytes.TrimSuffix(line, []byte("\r"))

	parts := strings.Split(string(line), " ")
	if len(parts) != 3 {
		return requestLine{}, errMalformedRequest
	}
	method, target, proto := parts[0], parts[1], parts[2]
	if method == "" || !strings.HasPrefix(target, "/") || !strings.HasPrefix(proto, "HTTP/") {
		return requestLine{}, errMalformedRequest
	}

	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return requestLine{method: method, path: target}, nil
}

// metricPath bounds the label cardinality of the web requests counter.
func metricPath(path string) string {
	switch path {
	case "/", PathSendReport, PathUpdateStatus, PathBuzzerAlert, PathLEDAlert:
		return path
	default:
		return "other"
	}
}
