// Package urlx provides URL path-segment escaping for identifiers embedded
// in REST endpoint paths.
//
// The Kafka Connect REST API accepts a wider set of unescaped characters in
// a path segment than net/url.PathEscape produces, and connector names are
// free-form strings that may contain spaces, slashes, or non-ASCII text.
// EscapePathSegment implements the exact byte-level transform the API
// expects so that arbitrary connector and plugin names address the right
// resource.
package urlx

const upperhex = "0123456789ABCDEF"

// EscapePathSegment percent-encodes s for use as a single URL path segment.
//
// Alphanumerics, the unreserved characters '.', '-', '_' and '~', the
// general delimiters '@' and ':', and the sub-delimiters "!$&'()*+,;="
// pass through unchanged. Every other byte of the UTF-8 encoding of s is
// replaced by "%XY" with XY the uppercase hexadecimal byte value; in
// particular a space becomes "%20" and '/' becomes "%2F", so an identifier
// containing a literal slash never introduces an extra path segment.
func EscapePathSegment(s string) string {
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if !segmentSafe(s[i]) {
			hexCount++
		}
	}
	if hexCount == 0 {
		return s
	}

	out := make([]byte, 0, len(s)+2*hexCount)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if segmentSafe(c) {
			out = append(out, c)
			continue
		}
		out = append(out, '%', upperhex[c>>4], upperhex[c&0x0F])
	}
	return string(out)
}

// segmentSafe reports whether c may appear unescaped in a path segment.
func segmentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '.', '-', '_', '~':
		return true
	case '@', ':':
		return true
	case '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return true
	}
	return false
}
