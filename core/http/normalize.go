package http

// NormalizePath strips exactly one trailing '/' from a route or request path
// so that "/example" and "/example/" address the same registration. The root
// path "/" stays "/" and an empty path becomes "/".
func NormalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 && p[len(p)-1] == '/' {
		return p[:len(p)-1]
	}
	return p
}
