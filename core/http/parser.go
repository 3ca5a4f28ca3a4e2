package http

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

var (
	// ErrInvalidRequest reports a malformed request line, header section, or
	// body declaration.
	ErrInvalidRequest = errors.New("invalid HTTP request")
)

// maxBodyBytes is the largest declared request body the parser reads.
// Larger Content-Length declarations are malformed, not allocation sizes.
const maxBodyBytes = 10 << 20

// ReadRequest reads one HTTP/1.1 request from br: request line, header lines
// until the blank line, then a body of exactly Content-Length bytes when that
// header is present. Bodies declared larger than maxBodyBytes are rejected as
// malformed. The returned request's URL is normalized, so "/user/" and
// "/user" parse to the same lookup key.
func ReadRequest(br *bufio.Reader) (Request, error) {
	var req Request

	line, err := readLine(br)
	if err != nil {
		return req, fmt.Errorf("request line: %w", err)
	}

	// METHOD TARGET VERSION; the version is ignored beyond being present.
	sp1 := strings.IndexByte(line, ' ')
	if sp1 <= 0 {
		return req, ErrInvalidRequest
	}
	sp2 := strings.IndexByte(line[sp1+1:], ' ')
	if sp2 == -1 {
		return req, ErrInvalidRequest
	}
	sp2 += sp1 + 1

	req.Method = line[:sp1]
	target := line[sp1+1 : sp2]
	if target == "" || target[0] != '/' {
		return req, ErrInvalidRequest
	}

	if q := strings.IndexByte(target, '?'); q != -1 {
		req.Params = parseQuery(target[q+1:])
		target = target[:q]
	}
	req.URL = NormalizePath(target)

	for {
		line, err = readLine(br)
		if err != nil {
			return req, fmt.Errorf("headers: %w", err)
		}
		if line == "" {
			break
		}

		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return req, ErrInvalidRequest
		}
		if req.Headers == nil {
			req.Headers = make(map[string]string, 8)
		}
		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		req.Headers[key] = value
	}

	if n := req.ContentLength(); n > 0 {
		if n > maxBodyBytes {
			return req, fmt.Errorf("body: %w", ErrInvalidRequest)
		}
		req.Body = make([]byte, n)
		if _, err := io.ReadFull(br, req.Body); err != nil {
			return req, fmt.Errorf("body: %w", err)
		}
	}

	return req, nil
}

// readLine reads one CRLF (or bare LF) terminated line without its
// terminator. A stream that ends before the terminator is malformed.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			return "", ErrInvalidRequest
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// parseQuery parses a raw query string into URL-decoded key/value pairs.
// A key with no '=' maps to the empty string. Undecodable escapes keep the
// raw text rather than failing the request.
func parseQuery(raw string) map[string]string {
	params := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		params[queryUnescape(key)] = queryUnescape(value)
	}
	return params
}

func queryUnescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}
