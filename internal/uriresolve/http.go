package uriresolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jdx/go-netrc"
	"github.com/protoc-build/protocgen/internal/model"
)

const (
	// httpTimeout bounds both connect and read per spec.md §4.5.
	httpTimeout = 30 * time.Second
)

// ToolUserAgent identifies this tool to remote repositories and plugin
// hosts, per spec.md §4.5 ("User-Agent identifying the tool name, tool
// version, and runtime").
var ToolUserAgent = fmt.Sprintf("protocgen/%s (%s)", ToolVersion, runtimeDescription())

// ToolVersion is overridable at link time (-ldflags) by packagers.
var ToolVersion = "dev"

func runtimeDescription() string {
	return "go"
}

// httpClient is shared across fetches; http.Transport auto-negotiates
// HTTP/2 over TLS via ALPN when left at its zero value for
// TLSNextProto, which is what spec.md §4.5 asks for ("uses HTTP/2 where
// available").
var httpClient = &http.Client{
	Timeout: httpTimeout,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		// Always follow redirects (spec.md §4.5).
		return nil
	},
}

func fetchHTTP(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", ToolUserAgent)
	applyNetrcAuth(req)
	resp, err := httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		cancel()
		return nil, model.NewNotFoundError(rawURL)
	}
	if resp.StatusCode >= 400 {
		snippet := readSnippet(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, &model.HTTPRequestError{
			StatusCode:          resp.StatusCode,
			CorrelationID:       resp.Header.Get("X-Correlation-Id"),
			RequestID:           resp.Header.Get("X-Request-Id"),
			WWWAuthenticate:     resp.Header.Get("WWW-Authenticate"),
			ProxyAuthenticate:   resp.Header.Get("Proxy-Authenticate"),
			ResponseBodySnippet: snippet,
		}
	}
	return &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func readSnippet(r io.Reader) string {
	const maxSnippet = 2048
	data, _ := io.ReadAll(io.LimitReader(r, maxSnippet))
	return string(data)
}

// applyNetrcAuth consults ~/.netrc for Basic auth credentials matching
// the request host when the URL itself carries none, mirroring the
// teacher's apphttp/netrc credential layering (simplified to the single
// most common case; see SPEC_FULL.md §5).
func applyNetrcAuth(req *http.Request) {
	if req.URL.User != nil {
		if pass, ok := req.URL.User.Password(); ok {
			req.SetBasicAuth(req.URL.User.Username(), pass)
		}
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	path := filepath.Join(home, ".netrc")
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	machines, err := netrc.Parse(strings.NewReader(string(data)))
	if err != nil {
		return
	}
	machine := machines.Machine(req.URL.Hostname())
	if machine == nil {
		return
	}
	login := machine.Get("login")
	password := machine.Get("password")
	if login == "" {
		return
	}
	req.SetBasicAuth(login, password)
}

func fetchFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.NewNotFoundError(path)
		}
		return nil, err
	}
	return f, nil
}
