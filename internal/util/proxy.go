package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc returns a proxy selector for an http.Transport. Explicit
// proxy URLs win over HTTP_PROXY/HTTPS_PROXY environment variables;
// with no overrides the environment decides.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
