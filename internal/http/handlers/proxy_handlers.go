package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/vector-art/pkg/utils"
	"go.uber.org/zap"
)

const maxProxyRedirects = 5

// ProxyHandler serves remote result images from this origin so browsers can
// save them without cross-origin restrictions. Only allowed hosts are fetched,
// including every redirect hop.
type ProxyHandler struct {
	client  *http.Client
	hosts   []string
	maxSize int64
	logger  *zap.Logger
}

// NewProxyHandler builds the proxy. An entry of allowedHosts matches the host
// name exactly, or any subdomain when written as ".example.com".
func NewProxyHandler(client *http.Client, allowedHosts []string, maxSize int64, logger *zap.Logger) *ProxyHandler {
	if client == nil {
		client = &http.Client{}
	}

	h := &ProxyHandler{
		maxSize: maxSize,
		logger:  logger,
	}
	for _, host := range allowedHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			h.hosts = append(h.hosts, host)
		}
	}

	guarded := *client
	guarded.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxProxyRedirects {
			return fmt.Errorf("stopped after %d redirects", maxProxyRedirects)
		}
		if !h.allowed(req.URL) {
			return fmt.Errorf("redirect to %s is not allowed", req.URL.Host)
		}
		return nil
	}
	h.client = &guarded

	return h
}

func (h *ProxyHandler) DownloadProxy(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		respondError(c, http.StatusBadRequest, "url is required")
		return
	}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		respondError(c, http.StatusBadRequest, "url must be an absolute http(s) address")
		return
	}

	if !h.allowed(parsed) {
		h.logger.Warn("Proxy request for disallowed host", zap.String("host", parsed.Host))
		respondError(c, http.StatusForbidden, "host is not allowed")
		return
	}

	data, contentType, err := utils.DownloadImage(c.Request.Context(), h.client, target, h.maxSize)
	if err != nil {
		h.logger.Warn("Proxy download failed", zap.String("url", target), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Failed to fetch image")
		return
	}

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxCacheAge))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ProxyHandler) allowed(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, allowed := range h.hosts {
		if strings.HasPrefix(allowed, ".") {
			if strings.HasSuffix(host, allowed) {
				return true
			}
			continue
		}
		if host == allowed {
			return true
		}
	}
	return false
}
