// internal/gateway/gateway.go
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"storefront/internal/middleware"
	"storefront/internal/server"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Upstreams are the base URLs of the services behind the gateway.
type Upstreams struct {
	CatalogURL string
	CartURL    string
}

// NewRouter builds the public router: /api/v1/catalog/* and /api/v1/cart/*
// are proxied with the prefix stripped, behind a shared token bucket.
func NewRouter(up Upstreams, limiter *rate.Limiter) (http.Handler, error) {
	catalogProxy, err := newProxy(up.CatalogURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	cartProxy, err := newProxy(up.CartURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cart URL: %w", err)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger,
		chimw.Recoverer,
	)
	r.Get("/healthz", server.Healthz)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter))
		r.Handle("/api/v1/catalog/*", http.StripPrefix("/api/v1/catalog", catalogProxy))
		r.Handle("/api/v1/cart/*", http.StripPrefix("/api/v1/cart", cartProxy))
	})
	return r, nil
}

func newProxy(rawURL string) (http.Handler, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", rawURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.WithError(err).WithField("upstream", target.Host).Warn("upstream unavailable")
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}
	return proxy, nil
}
