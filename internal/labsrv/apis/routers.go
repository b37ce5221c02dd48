package apis

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/httpx"
	"github.com/xaviermotley/creative-content-security-lab/internal/db"
	"github.com/xaviermotley/creative-content-security-lab/internal/labsrv/auth"
)

// Handler carries the portal's dependencies. All capabilities are gated
// by the credential check in auth.Authenticator.
type Handler struct {
	Store     db.Store
	Auth      *auth.Authenticator
	BuildsDir string
	Window    time.Duration

	// downloadMus serializes the check-then-append download sequence
	// per vendor id; mu guards the map itself.
	mu          sync.Mutex
	downloadMus map[string]*sync.Mutex
}

func NewHandler(store db.Store, buildsDir string, window time.Duration) *Handler {
	return &Handler{
		Store:       store,
		Auth:        &auth.Authenticator{Vendors: store},
		BuildsDir:   buildsDir,
		Window:      window,
		downloadMus: make(map[string]*sync.Mutex),
	}
}

func (h *Handler) routes() []httpx.ResponseHandlerParam {
	return []httpx.ResponseHandlerParam{
		{
			Method:  http.MethodPost,
			Path:    "/login",
			Handler: h.login,
		},
		{
			Method:  http.MethodPost,
			Path:    "/builds",
			Handler: h.listBuilds,
		},
		{
			Method:  http.MethodPost,
			Path:    "/download/{buildID}",
			Handler: h.downloadBuild,
		},
	}
}

func (h *Handler) Router(r chi.Router) chi.Router {
	for _, route := range h.routes() {
		r.Method(route.Method, route.Path, httpx.WrapHttpRsp(route.Handler))
	}
	return r
}

func (h *Handler) downloadLock(vendorID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	lock, ok := h.downloadMus[vendorID]
	if !ok {
		lock = &sync.Mutex{}
		h.downloadMus[vendorID] = lock
	}
	return lock
}
