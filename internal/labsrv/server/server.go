package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/httpx"
	"github.com/xaviermotley/creative-content-security-lab/internal/common/logtrace"
	"github.com/xaviermotley/creative-content-security-lab/internal/common/middleware"
	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/db"
	"github.com/xaviermotley/creative-content-security-lab/internal/labsrv/apis"
)

// PortalServer is the vendor-facing HTTP surface.
type PortalServer struct {
	Router  *chi.Mux
	handler *apis.Handler
}

func CreateNewServer(store db.Store) (*PortalServer, error) {
	s := &PortalServer{}
	s.Router = chi.NewRouter()
	s.handler = apis.NewHandler(store, config.Config().BuildsDir, config.Config().DownloadWindowDuration())
	return s, nil
}

func (s *PortalServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Route("/", s.mountResourceHandlers)
	if logtrace.IsTraceEnabled() {
		//print all the routes in the router by transversing the tree and printing the patterns
		fmt.Println("Routes in portal router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			fmt.Printf("Logging err: %s\n", err.Error())
		}
	}
}

func (s *PortalServer) mountResourceHandlers(r chi.Router) {
	s.handler.Router(r)
	r.Get("/version", s.getVersion)
}

type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *PortalServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "Creative Content Security Lab Portal: 0.1.0",
		ApiVersion:    "v1alpha1",
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

func (s *PortalServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
