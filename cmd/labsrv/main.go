package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/logtrace"
	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/sqlite"
	"github.com/xaviermotley/creative-content-security-lab/internal/labsrv/server"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile *string
}

func main() {
	slog := log.With().Str("state", "init").Logger()
	// Parse command line flags
	opt := parseFlags()

	slog.Info().Str("config_file", *opt.configFile).Msg("loading config file")
	// load config file
	if err := config.LoadConfig(*opt.configFile); err != nil {
		slog.Error().Str("config_file", *opt.configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	if config.Config().ServerPort == "" {
		slog.Error().Msg("server port not defined")
		os.Exit(1)
	}
	store, err := sqlite.Open(sqlite.Config{Path: config.Config().DBPath})
	if err != nil {
		slog.Error().Err(err).Msg("unable to open store")
		os.Exit(1)
	}
	defer store.Close()

	s, goerr := server.CreateNewServer(store)
	if goerr != nil {
		slog.Error().Err(goerr).Msg("Unable to create server")
		os.Exit(1)
	}
	s.MountHandlers()
	http.ListenAndServe(":"+config.Config().ServerPort, s.Router)
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	opt.configFile = flag.String("config", "", "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
