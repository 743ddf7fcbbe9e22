/*
Pbserver starts a Presburger-automaton HTTP server and begins listening
for new connections.

Usage:

	pbserver [flags]
	pbserver [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond using
a small JSON REST protocol (see server.AutomatonServer). By default it
listens on :8080. This can be changed with the --listen/-l flag or the
PRESBURGER_LISTEN_ADDRESS environment variable.

The flags are:

	-v, --version
	    Give the current version and then exit.

	-l, --listen LISTEN_ADDRESS
	    Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
	    format. Defaults to the PRESBURGER_LISTEN_ADDRESS environment
	    variable, and if that is not set, :8080.

	-c, --config FILE
	    Load server configuration (cache backend, CORS origins, default
	    solution cap) from the given TOML file. Flags take precedence over
	    values loaded from the config file.

	--cache DRIVER[:PARAMS]
	    Use the given cache connection string. DRIVER must be one of:
	    inmem, sqlite. sqlite needs the path to the data directory, e.g.
	    sqlite:path/to/cache_dir. Defaults to inmem.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/presburger/internal/version"
	"github.com/dekarrin/presburger/server"
)

const (
	EnvListen = "PRESBURGER_LISTEN_ADDRESS"
	EnvCache  = "PRESBURGER_CACHE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagConfig  = pflag.StringP("config", "c", "", "Load server configuration from the given TOML file.")
	flagCache   = pflag.String("cache", "", "Use the given cache connection string.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg := server.Config{}
	if *flagConfig != "" {
		loaded, err := server.LoadConfig(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config file: %s\n", err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr != "" {
		cfg.ListenAddress = listenAddr
	}

	cacheConnStr := os.Getenv(EnvCache)
	if pflag.Lookup("cache").Changed {
		cacheConnStr = *flagCache
	}
	if cacheConnStr != "" {
		cacheCfg, err := parseCacheConnString(cacheConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.Cache = cacheCfg
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()

	log.Printf("INFO  Starting presburger server %s on %s...", version.Current, cfg.FillDefaults().ListenAddress)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func parseCacheConnString(s string) (server.Cache, error) {
	parts := strings.SplitN(s, ":", 2)
	driver, err := server.ParseCacheType(parts[0])
	if err != nil {
		return server.Cache{}, fmt.Errorf("not a valid cache string: %q: %w", s, err)
	}

	switch driver {
	case server.CacheMemory:
		return server.Cache{Type: server.CacheMemory}, nil
	case server.CacheSQLite:
		if len(parts) != 2 || parts[1] == "" {
			return server.Cache{}, fmt.Errorf("sqlite cache requires path to data directory, e.g. sqlite:path/to/dir")
		}
		return server.Cache{Type: server.CacheSQLite, DataDir: parts[1]}, nil
	default:
		return server.Cache{}, fmt.Errorf("unsupported cache driver: %q", parts[0])
	}
}
