package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line into a configuration layer.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-adapter gateway kind: http, placeholder, memory
//	-adapter-address reference server address for the http gateway
//	-placeholder-url base URL of the placeholder API
//	-d database DSN
//	-c/-config json file path with configs
//	-sync-interval period between automatic syncs (e.g. "30s")
//	-auto-sync enable periodic syncs
//	-strategy conflict strategy
//	-max-backoff upper bound of the failure backoff
//	-pull-interval minimum age of the last sync before an idle tick pulls
//	-log-limit sync log capacity
//	-request-timeout gateway request timeout (e.g. "10s")
//	-log-file client log file
//	-log-level log level
func ParseFlags() (*StructuredConfig, error) {
	return parseFlagSet(flag.CommandLine, os.Args[1:])
}

func parseFlagSet(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&cfg.Adapter.Kind, "adapter", "", "Gateway kind: http, placeholder, memory")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "adapter-address", "", "Reference server address")
	fs.StringVar(&cfg.Adapter.PlaceholderURL, "placeholder-url", "", "Placeholder API base URL")
	fs.DurationVar(&cfg.Adapter.RequestTimeout, "request-timeout", 0, "Gateway request timeout (e.g., 10s)")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.DurationVar(&cfg.Sync.Interval, "sync-interval", 0, "Sync interval (e.g., 30s)")
	fs.Var(&cfg.Sync.AutoSyncEnabled, "auto-sync", "Enable periodic sync")
	fs.StringVar(&cfg.Sync.ConflictStrategy, "strategy", "", "Conflict strategy: remote-wins, local-wins, manual, merge-keep-both")
	fs.DurationVar(&cfg.Sync.MaxBackoff, "max-backoff", 0, "Maximum failure backoff")
	fs.DurationVar(&cfg.Sync.PullInterval, "pull-interval", 0, "Idle pull interval")
	fs.IntVar(&cfg.Sync.LogLimit, "log-limit", 0, "Sync log capacity")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Client log file")
	fs.StringVar(&cfg.Log.Level, "log-level", "", "Log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = serverAddress.String()

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
