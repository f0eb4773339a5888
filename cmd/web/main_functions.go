package main

import (
	"os"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-homepage/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

var Prof *prof.Profiler

// replaced in tests
var (
	executablePath = os.Executable
	restartFn      = restartProcess
)

// options holds the raw command-line values. Only flags the user set
// override the config file.
type options struct {
	configFile   string
	host         string
	port         int
	debug        bool
	templatesDir string
	staticDir    string
	pprofAddr    string
	logFile      string
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configFile, "config", "c", "", "TOML config file (optional)")
	fs.StringVar(&opts.host, "host", config.DefaultHost, "host to listen on")
	fs.IntVarP(&opts.port, "port", "p", config.DefaultPort, "port to listen on")
	fs.BoolVar(&opts.debug, "debug", true, "development mode: reload on change and verbose error pages")
	fs.StringVar(&opts.templatesDir, "templates", config.DefaultTemplatesDir, "templates directory")
	fs.StringVar(&opts.staticDir, "static", config.DefaultStaticDir, "static files directory served under /static")
	fs.StringVar(&opts.pprofAddr, "pprof", "", "serve pprof on this address (e.g. 127.0.0.1:6060)")
	fs.StringVar(&opts.logFile, "log-file", "", "also append logs to this file")
}

func loadConfig(fs *pflag.FlagSet, opts *options) (*config.WebConfig, error) {
	mainConfig := config.NewDefaultConfig()
	if opts.configFile != "" {
		var err error
		if mainConfig, err = config.Load(opts.configFile); err != nil {
			return nil, err
		}
	}
	webConfig := mainConfig.Web

	if fs.Changed("host") {
		webConfig.Host = opts.host
	}
	if fs.Changed("port") {
		webConfig.Port = opts.port
	}
	if fs.Changed("debug") {
		webConfig.Debug = opts.debug
	}
	if fs.Changed("templates") {
		webConfig.TemplatesDir = opts.templatesDir
	}
	if fs.Changed("static") {
		webConfig.StaticDir = opts.staticDir
	}
	if fs.Changed("pprof") {
		webConfig.PprofAddr = opts.pprofAddr
	}
	if fs.Changed("log-file") {
		webConfig.LogFile = opts.logFile
	}

	if err := webConfig.Validate(); err != nil {
		return nil, err
	}
	return webConfig, nil
}

func startProfiler(addr string, log *logrus.Entry) {
	Prof = prof.NewProf()
	go Prof.PprofWeb(addr)
	log.Infof("pprof listening on http://%s/debug/pprof/", addr)
}
