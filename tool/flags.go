package tool

import (
	"flag"

	"github.com/spillscope/spillscope-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseServiceURL, "useServiceURL", "", "override inference service base URL")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override local API port")
	flag.StringVar(&cfg.UseDownloadFolder, "useDownloadFolder", "", "override download folder for exported predictions")
	flag.BoolVar(&cfg.SkipNotifyWS, "skipNotifyWS", false, "disable the notify websocket endpoint")
	flag.Parse()
	return cfg
}
