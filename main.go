package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/spillscope/spillscope-go/api"
	"github.com/spillscope/spillscope-go/api/notifyhub"
	"github.com/spillscope/spillscope-go/inference"
	"github.com/spillscope/spillscope-go/session"
	"github.com/spillscope/spillscope-go/store"
	"github.com/spillscope/spillscope-go/tool"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseServiceURL != "" {
		appCfg.ServiceURL = cfg.UseServiceURL
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	if cfg.UseDownloadFolder != "" {
		appCfg.DownloadFolder = cfg.UseDownloadFolder
	}
	if cfg.SkipNotifyWS {
		appCfg.NotifyWS = false
	}
	tool.CurrentConfig = appCfg

	tool.InitLogger()
	switch strings.ToLower(cfg.Log) {
	case "", "dev":
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	case "prod":
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	case "none":
		tool.DefaultLogger.SetLevel(log.FatalLevel)
	default:
		tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	}

	tool.InitHTTPClient(time.Duration(appCfg.RequestTimeoutSec) * time.Second)

	client := inference.NewHTTPClient(appCfg.ServiceURL, tool.GetHttpClient())
	blobs := store.New(time.Duration(appCfg.PreviewTTLMinutes) * time.Minute)
	manager := session.NewManager(blobs, client)

	var hub *notifyhub.Hub
	if appCfg.NotifyWS {
		hub = notifyhub.New()
		manager.SetNotifier(hub.Broadcast)
	}

	prober := inference.NewProber(client, appCfg.ServiceURL)
	go prober.Watch(context.Background())

	tool.DefaultLogger.Infof("Inference service: %s", appCfg.ServiceURL)
	apiServer := api.NewServer(appCfg.Port, manager, prober, hub)
	if err := apiServer.Start(); err != nil {
		tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
	}
}
