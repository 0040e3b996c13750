package main

import (
	"flag"
	"log"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"langid-go/internal/config"
	"langid-go/internal/controller"
	"langid-go/internal/handler"
	"langid-go/internal/service"
	"langid-go/pkg/mcp"
)

func main() {
	var configPath = flag.String("config", "", "Path to yaml configuration file")
	var addr = flag.String("addr", "", "Listen address, overrides configuration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	cfgZap := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatal("Invalid log level:", err)
	}
	cfgZap.Level.SetLevel(level)
	logger, err := cfgZap.Build()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	// Override addr from command line if provided
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	// Load the model up front: a malformed model must keep the process from
	// serving at all.
	var model *service.Model
	if cfg.Model.Path != "" {
		model, err = service.LoadModelFile(cfg.Model.Path, logger)
	} else {
		model, err = service.DefaultModel(logger)
	}
	if err != nil {
		logger.Fatal("Failed to load classifier model", zap.Error(err))
	}

	classifier := service.NewClassifier(model, logger)
	classifyController := controller.NewClassifyController(classifier, logger)
	mcpServer := mcp.NewLanguageToolServer(classifier, logger)

	router := handler.SetupRouter(classifyController, mcpServer, logger)

	logger.Info("Starting server", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
