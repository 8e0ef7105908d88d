package main

import (
	app "rule-preview-engine/internal/app/server"
	"rule-preview-engine/internal/config"
)

func main() {
	cfg := config.Load()
	config.SetupLogging(cfg.Server.LogLevel)
	app.Run(cfg)
}
