// @title SQL Detective API
// @version 1.0
// @description Backend for the SQL Detective investigation game. Players solve a bank heist by writing read-only SQL queries against the case database.

// @license.name MIT

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/app"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/configwatcher"
	"github.com/ananyabshetty/SQL-Detective-Game/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", application.ReloadLimits)

	application.Run()
}
