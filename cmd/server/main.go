package main

import (
	"github.com/linkscope/backend/internal/server"
	"github.com/linkscope/backend/internal/util"
	"github.com/linkscope/backend/pkg/logger"
	"github.com/linkscope/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
