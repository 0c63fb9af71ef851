package main

import (
	"context"
	"log"

	aws "github.com/aws/aws-lambda-go/lambda"

	"github.com/palchukovsky/partnership-aws/partnership"
)

type request struct{}
type response struct {
	Version string `json:"version"`
	Stage   string `json:"stage"`
}

var service *partnership.Service
var config *partnership.Config

func init() {
	var err error
	config, err = partnership.LoadConfig()
	if err != nil {
		log.Panicf(`Failed to load config: "%v".`, err)
	}
	partnership.InitProductLog("partnership", "healthcheck", "Healthcheck",
		config.SentryDSN)

	db, err := partnership.NewDB(context.Background(), config)
	if err != nil {
		partnership.Log.Panicf(`Failed to init DB: "%v".`, err)
	}
	service = partnership.NewService(db, partnership.NewMailer(config))
}

func handle(ctx context.Context, _ *request) (*response, error) {
	partnership.Log.Debug("Starting...")
	if err := service.Ping(ctx); err != nil {
		partnership.Log.Error(`Failed to ping DB: "%v".`, err)
		return nil, err
	}
	partnership.Log.Debug("Completed")
	return &response{Version: partnership.Version, Stage: config.Stage}, nil
}

func main() {
	defer partnership.Log.Flush()
	aws.Start(handle)
}
