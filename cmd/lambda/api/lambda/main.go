package main

import (
	"log"
	"os"

	"github.com/palchukovsky/partnership-aws/lambda/api"
	"github.com/palchukovsky/partnership-aws/partnership"
)

var lambdaName string // set by builder
var lambda api.Lambda

func init() {
	if lambdaName == "" {
		lambdaName = os.Getenv("LAMBDA_NAME")
	}
	config, err := partnership.LoadConfig()
	if err != nil {
		log.Panicf(`Failed to load config: "%v".`, err)
	}
	partnership.InitProductLog("partnership", "api", lambdaName, config.SentryDSN)
	lambda = api.NewLambda(lambdaName, config)
}

func main() {
	defer partnership.Log.Flush()
	lambda.Start()
}
