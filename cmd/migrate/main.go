package main

import (
	"log"

	"github.com/palchukovsky/partnership-aws/partnership"
)

func main() {
	config, err := partnership.LoadConfig()
	if err != nil {
		log.Fatalf(`Failed to load config: "%v".`, err)
	}
	partnership.InitProductLog("partnership", "migrate", "Migrate",
		config.SentryDSN)
	defer partnership.Log.Flush()

	version, err := partnership.ApplyMigrations(config)
	if err != nil {
		partnership.Log.Panicf(`Failed to apply migrations: "%v".`, err)
	}
	partnership.Log.Info(`Database schema is at version %d.`, version)
}
