package main

import (
	"context"
	"log"

	"github.com/thecollekta/airbnb-clone-project/internal/server"
	"github.com/thecollekta/airbnb-clone-project/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
