package main

import (
	"log"

	"github.com/ukotvy/website/app"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
