package main

import (
	"os"

	"github.com/clubdesk/clubdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
