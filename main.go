package main

import (
	"os"

	"github.com/visonai/visonai-gateway/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
