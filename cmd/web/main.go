package main

import (
	"fmt"
	"os"

	"rfmpulse/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
}
