package main

import (
	"os"

	"recitetester/internal/app"
)

func main() {
	os.Exit(app.Main(os.Args[1:]))
}
