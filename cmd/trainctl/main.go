package main

import (
	"os"

	"diagnosd/internal/trainctl"
)

// version is set at link time: -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	os.Exit(trainctl.Main(version))
}
