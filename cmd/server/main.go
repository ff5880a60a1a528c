package main

import (
	"os"

	"github.com/mcamera/school-of-solana-season-8/internal/server"
)

func main() {
	os.Exit(server.Main())
}
