package main

import (
	"github.com/joho/godotenv"

	"github.com/frahmantamala/school-payments/cmd"
)

func main() {
	// .env is optional; container deployments inject real env vars.
	_ = godotenv.Load()

	cmd.Execute()
}
