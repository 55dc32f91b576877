package main

import (
	"os"

	"github.com/jhoicas/Costeo-api/internal/interfaces/cli"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load() // ignoramos error si no existe

	if err := cli.NewApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("costeo")
	}
}
