package main

import (
	"flag"
	"os"

	"github.com/fieldops/boardgate/gatewayservice"
	"github.com/fieldops/boardgate/internal/logger"
)

func main() {
	// Optional base-URL flag override for local runs against a stub board
	// service.
	boardAPI := flag.String("board-api", "", "Override BOARDGATE_BOARD_API_URL")
	flag.Parse()

	if *boardAPI != "" {
		_ = os.Setenv("BOARDGATE_BOARD_API_URL", *boardAPI)
	}

	if err := gatewayservice.Run(); err != nil {
		log := logger.New("boardgate")
		log.Fatal().Err(err).Msg("gateway exited with error")
	}
}
