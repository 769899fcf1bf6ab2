// Command importfiscal loads the NCM and CFOP reference tables.
//
//	go run ./cmd/importfiscal -ncm Tabela_NCM.json -cfop cfop.txt
package main

import (
	"context"
	"flag"
	"os"

	"viveiro/internal/config"
	"viveiro/internal/infra"
	"viveiro/internal/logger"
	"viveiro/internal/repository"
	"viveiro/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	ncmPath := flag.String("ncm", "", "NCM JSON file ({\"Nomenclaturas\":[...]})")
	cfopPath := flag.String("cfop", "", "CFOP text file, one \"CODIGO - DESCRICAO\" per line")
	flag.Parse()

	if *ncmPath == "" && *cfopPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	svc := service.NewFiscalService(repository.NewFiscalRepository(db))
	ctx := context.Background()

	if *ncmPath != "" {
		f, err := os.Open(*ncmPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open ncm")
		}
		n, err := svc.ImportarNCM(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("import ncm")
		}
		log.Info().Int64("inseridos", n).Msg("NCM importado")
	}

	if *cfopPath != "" {
		f, err := os.Open(*cfopPath)
		if err != nil {
			log.Fatal().Err(err).Msg("open cfop")
		}
		n, err := svc.ImportarCFOP(ctx, f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("import cfop")
		}
		log.Info().Int("registros", n).Msg("CFOP substituído")
	}
}
