// Command seeduser creates or updates a back-office user.
//
//	go run ./cmd/seeduser -username admin -password 's3cret!' -rol administrador
//	go run ./cmd/seeduser -hash 's3cret!'
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"viveiro/internal/config"
	"viveiro/internal/infra"
	"viveiro/internal/logger"
	"viveiro/internal/model"
	"viveiro/internal/service"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	var (
		hashOnly = flag.String("hash", "", "only print the bcrypt hash of this password")
		username = flag.String("username", "admin", "login name")
		password = flag.String("password", "", "password (min. 8 characters)")
		nome     = flag.String("nome", "Administrador", "display name")
		email    = flag.String("email", "", "e-mail, optional")
		rol      = flag.String("rol", model.RolAdministrador, "operador | gerente | administrador")
	)
	flag.Parse()

	if *hashOnly != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(*hashOnly), service.BcryptCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(string(h))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.New(logger.Config{Env: cfg.Env, Level: cfg.LogLevel})

	if len(*password) < 8 {
		log.Fatal().Msg("-password deve ter ao menos 8 caracteres")
	}
	switch *rol {
	case model.RolOperador, model.RolGerente, model.RolAdministrador:
	default:
		log.Fatal().Str("rol", *rol).Msg("papel inválido")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	u := model.Usuario{
		Username:     *username,
		Nome:         *nome,
		PasswordHash: string(hash),
		Rol:          *rol,
		Ativo:        true,
	}
	if *email != "" {
		u.Email = email
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"nome", "email", "password_hash", "rol", "ativo", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert usuario")
	}
	log.Info().Str("username", u.Username).Str("rol", u.Rol).Msg("usuário criado/atualizado")
}
