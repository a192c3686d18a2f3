package main

import (
	"log"

	"github.com/techagentng/chatterbox/config"
	"github.com/techagentng/chatterbox/db"
	"github.com/techagentng/chatterbox/server"
	"github.com/techagentng/chatterbox/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	authService := services.NewAuthService(authRepo, conf)
	messageService := services.NewMessageService(messageRepo, conf)

	s := &server.Server{
		Config:            conf,
		AuthRepository:    authRepo,
		AuthService:       authService,
		MessageRepository: messageRepo,
		MessageService:    messageService,
		Hub:               server.NewHub(),
		DB:                gormDB,
	}

	s.Start()
}
