package main

import (
	"log"

	"messagebox/config"
	"messagebox/db"
	"messagebox/server"
	"messagebox/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	userRepo := db.NewUserRepo(gormDB)
	messageRepo := db.NewMessageRepo(gormDB)

	userService := services.NewUserService(userRepo, conf)
	messageService := services.NewMessageService(messageRepo, userRepo, conf)

	s := &server.Server{
		Config:            conf,
		UserRepository:    userRepo,
		UserService:       userService,
		MessageRepository: messageRepo,
		MessageService:    messageService,
	}

	s.Start()
}
