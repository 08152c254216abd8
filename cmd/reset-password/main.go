package main

import (
	"context"
	"flag"
	"os"

	"github.com/juju/loggo/v2"

	"go-retail-store/internal/config"
	"go-retail-store/internal/repository"
	"go-retail-store/pkg/database"
)

var logger = loggo.GetLogger("retail.reset-password")

func main() {
	login := flag.String("login", "", "account login (defaults to ADMIN_LOGIN)")
	password := flag.String("password", "", "new password (defaults to ADMIN_PASSWORD)")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Criticalf("loading config: %v", err)
		os.Exit(1)
	}
	_ = loggo.ConfigureLoggers(cfg.LogConfig)
	if *login == "" {
		*login = cfg.AdminLogin
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}

	// 2. Setup Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Criticalf("connecting database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepo(db)

	// 3. Find account
	user, err := userRepo.FindByLogin(ctx, *login)
	if err != nil {
		logger.Criticalf("account %q: %v", *login, err)
		os.Exit(1)
	}

	// 4. Hash new password
	if err := user.SetPassword(*password); err != nil {
		logger.Criticalf("hashing password: %v", err)
		os.Exit(1)
	}

	// 5. Update, then rotate the session so existing tokens stop working
	if err := userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		logger.Criticalf("updating password: %v", err)
		os.Exit(1)
	}
	if err := userRepo.StartSession(ctx, user.ID, ""); err != nil {
		logger.Criticalf("revoking sessions: %v", err)
		os.Exit(1)
	}

	logger.Infof("password for %q has been reset", user.Login)
}
