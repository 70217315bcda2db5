package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"campus-connect/config"
	"campus-connect/lock"
	"campus-connect/repository"
	"campus-connect/repository/memstore"
	"campus-connect/repository/mongostore"
	"campus-connect/utils"
)

// app holds the long-lived dependencies built from the configuration
type app struct {
	cfg     *config.Config
	store   repository.Store
	email   *utils.EmailService
	tokens  *utils.TokenIssuer
	locker  lock.Locker
	closers []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{
		cfg:    cfg,
		email:  utils.NewEmailService(newNotifier(cfg), cfg.PublicBaseURL),
		tokens: utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}
	a.closers = append(a.closers, a.email.Wait)

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.openLocker(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	if a.cfg.StoreDriver == "memory" {
		log.Println("Using in-memory store; data is lost on exit")
		a.store = memstore.New()
		return nil
	}

	client, err := mongostore.ConnectDB(ctx, a.cfg.MongoURI)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("disconnect mongo: %v", err)
		}
	})

	db := client.Database(a.cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	a.store = mongostore.New(db)
	return nil
}

func (a *app) openLocker() error {
	if a.cfg.RedisURL == "" {
		a.locker = lock.NewLocalLocker()
		return nil
	}
	client, err := lock.NewRedisClient(a.cfg.RedisURL)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, func() { client.Close() })
	a.locker = lock.NewRedisLocker(client, 10*time.Second)
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newNotifier(cfg *config.Config) utils.Notifier {
	switch cfg.EmailProvider {
	case "postmark":
		return utils.NewPostmarkNotifier(cfg.PostmarkToken, cfg.EmailSender)
	case "sendgrid":
		return utils.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.EmailSender)
	}
	return utils.LogNotifier{}
}
