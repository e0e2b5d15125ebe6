package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"roster-bot/utils"
)

// Run connects to the gateway and blocks until ctx is cancelled or the
// process receives SIGINT/SIGTERM.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Prepare(ctx); err != nil {
		return err
	}
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	defer b.Close()

	if b.GetConfig().DisableCommandRegister {
		log.Println("Command registration is disabled by environment variable.")
	} else {
		b.RefreshCommands()
	}

	if err := b.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	log.Println("Bot is now running. Press CTRL-C to exit.")
	utils.LogInfo(b.Gateway, b.GetConfig().LogChannelID, "System", "Démarrage", "Le bot a démarré.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer signal.Stop(sc)
	select {
	case <-sc:
	case <-ctx.Done():
	}
	return nil
}
