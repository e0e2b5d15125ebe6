package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"roster-bot/bot"
	"roster-bot/config"
	"roster-bot/handlers"
	"roster-bot/model"
	"roster-bot/utils"
	"roster-bot/utils/database/records"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "rosterbot",
	Short:   "Discord roster, duty tracking and link moderation bot",
	Version: version,
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Run the roster bot (agents, shifts, absences, link enforcement)",
	RunE:  runRoster,
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the free-game feed relay",
	RunE:  runRelay,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the whole roster store as JSON",
	Long: `Export reads every agent, shift, absence, infraction, whitelist entry,
setting and ban from the database and writes them as one JSON document.`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the roster store with a JSON document",
	Long: `Import replaces the entire content of the database with the document
produced by export. The replacement happens in a single transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var (
	dbPathFlag string
	outputFlag string
)

func init() {
	defaultDB := os.Getenv("DB_PATH")
	if defaultDB == "" {
		defaultDB = "data/roster.db"
	}
	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVar(&dbPathFlag, "db", defaultDB, "Path to the sqlite database")
	}
	exportCmd.Flags().StringVarP(&outputFlag, "output", "o", "-", "Output file, - for stdout")

	rootCmd.AddCommand(rosterCmd, relayCmd, exportCmd, importCmd)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runRoster(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flush, err := utils.InitSentry(cfg.SentryDSN, version)
	if err != nil {
		log.Printf("Warning: %v, error reporting disabled", err)
	}
	defer flush()

	repo, err := records.Init(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer repo.Close()

	b, err := bot.New(cfg, repo)
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}
	handlers.Register(b)

	ctx, cancel := signalContext()
	defer cancel()
	return b.Run(ctx)
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadRelay()
	if err != nil {
		return err
	}
	r, err := bot.NewRelayBot(cfg)
	if err != nil {
		return fmt.Errorf("error creating relay: %w", err)
	}
	handlers.RegisterRelay(r)

	ctx, cancel := signalContext()
	defer cancel()
	return r.Run(ctx)
}

func runExport(cmd *cobra.Command, args []string) error {
	repo, err := records.Init(dbPathFlag)
	if err != nil {
		return err
	}
	defer repo.Close()

	doc, err := repo.Load(cmd.Context())
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputFlag != "-" {
		f, err := os.Create(outputFlag)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputFlag, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if outputFlag != "-" {
		fmt.Fprintf(os.Stderr, "Exported %d agents and %d shifts to %s\n", len(doc.Agents), shiftCount(doc), outputFlag)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var doc model.Store
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", args[0], err)
	}

	repo, err := records.Init(dbPathFlag)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Save(cmd.Context(), &doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Imported %d agents and %d shifts into %s\n", len(doc.Agents), shiftCount(&doc), dbPathFlag)
	return nil
}

func shiftCount(doc *model.Store) int {
	return lo.SumBy(lo.Values(doc.Services), func(shifts []model.ShiftRecord) int { return len(shifts) })
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
