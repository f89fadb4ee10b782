package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/meltforce/caltracker/internal/backup"
	"github.com/meltforce/caltracker/internal/config"
	"github.com/meltforce/caltracker/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: caltracker-data [-config file] <command> [args]

Commands:
  export [-o file]              write the stored data as a backup document
  import <file>                 replace stored data with a backup document
  clear                         delete all stored data
  push -server URL [-key K]     send local data to a running server
  pull -server URL [-key K]     replace local data with a server's data
`

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *version {
		fmt.Println("caltracker-data", Version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store := storage.FromConfig(cfg.Storage, log)
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "export":
		err = runExport(ctx, store, args)
	case "import":
		err = runImport(ctx, store, args)
	case "clear":
		err = store.ClearAll(ctx)
	case "push", "pull":
		err = runSync(ctx, store, cmd, args, cfg.Auth.APIKey, log)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error(cmd+" failed", "error", err)
		os.Exit(1)
	}
	log.Info(cmd + " complete")
}

func runExport(ctx context.Context, store *storage.Adapter, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)

	doc, err := store.Export(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runImport(ctx context.Context, store *storage.Adapter, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import takes exactly one file argument")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var doc storage.Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	return store.Import(ctx, &doc)
}

func runSync(ctx context.Context, store *storage.Adapter, cmd string, args []string, apiKey string, log *slog.Logger) error {
	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	serverURL := fs.String("server", "", "CalTracker server URL (e.g. https://caltracker.tail1234.ts.net)")
	key := fs.String("key", apiKey, "API key (defaults to auth.api_key from config)")
	fs.Parse(args)

	if *serverURL == "" {
		return fmt.Errorf("-server is required")
	}
	client := backup.NewClient(*serverURL, *key)

	if cmd == "push" {
		doc, err := store.Export(ctx)
		if err != nil {
			return err
		}
		log.Info("pushing data", "server", *serverURL)
		return client.Push(ctx, doc)
	}

	log.Info("pulling data", "server", *serverURL)
	doc, err := client.Pull(ctx)
	if err != nil {
		return err
	}
	return store.Import(ctx, doc)
}
