package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/duynguyendang/atomspace/internal/manager"
	"github.com/duynguyendang/atomspace/pkg/loader"
	"github.com/duynguyendang/atomspace/pkg/repl"
	"github.com/duynguyendang/atomspace/pkg/server"
	"github.com/duynguyendang/atomspace/pkg/space/store"
)

func main() {
	serverMode := flag.Bool("server", false, "run REST API server")
	replMode := flag.Bool("repl", false, "run interactive shell")
	loadPath := flag.String("load", "", "load an atom file or directory into the store, then exit")
	configPath := flag.String("config", "", "path to a yaml store config")

	flag.Parse()

	_ = godotenv.Load()

	dataDir := "./data"
	if args := flag.Args(); len(args) >= 1 {
		dataDir = args[0]
	}

	if *serverMode {
		fmt.Printf("Starting REST API Server. Project Root: %s\n", dataDir)

		mgr := manager.NewStoreManager(dataDir, false)
		defer mgr.CloseAll()

		srv := server.NewServer(mgr)
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(":" + port); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	// === Single Store Mode (Load / Repl) ===

	cfg := store.DefaultConfig(dataDir)
	if *configPath != "" {
		loaded, err := store.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
		if cfg.DataDir == "" {
			cfg.DataDir = dataDir
		}
	}

	st, err := store.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("Failed to close store: %v", err)
		}
	}()

	if *loadPath != "" {
		info, err := os.Stat(*loadPath)
		if err != nil {
			log.Fatalf("Cannot stat %s: %v", *loadPath, err)
		}
		var n int
		if info.IsDir() {
			n, err = loader.LoadDir(st.Space(), *loadPath)
		} else {
			n, err = loader.LoadFile(st.Space(), *loadPath)
		}
		if err != nil {
			log.Fatalf("Load failed: %v", err)
		}
		fmt.Printf("Loaded %d atom(s); space holds %d.\n", n, st.Space().Count())
		return
	}

	if *replMode {
		if err := repl.New(st.Space(), os.Stdin, os.Stdout).Run(); err != nil {
			log.Fatalf("Repl failed: %v", err)
		}
		return
	}

	fmt.Println("Nothing to do. Use -server, -repl, or -load. See -h for flags.")
}
