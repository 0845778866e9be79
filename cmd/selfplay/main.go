package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"gym-chess/engine"
	"gym-chess/env"
)

func main() {
	games := flag.Int("games", 100, "number of games to play")
	workers := flag.Int("workers", 4, "parallel workers")
	maxSteps := flag.Int("maxsteps", 200, "truncate games after this many plies (0 = unlimited)")
	backend := flag.String("backend", engine.DefaultBackend, "move generator backend")
	fen := flag.String("fen", engine.StartFEN, "starting position")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	bookPath := flag.String("book", "", "FEN/EPD file of starting positions (overrides -fen)")
	jsonOut := flag.Bool("json", false, "print one JSON episode per line")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := env.SelfPlayConfig{
		Env:       env.Config{Backend: *backend, FEN: *fen, MaxSteps: *maxSteps},
		Games:     *games,
		Workers:   *workers,
		Seed:      *seed,
		KeepMoves: *jsonOut,
	}
	if *bookPath != "" {
		book, err := env.LoadBookFile(*bookPath)
		if err != nil {
			log.Fatalf("loading book: %v", err)
		}
		log.Printf("loaded %d positions from %s", len(book), *bookPath)
		cfg.Book = book
	}
	log.Printf("selfplay: %d games, %d workers, backend %s, seed %d", cfg.Games, cfg.Workers, *backend, cfg.Seed)

	start := time.Now()
	episodes, err := env.RunSelfPlay(ctx, cfg)
	if err != nil {
		log.Fatalf("selfplay failed: %v", err)
	}
	elapsed := time.Since(start)

	counts := map[env.Outcome]int{}
	plies := 0
	enc := json.NewEncoder(os.Stdout)
	for _, ep := range episodes {
		counts[ep.Outcome]++
		plies += ep.Plies
		if *jsonOut {
			if err := enc.Encode(ep); err != nil {
				log.Fatalf("encode episode: %v", err)
			}
		}
	}

	fmt.Printf("Games: %d  Plies: %d  Time: %v  Plies/s: %d\n",
		len(episodes), plies, elapsed.Truncate(time.Millisecond), int64(float64(plies)/elapsed.Seconds()))
	fmt.Printf("Checkmate: %d  Stalemate: %d  Truncated: %d\n",
		counts[env.OutcomeCheckmate], counts[env.OutcomeStalemate], counts[env.OutcomeTruncated])
	log.Println("Selfplay finished.")
}
