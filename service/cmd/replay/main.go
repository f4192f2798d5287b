// Command replay folds a replay file and prints how the game stands. With
// -simulate it instead plays an AI-vs-AI game and writes its replay.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/gemduel/engine"
	"github.com/jason-s-yu/gemduel/engine/agent"
	"github.com/jason-s-yu/gemduel/engine/catalog"
	"github.com/jason-s-yu/gemduel/engine/history"
	"github.com/jason-s-yu/gemduel/engine/setup"
	"github.com/jason-s-yu/gemduel/service/internal/config"
	"github.com/jason-s-yu/gemduel/service/internal/database"
	"github.com/sirupsen/logrus"
)

// maxSimulatedActions stops a simulated game that fails to finish.
const maxSimulatedActions = 2000

type options struct {
	in       string
	out      string
	sqlite   string
	gameID   string
	simulate bool
	seed     uint64
	draft    bool
	version  string
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.in, "in", "-", "replay file to read (- for stdin)")
	fs.StringVar(&o.out, "out", "-", "where -simulate writes the replay (- for stdout)")
	fs.StringVar(&o.sqlite, "sqlite", "", "archive the replay into this SQLite file")
	fs.StringVar(&o.gameID, "game", "", "game id used when archiving (default: random)")
	fs.BoolVar(&o.simulate, "simulate", false, "play an AI-vs-AI game instead of reading a replay")
	fs.Uint64Var(&o.seed, "seed", 1, "generator seed for -simulate")
	fs.BoolVar(&o.draft, "draft", false, "start the simulated game with the buff draft")
	fs.StringVar(&o.version, "version", "1.0.0", "replay version stamped by -simulate")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	logrus.SetOutput(os.Stderr)
	if err := run(context.Background(), o, os.Stdin, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func run(ctx context.Context, o options, stdin io.Reader, stdout io.Writer) error {
	cat := catalog.Default()
	eng := engine.New(cat)

	var (
		r   history.Replay
		err error
	)
	if o.simulate {
		r, err = simulate(eng, cat, o)
		if err != nil {
			return err
		}
		if err := writeReplay(o.out, stdout, r); err != nil {
			return err
		}
	} else {
		r, err = readReplay(o.in, stdin)
		if err != nil {
			return err
		}
	}

	log := history.NewLog(eng)
	state := log.LoadReplay(r)
	if state == nil {
		return fmt.Errorf("replay has no INIT action")
	}
	summary := stdout
	if o.simulate && o.out == "-" {
		summary = os.Stderr
	}
	printSummary(summary, r, state)

	if o.sqlite != "" {
		return archive(ctx, o, r, state)
	}
	return nil
}

// simulate plays the agent against itself until someone wins.
func simulate(eng *engine.Engine, cat *catalog.Catalog, o options) (history.Replay, error) {
	gen := setup.NewSeeded(cat, o.seed)
	log := history.NewLog(eng)
	if o.draft {
		log.Record(gen.InitDraft())
	} else {
		log.Record(gen.Init())
	}
	for i := 0; i < maxSimulatedActions; i++ {
		s := log.State()
		if s.IsTerminal() {
			break
		}
		a := agent.ComputeAction(s)
		if a == nil {
			return history.Replay{}, fmt.Errorf("agent stalled in mode %s after %d actions", s.Mode, log.Len())
		}
		if _, ok := log.TryRecord(gen.Fill(s, a)); !ok {
			return history.Replay{}, fmt.Errorf("agent action %s rejected in mode %s", a.Tag(), s.Mode)
		}
	}
	return log.Export(o.version, time.Now())
}

func readReplay(path string, stdin io.Reader) (history.Replay, error) {
	if path == "-" {
		return history.Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return history.Replay{}, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return history.Decode(f)
}

func writeReplay(path string, stdout io.Writer, r history.Replay) error {
	if path == "-" {
		return history.Encode(stdout, r)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay: %w", err)
	}
	if err := history.Encode(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write replay: %w", err)
	}
	return f.Close()
}

func printSummary(w io.Writer, r history.Replay, s *engine.GameState) {
	fmt.Fprintf(w, "version %s, %d actions, recorded %s\n", r.Version, len(r.History), r.Timestamp.Format(time.RFC3339))
	if s.IsTerminal() {
		fmt.Fprintf(w, "winner: %s\n", s.Winner)
	} else {
		fmt.Fprintf(w, "in progress: %s to move (%s)\n", s.Turn, s.Mode)
	}
	for _, p := range []engine.Player{engine.P1, engine.P2} {
		fmt.Fprintf(w, "%s: %d points, %d crowns, %d gems, %d cards, %d privileges\n",
			p, engine.PlayerScore(s, p), engine.CrownCount(s, p), engine.TotalGems(s, p),
			engine.CardCount(s, p), s.Privileges.Get(p))
	}
}

func archive(ctx context.Context, o options, r history.Replay, s *engine.GameState) error {
	id := uuid.New()
	if o.gameID != "" {
		parsed, err := uuid.Parse(o.gameID)
		if err != nil {
			return fmt.Errorf("parse -game: %w", err)
		}
		id = parsed
	}
	store, err := database.OpenSQLite(o.sqlite)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveReplay(ctx, database.ReplayRecord{
		GameID:      id,
		Version:     r.Version,
		Winner:      s.Winner,
		ActionCount: len(r.History),
		Replay:      r,
		CreatedAt:   r.Timestamp,
	})
}
