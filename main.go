package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gym-chess/actionspace"
	"gym-chess/engine"
	"gym-chess/env"
)

func main() {
	replLoop(os.Stdin, os.Stdout)
}

// replLoop reads one command per line and drives a single environment.
func replLoop(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	cfg := env.DefaultConfig()
	e, err := env.New(cfg)
	if err != nil {
		fmt.Fprintln(out, "info string", err)
		return
	}
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "quit":
			return
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "backend":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "backends", strings.Join(engine.Backends(), " "))
				continue
			}
			next := cfg
			next.Backend = tokens[1]
			ne, err := env.New(next)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			cfg, e = next, ne
			fmt.Fprintln(out, "backend", cfg.Backend)
		case "reset":
			if _, err := e.Reset(); err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			fmt.Fprintln(out, "fen", e.FEN())
		case "position":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "info string Malformed position command")
				continue
			}
			next := cfg
			rest := tokens[2:]
			switch strings.ToLower(tokens[1]) {
			case "startpos":
				next.FEN = engine.StartFEN
			case "fen":
				fen := []string{}
				for len(rest) > 0 && strings.ToLower(rest[0]) != "moves" {
					fen = append(fen, rest[0])
					rest = rest[1:]
				}
				if len(fen) == 0 {
					fmt.Fprintln(out, "info string Invalid fen position")
					continue
				}
				next.FEN = strings.Join(fen, " ")
			default:
				fmt.Fprintln(out, "info string Invalid position subcommand")
				continue
			}
			ne, err := env.New(next)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			cfg, e = next, ne
			if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
				for _, mv := range rest[1:] {
					if _, err := e.StepUCI(mv); err != nil {
						fmt.Fprintln(out, "info string Move", mv, "rejected:", err)
						break
					}
				}
			}
			fmt.Fprintln(out, "fen", e.FEN())
		case "actions":
			for _, a := range e.Actions() {
				fmt.Fprintln(out, a)
			}
			fmt.Fprintln(out, "total", len(e.LegalIDs()))
		case "mask":
			ids := e.LegalIDs()
			strs := make([]string, len(ids))
			for i, id := range ids {
				strs[i] = strconv.Itoa(int(id))
			}
			fmt.Fprintln(out, "mask", strings.Join(strs, " "))
		case "step", "move":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "info string Malformed", tokens[0], "command")
				continue
			}
			var (
				res env.StepResult
				err error
			)
			if strings.ToLower(tokens[0]) == "step" {
				id, perr := parseActionID(tokens[1])
				if perr != nil {
					fmt.Fprintln(out, "info string", perr)
					continue
				}
				res, err = e.Step(id)
			} else {
				res, err = e.StepUCI(tokens[1])
			}
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			fmt.Fprintf(out, "played %s reward %g terminated %v truncated %v legal %d\n",
				res.Info.LastMove, res.Reward, res.Terminated, res.Truncated, res.Info.LegalActions)
		case "encode":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "info string Malformed encode command")
				continue
			}
			m, err := actionspace.ParseUCI(tokens[1])
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			id, err := actionspace.Encode(m)
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			fmt.Fprintln(out, "action", id)
		case "decode":
			if len(tokens) < 2 {
				fmt.Fprintln(out, "info string Malformed decode command")
				continue
			}
			id, err := parseActionID(tokens[1])
			if err != nil {
				fmt.Fprintln(out, "info string", err)
				continue
			}
			fmt.Fprintln(out, "move", actionspace.Describe(id))
		case "render", "d":
			fmt.Fprint(out, e.Render())
		default:
			fmt.Fprintln(out, "info string Unknown command", tokens[0])
		}
	}
}

func parseActionID(s string) (actionspace.ActionID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid action %q", s)
	}
	if n < 0 || n >= actionspace.ActionSpaceLen {
		return 0, fmt.Errorf("%w: %d", actionspace.ErrActionOutOfRange, n)
	}
	return actionspace.ActionID(n), nil
}
