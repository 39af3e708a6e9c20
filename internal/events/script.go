package events

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/derickschaefer/gapview/internal/surface"
)

// ParseScript reads an interaction script, one command per line:
//
//	select <location>     # quote names containing spaces
//	move <x> <y>
//	out [<x> <y>]
//	wait <duration>       # Go duration syntax, e.g. 250ms
//
// Blank lines and lines starting with # are ignored. Words are split with
// shell quoting rules.
func ParseScript(r io.Reader) ([]Event, error) {
	var out []Event
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := shellquote.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if len(words) == 0 {
			continue
		}
		ev, err := parseCommand(words)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		ev.Line = n
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return out, nil
}

func parseCommand(words []string) (Event, error) {
	cmd, args := strings.ToLower(words[0]), words[1:]
	switch cmd {
	case "select":
		if len(args) != 1 {
			return Event{}, fmt.Errorf("select: expected 1 argument, got %d", len(args))
		}
		return Event{Kind: Select, Value: args[0]}, nil

	case "move":
		if len(args) != 2 {
			return Event{}, fmt.Errorf("move: expected x y, got %d arguments", len(args))
		}
		p, err := parsePoint(args)
		if err != nil {
			return Event{}, fmt.Errorf("move: %w", err)
		}
		return Event{Kind: Move, Pos: p}, nil

	case "out":
		switch len(args) {
		case 0:
			return Event{Kind: Out}, nil
		case 2:
			p, err := parsePoint(args)
			if err != nil {
				return Event{}, fmt.Errorf("out: %w", err)
			}
			return Event{Kind: Out, Pos: p}, nil
		default:
			return Event{}, fmt.Errorf("out: expected no arguments or x y, got %d", len(args))
		}

	case "wait":
		if len(args) != 1 {
			return Event{}, fmt.Errorf("wait: expected a duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return Event{}, fmt.Errorf("wait: %w", err)
		}
		if d < 0 {
			return Event{}, fmt.Errorf("wait: negative duration %s", d)
		}
		return Event{Kind: Wait, Delay: d}, nil

	default:
		return Event{}, fmt.Errorf("unknown command %q", words[0])
	}
}

func parsePoint(args []string) (surface.Point, error) {
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return surface.Point{}, fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return surface.Point{}, fmt.Errorf("invalid y %q", args[1])
	}
	return surface.Point{X: x, Y: y}, nil
}
