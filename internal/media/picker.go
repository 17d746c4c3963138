package media

import (
	"math/rand"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Picker selects media from a directory, persisting the last pick so that
// Random can apply anti-repeat and Next can resume round-robin across runs.
//
// StatePath is a single file, keyed per-monitor by the caller (supervisor.go
// derives one path per monitor name; the CLI entry points share one file
// when no monitor was named). Read/write errors on the state file are
// swallowed: picking still works, it just loses anti-repeat/cursor memory.
type Picker struct {
	StatePath string
}

// NewPicker returns a Picker backed by statePath.
func NewPicker(statePath string) *Picker {
	return &Picker{StatePath: statePath}
}

func (p *Picker) readLast() (string, bool) {
	b, err := os.ReadFile(p.StatePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", p.StatePath).Msg("read last-picked state failed")
		}
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}

func (p *Picker) writeLast(path string) {
	if err := os.WriteFile(p.StatePath, []byte(path), 0o644); err != nil {
		log.Debug().Err(err).Str("path", p.StatePath).Msg("write last-picked state failed")
	}
}

// PeekLast returns the persisted "last picked" path without picking or
// writing a new one, for callers that only want to inspect state (e.g.
// `list` annotating which path a running renderer currently shows).
func (p *Picker) PeekLast() (string, bool) {
	return p.readLast()
}

// Random returns a uniformly random item, re-picking from the remainder when
// the first draw equals the persisted "last" path and more than one
// candidate exists.
func (p *Picker) Random(items []Item) Item {
	chosen := items[rand.Intn(len(items))]

	if len(items) > 1 {
		if last, ok := p.readLast(); ok && last == chosen.Path {
			alternatives := make([]Item, 0, len(items)-1)
			for _, it := range items {
				if it.Path != last {
					alternatives = append(alternatives, it)
				}
			}
			if len(alternatives) > 0 {
				chosen = alternatives[rand.Intn(len(alternatives))]
			}
		}
	}

	p.writeLast(chosen.Path)
	return chosen
}

// Next returns the successor of the persisted "last" item in sorted order,
// wrapping to the first item. Applied len(items)+1 times from empty state it
// yields items[0], items[1], ..., items[0].
func (p *Picker) Next(items []Item) Item {
	idx := 0
	if last, ok := p.readLast(); ok {
		for i, it := range items {
			if it.Path == last {
				idx = (i + 1) % len(items)
				break
			}
		}
	}

	chosen := items[idx]
	p.writeLast(chosen.Path)
	return chosen
}
