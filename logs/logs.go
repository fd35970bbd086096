// Package logs builds the structured logger of the devasm command.
package logs

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// Level is the minimum level logged by every handler.
var Level = new(slog.LevelVar)

// Options selects the log destinations.
type Options struct {
	Writer  io.Writer // Text log destination.
	Journal bool      // If set, also log to the systemd journal.
}

// New returns a logger fanning records out to the selected destinations.
func New(opts Options) *slog.Logger {
	terminal := slog.NewTextHandler(opts.Writer, &slog.HandlerOptions{
		Level: Level,
	})
	handlers := []slog.Handler{terminal}

	if opts.Journal {
		journal, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: Level,
			ReplaceGroup: func(key string) string {
				return JournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = JournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminal.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journal)
		}
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// JournalKey converts an attribute key to a journal field name.
func JournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
