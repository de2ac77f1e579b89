package root

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"pixeldue/internal/config"
	"pixeldue/internal/engine"
	"pixeldue/internal/llm"
	"pixeldue/internal/pal"
	"pixeldue/internal/storage"
	"pixeldue/internal/ui"
)

// openSession wires config, storage, the generator backend and the
// companion queue into a live session. One-shot commands open it, act,
// and close it again.
func openSession(ctx context.Context) (*engine.Session, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	path := cfg.DBPath
	if path == "" {
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	var gen llm.Client
	switch cfg.Generator {
	case config.GeneratorGemini:
		gen, err = llm.NewGemini(ctx, llm.GeminiConfig{
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
			Model:    cfg.Model,
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	default:
		gen = llm.NewStatic()
	}

	queue := pal.NewQueue()
	sess, err := engine.Open(ctx, storage.NewStore(db, logger), gen, queue, logger)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, nil, err
	}

	if _, err := sess.EnsureDailyBounties(ctx); err != nil {
		logger.Warn("daily bounty refresh failed", "err", err)
	}

	cleanup := func() {
		sess.Close()
		queue.Close()
		_ = db.Close()
	}
	return sess, cleanup, nil
}

// palMark snapshots the companion log so drainPal can print only what
// the current command produced.
func palMark(sess *engine.Session) int {
	return len(sess.Pal().History())
}

func drainPal(out io.Writer, sess *engine.Session, mark int) {
	history := sess.Pal().History()
	if mark > len(history) {
		return
	}
	for _, m := range history[mark:] {
		fmt.Fprintln(out, ui.Dim.Render(ui.IconPal+" Pal:")+" "+m.Text)
	}
}

// resolveQuestID accepts a full quest id or any unambiguous prefix.
func resolveQuestID(sess *engine.Session, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("id is required")
	}

	var matches []string
	for _, q := range sess.Quests() {
		if q.ID == arg {
			return q.ID, nil
		}
		if strings.HasPrefix(q.ID, strings.ToUpper(arg)) || strings.HasPrefix(q.ID, arg) {
			matches = append(matches, q.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no quest matches %q", arg)
	default:
		return "", fmt.Errorf("%q is ambiguous (%d quests match)", arg, len(matches))
	}
}

// reportRefusal prints refusals as friendly notices instead of command
// failures. It returns the error unchanged for everything else.
func reportRefusal(out io.Writer, err error) error {
	if engine.IsRefusal(err) {
		fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+err.Error()))
		return nil
	}
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
