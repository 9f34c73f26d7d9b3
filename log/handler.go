// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-isatty"
)

// levelVarHandler drops records below the current value of lvl.
type levelVarHandler struct {
	slog.Handler
	lvl *slog.LevelVar
}

func (h *levelVarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.Handler.Enabled(ctx, level)
}

func (h *levelVarHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.lvl.Level() {
		return nil
	}
	return h.Handler.Handle(ctx, r)
}

func (h *levelVarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelVarHandler{Handler: h.Handler.WithAttrs(attrs), lvl: h.lvl}
}

func (h *levelVarHandler) WithGroup(name string) slog.Handler {
	return &levelVarHandler{Handler: h.Handler.WithGroup(name), lvl: h.lvl}
}

// NewTerminalHandler returns a human readable handler filtered by lvl. Colors are
// enabled when wr is a terminal.
func NewTerminalHandler(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelVarHandler{
		Handler: ethlog.NewTerminalHandlerWithLevel(wr, LevelTrace, useColor(wr)),
		lvl:     lvl,
	}
}

// NewJSONHandler returns a JSON handler filtered by lvl.
func NewJSONHandler(wr io.Writer, lvl *slog.LevelVar) slog.Handler {
	return &levelVarHandler{
		Handler: ethlog.JSONHandlerWithLevel(wr, LevelTrace),
		lvl:     lvl,
	}
}

// DiscardHandler returns a handler that drops everything.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

func useColor(wr io.Writer) bool {
	f, ok := wr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) && os.Getenv("TERM") != "dumb"
}
