package logic

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/weekplan/internal/config"
	"github.com/hy4ri/weekplan/internal/ics"
	"github.com/hy4ri/weekplan/internal/schedule"
	"github.com/hy4ri/weekplan/internal/store"
)

const storeTimeout = 15 * time.Second

// loadSnapshot reads the store once.
func (h *Handler) loadSnapshot() tea.Cmd {
	st := h.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		snap, err := st.Snapshot(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load tasks: %w", err)}
		}
		return snapshotMsg{snap: snap}
	}
}

// waitForSnapshot blocks on the next pushed snapshot.
func (h *Handler) waitForSnapshot() tea.Cmd {
	ch := h.Updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return updatesClosedMsg{}
		}
		return snapshotMsg{snap: snap, pushed: true}
	}
}

// applyWrite commits a finished gesture. The board changes only when the
// store pushes the resulting snapshot.
func (h *Handler) applyWrite(w schedule.Write) tea.Cmd {
	st, log := h.Store, h.Log
	h.Pending++
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := w.Apply(ctx, st)
		if err != nil {
			log.Error().Err(err).Str("op", w.Op.String()).Str("task", w.TaskID).Msg("write failed")
			return writeDoneMsg{write: w, err: fmt.Errorf("save %s: %w", w.TaskID, err)}
		}
		log.Info().Str("op", w.Op.String()).Str("task", w.TaskID).Msg(w.String())
		return writeDoneMsg{write: w}
	}
}

func (h *Handler) complete(o schedule.Occurrence) tea.Cmd {
	st, log := h.Store, h.Log
	id, title := o.SourceID(), o.Title
	h.Pending++
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := st.Complete(ctx, id); err != nil {
			log.Error().Err(err).Str("task", id).Msg("complete failed")
			return completedMsg{title: title, err: fmt.Errorf("complete %q: %w", title, err)}
		}
		log.Info().Str("task", id).Msg("task completed")
		return completedMsg{title: title}
	}
}

func (h *Handler) addTask(n store.NewTask) tea.Cmd {
	st := h.Store
	h.Pending++
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		t, err := st.AddTask(ctx, n)
		if err != nil {
			return taskAddedMsg{err: fmt.Errorf("add task: %w", err)}
		}
		return taskAddedMsg{task: t}
	}
}

func (h *Handler) export() tea.Cmd {
	board := h.Board
	names := h.Snapshot.ProjectName
	path := filepath.Join(h.ExportDir, ics.FileName(h.Week.Monday()))
	return func() tea.Msg {
		if err := ics.WriteFile(path, board, ics.Options{ProjectName: names}); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

func (h *Handler) copyOccurrence(o schedule.Occurrence) tea.Cmd {
	text := Summary(o, h.Snapshot.ProjectName(o.ProjectID))
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return errMsg{fmt.Errorf("copy to clipboard: %w", err)}
		}
		return statusMsg{"Copied: " + text}
	}
}

func (h *Handler) saveConfig() tea.Cmd {
	path := h.ConfigPath
	if path == "" {
		return nil
	}
	cfg := *h.Config
	cfg.UI.HiddenProjects = append([]string(nil), h.Config.UI.HiddenProjects...)
	log := h.Log
	return func() tea.Msg {
		if err := config.SaveFile(path, &cfg); err != nil {
			log.Warn().Err(err).Msg("save config failed")
			return errMsg{fmt.Errorf("save config: %w", err)}
		}
		return nil
	}
}

// Summary renders an occurrence as one line of text.
func Summary(o schedule.Occurrence, project string) string {
	s := o.Title
	switch o.Placement() {
	case schedule.Timed:
		end := schedule.EndTime(*o.Time, o.Duration)
		s += fmt.Sprintf(" (%s %s-%s)", o.Date.Time().Format("Mon Jan 2"), o.Time, end)
	case schedule.AllDay:
		s += fmt.Sprintf(" (%s)", o.Date.Time().Format("Mon Jan 2"))
	}
	if project != "" {
		s += " #" + project
	}
	return s
}
