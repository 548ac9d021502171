package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ispeaker/backend/domain"
	"ispeaker/backend/repository"
	"ispeaker/backend/repository/events"
	"ispeaker/backend/repository/memory"
	"ispeaker/backend/service/applog"
	"ispeaker/backend/service/savefolder"

	"github.com/rs/zerolog"
)

type allowAll struct{}

func (allowAll) IsDenied(string) bool { return false }

func newTestFacade(t *testing.T) (*Facade, *events.Bus, string) {
	t.Helper()

	bus := events.NewBus()
	repo := memory.NewSettingsRepo(memory.NewStore(bus))
	defaultRoot := filepath.Join(t.TempDir(), "Documents", "iSpeakerReact")
	svc := savefolder.NewService(savefolder.Options{
		Settings:     repo,
		DefaultRoot:  defaultRoot,
		Guard:        allowAll{},
		OnProgress:   PublishProgress(bus),
		OnVenvStatus: PublishVenvStatus(bus),
		Logger:       zerolog.Nop(),
	})
	return NewFacade(svc, repo, bus, zerolog.Nop()), bus, defaultRoot
}

func TestFacade_ProgressReachesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	f, _, defaultRoot := newTestFacade(t)
	for _, name := range []string{"a.wav", "b.wav", "c.wav"} {
		path := filepath.Join(defaultRoot, "recordings", name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	var mu sync.Mutex
	var got []domain.ProgressEvent
	var opIDs = map[string]bool{}
	_, unsubscribe := f.SubscribeEvents(func(ev events.Event) {
		e, ok := ev.(events.MoveProgressEvent)
		if !ok {
			return
		}
		mu.Lock()
		got = append(got, e.Progress)
		opIDs[e.OperationID] = true
		mu.Unlock()
	})
	defer unsubscribe()

	result := f.SetCustomSaveFolder(context.Background(), t.TempDir())
	if !result.Success {
		t.Fatalf("relocation failed: %+v", result)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(opIDs) != 1 {
		t.Fatalf("expected one operation id, got %v", opIDs)
	}
	copied := 0
	for _, ev := range got {
		if ev.Phase != domain.PhaseCopy {
			break
		}
		copied++
		if ev.Moved != copied || ev.Total != 3 {
			t.Fatalf("copy event %d out of order: %+v", copied, ev)
		}
	}
	if copied != 3 {
		t.Fatalf("expected 3 copy events first, got %d", copied)
	}
	if last := got[len(got)-1]; last.Phase != domain.PhaseDeleteDone {
		t.Fatalf("expected delete-done last, got %+v", last)
	}
}

func TestFacade_UpdateLogSettings_ValidatesAndApplies(t *testing.T) {
	t.Parallel()

	f, _, _ := newTestFacade(t)
	sink, err := applog.OpenFileSink(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("OpenFileSink: %v", err)
	}
	defer sink.Close()
	filter := applog.NewFileFilter(sink, zerolog.InfoLevel, domain.DefaultLogSettings().LogFormat)
	f.SetAppLog(sink, filter)

	bad := "shout"
	if _, err := f.UpdateLogSettings(context.Background(), domain.LogSettingsPatch{LogLevel: &bad}); !errors.Is(err, repository.ErrInvalidData) {
		t.Fatalf("expected ErrInvalidData, got %v", err)
	}

	level := "error"
	updated, err := f.UpdateLogSettings(context.Background(), domain.LogSettingsPatch{LogLevel: &level})
	if err != nil {
		t.Fatalf("UpdateLogSettings: %v", err)
	}
	if updated.LogLevel != "error" {
		t.Fatalf("unexpected settings %+v", updated)
	}
	if filter.Level() != zerolog.ErrorLevel {
		t.Fatalf("expected file filter at error, got %v", filter.Level())
	}
}

func TestFacade_GetAppLogs_WithoutSink(t *testing.T) {
	t.Parallel()

	f, _, _ := newTestFacade(t)
	snap := f.GetAppLogs(0, 0)
	if snap.Path != "" || snap.Text != "" {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestFacade_SettingsEventsArePublished(t *testing.T) {
	t.Parallel()

	f, bus, _ := newTestFacade(t)
	seen := make(chan events.EventType, 4)
	bus.Subscribe(events.EventThemeChanged, func(ev events.Event) { seen <- ev.Type() })

	if err := f.SetTheme(context.Background(), "light"); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	select {
	case typ := <-seen:
		if typ != events.EventThemeChanged {
			t.Fatalf("unexpected event %s", typ)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("theme change event not published")
	}
}
