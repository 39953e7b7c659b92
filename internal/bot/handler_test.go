package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"faturabot/internal/core"
	applog "faturabot/internal/log"
	"faturabot/internal/sheets/memory"
	"faturabot/internal/state"
	"faturabot/internal/telegram"
)

type sentMessage struct {
	chatID   int64
	text     string
	keyboard *telegram.ReplyKeyboardMarkup
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) SendMessage(_ context.Context, chatID int64, text string, kb *telegram.ReplyKeyboardMarkup) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, keyboard: kb})
	return nil
}

func (f *fakeNotifier) last(t *testing.T) sentMessage {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("no message sent")
	}
	return f.sent[len(f.sent)-1]
}

type countingReader struct {
	*memory.Store
	calls int
}

func (c *countingReader) ListInvoices(ctx context.Context) ([]core.InvoiceRow, error) {
	c.calls++
	return c.Store.ListInvoices(ctx)
}

func sampleRows() []core.InvoiceRow {
	return []core.InvoiceRow{
		{Card: "NUBANK", Month: "JAN", DueDay: "10", Status: "ABERTA", TotalRaw: "R$ 100,00"},
		{Card: "INTER", Month: "JAN", DueDay: "15", Status: "PAGA", TotalRaw: "R$ 50,00"},
		{Card: "NUBANK", Month: "FEV", DueDay: "10", Status: "ABERTA", TotalRaw: "R$ 200,00"},
	}
}

func newTestHandler(t *testing.T, rows []core.InvoiceRow, cfg Config) (*Handler, *fakeNotifier, *countingReader, *state.MemoryStore) {
	t.Helper()
	reader := &countingReader{Store: memory.New(rows)}
	notifier := &fakeNotifier{}
	states := state.NewMemoryStore(time.Minute)
	t.Cleanup(states.Close)
	logger := applog.New(slog.LevelError, applog.ComponentBot)
	return NewHandler(reader, notifier, states, nil, logger, cfg), notifier, reader, states
}

func update(userID, chatID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			MessageID: 1,
			Text:      text,
			Chat:      telegram.Chat{ID: chatID},
			From:      telegram.User{ID: userID},
		},
	}
}

func TestHandleUpdateNoMessage(t *testing.T) {
	h, notifier, reader, _ := newTestHandler(t, sampleRows(), Config{})
	h.HandleUpdate(context.Background(), telegram.Update{UpdateID: 5})
	if len(notifier.sent) != 0 || reader.calls != 0 {
		t.Errorf("message-less update caused activity: sent=%d calls=%d", len(notifier.sent), reader.calls)
	}
}

func TestListMonthsSetsStateAndKeyboard(t *testing.T) {
	h, notifier, _, states := newTestHandler(t, sampleRows(), Config{})
	h.HandleUpdate(context.Background(), update(1, 1, "/faturas"))

	got := notifier.last(t)
	if got.text != msgChooseMonth {
		t.Errorf("text = %q, want choose-month prompt", got.text)
	}
	if got.keyboard == nil || len(got.keyboard.Keyboard) != 2 {
		t.Fatalf("keyboard = %+v, want 2 month buttons", got.keyboard)
	}
	if got.keyboard.Keyboard[0][0].Text != "JAN" || got.keyboard.Keyboard[1][0].Text != "FEV" {
		t.Errorf("keyboard order = %+v", got.keyboard.Keyboard)
	}
	p, ok := states.Get(1)
	if !ok || len(p.Months) != 2 {
		t.Errorf("pending = %+v ok=%v", p, ok)
	}
}

func TestMonthSelectionCaseInsensitive(t *testing.T) {
	h, notifier, _, states := newTestHandler(t, sampleRows(), Config{})
	ctx := context.Background()
	h.HandleUpdate(ctx, update(1, 1, "/faturas"))
	h.HandleUpdate(ctx, update(1, 1, "fev"))

	got := notifier.last(t)
	if !strings.Contains(got.text, "*Mês:* FEV") {
		t.Errorf("report = %q, want FEV header", got.text)
	}
	if !strings.Contains(got.text, "NUBANK: R$ 200,00") {
		t.Errorf("report = %q, want NUBANK line", got.text)
	}
	if _, ok := states.Get(1); ok {
		t.Error("state not cleared after valid selection")
	}
}

func TestMonthSelectionInvalidStaysPending(t *testing.T) {
	h, notifier, _, states := newTestHandler(t, sampleRows(), Config{})
	ctx := context.Background()
	h.HandleUpdate(ctx, update(1, 1, "/faturas"))
	h.HandleUpdate(ctx, update(1, 1, "MAR"))

	got := notifier.last(t)
	if got.text != msgInvalidMonth {
		t.Errorf("text = %q, want invalid-month prompt", got.text)
	}
	if got.keyboard == nil {
		t.Error("re-prompt lost the month keyboard")
	}
	if _, ok := states.Get(1); !ok {
		t.Error("state cleared on invalid selection")
	}
}

func TestMonthSelectionIsolatedPerUser(t *testing.T) {
	h, notifier, _, states := newTestHandler(t, sampleRows(), Config{})
	ctx := context.Background()
	h.HandleUpdate(ctx, update(1, 1, "/faturas"))
	h.HandleUpdate(ctx, update(2, 2, "/faturas"))

	// V picks a month; U must remain pending.
	h.HandleUpdate(ctx, update(2, 2, "JAN"))
	if _, ok := states.Get(1); !ok {
		t.Error("user 1 lost pending state after user 2 selected")
	}
	h.HandleUpdate(ctx, update(1, 1, "fev"))
	if got := notifier.last(t); !strings.Contains(got.text, "FEV") {
		t.Errorf("user 1 report = %q", got.text)
	}
}

func TestUnauthorizedChatRefusedBeforeFetch(t *testing.T) {
	h, notifier, reader, _ := newTestHandler(t, sampleRows(), Config{AllowedChats: []int64{42}})
	h.HandleUpdate(context.Background(), update(1, 99, "/faturas"))

	if got := notifier.last(t); got.text != msgRefusal {
		t.Errorf("text = %q, want refusal", got.text)
	}
	if reader.calls != 0 {
		t.Errorf("reader called %d times for unauthorized chat", reader.calls)
	}
}

func TestAllowedChatPasses(t *testing.T) {
	h, notifier, _, _ := newTestHandler(t, sampleRows(), Config{AllowedChats: []int64{42}})
	h.HandleUpdate(context.Background(), update(7, 42, "/faturas"))
	if got := notifier.last(t); got.text != msgChooseMonth {
		t.Errorf("text = %q, want choose-month prompt", got.text)
	}
}

func TestFetchErrorReported(t *testing.T) {
	h, notifier, reader, _ := newTestHandler(t, sampleRows(), Config{})
	reader.SetError(errors.New("connection refused"))
	h.HandleUpdate(context.Background(), update(1, 1, "/faturas"))
	if got := notifier.last(t); got.text != msgSourceDown {
		t.Errorf("text = %q, want source-down message", got.text)
	}
}

func TestFormatErrorReported(t *testing.T) {
	h, notifier, reader, _ := newTestHandler(t, sampleRows(), Config{})
	reader.SetError(fmt.Errorf("normalize csv: %w", core.ErrMissingColumns))
	h.HandleUpdate(context.Background(), update(1, 1, "/faturas"))
	if got := notifier.last(t); got.text != msgBadFormat {
		t.Errorf("text = %q, want bad-format message", got.text)
	}
}

func TestNoInvoicesAtAll(t *testing.T) {
	h, notifier, _, states := newTestHandler(t, nil, Config{})
	h.HandleUpdate(context.Background(), update(1, 1, "/faturas"))
	if got := notifier.last(t); got.text != msgNoInvoices {
		t.Errorf("text = %q, want no-invoices message", got.text)
	}
	if _, ok := states.Get(1); ok {
		t.Error("state set despite empty month list")
	}
}

func TestSelectionWithoutCardRows(t *testing.T) {
	rows := []core.InvoiceRow{{Card: "DESCONHECIDO", Month: "JAN", TotalRaw: "1,00"}}
	h, notifier, _, _ := newTestHandler(t, rows, Config{})
	ctx := context.Background()
	h.HandleUpdate(ctx, update(1, 1, "/faturas"))
	h.HandleUpdate(ctx, update(1, 1, "JAN"))
	if got := notifier.last(t); got.text != msgMonthNotFound {
		t.Errorf("text = %q, want month-not-found message", got.text)
	}
}

func TestUnknownTextGetsHelp(t *testing.T) {
	h, notifier, _, _ := newTestHandler(t, sampleRows(), Config{})
	h.HandleUpdate(context.Background(), update(1, 1, "oi"))
	if got := notifier.last(t); got.text != msgHelp {
		t.Errorf("text = %q, want help message", got.text)
	}
}
