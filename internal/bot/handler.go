// Package bot dispatches inbound chat updates: authorization, the
// month-selection flow and the mapping of ingestion errors to
// user-facing replies.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	"faturabot/internal/core"
	"faturabot/internal/events"
	applog "faturabot/internal/log"
	"faturabot/internal/sheets"
	"faturabot/internal/state"
	"faturabot/internal/telegram"
)

// Reply texts. The bot answers in Portuguese because the sheet and its
// audience are.
const (
	msgRefusal       = "Desculpe, este bot é de uso restrito."
	msgChooseMonth   = "Escolha o mês da fatura tocando em um dos botões ou digitando exatamente como mostrado:"
	msgInvalidMonth  = "Mês inválido. Por favor, escolha um mês da lista enviada."
	msgNoInvoices    = "Nenhuma fatura encontrada."
	msgMonthNotFound = "Dados do mês não encontrados."
	msgSourceDown    = "Não consegui acessar a planilha agora. Tente novamente mais tarde."
	msgBadFormat     = "A planilha está em um formato inesperado. Verifique as colunas configuradas."
	msgHelp          = "Envie /faturas para ver os meses disponíveis."
)

const cmdFaturas = "/faturas"

// Config carries the domain labels the handler matches against.
type Config struct {
	Cards      []string
	TotalLabel string
	ToPayLabel string
	// AllowedChats is the chat allow-list; empty means open to anyone.
	AllowedChats []int64
}

type Handler struct {
	reader   sheets.InvoiceReader
	notifier telegram.Notifier
	states   state.Store
	events   events.Publisher
	logger   *applog.Logger

	cards      []string
	totalLabel string
	toPayLabel string
	allowed    map[int64]struct{}
}

func NewHandler(reader sheets.InvoiceReader, notifier telegram.Notifier, states state.Store, publisher events.Publisher, logger *applog.Logger, cfg Config) *Handler {
	cards := cfg.Cards
	if len(cards) == 0 {
		cards = core.DefaultCards
	}
	totalLabel := cfg.TotalLabel
	if totalLabel == "" {
		totalLabel = core.DefaultTotalLabel
	}
	toPayLabel := cfg.ToPayLabel
	if toPayLabel == "" {
		toPayLabel = core.DefaultToPayLabel
	}
	var allowed map[int64]struct{}
	if len(cfg.AllowedChats) > 0 {
		allowed = make(map[int64]struct{}, len(cfg.AllowedChats))
		for _, id := range cfg.AllowedChats {
			allowed[id] = struct{}{}
		}
	}
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Handler{
		reader:     reader,
		notifier:   notifier,
		states:     states,
		events:     publisher,
		logger:     logger,
		cards:      cards,
		totalLabel: totalLabel,
		toPayLabel: toPayLabel,
		allowed:    allowed,
	}
}

// HandleUpdate processes one webhook update. It never fails upward:
// every error ends as a chat reply or a log line, so the webhook can
// always acknowledge.
func (h *Handler) HandleUpdate(ctx context.Context, upd telegram.Update) {
	if upd.Message == nil {
		return
	}
	chatID := upd.Message.Chat.ID
	userID := upd.Message.From.ID
	text := strings.TrimSpace(upd.Message.Text)

	if !h.authorized(chatID) {
		h.logger.Info("refused unauthorized chat", applog.FieldChatID, chatID)
		h.reply(ctx, chatID, msgRefusal, nil)
		return
	}

	if pending, ok := h.states.Get(userID); ok {
		h.handleMonthSelection(ctx, chatID, userID, text, pending)
		return
	}

	switch text {
	case cmdFaturas:
		h.handleListMonths(ctx, chatID, userID)
	default:
		h.reply(ctx, chatID, msgHelp, nil)
	}
}

func (h *Handler) authorized(chatID int64) bool {
	if h.allowed == nil {
		return true
	}
	_, ok := h.allowed[chatID]
	return ok
}

func (h *Handler) handleListMonths(ctx context.Context, chatID, userID int64) {
	rows, err := h.reader.ListInvoices(ctx)
	if err != nil {
		h.replyForError(ctx, chatID, err)
		return
	}
	months := core.Months(rows)
	if len(months) == 0 {
		h.reply(ctx, chatID, msgNoInvoices, nil)
		return
	}
	h.states.Set(userID, state.Pending{Months: months})
	h.reply(ctx, chatID, msgChooseMonth, telegram.KeyboardOf(months))
}

func (h *Handler) handleMonthSelection(ctx context.Context, chatID, userID int64, text string, pending state.Pending) {
	month, ok := matchMonth(text, pending.Months)
	if !ok {
		// Stay in the selection state and offer the keyboard again.
		h.reply(ctx, chatID, msgInvalidMonth, telegram.KeyboardOf(pending.Months))
		return
	}
	// A valid pick always leaves the selection state, even if the
	// lookup below fails.
	h.states.Clear(userID)

	rows, err := h.reader.ListInvoices(ctx)
	if err != nil {
		h.replyForError(ctx, chatID, err)
		return
	}
	report, err := core.BuildReport(core.FilterMonth(rows, month), h.cards, h.totalLabel, h.toPayLabel)
	if err != nil {
		h.replyForError(ctx, chatID, err)
		return
	}
	if !h.reply(ctx, chatID, core.RenderReport(report), nil) {
		return
	}
	h.logger.Info("report sent", applog.FieldChatID, chatID, applog.FieldMonth, report.Month)

	ev := events.ReportSent{
		ChatID:    chatID,
		Month:     report.Month,
		Cards:     len(report.Cards),
		Timestamp: time.Now().UTC(),
	}
	if err := h.events.PublishReportSent(ctx, ev); err != nil {
		h.logger.Warn("publish report event", applog.FieldChatID, chatID, applog.FieldError, err)
	}
}

// matchMonth resolves user input to the canonical label it was offered
// as, ignoring case and surrounding whitespace.
func matchMonth(text string, months []string) (string, bool) {
	want := strings.ToUpper(strings.TrimSpace(text))
	for _, m := range months {
		if strings.ToUpper(strings.TrimSpace(m)) == want {
			return m, true
		}
	}
	return "", false
}

// replyForError maps ingestion and aggregation failures to the chat
// message the user sees.
func (h *Handler) replyForError(ctx context.Context, chatID int64, err error) {
	var text string
	switch {
	case errors.Is(err, core.ErrMissingColumns):
		text = msgBadFormat
	case errors.Is(err, core.ErrNoData):
		text = msgMonthNotFound
	default:
		text = msgSourceDown
	}
	h.logger.Error("report request failed", applog.FieldChatID, chatID, applog.FieldError, err)
	h.reply(ctx, chatID, text, nil)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string, keyboard *telegram.ReplyKeyboardMarkup) bool {
	if err := h.notifier.SendMessage(ctx, chatID, text, keyboard); err != nil {
		h.logger.Error("send message", applog.FieldChatID, chatID, applog.FieldError, err)
		return false
	}
	return true
}
