package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alias1177/ChartBot/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// historyLimit is the number of charts listed by /history
const historyLimit = 5

// Sender is the part of *tgbotapi.BotAPI the handler uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// PlotHistory persists handled plot commands
type PlotHistory interface {
	RecordPlot(ctx context.Context, rec model.PlotRecord) error
	RecentPlots(ctx context.Context, userID int64, limit int) ([]model.PlotRecord, error)
}

// Handler dispatches Telegram commands
type Handler struct {
	sender  Sender
	plotter *Plotter
	history PlotHistory
	logger  zerolog.Logger
}

// NewHandler creates a command handler. history may be nil.
func NewHandler(sender Sender, plotter *Plotter, history PlotHistory) *Handler {
	return &Handler{
		sender:  sender,
		plotter: plotter,
		history: history,
		logger:  log.With().Str("component", "tg_handler").Logger(),
	}
}

// HandleUpdate processes a single update. Only commands are answered.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		h.sendTyping(message.Chat.ID)
		h.reply(message, "Hi there! Send /plot TICKER [period] [interval] to get a chart.")
	case "help":
		h.reply(message, helpText())
	case "plot":
		h.handlePlot(ctx, message)
	case "history":
		h.handleHistory(ctx, message)
	default:
		h.reply(message, "Unknown command. Send /help for usage.")
	}
}

// handlePlot answers /plot TICKER [period] [interval] with a chart photo
func (h *Handler) handlePlot(ctx context.Context, message *tgbotapi.Message) {
	h.sendTyping(message.Chat.ID)

	ticker, period, interval := SplitArgs(strings.Fields(message.CommandArguments()))
	reply := h.plotter.Plot(ctx, ticker, period, interval)

	if reply.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(message.Chat.ID, tgbotapi.FileURL(reply.PhotoURL))
		photo.ReplyToMessageID = message.MessageID
		if _, err := h.sender.Send(photo); err != nil {
			h.logger.Error().Err(err).Int64("chat_id", message.Chat.ID).Str("url", reply.PhotoURL).Msg("Error sending photo")
			h.reply(message, reply.PhotoURL)
		}
	} else {
		h.logger.Info().
			Int64("user_id", userID(message)).
			Int64("chat_id", message.Chat.ID).
			Str("ticker", reply.Query.Ticker).
			Str("period", string(reply.Query.Period)).
			Str("interval", string(reply.Query.Interval)).
			Str("status", reply.Status).
			Msg("Plot request not served")
		h.reply(message, reply.Text)
	}

	h.record(ctx, message, reply)
}

// handleHistory lists the latest charts delivered to the user
func (h *Handler) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	if h.history == nil {
		h.reply(message, "History is not enabled.")
		return
	}

	records, err := h.history.RecentPlots(ctx, userID(message), historyLimit)
	if err != nil {
		h.logger.Error().Err(err).Int64("user_id", userID(message)).Msg("Error retrieving history")
		h.reply(message, "Sorry, there was an error. Please try again later.")
		return
	}
	if len(records) == 0 {
		h.reply(message, "No charts yet. Send /plot TICKER to get one.")
		return
	}

	var b strings.Builder
	b.WriteString("Your latest charts:\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "%s %s %s/%s %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.Ticker, rec.Period, rec.Interval, rec.URL)
	}
	h.reply(message, strings.TrimRight(b.String(), "\n"))
}

// record stores the plot outcome, failures are only logged
func (h *Handler) record(ctx context.Context, message *tgbotapi.Message, reply Reply) {
	if h.history == nil {
		return
	}

	rec := model.PlotRecord{
		UserID:   userID(message),
		ChatID:   message.Chat.ID,
		Ticker:   reply.Query.Ticker,
		Period:   string(reply.Query.Period),
		Interval: string(reply.Query.Interval),
		URL:      reply.PhotoURL,
		Status:   reply.Status,
	}
	if err := h.history.RecordPlot(ctx, rec); err != nil {
		h.logger.Error().Err(err).Int64("user_id", rec.UserID).Msg("Error recording plot")
	}
}

func (h *Handler) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := h.sender.Send(msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", message.Chat.ID).Msg("Error sending message")
	}
}

func (h *Handler) sendTyping(chatID int64) {
	if _, err := h.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Error sending chat action")
	}
}

func userID(message *tgbotapi.Message) int64 {
	if message.From == nil {
		return 0
	}
	return message.From.ID
}

func helpText() string {
	periods := make([]string, len(model.Periods))
	for i, p := range model.Periods {
		periods[i] = string(p)
	}
	intervals := make([]string, len(model.Intervals))
	for i, iv := range model.Intervals {
		intervals[i] = string(iv)
	}

	return fmt.Sprintf("Usage: /plot TICKER [period] [interval]\n"+
		"Example: /plot AAPL 1mo 1d\n\n"+
		"Periods: %s\nIntervals: %s\n\n"+
		"Without period and interval the chart covers %s of %s bars.\n"+
		"/history lists your latest charts.",
		strings.Join(periods, ", "), strings.Join(intervals, ", "), DefaultPeriod, DefaultInterval)
}
