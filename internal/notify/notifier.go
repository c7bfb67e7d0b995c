package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/pnl"
	"github.com/rustyeddy/tradejournal/trade"
)

// Sender is the part of tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes journal events to a Telegram chat. A disabled
// notifier accepts every call and sends nothing.
type Notifier struct {
	bot     Sender
	chatID  int64
	enabled bool
	logger  *logger.Logger
}

func NewNotifier(cfg *config.Config, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Discard()
	}
	tg := cfg.Notify.Telegram
	if !tg.Enabled {
		return &Notifier{enabled: false, logger: log}
	}

	bot, err := tgbotapi.NewBotAPI(tg.BotToken)
	if err != nil {
		log.Error("failed to create telegram bot", "error", err)
		return &Notifier{enabled: false, logger: log}
	}

	log.Info("telegram bot connected", "username", bot.Self.UserName)
	return NewWithSender(bot, tg.ChatID, log)
}

// NewWithSender builds an enabled notifier around any Sender.
func NewWithSender(s Sender, chatID int64, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Discard()
	}
	return &Notifier{bot: s, chatID: chatID, enabled: true, logger: log}
}

func (n *Notifier) Enabled() bool {
	return n.enabled
}

// NotifyInsights sends a one-line summary followed by the insights.
func (n *Notifier) NotifyInsights(s pnl.Summary, insights []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Performance*\nTrades: %d closed, %d open\nWin rate: %.2f%%\nNet P&L: %.2f",
		s.ClosedTrades, s.OpenPositions, s.WinRate, s.TotalPnL)
	if len(insights) == 0 {
		b.WriteString("\n\nNo insights yet.")
	} else {
		b.WriteString("\n")
		for _, line := range insights {
			b.WriteString("\n• ")
			b.WriteString(escape(line))
		}
	}
	return n.send(b.String())
}

// NotifyTradeClosed reports the realized result of a closed trade.
func (n *Notifier) NotifyTradeClosed(t trade.Trade) error {
	p := pnl.TradePnL(t)
	emoji := "🔴"
	if p > 0 {
		emoji = "💰"
	}
	msg := fmt.Sprintf("%s *CLOSED* %s %s\nEntry: %s\nExit: %s\nQty: %s\nP&L: %.2f",
		emoji, escape(t.Symbol), t.Direction,
		t.EntryPrice, t.ExitPrice.Decimal, t.Quantity, p)
	return n.send(msg)
}

func (n *Notifier) send(text string) error {
	if !n.enabled {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("send telegram message", "error", err)
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
