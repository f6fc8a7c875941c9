package hosting

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/contre95/musiclify/src/features/catalog"
	"github.com/contre95/musiclify/src/features/config"
	"github.com/contre95/musiclify/src/features/ingesting"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramBot announces ingested albums and answers a few status commands.
// It implements ingesting.Notifier.
type TelegramBot struct {
	bot     *tgbotapi.BotAPI
	config  *config.Manager
	catalog *catalog.Service
	updates tgbotapi.UpdatesChannel
	stop    chan struct{}

	mu     sync.Mutex
	chats  map[int64]struct{}
	recent []*ingesting.IngestResult
}

// recentKept caps how many ingestions /recent looks back over.
const recentKept = 10

// NewTelegramBot creates a new Telegram bot instance.
func NewTelegramBot(cfg *config.Manager, catalogService *catalog.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}
	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	return &TelegramBot{
		bot:     bot,
		config:  cfg,
		catalog: catalogService,
		updates: bot.GetUpdatesChan(updateConfig),
		stop:    make(chan struct{}),
		chats:   make(map[int64]struct{}),
	}, nil
}

// Start begins listening for Telegram updates. It blocks until Stop.
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")
	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
		case <-t.stop:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot.
func (t *TelegramBot) Stop() {
	close(t.stop)
}

// AlbumIngested notifies every registered chat about a committed album.
func (t *TelegramBot) AlbumIngested(result *ingesting.IngestResult) {
	t.mu.Lock()
	t.recent = append(t.recent, result)
	if len(t.recent) > recentKept {
		t.recent = t.recent[len(t.recent)-recentKept:]
	}
	chats := make([]int64, 0, len(t.chats))
	for id := range t.chats {
		chats = append(chats, id)
	}
	t.mu.Unlock()

	text := fmt.Sprintf("🎵 New album: %s — %s (%d tracks)",
		result.ArtistName, result.AlbumTitle, result.TracksCount)
	for _, chatID := range chats {
		t.sendMessage(chatID, text)
	}
}

func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if !slices.Contains(allowedUsers, message.From.UserName) {
		slog.Warn("Unauthorized telegram user", "user", message.From.UserName, "chat_id", chatID)
		t.sendMessage(chatID, "❌ Access denied.")
		return
	}

	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		t.mu.Lock()
		t.chats[chatID] = struct{}{}
		t.mu.Unlock()
		t.sendMessage(chatID, "👋 You will be notified about new albums. Try /stats or /recent.")
	case "stats":
		stats, err := t.catalog.GetStats(context.Background())
		if err != nil {
			slog.Error("Failed to load stats for telegram", "error", err)
			t.sendMessage(chatID, "⚠️ Could not load stats.")
			return
		}
		t.sendMessage(chatID, fmt.Sprintf("📊 %d artists, %d albums, %d tracks",
			stats.Artists, stats.Albums, stats.Tracks))
	case "recent":
		t.mu.Lock()
		recent := slices.Clone(t.recent)
		t.mu.Unlock()
		if len(recent) == 0 {
			t.sendMessage(chatID, "Nothing ingested since startup.")
			return
		}
		var b strings.Builder
		b.WriteString("🕑 Recently ingested:\n")
		for i := len(recent) - 1; i >= 0; i-- {
			r := recent[i]
			fmt.Fprintf(&b, "• %s — %s (%d tracks)\n", r.ArtistName, r.AlbumTitle, r.TracksCount)
		}
		t.sendMessage(chatID, b.String())
	default:
		t.sendMessage(chatID, "Commands: /start /stats /recent")
	}
}

func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send telegram message", "chat_id", chatID, "error", err)
	}
}
