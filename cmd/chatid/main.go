// chatid is a diagnostic tool for discovering the identifier of the
// chat the form bot should deliver to. Run it with the bot's token,
// add the bot to the target group, and send /chatid there: the tool
// logs every chat it sees and replies with the id. It never touches
// the delivery path.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	token := os.Getenv("FORM_BOT_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "FORM_BOT_TOKEN is required")
		os.Exit(1)
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("telegram bot init: %v", err)
	}
	log.Printf("connected as @%s, waiting for updates (Ctrl+C to stop)", bot.Self.UserName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			chat := update.Message.Chat
			log.Printf("chat %d (%s) %q", chat.ID, chat.Type, chat.Title)

			if update.Message.IsCommand() && update.Message.Command() == "chatid" {
				reply := tgbotapi.NewMessage(chat.ID, fmt.Sprintf("Chat ID: <code>%d</code>", chat.ID))
				reply.ParseMode = tgbotapi.ModeHTML
				if _, err := bot.Send(reply); err != nil {
					log.Printf("reply failed: %v", err)
				}
			}
		}
	}
}
