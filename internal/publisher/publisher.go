// Package publisher implements the moderation and publication flow: routing
// newly pending ads, broadcasting approved ads to the publication channel,
// and retracting previously broadcast messages.
package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/format"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

// Sender is the subset of the Telegram client used for broadcasts and
// retraction. *bot.Bot satisfies it; tests supply a fake.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendMediaGroup(ctx context.Context, params *bot.SendMediaGroupParams) ([]*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// Publisher decides between auto-publication and the moderation queue, and
// tracks where ads were broadcast so they can be retracted later.
type Publisher struct {
	logger *slog.Logger
	store  database.Store
	sender Sender

	// Zero chat ids mean the corresponding destination is not configured.
	moderationChatID  int64
	publicationChatID int64
}

// New creates a Publisher. moderationChatID and publicationChatID may be
// zero when the corresponding destination is not configured.
func New(logger *slog.Logger, store database.Store, sender Sender, moderationChatID, publicationChatID int64) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{
		logger:            logger.With("component", "publisher"),
		store:             store,
		sender:            sender,
		moderationChatID:  moderationChatID,
		publicationChatID: publicationChatID,
	}
}

// ModerationEnabled reports whether a moderation destination is configured.
func (p *Publisher) ModerationEnabled() bool {
	return p.moderationChatID != 0
}

// Process routes a newly pending ad: to the moderation queue when one is
// configured, otherwise straight to publication. It returns the resulting
// status so callers can word the user notice.
func (p *Publisher) Process(ctx context.Context, ad *database.Ad) (database.Status, error) {
	if p.ModerationEnabled() {
		if err := p.SendToModeration(ctx, ad); err != nil {
			return database.StatusPending, err
		}
		return database.StatusPending, nil
	}

	if err := p.publish(ctx, ad); err != nil {
		return database.StatusPending, err
	}
	return database.StatusPublished, nil
}

// Approve publishes a moderated ad. The status flips to published only
// after a successful broadcast; a transport failure leaves the ad pending.
func (p *Publisher) Approve(ctx context.Context, ad *database.Ad) error {
	return p.publish(ctx, ad)
}

// Reject marks a moderated ad rejected.
func (p *Publisher) Reject(ctx context.Context, adID int64) error {
	if _, err := p.store.UpdateAdStatus(ctx, adID, database.StatusRejected); err != nil {
		return err
	}
	return nil
}

// publish broadcasts the ad to the publication chat when one is configured,
// records the tracking info, and then sets the status. With no publication
// chat the status flips without any broadcast.
func (p *Publisher) publish(ctx context.Context, ad *database.Ad) error {
	if p.publicationChatID != 0 {
		text := format.Ad(ad, false)
		markup := keyboards.ContactAuthor(ad.Username.String, ad.UserID)
		messageIDs, err := p.SendAdCard(ctx, p.publicationChatID, ad, text, markup, "Связаться с автором:")
		if err != nil {
			p.logger.WarnContext(ctx, "Failed to broadcast ad to publication chat",
				"ad_id", ad.ID, "chat_id", p.publicationChatID, "error", err)
			return fmt.Errorf("failed to publish ad %d: %w", ad.ID, err)
		}
		if err := p.store.SetPublicationInfo(ctx, ad.ID, p.publicationChatID, messageIDs); err != nil {
			return err
		}
	}

	if _, err := p.store.UpdateAdStatus(ctx, ad.ID, database.StatusPublished); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "Ad published", "ad_id", ad.ID, "broadcast", p.publicationChatID != 0)
	return nil
}

// SendToModeration forwards the ad card with approve/reject buttons to the
// moderation chat. The ad stays pending until an admin acts.
func (p *Publisher) SendToModeration(ctx context.Context, ad *database.Ad) error {
	text := format.Ad(ad, true)
	markup := keyboards.AdminModeration(ad.ID)

	if len(ad.Photos) > 1 {
		// Albums cannot carry an inline keyboard, so the actions arrive as
		// a follow-up message.
		if _, err := p.sendAlbum(ctx, p.moderationChatID, ad.Photos, text); err != nil {
			return fmt.Errorf("failed to send ad %d to moderation: %w", ad.ID, err)
		}
		_, err := p.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      p.moderationChatID,
			Text:        "Модерация объявления:",
			ReplyMarkup: markup,
		})
		if err != nil {
			return fmt.Errorf("failed to send moderation actions for ad %d: %w", ad.ID, err)
		}
		return nil
	}

	if _, err := p.sendSingle(ctx, p.moderationChatID, ad.Photos, text, markup); err != nil {
		return fmt.Errorf("failed to send ad %d to moderation: %w", ad.ID, err)
	}
	return nil
}

// Retract deletes every tracked broadcast message of the ad. Individual
// failures are logged and do not stop the remaining deletions.
func (p *Publisher) Retract(ctx context.Context, adID int64) error {
	info, err := p.store.GetPublicationInfo(ctx, adID)
	if err != nil {
		return err
	}
	if info == nil || len(info.MessageIDs) == 0 {
		return nil
	}

	for _, messageID := range info.MessageIDs {
		_, err := p.sender.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    info.ChatID,
			MessageID: int(messageID),
		})
		if err != nil {
			p.logger.WarnContext(ctx, "Failed to delete published message",
				"ad_id", adID, "chat_id", info.ChatID, "message_id", messageID, "error", err)
		}
	}
	return nil
}

// SendAdCard delivers the ad card (text, photo or album) to chatID and
// returns the sent message ids in send order. Albums cannot carry an inline
// keyboard, so markup arrives as a follow-up message with albumFollowup as
// its text.
func (p *Publisher) SendAdCard(ctx context.Context, chatID int64, ad *database.Ad, text string, markup models.ReplyMarkup, albumFollowup string) ([]int64, error) {
	if len(ad.Photos) > 1 {
		messageIDs, err := p.sendAlbum(ctx, chatID, ad.Photos, text)
		if err != nil {
			return nil, err
		}
		if markup != nil {
			sent, err := p.sender.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:      chatID,
				Text:        albumFollowup,
				ReplyMarkup: markup,
			})
			if err != nil {
				return nil, err
			}
			messageIDs = append(messageIDs, int64(sent.ID))
		}
		return messageIDs, nil
	}
	return p.sendSingle(ctx, chatID, ad.Photos, text, markup)
}

func (p *Publisher) sendAlbum(ctx context.Context, chatID int64, photos []string, caption string) ([]int64, error) {
	media := make([]models.InputMedia, 0, len(photos))
	media = append(media, &models.InputMediaPhoto{
		Media:     photos[0],
		Caption:   caption,
		ParseMode: models.ParseModeMarkdown,
	})
	for _, photo := range photos[1:] {
		media = append(media, &models.InputMediaPhoto{Media: photo})
	}

	sent, err := p.sender.SendMediaGroup(ctx, &bot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	})
	if err != nil {
		return nil, err
	}

	messageIDs := make([]int64, 0, len(sent))
	for _, m := range sent {
		messageIDs = append(messageIDs, int64(m.ID))
	}
	return messageIDs, nil
}

func (p *Publisher) sendSingle(ctx context.Context, chatID int64, photos []string, text string, markup models.ReplyMarkup) ([]int64, error) {
	if len(photos) == 1 {
		sent, err := p.sender.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       &models.InputFileString{Data: photos[0]},
			Caption:     text,
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: markup,
		})
		if err != nil {
			return nil, err
		}
		return []int64{int64(sent.ID)}, nil
	}

	sent, err := p.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeMarkdown,
		ReplyMarkup: markup,
	})
	if err != nil {
		return nil, err
	}
	return []int64{int64(sent.ID)}, nil
}
