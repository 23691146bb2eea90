package handlers

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/flow"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/format"
	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/keyboards"
)

// NewDialogueHandler returns the default handler: it drives active
// creation, edit and search sessions and routes the main-menu reply
// buttons when the user is idle.
func NewDialogueHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return dialogueHandler{deps}.Handle
}

type dialogueHandler struct {
	deps HandlerDeps
}

func (h dialogueHandler) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	from := msg.From

	sess := h.deps.Sessions.Get(from.ID)
	if sess == nil {
		h.routeIdle(ctx, b, chatID, from, msg.Text)
		return
	}

	if msg.Text == keyboards.BtnCancel {
		h.cancel(ctx, b, chatID, from.ID, sess)
		return
	}

	switch sess.Mode {
	case flow.ModeSearching:
		h.deps.handleSearchInput(ctx, b, chatID, from.ID, msg.Text)
	default:
		h.step(ctx, b, chatID, from.ID, sess, msg)
	}
}

// routeIdle maps main-menu reply buttons onto the command handlers'
// actions. Unrecognized text is ignored.
func (h dialogueHandler) routeIdle(ctx context.Context, b *tgbot.Bot, chatID int64, from *models.User, text string) {
	switch {
	case text == keyboards.BtnNewAd:
		h.deps.startCreation(ctx, b, chatID, from)
	case text == keyboards.BtnMyAds:
		h.deps.showMyAds(ctx, b, chatID, from.ID)
	case text == keyboards.BtnSearch:
		h.deps.promptSearch(ctx, b, chatID, from.ID)
	case text == keyboards.BtnCategories:
		h.deps.showCategories(ctx, b, chatID)
	case text == keyboards.BtnHelp:
		h.deps.sendText(ctx, b, chatID, helpText, keyboards.MainMenu())
	case text == keyboards.BtnBack:
		h.deps.sendText(ctx, b, chatID, msgMainMenu, keyboards.MainMenu())
	case flow.ValidCategory(text):
		h.deps.listCategoryAds(ctx, b, chatID, text)
	}
}

func (h dialogueHandler) cancel(ctx context.Context, b *tgbot.Bot, chatID, userID int64, sess *flow.Session) {
	h.deps.Sessions.Delete(userID)
	var text string
	switch sess.Mode {
	case flow.ModeEditing:
		text = "Редактирование отменено."
	case flow.ModeSearching:
		text = "Поиск отменен."
	default:
		text = "Создание объявления отменено."
	}
	h.deps.sendText(ctx, b, chatID, text, keyboards.MainMenu())
}

// step consumes one message of the creation or edit dialogue. Invalid
// input re-prompts without advancing.
func (h dialogueHandler) step(ctx context.Context, b *tgbot.Bot, chatID, userID int64, sess *flow.Session, msg *models.Message) {
	editing := sess.Mode == flow.ModeEditing
	keep := editing && msg.Text == keyboards.BtnKeep

	switch sess.Step {
	case flow.StepTitle:
		if !keep {
			title, ok := flow.ValidateTitle(msg.Text)
			if !ok {
				h.deps.sendText(ctx, b, chatID, "Заголовок должен быть 1..100 символов.", nil)
				return
			}
			sess.Draft.Title = title
		}
		h.advance(ctx, b, chatID, sess)

	case flow.StepDescription:
		if !keep {
			description, ok := flow.ValidateDescription(msg.Text)
			if !ok {
				h.deps.sendText(ctx, b, chatID, "Описание должно быть 1..2000 символов.", nil)
				return
			}
			sess.Draft.Description = description
		}
		h.advance(ctx, b, chatID, sess)

	case flow.StepPrice:
		if !keep {
			priceText, priceValue, ok := flow.ParsePrice(msg.Text)
			if !ok {
				h.deps.sendText(ctx, b, chatID, "Неверный формат цены. Пример: 1500 или договорная.", nil)
				return
			}
			sess.Draft.PriceText = priceText
			sess.Draft.PriceValue = priceValue
		}
		h.advance(ctx, b, chatID, sess)

	case flow.StepCategory:
		if !keep {
			if !flow.ValidCategory(msg.Text) {
				h.deps.sendText(ctx, b, chatID, "Выберите категорию кнопкой.", nil)
				return
			}
			sess.Draft.Category = msg.Text
		}
		h.advance(ctx, b, chatID, sess)

	case flow.StepCity:
		if !keep {
			city, ok := flow.ValidateCity(msg.Text)
			if !ok {
				h.deps.sendText(ctx, b, chatID, "Город/район должен быть 1..100 символов.", nil)
				return
			}
			sess.Draft.City = city
		}
		h.advance(ctx, b, chatID, sess)

	case flow.StepPhone:
		h.stepPhone(ctx, b, chatID, userID, sess, msg, keep)

	case flow.StepPhotos:
		h.stepPhotos(ctx, b, chatID, sess, msg)

	case flow.StepConfirm:
		if msg.Text == keyboards.BtnPublish {
			h.submit(ctx, b, chatID, userID, sess)
		}
	}
}

func (h dialogueHandler) stepPhone(ctx context.Context, b *tgbot.Bot, chatID, userID int64, sess *flow.Session, msg *models.Message, keep bool) {
	editing := sess.Mode == flow.ModeEditing

	var notice string
	switch {
	case msg.Contact != nil:
		if msg.Contact.UserID != userID {
			return
		}
		sess.Draft.Phone = msg.Contact.PhoneNumber
		notice = "Телефон сохранен. Отправьте до 4 фото."
	case keep:
	case editing && msg.Text == keyboards.BtnClearPhone:
		sess.Draft.Phone = ""
		notice = "Телефон удален. Отправьте до 4 фото."
	case !editing && msg.Text == keyboards.BtnSkipPhone:
		sess.Draft.Phone = ""
	default:
		phone, ok := flow.ValidatePhone(msg.Text)
		if !ok {
			h.deps.sendText(ctx, b, chatID, "Телефон слишком длинный. Введите до 30 символов.", nil)
			return
		}
		sess.Draft.Phone = phone
		if !editing {
			notice = "Телефон сохранен. Отправьте до 4 фото."
		}
	}

	sess.Step = sess.Step.Next()
	if notice == "" {
		if editing {
			notice = "Отправьте до 4 фото. Нажмите «Пропустить фото», чтобы оставить текущие, или «Готово»."
		} else {
			notice = "Отправьте до 4 фото. Когда закончите: «Готово»."
		}
	}
	h.deps.sendText(ctx, b, chatID, notice, keyboards.Photos())
}

func (h dialogueHandler) stepPhotos(ctx context.Context, b *tgbot.Bot, chatID int64, sess *flow.Session, msg *models.Message) {
	if len(msg.Photo) > 0 {
		// The last size is the largest rendition.
		count, ok := sess.AddPhoto(msg.Photo[len(msg.Photo)-1].FileID)
		if !ok {
			h.deps.sendText(ctx, b, chatID, fmt.Sprintf("Максимум %d фото.", flow.MaxPhotos), nil)
			return
		}
		h.deps.sendText(ctx, b, chatID, fmt.Sprintf("Фото добавлено: %d/%d", count, flow.MaxPhotos), nil)
		return
	}

	if msg.Text != keyboards.BtnDone && msg.Text != keyboards.BtnSkipPhoto {
		return
	}

	sess.FinishPhotos()
	sess.Step = flow.StepConfirm
	h.sendPreview(ctx, b, chatID, sess)
}

// sendPreview renders the confirmation card. Albums cannot carry the
// confirm keyboard, so it follows as a separate message.
func (h dialogueHandler) sendPreview(ctx context.Context, b *tgbot.Bot, chatID int64, sess *flow.Session) {
	preview := format.PreviewAd(&sess.Draft)
	text := format.Ad(preview, false)
	_, err := h.deps.Publisher.SendAdCard(ctx, chatID, preview, text, keyboards.Confirm(),
		"Проверьте объявление и нажмите «Опубликовать».")
	if err != nil {
		h.deps.Logger.ErrorContext(ctx, "Failed to send draft preview", "chat_id", chatID, "error", err)
		h.deps.sendText(ctx, b, chatID, msgSaveError, nil)
	}
}

// submit persists the draft and hands the ad to the publication flow. On
// failure the session stays at the confirm step so the user can retry.
func (h dialogueHandler) submit(ctx context.Context, b *tgbot.Bot, chatID, userID int64, sess *flow.Session) {
	log := h.deps.Logger.With("handler", "dialogue", "user_id", userID)

	adID := sess.AdID
	var err error
	if sess.Mode == flow.ModeEditing {
		// Pull the previous broadcast before the tracking info is reset.
		if err = h.deps.Publisher.Retract(ctx, adID); err != nil {
			log.WarnContext(ctx, "Failed to retract ad before update", "ad_id", adID, "error", err)
		}
		err = h.deps.Store.UpdateAd(ctx, adID, &sess.Draft)
	} else {
		adID, err = h.deps.Store.CreateAd(ctx, &sess.Draft)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to save ad", "error", err)
		h.deps.sendText(ctx, b, chatID, msgSaveError, nil)
		return
	}

	ad, err := h.deps.Store.GetAd(ctx, adID)
	if err != nil || ad == nil {
		log.ErrorContext(ctx, "Failed to load saved ad", "ad_id", adID, "error", err)
		h.deps.sendText(ctx, b, chatID, msgSaveError, nil)
		return
	}

	status, err := h.deps.Publisher.Process(ctx, ad)
	if err != nil {
		log.ErrorContext(ctx, "Failed to process ad", "ad_id", adID, "error", err)
		h.deps.sendText(ctx, b, chatID, msgSaveError, nil)
		return
	}

	h.deps.Sessions.Delete(userID)
	notice := fmt.Sprintf("Объявление #%d отправлено на модерацию.", adID)
	if status == database.StatusPublished {
		notice = fmt.Sprintf("Объявление #%d опубликовано.", adID)
	}
	h.deps.sendText(ctx, b, chatID, notice, keyboards.MainMenu())
}

// advance moves to the next step and sends its prompt. Edit prompts show
// the current value with the keep shortcut.
func (h dialogueHandler) advance(ctx context.Context, b *tgbot.Bot, chatID int64, sess *flow.Session) {
	sess.Step = sess.Step.Next()

	if sess.Mode == flow.ModeEditing {
		var text string
		markup := keyboards.EditStep()
		switch sess.Step {
		case flow.StepDescription:
			text = fmt.Sprintf("Текущее описание: %s\nВведите новое описание или нажмите «%s».",
				sess.Draft.Description, keyboards.BtnKeep)
		case flow.StepPrice:
			text = fmt.Sprintf("Текущая цена: %s\nВведите новую цену или нажмите «%s».",
				sess.Draft.PriceText, keyboards.BtnKeep)
		case flow.StepCategory:
			text = fmt.Sprintf("Текущая категория: %s\nВыберите новую или нажмите «%s».",
				sess.Draft.Category, keyboards.BtnKeep)
		case flow.StepCity:
			text = fmt.Sprintf("Текущий город/район: %s\nВведите новый или нажмите «%s».",
				sess.Draft.City, keyboards.BtnKeep)
		case flow.StepPhone:
			phone := sess.Draft.Phone
			if phone == "" {
				phone = "не указан"
			}
			text = fmt.Sprintf("Текущий телефон: %s\nВведите новый телефон или нажмите «%s».",
				phone, keyboards.BtnKeep)
			markup = keyboards.EditPhone()
		}
		h.deps.sendText(ctx, b, chatID, text, markup)
		return
	}

	switch sess.Step {
	case flow.StepDescription:
		h.deps.sendText(ctx, b, chatID, "Введите описание (до 2000 символов):", nil)
	case flow.StepPrice:
		h.deps.sendText(ctx, b, chatID, "Введите цену (число) или: договорная / бесплатно", nil)
	case flow.StepCategory:
		h.deps.sendText(ctx, b, chatID, "Выберите категорию:", keyboards.CategorySelect())
	case flow.StepCity:
		h.deps.sendText(ctx, b, chatID, "Введите город/район текстом:", nil)
	case flow.StepPhone:
		h.deps.sendText(ctx, b, chatID, "Введите телефон или нажмите «Пропустить телефон».",
			keyboards.PhoneOptional())
	}
}
