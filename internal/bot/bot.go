// Package bot implements the conversation of the realtor assistant: the property
// list, catalog import, unit search, lot calculators and property settings.
//
// Every user action resolves to a screen. Button presses edit the message that
// carried the button; typed text is answered with a new message.
package bot

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/config"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/miniapp"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/service"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

// Sender delivers screens to Telegram. It is implemented by *telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, markup *telegram.InlineKeyboardMarkup) (*telegram.Message, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, markup *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// Services are the domain services the bot drives.
type Services struct {
	Users      *service.UserService
	Properties *service.PropertyService
	Search     *service.SearchService
	Imports    *service.ImportService
	Calculator *service.CalculatorService
	Settings   *service.SettingsService
}

// Bot routes Telegram updates to the domain services.
type Bot struct {
	sender   Sender
	svc      Services
	auth     *miniapp.Auth // nil disables the lot picker button
	defaults config.InvestmentConfig
}

// New creates a Bot.
func New(sender Sender, svc Services, auth *miniapp.Auth, defaults config.InvestmentConfig) *Bot {
	return &Bot{
		sender:   sender,
		svc:      svc,
		auth:     auth,
		defaults: defaults,
	}
}

// screen is a message body with its keyboard.
type screen struct {
	text   string
	markup *telegram.InlineKeyboardMarkup
}

// request identifies who asked for a screen and where it is shown.
type request struct {
	userID    int64
	chatID    int64
	messageID int // message to edit; 0 sends a new one
}

// HandleUpdate processes one update. Failures are reported to the user and logged,
// never returned, so one bad update cannot stall the update stream.
func (b *Bot) HandleUpdate(ctx context.Context, u telegram.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil && u.Message.Text != "":
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) register(ctx context.Context, from telegram.User) {
	err := b.svc.Users.Register(ctx, model.User{
		ID:        from.ID,
		Username:  from.Username,
		FirstName: from.FirstName,
		LastName:  from.LastName,
	})
	if err != nil {
		log.Printf("[bot] failed to register user %d: %v", from.ID, err)
	}
}

// show delivers a screen, editing the request's message when there is one.
func (b *Bot) show(ctx context.Context, req request, s screen) {
	if req.messageID != 0 {
		err := b.sender.EditMessageText(ctx, req.chatID, req.messageID, s.text, s.markup)
		if err == nil {
			return
		}
		log.Printf("[bot] failed to edit message %d for user %d: %v", req.messageID, req.userID, err)
		if errors.Is(err, context.Canceled) {
			return
		}
	}
	if _, err := b.sender.SendMessage(ctx, req.chatID, s.text, s.markup); err != nil {
		log.Printf("[bot] failed to send message to user %d: %v", req.userID, err)
	}
}

// errorScreen maps a service error to what the user sees. propertyID, when known,
// lets the screen offer a way back into the property.
func (b *Bot) errorScreen(req request, propertyID string, err error) screen {
	toList := telegram.Keyboard(backRow(btnBackToList, cbList))
	toProperty := toList
	if propertyID != "" {
		toProperty = telegram.Keyboard(backRow(btnBack, cbProperty(propertyID)))
	}

	var verr *validation.Error
	switch {
	case errors.Is(err, apperrors.ErrPropertyNotFound):
		return screen{"❌ ЖК не найден", toList}
	case errors.Is(err, apperrors.ErrUnitNotFound):
		return screen{"❌ Лот не найден", toProperty}
	case errors.Is(err, apperrors.ErrNoPriceForUnit):
		return screen{"❌ У лота не указана цена, расчёт невозможен", toProperty}
	case errors.Is(err, apperrors.ErrInstallmentNotConfigured):
		return screen{
			"🗓 Условия рассрочки не заданы.\n\nУкажи первый взнос и срок в параметрах ЖК.",
			telegram.Keyboard(backRow(btnTuneParams, cbSettings(propertyID)), backRow(btnBack, cbProperty(propertyID))),
		}
	case errors.Is(err, apperrors.ErrDuplicateProperty):
		return screen{"ℹ️ Этот ЖК уже есть в твоём списке", toList}
	case errors.Is(err, apperrors.ErrFacilityNotFound):
		return screen{"❌ ЖК не найден в каталоге YGroup", toList}
	case errors.Is(err, apperrors.ErrCatalogNotLoaded), errors.Is(err, apperrors.ErrCatalogUnavailable):
		log.Printf("[bot] catalog unavailable for user %d: %v", req.userID, err)
		return screen{"⚠️ Каталог YGroup временно недоступен. Попробуй позже.", toList}
	case errors.As(err, &verr):
		return screen{"❌ Неверное значение", toProperty}
	}

	log.Printf("[bot] request of user %d failed: %v", req.userID, err)
	return screen{"⚠️ Что-то пошло не так. Попробуй ещё раз.", toList}
}

// splitArgs splits callback data into its prefix and arguments.
func splitArgs(data string) (string, []string) {
	parts := strings.Split(data, ":")
	return parts[0], parts[1:]
}
