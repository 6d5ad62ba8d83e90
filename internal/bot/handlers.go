package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/model"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/telegram"
	"github.com/ndewijer/Realt-Assistant-Backend/internal/validation"
)

// errBadCallback is returned for callback data that does not match its route.
var errBadCallback = errors.New("malformed callback data")

const deepLinkLotPrefix = "lot"

func (b *Bot) handleCallback(ctx context.Context, q *telegram.CallbackQuery) {
	b.register(ctx, q.From)

	prefix, args := splitArgs(q.Data)

	toast := ""
	if prefix == "kp" || prefix == "ai" {
		toast = textInDevelopment
	}
	if err := b.sender.AnswerCallbackQuery(ctx, q.ID, toast); err != nil {
		log.Printf("[bot] failed to answer callback of user %d: %v", q.From.ID, err)
	}
	if toast != "" {
		return
	}

	req := request{userID: q.From.ID, chatID: q.From.ID}
	if q.Message != nil {
		req.chatID = q.Message.Chat.ID
		req.messageID = q.Message.MessageID
	}

	s, err := b.dispatchCallback(ctx, req, prefix, args)
	if err != nil {
		if errors.Is(err, errBadCallback) {
			err = fmt.Errorf("%w: %q", err, q.Data)
		}
		propertyID := ""
		if prefix != "imp" && len(args) > 0 {
			propertyID = args[0]
		}
		s = b.errorScreen(req, propertyID, err)
	}
	b.show(ctx, req, s)
}

func (b *Bot) dispatchCallback(ctx context.Context, req request, prefix string, args []string) (screen, error) {
	need := func(n int) error {
		if len(args) != n {
			return errBadCallback
		}
		return nil
	}

	switch prefix {
	case cbList:
		return b.onList(ctx, req)
	case cbAdd:
		return b.onAdd(ctx, req)
	case cbGlobal:
		return b.onDefaults()
	}

	// Every other route carries at least one argument.
	if len(args) == 0 || args[0] == "" {
		return screen{}, errBadCallback
	}
	p := args[0]

	switch prefix {
	case "imp":
		return b.onImport(ctx, req, p)
	case "p":
		return b.onProperty(ctx, req, p)
	case "about":
		return b.onAbout(req, p)
	case "del":
		confirmed := len(args) == 2 && args[1] == "yes"
		return b.onDelete(ctx, req, p, confirmed)
	case "s":
		return b.onSearchMenu(ctx, req, p)
	case "sb":
		return b.onBuildings(req, p)
	case "b":
		if err := need(2); err != nil {
			return screen{}, err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return screen{}, errBadCallback
		}
		return b.onBuilding(req, p, n)
	case "f":
		if err := need(3); err != nil {
			return screen{}, err
		}
		n, err1 := strconv.Atoi(args[1])
		floor, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			return screen{}, errBadCallback
		}
		return b.onFloor(req, p, n, floor)
	case "sa":
		return b.onSearchPrompt(ctx, req, p, model.StateSearchArea, textAreaPrompt)
	case "sg":
		return b.onSearchPrompt(ctx, req, p, model.StateSearchBudget, textBudgetPrompt)
	case "sc":
		return b.onSearchPrompt(ctx, req, p, model.StateSearchCode, textCodePrompt)
	case "set":
		return b.onSettings(ctx, req, p, "")
	case "setf":
		if err := need(2); err != nil {
			return screen{}, err
		}
		return b.onSettingField(ctx, req, p, args[1])
	}

	// Lot routes: <prefix>:<property>:<code>
	if len(args) < 2 || args[1] == "" {
		return screen{}, errBadCallback
	}
	code := args[1]

	switch prefix {
	case "lot":
		return b.onLot(ctx, req, p, code)
	case "roi":
		return b.onRoi(req, p, code)
	case "cmp":
		return b.onCompare(req, p, code, 0)
	case "cmpy":
		if err := need(3); err != nil {
			return screen{}, err
		}
		years, err := strconv.Atoi(args[2])
		if err != nil {
			return screen{}, errBadCallback
		}
		return b.onCompare(req, p, code, years)
	case "inst":
		return b.onInstallment(req, p, code)
	}

	return screen{}, errBadCallback
}

func (b *Bot) handleMessage(ctx context.Context, m *telegram.Message) {
	b.register(ctx, *m.From)

	req := request{userID: m.From.ID, chatID: m.Chat.ID}
	text := strings.TrimSpace(m.Text)

	var (
		s          screen
		propertyID string
		err        error
	)
	if strings.HasPrefix(text, "/") {
		s, err = b.onCommand(ctx, req, text)
	} else {
		s, propertyID, err = b.onText(ctx, req, text)
	}
	if err != nil {
		s = b.errorScreen(req, propertyID, err)
	}
	b.show(ctx, req, s)
}

func (b *Bot) onCommand(ctx context.Context, req request, text string) (screen, error) {
	cmd, payload, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")

	if cmd == "/start" {
		// Deep link from the lot picker: /start lot_<property>_<code>
		parts := strings.SplitN(strings.TrimSpace(payload), "_", 3)
		if len(parts) == 3 && parts[0] == deepLinkLotPrefix && parts[1] != "" && parts[2] != "" {
			return b.onLot(ctx, req, parts[1], parts[2])
		}
	}

	// /start, /cancel and anything unknown return to the property list.
	return b.onList(ctx, req)
}

// onText handles free text according to the dialog the user is in.
// The returned property ID lets errors offer a way back.
func (b *Bot) onText(ctx context.Context, req request, text string) (screen, string, error) {
	st, err := b.svc.Users.GetState(req.userID)
	if err != nil {
		return screen{}, "", err
	}

	if st.State == model.StateFacilitySearch {
		s, err := b.onFacilitySearch(text)
		return s, "", err
	}
	if st.State == model.StateIdle || st.CurrentPropertyID == nil {
		s, err := b.onList(ctx, req)
		return s, "", err
	}

	p := *st.CurrentPropertyID
	var s screen
	switch st.State {
	case model.StateSearchArea:
		s, err = b.onAreaInput(req, p, text)
	case model.StateSearchBudget:
		s, err = b.onBudgetInput(req, p, text)
	case model.StateSearchCode:
		s, err = b.onCodeInput(ctx, req, p, text)
	case model.StateSettingValue:
		s, err = b.onSettingInput(ctx, req, p, st.StateData, text)
	default:
		log.Printf("[bot] user %d is in unknown state %q", req.userID, st.State)
		s, err = b.onList(ctx, req)
	}
	return s, p, err
}

func (b *Bot) lotPickerURL(propertyID string, userID int64) string {
	if b.auth == nil {
		return ""
	}
	url, err := b.auth.LotPickerURL(propertyID, userID)
	if err != nil {
		log.Printf("[bot] failed to issue lot picker token for user %d: %v", userID, err)
		return ""
	}
	return url
}

func (b *Bot) onList(ctx context.Context, req request) (screen, error) {
	if err := b.svc.Users.ClearState(ctx, req.userID); err != nil {
		return screen{}, err
	}
	properties, err := b.svc.Properties.ListProperties(req.userID)
	if err != nil {
		return screen{}, err
	}
	return screen{propertiesListText(properties), propertiesKeyboard(properties)}, nil
}

func (b *Bot) onDefaults() (screen, error) {
	return screen{defaultsText(b.defaults), telegram.Keyboard(backRow(btnBack, cbList))}, nil
}

func (b *Bot) onAdd(ctx context.Context, req request) (screen, error) {
	if err := b.svc.Users.SetDialog(ctx, req.userID, model.StateFacilitySearch, ""); err != nil {
		return screen{}, err
	}
	return screen{textAddPrompt, telegram.Keyboard(backRow(btnBack, cbList))}, nil
}

func (b *Bot) onFacilitySearch(query string) (screen, error) {
	facilities, err := b.svc.Imports.SearchFacilities(query, maxSearchResults)
	if err != nil {
		return screen{}, err
	}
	return screen{facilityResultsText(query, len(facilities)), searchResultsKeyboard(facilities)}, nil
}

func (b *Bot) onImport(ctx context.Context, req request, facilityID string) (screen, error) {
	b.show(ctx, req, screen{text: textImporting})

	result, err := b.svc.Imports.ImportFacility(ctx, req.userID, facilityID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, result.Property.ID); err != nil {
		return screen{}, err
	}

	return screen{importedText(result), telegram.Keyboard(
		backRow("🏢 Открыть ЖК", cbProperty(result.Property.ID)),
		backRow(btnBackToList, cbList),
	)}, nil
}

func (b *Bot) onProperty(ctx context.Context, req request, propertyID string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, p.ID); err != nil {
		return screen{}, err
	}
	return screen{propertyMenuText(p), propertyMenuKeyboard(p.ID, b.lotPickerURL(p.ID, req.userID))}, nil
}

func (b *Bot) onAbout(req request, propertyID string) (screen, error) {
	o, err := b.svc.Properties.About(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	return screen{aboutText(o), telegram.Keyboard(backRow(btnBack, cbProperty(propertyID)))}, nil
}

func (b *Bot) onDelete(ctx context.Context, req request, propertyID string, confirmed bool) (screen, error) {
	if !confirmed {
		p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
		if err != nil {
			return screen{}, err
		}
		return screen{deleteConfirmText(p), deleteConfirmKeyboard(p.ID)}, nil
	}

	if err := b.svc.Properties.DeleteProperty(ctx, req.userID, propertyID); err != nil {
		return screen{}, err
	}
	return b.onList(ctx, req)
}

func (b *Bot) onSearchMenu(ctx context.Context, req request, propertyID string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, p.ID); err != nil {
		return screen{}, err
	}
	return screen{searchMenuText(p), searchMenuKeyboard(p.ID)}, nil
}

func (b *Bot) onBuildings(req request, propertyID string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	stats, err := b.svc.Search.BuildingStats(p.ID)
	if err != nil {
		return screen{}, err
	}
	if len(stats) == 0 {
		return screen{textNoUnits, telegram.Keyboard(backRow(btnBack, cbSearch(p.ID)))}, nil
	}
	return screen{buildingsText(p), buildingsKeyboard(p.ID, stats)}, nil
}

func (b *Bot) onBuilding(req request, propertyID string, building int) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	floors, err := b.svc.Search.Floors(p.ID, building)
	if err != nil {
		return screen{}, err
	}
	if len(floors) == 0 {
		return screen{textNoBuildingUnits, telegram.Keyboard(backRow(btnBack, cbBuildings(p.ID)))}, nil
	}
	return screen{floorsText(p, building), floorsKeyboard(p.ID, building, floors)}, nil
}

func (b *Bot) onFloor(req request, propertyID string, building, floor int) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	units, err := b.svc.Search.UnitsOnFloor(p.ID, building, floor)
	if err != nil {
		return screen{}, err
	}
	back := cbBuilding(p.ID, building)
	if len(units) == 0 {
		return screen{textNoFloorUnits, telegram.Keyboard(backRow(btnBack, back))}, nil
	}
	return screen{floorUnitsText(p, building, floor, len(units)), unitsKeyboard(p.ID, units, back)}, nil
}

func (b *Bot) onSearchPrompt(ctx context.Context, req request, propertyID string, state model.DialogState, prompt string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, p.ID); err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SetDialog(ctx, req.userID, state, ""); err != nil {
		return screen{}, err
	}
	return screen{prompt, telegram.Keyboard(backRow(btnBack, cbSearch(p.ID)))}, nil
}

func (b *Bot) onAreaInput(req request, propertyID, text string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	back := telegram.Keyboard(backRow(btnBack, cbSearch(p.ID)))

	r, units, err := b.svc.Search.ByArea(p.ID, text)
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return screen{textAreaInvalid, back}, nil
	}
	if err != nil {
		return screen{}, err
	}
	if len(units) == 0 {
		return screen{areaResultsText(p, r, 0), back}, nil
	}
	return screen{areaResultsText(p, r, len(units)), unitsKeyboard(p.ID, units, cbSearch(p.ID))}, nil
}

func (b *Bot) onBudgetInput(req request, propertyID, text string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	back := telegram.Keyboard(backRow(btnBack, cbSearch(p.ID)))

	r, units, err := b.svc.Search.ByBudget(p.ID, text)
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return screen{textBudgetInvalid, back}, nil
	}
	if err != nil {
		return screen{}, err
	}
	if len(units) == 0 {
		return screen{budgetResultsText(p, r, 0), back}, nil
	}
	return screen{budgetResultsText(p, r, len(units)), unitsKeyboard(p.ID, units, cbSearch(p.ID))}, nil
}

func (b *Bot) onCodeInput(ctx context.Context, req request, propertyID, text string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}

	res, err := b.svc.Search.ByCode(p.ID, text)
	if errors.Is(err, apperrors.ErrInvalidInput) {
		return screen{textCodePrompt, telegram.Keyboard(backRow(btnBack, cbSearch(p.ID)))}, nil
	}
	if err != nil {
		return screen{}, err
	}
	if res.Unit != nil {
		return b.onLot(ctx, req, p.ID, res.Unit.Code)
	}
	return screen{codeNotFoundText(res.Code, len(res.Similar)), unitsKeyboard(p.ID, res.Similar, cbSearch(p.ID))}, nil
}

func (b *Bot) onLot(ctx context.Context, req request, propertyID, code string) (screen, error) {
	lot, err := b.svc.Calculator.GetLot(req.userID, propertyID, code)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectLot(ctx, req.userID, lot.Property.ID, lot.Unit.Code); err != nil {
		return screen{}, err
	}
	return screen{lotMenuText(lot), lotMenuKeyboard(lot.Property.ID, lot.Unit.Code)}, nil
}

func (b *Bot) onRoi(req request, propertyID, code string) (screen, error) {
	r, err := b.svc.Calculator.Roi(req.userID, propertyID, code, 0)
	if err != nil {
		return screen{}, err
	}
	return screen{roiText(r), roiKeyboard(propertyID, code)}, nil
}

func (b *Bot) onCompare(req request, propertyID, code string, years int) (screen, error) {
	r, err := b.svc.Calculator.CompareToDeposit(req.userID, propertyID, code, years)
	if err != nil {
		return screen{}, err
	}
	return screen{compareText(r), compareKeyboard(propertyID, code, r.Comparison.Years)}, nil
}

func (b *Bot) onInstallment(req request, propertyID, code string) (screen, error) {
	r, err := b.svc.Calculator.Installment(req.userID, propertyID, code)
	if err != nil {
		return screen{}, err
	}
	return screen{installmentText(r), installmentKeyboard(propertyID, code)}, nil
}

// onSettings shows the assumptions of a property. notice, when set, is prepended.
func (b *Bot) onSettings(ctx context.Context, req request, propertyID, notice string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, p.ID); err != nil {
		return screen{}, err
	}
	a, err := b.svc.Settings.GetAssumptions(p.ID)
	if err != nil {
		return screen{}, err
	}

	text := settingsText(p, a)
	if notice != "" {
		text = notice + "\n\n" + text
	}
	return screen{text, settingsKeyboard(p.ID)}, nil
}

func (b *Bot) onSettingField(ctx context.Context, req request, propertyID, key string) (screen, error) {
	field, ok := model.LookupSetting(key)
	if !ok {
		return screen{}, apperrors.ErrUnknownSetting
	}
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SelectProperty(ctx, req.userID, p.ID); err != nil {
		return screen{}, err
	}
	if err := b.svc.Users.SetDialog(ctx, req.userID, model.StateSettingValue, field.Key); err != nil {
		return screen{}, err
	}
	a, err := b.svc.Settings.GetAssumptions(p.ID)
	if err != nil {
		return screen{}, err
	}
	return screen{settingPromptText(field, settingValue(a, field.Key)), telegram.Keyboard(backRow(btnBack, cbSettings(p.ID)))}, nil
}

func (b *Bot) onSettingInput(ctx context.Context, req request, propertyID, key, text string) (screen, error) {
	p, err := b.svc.Properties.GetProperty(req.userID, propertyID)
	if err != nil {
		return screen{}, err
	}

	field, err := b.svc.Settings.UpdateSetting(ctx, p.ID, key, text)
	var verr *validation.Error
	if errors.As(err, &verr) {
		return screen{settingInvalidText(field), telegram.Keyboard(backRow(btnBack, cbSettings(p.ID)))}, nil
	}
	if err != nil {
		return screen{}, err
	}

	return b.onSettings(ctx, req, p.ID, textSaved)
}
