package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

const msgInternalError = "внутренняя ошибка сервера"

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	Kind           string `json:"kind,omitempty"`
	NextEligibleAt string `json:"nextEligibleAt,omitempty"`
}

// RespondJSON пишет ответ в формате JSON
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondUnauthorized 401
func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

// RespondForbidden 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondInternalError 500 без подробностей
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// DecodeJSON читает тело запроса в dst
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

type kindMapping struct {
	status  int
	message string
}

// bookingErrors HTTP статус и сообщение для каждого вида отказа
var bookingErrors = map[domain.ErrorKind]kindMapping{
	domain.KindMissingFields:           {http.StatusBadRequest, "дата и время обязательны"},
	domain.KindInvalidDate:             {http.StatusBadRequest, "некорректный формат даты, ожидается YYYY-MM-DD"},
	domain.KindInvalidTime:             {http.StatusBadRequest, "некорректный формат времени, ожидается HH:MM"},
	domain.KindEmailRequired:           {http.StatusBadRequest, "для записи без входа нужен email"},
	domain.KindInvalidCPFRF:            {http.StatusBadRequest, "некорректный CPF или RF"},
	domain.KindConsentRequired:         {http.StatusBadRequest, "нужно согласие на обработку данных"},
	domain.KindInvalidRequest:          {http.StatusBadRequest, "некорректный запрос"},
	domain.KindPastDate:                {http.StatusUnprocessableEntity, "выбранное время уже прошло"},
	domain.KindTooSoon:                 {http.StatusUnprocessableEntity, "слишком поздно для записи на это время"},
	domain.KindTooFar:                  {http.StatusUnprocessableEntity, "дата записи слишком далеко в будущем"},
	domain.KindDateBlocked:             {http.StatusUnprocessableEntity, "выбранная дата недоступна"},
	domain.KindOutsideHours:            {http.StatusUnprocessableEntity, "выбранное время вне рабочих часов"},
	domain.KindCalendarInactive:        {http.StatusUnprocessableEntity, "календарь не принимает записи"},
	domain.KindCancellationDisabled:    {http.StatusUnprocessableEntity, "отмена записи в этом календаре запрещена"},
	domain.KindDeadlinePassed:          {http.StatusUnprocessableEntity, "срок отмены записи истек"},
	domain.KindSlotFull:                {http.StatusConflict, "выбранный слот уже занят"},
	domain.KindDailyLimit:              {http.StatusConflict, "лимит записей на этот день исчерпан"},
	domain.KindBookingTooSoon:          {http.StatusConflict, "слишком мало времени с предыдущей записи"},
	domain.KindAlreadyCancelled:        {http.StatusConflict, "запись уже отменена"},
	domain.KindInvalidTransition:       {http.StatusConflict, "недопустимая смена статуса"},
	domain.KindLoginRequired:           {http.StatusUnauthorized, "для записи в этот календарь нужно войти"},
	domain.KindCapabilityDenied:        {http.StatusForbidden, "у аккаунта нет права на запись"},
	domain.KindInsufficientPermissions: {http.StatusForbidden, "запись в этот календарь недоступна для вашей роли"},
	domain.KindUnauthorized:            {http.StatusForbidden, "доступ запрещен"},
	domain.KindInvalidCalendar:         {http.StatusNotFound, "календарь не найден"},
	domain.KindAppointmentNotFound:     {http.StatusNotFound, "запись не найдена"},
	domain.KindCreationFailed:          {http.StatusInternalServerError, "не удалось создать запись, попробуйте еще раз"},
}

// RespondBookingError пишет отказ бизнес-логики; всё, что не *domain.BookingError, становится 500
func RespondBookingError(w http.ResponseWriter, err error) {
	var bErr *domain.BookingError
	if !errors.As(err, &bErr) {
		RespondInternalError(w)
		return
	}

	mapping, ok := bookingErrors[bErr.Kind]
	if !ok {
		RespondInternalError(w)
		return
	}

	resp := ErrorResponse{
		Code:    mapping.status,
		Message: mapping.message,
		Kind:    string(bErr.Kind),
	}
	if bErr.NextEligibleAt != nil {
		resp.NextEligibleAt = bErr.NextEligibleAt.Format(time.RFC3339)
	}
	RespondJSON(w, mapping.status, resp)
}

// StatusForKind HTTP статус вида отказа (для логов)
func StatusForKind(kind domain.ErrorKind) int {
	if mapping, ok := bookingErrors[kind]; ok {
		return mapping.status
	}
	return http.StatusInternalServerError
}
