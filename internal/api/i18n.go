package api

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Error codes double as catalog keys.
const (
	codeUnauthorized      = "unauthorized"
	codeInvalidToken      = "invalid_token"
	codeForbidden         = "forbidden"
	codeRateLimited       = "rate_limited"
	codeInvalidBody       = "invalid_body"
	codeInvalidPhone      = "invalid_phone"
	codeEmptyMessage      = "empty_message"
	codeMessageTooLong    = "message_too_long"
	codeAccountNotFound   = "account_not_found"
	codeInsufficientFunds = "insufficient_funds"
	codeGatewayTimeout    = "gateway_timeout"
	codeGatewayRejected   = "gateway_rejected"
	codeChargeFailed      = "charge_failed"
	codeInvalidAccountID  = "invalid_account_id"
	codeInvalidCredit     = "invalid_credit"
	codeDuplicatePurchase = "duplicate_purchase"
	codeInvalidPaging     = "invalid_paging"
	codeUnavailable       = "unavailable"
	codeInternal          = "internal_error"
)

var messages = map[string]struct{ en, es string }{
	codeUnauthorized:      {"Unauthorized", "No autorizado"},
	codeInvalidToken:      {"Invalid token", "Token inválido"},
	codeForbidden:         {"Forbidden", "Acceso denegado"},
	codeRateLimited:       {"Too many messages, try again later", "Demasiados mensajes, inténtalo más tarde"},
	codeInvalidBody:       {"Invalid request body", "Cuerpo de la solicitud inválido"},
	codeInvalidPhone:      {"Invalid phone number format", "Formato de número de teléfono inválido"},
	codeEmptyMessage:      {"Message cannot be empty", "El mensaje no puede estar vacío"},
	codeMessageTooLong:    {"Message too long, maximum 3 parts", "Mensaje demasiado largo, máximo 3 partes"},
	codeAccountNotFound:   {"Account not found", "Cuenta no encontrada"},
	codeInsufficientFunds: {"Insufficient coins", "Monedas insuficientes"},
	codeGatewayTimeout:    {"SMS gateway did not respond", "El servicio de SMS no respondió"},
	codeGatewayRejected:   {"SMS gateway rejected the message", "El servicio de SMS rechazó el mensaje"},
	codeChargeFailed:      {"Message sent but the charge failed", "Mensaje enviado pero el cobro falló"},
	codeInvalidAccountID:  {"Invalid account id", "Identificador de cuenta inválido"},
	codeInvalidCredit:     {"Invalid credit", "Crédito inválido"},
	codeDuplicatePurchase: {"Purchase reference already applied", "La referencia de compra ya fue aplicada"},
	codeInvalidPaging:     {"Invalid limit or offset", "Límite o desplazamiento inválido"},
	codeUnavailable:       {"Service unavailable", "Servicio no disponible"},
	codeInternal:          {"Internal error", "Error interno"},
}

var (
	supportedLanguages = []language.Tag{language.English, language.Spanish}
	languageMatcher    = language.NewMatcher(supportedLanguages)
	messageCatalog     = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))

	for code, m := range messages {
		_ = b.SetString(language.English, code, m.en)
		_ = b.SetString(language.Spanish, code, m.es)
	}

	return b
}

// requestLanguage picks the best supported language from Accept-Language.
func requestLanguage(r *http.Request) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return language.English
	}

	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return language.English
	}

	return supportedLanguages[idx]
}

func localize(r *http.Request, code string) string {
	p := message.NewPrinter(requestLanguage(r), message.Catalog(messageCatalog))
	return p.Sprintf(code)
}
