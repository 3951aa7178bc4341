// Package i18n resolves stable error codes into display messages. The core
// layers produce codes only; the HTTP boundary picks the locale from the
// Accept-Language header and renders text here.
package i18n

import (
	"strings"

	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
)

// DefaultLocale is used when the requested locale has no catalog.
const DefaultLocale = "en"

var catalogs = map[string]map[apperrors.Code]string{
	"en": {
		apperrors.CodeNameEmpty:              "The name cannot be empty",
		apperrors.CodeNameTooLong:            "The name cannot be longer than 50 characters",
		apperrors.CodeEmailEmpty:             "The email cannot be empty",
		apperrors.CodeEmailInvalid:           "The email is invalid",
		apperrors.CodePasswordEmpty:          "The password cannot be empty",
		apperrors.CodePasswordTooShort:       "The password must be at least 6 characters long",
		apperrors.CodeEmailAlreadyRegistered: "The email is already registered",
		apperrors.CodePasswordMismatch:       "The password is different from the current password",
		apperrors.CodeInvalidCredentials:     "Email or password invalid",
		apperrors.CodeNoToken:                "No token was provided",
		apperrors.CodeTokenInvalid:           "User has no permission to access this resource",
		apperrors.CodeTokenExpired:           "Token is expired",
		apperrors.CodeAccessDenied:           "User has no permission to access this resource",
		apperrors.CodeUnknown:                "An unknown error occurred",
	},
	"pt-BR": {
		apperrors.CodeNameEmpty:              "O nome não pode estar vazio",
		apperrors.CodeNameTooLong:            "O nome não pode ter mais de 50 caracteres",
		apperrors.CodeEmailEmpty:             "O email não pode estar vazio",
		apperrors.CodeEmailInvalid:           "O email é inválido",
		apperrors.CodePasswordEmpty:          "A senha não pode estar vazia",
		apperrors.CodePasswordTooShort:       "A senha deve ter no mínimo 6 caracteres",
		apperrors.CodeEmailAlreadyRegistered: "O email já está registrado",
		apperrors.CodePasswordMismatch:       "A senha é diferente da senha atual",
		apperrors.CodeInvalidCredentials:     "Email ou senha inválidos",
		apperrors.CodeNoToken:                "Nenhum token foi fornecido",
		apperrors.CodeTokenInvalid:           "Usuário sem permissão para acessar este recurso",
		apperrors.CodeTokenExpired:           "Token expirado",
		apperrors.CodeAccessDenied:           "Usuário sem permissão para acessar este recurso",
		apperrors.CodeUnknown:                "Ocorreu um erro desconhecido",
	},
}

// Message returns the text for one code in the given locale, falling back to
// the default locale and finally to the raw code.
func Message(locale string, code apperrors.Code) string {
	if catalog, ok := catalogs[locale]; ok {
		if msg, ok := catalog[code]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][code]; ok {
		return msg
	}
	return string(code)
}

// Messages translates a list of codes preserving order.
func Messages(locale string, codes []apperrors.Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = Message(locale, c)
	}
	return out
}

// MatchLocale picks the best supported locale from an Accept-Language header
// value. Matching is prefix-based: "pt" and "pt-BR;q=0.9" both resolve to
// pt-BR.
func MatchLocale(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		if _, ok := catalogs[tag]; ok {
			return tag
		}
		base := strings.SplitN(tag, "-", 2)[0]
		for supported := range catalogs {
			if strings.EqualFold(strings.SplitN(supported, "-", 2)[0], base) {
				return supported
			}
		}
	}
	return DefaultLocale
}
