package user

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/Ivanildsdev/myrecipebook/pkg/errors"
)

// validationCodes converts validator failures into the stable error codes of
// pkg/errors. The validator stops at the first failing tag per field, so the
// result holds at most one code per field, in field declaration order.
func validationCodes(err error) []apperrors.Code {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apperrors.Code{apperrors.CodeUnknown}
	}

	codes := make([]apperrors.Code, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.StructField() {
		case "Name":
			if e.Tag() == "max" {
				codes = append(codes, apperrors.CodeNameTooLong)
			} else {
				codes = append(codes, apperrors.CodeNameEmpty)
			}
		case "Email":
			if e.Tag() == "email" {
				codes = append(codes, apperrors.CodeEmailInvalid)
			} else {
				codes = append(codes, apperrors.CodeEmailEmpty)
			}
		case "Password", "NewPassword":
			if e.Tag() == "min" {
				codes = append(codes, apperrors.CodePasswordTooShort)
			} else {
				codes = append(codes, apperrors.CodePasswordEmpty)
			}
		default:
			codes = append(codes, apperrors.CodeUnknown)
		}
	}
	return codes
}
