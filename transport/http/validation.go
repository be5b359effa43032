package http

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	passwordCharset = regexp.MustCompile(`^[0-9A-Za-z~!@#$%^&*_]{8,18}$`)
	registerOnce    sync.Once
)

// ValidPassword reports whether pw is 8 to 18 characters from the allowed
// set and holds at least one digit and one letter
func ValidPassword(pw string) bool {
	if !passwordCharset.MatchString(pw) {
		return false
	}
	return strings.ContainsAny(pw, "0123456789") &&
		strings.IndexFunc(pw, func(r rune) bool {
			return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
		}) >= 0
}

// RegisterValidators adds the custom binding tags to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
				return ValidPassword(fl.Field().String())
			})
		}
	})
}
