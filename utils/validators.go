package utils

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the storefront's custom binding tags to gin's validator:
// payment_method (COD/UPI), order_status and size.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
			method := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
			return method == "COD" || method == "UPI"
		})
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
			case "pending", "cod_pending", "pending_verification", "paid", "verified", "shipped", "delivered", "cancelled":
				return true
			}
			return false
		})
		_ = v.RegisterValidation("size", func(fl validator.FieldLevel) bool {
			return IsAllowedSize(fl.Field().String())
		})
	})
}
