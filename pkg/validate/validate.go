// Package validate wraps go-playground/validator with the intake rules
// (carrier and charge-type lists, sheet dates, decimal amounts).
package validate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"

	"carrierpay/pkg/sheet"
)

var Carriers = []string{
	"ONE", "MAERSK", "SCI", "CMT", "MSC", "CMA CGM", "HAPAG", "COSCO", "HMM", "ANL",
	"SEA LEAD", "ALLCARGO", "CMA", "RCL", "SEABRIDGE", "SEA TRADE", "MOONSTAR",
	"OMEGA SHIPPING", "GLOBELINK", "HYUNDAI", "TRISEA", "OOCL", "DIAMOND", "MAXICON",
	"EVERGREEN", "ECON", "WAN HAI", "KMS MARITIME", "TS LINE", "EMINENT SHIPPING", "ENTRUST",
}

var ChargeTypes = []string{
	"OCEAN FREIGHT", "LOCAL CHARGES", "SURRENDER FEE", "LATE BL FEE",
	"AMENDMENT FEE", "BOOKING CANCELLATION FEE", "CREDIT NOTE", "DETENTION",
	"STORAGE", "MANIFEST CORRECTION FEE", "SHORT TRANSIT", "SURRENDER CHARGES",
	"PEAK SEASON CHARGES", "LDC INVOICE", "LDC CHARGES", "BL SURRENDER FEES",
	"COMMITTED VOLUME AGREEMENT", "OBL SURRENDER", "BL RELEASED",
	"OUTSTATION CHARGES", "GROUND RENT CHARGES", "STORAGE CHARGES",
	"URGENT PAYMENT - SHORT TRANSIT", "EXPORT DETENTION",
}

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func oneOf(list []string) validator.Func {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return func(fl validator.FieldLevel) bool {
		return set[fl.Field().String()]
	}
}

// New builds a validator that reports json field names and understands the
// custom tags notblank, carrier, charge_type and sheetdate.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("carrier", oneOf(Carriers))
	_ = v.RegisterValidation("charge_type", oneOf(ChargeTypes))
	_ = v.RegisterValidation("sheetdate", func(fl validator.FieldLevel) bool {
		return sheet.ParseDate(fl.Field().String()).State != sheet.Invalid
	})
	return v
}

// Struct validates s and converts failures to a *ValidationError.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	if _, ok := err.(validator.ValidationErrors); !ok {
		return err
	}
	return &ValidationError{Fields: FormatValidationError(err)}
}

func FormatValidationError(err error) map[string]string {
	out := make(map[string]string)
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range errs {
		key := strings.TrimPrefix(fe.Namespace(), rootName(fe))
		key = strings.TrimPrefix(key, ".")
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			out[key] = fmt.Sprintf("%s is required", field)
		case "notblank":
			out[key] = fmt.Sprintf("%s must not be blank", field)
		case "min":
			out[key] = fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
		case "gte":
			out[key] = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		case "oneof":
			out[key] = fmt.Sprintf("%s must be one of %s", field, fe.Param())
		case "url":
			out[key] = fmt.Sprintf("%s must be a valid URL", field)
		case "carrier":
			out[key] = fmt.Sprintf("%s %q is not a known carrier", field, fe.Value())
		case "charge_type":
			out[key] = fmt.Sprintf("%s %q is not a known charge type", field, fe.Value())
		case "sheetdate":
			out[key] = fmt.Sprintf("%s %q is not a date (use DD-MM-YYYY)", field, fe.Value())
		default:
			out[key] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return out
}

func rootName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		return ns[:i]
	}
	return ns
}
