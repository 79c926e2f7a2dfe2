package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"fooddelivery/internal/core/domain/model/order"

	"github.com/go-playground/validator/v10"
)

const (
	msgAddressRequired = "address_id is required"
	msgAddressUUID     = "address_id must be a valid UUID"
	msgItemsNonEmpty   = "items must be a non-empty array"
	msgStatusRequired  = "order_status is required"
)

// CreateOrderRequest is the body of POST /api/orders. Fields stay untyped so
// that a wrong JSON type is reported per field instead of failing the bind.
type CreateOrderRequest struct {
	AddressID any       `json:"address_id" validate:"required,string_type,uuid"`
	Items     lineItems `json:"items"      validate:"required,min=1,dive"`
}

// CreateOrderItem is one requested line. Qty stays untyped so that strings,
// fractions and negatives all surface as the same validation message.
type CreateOrderItem struct {
	ProductID any `json:"product_id" validate:"required,string_type,uuid"`
	Qty       any `json:"qty"        validate:"positive_int"`
}

// lineItems decodes any JSON value. Anything but an array becomes nil and
// fails "required"; a line that is not an object stays zero and fails its fields.
type lineItems []CreateOrderItem

func (l *lineItems) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*l = nil
		return nil //nolint:nilerr // reported by validation
	}

	items := make(lineItems, len(raw))
	for i, line := range raw {
		if err := json.Unmarshal(line, &items[i]); err != nil {
			items[i] = CreateOrderItem{}
		}
	}
	*l = items
	return nil
}

// UpdateStatusRequest is the body of PATCH /api/orders/:id/status.
type UpdateStatusRequest struct {
	OrderStatus string `json:"order_status" validate:"required,order_status"`
}

// RequestValidator adapts validator/v10 to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator registers the order specific tags and reports field
// names by their JSON keys.
func NewRequestValidator() (*RequestValidator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("string_type", isString); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("positive_int", isPositiveInt); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("order_status", isOrderStatus); err != nil {
		return nil, err
	}

	return &RequestValidator{validate: v}, nil
}

// Validate returns a *requestValidationError listing one message per failing
// field, in field order.
func (rv *RequestValidator) Validate(i any) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return &requestValidationError{messages: messages}
}

func fieldMessage(fe validator.FieldError) string {
	// Namespace is "CreateOrderRequest.items[0].qty"; drop the struct name.
	_, path, _ := strings.Cut(fe.Namespace(), ".")

	switch {
	case path == "address_id" && fe.Tag() == "uuid":
		return msgAddressUUID
	case path == "address_id":
		return msgAddressRequired
	case path == "items":
		return msgItemsNonEmpty
	case strings.HasSuffix(path, ".product_id"):
		return path + " must be a valid UUID"
	case strings.HasSuffix(path, ".qty"):
		return path + " must be a positive integer"
	case path == "order_status" && fe.Tag() == "required":
		return msgStatusRequired
	case path == "order_status":
		return statusChoicesMessage()
	default:
		return fmt.Sprintf("%s failed on %s", path, fe.Tag())
	}
}

func statusChoicesMessage() string {
	names := make([]string, 0, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		names = append(names, s.String())
	}
	return "order_status must be one of: " + strings.Join(names, ", ")
}

func isString(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String
}

// isPositiveInt accepts JSON numbers that are whole and at least one.
func isPositiveInt(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		f := field.Float()
		return f >= 1 && f == math.Trunc(f) && f <= math.MaxInt32
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return field.Int() >= 1
	default:
		return false
	}
}

func isOrderStatus(fl validator.FieldLevel) bool {
	_, err := order.ParseStatus(fl.Field().String())
	return err == nil
}

// addressText returns the validated address_id.
func (r CreateOrderRequest) addressText() string {
	text, _ := r.AddressID.(string)
	return text
}

// productText returns the validated product_id of item i.
func (r CreateOrderRequest) productText(i int) string {
	text, _ := r.Items[i].ProductID.(string)
	return text
}

// qtyAt reads the validated quantity of item i.
func (r CreateOrderRequest) qtyAt(i int) int {
	switch q := r.Items[i].Qty.(type) {
	case float64:
		return int(q)
	case int:
		return q
	default:
		return 0
	}
}
