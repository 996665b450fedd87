package templates

import "fmt"

// Template names accepted by Render.
const (
	TemplateOrderConfirmation    = "order_confirmation"
	TemplateOrderStatus          = "order_status"
	TemplatePrescriptionReceived = "prescription_received"
	TemplatePrescriptionStatus   = "prescription_status"
	TemplateHelp                 = "help"
)

// Params carries the optional values a notification template may reference.
// Unset fields leave their placeholders untouched.
type Params struct {
	OrderID         string
	TotalAmount     *float64
	DeliveryAddress string
	Status          string
}

func (p Params) vars() Vars {
	vars := Vars{}
	if p.OrderID != "" {
		vars[PlaceholderOrderID] = p.OrderID
	}
	if p.TotalAmount != nil {
		vars[PlaceholderTotalAmount] = FormatAmount(*p.TotalAmount)
	}
	if p.DeliveryAddress != "" {
		vars[PlaceholderDeliveryAddress] = p.DeliveryAddress
	}
	return vars
}

// Welcome is the full menu greeting sent without a keyboard.
func Welcome(lang Language) string {
	return welcome.Render(lang, nil)
}

// WelcomeBase is the short greeting that accompanies WelcomeKeyboard.
func WelcomeBase(lang Language) string {
	return welcomeBase.Render(lang, nil)
}

func OrderConfirmation(lang Language, p Params) string {
	return orderConfirmation.Render(lang, p.vars())
}

// OrderStatus falls back to the confirmed message for unknown statuses.
func OrderStatus(lang Language, orderID, status string) string {
	return orderStatus.Get(status).Render(lang, Params{OrderID: orderID}.vars())
}

func PrescriptionReceived(lang Language) string {
	return prescriptionReceived.Render(lang, nil)
}

// PrescriptionStatus falls back to the reviewed message for unknown statuses.
func PrescriptionStatus(lang Language, status string) string {
	return prescriptionStatus.Get(status).Render(lang, nil)
}

func Help(lang Language) string {
	return help.Render(lang, nil)
}

// Render renders a named notification template.
func Render(name string, lang Language, p Params) (string, error) {
	switch name {
	case TemplateOrderConfirmation:
		return OrderConfirmation(lang, p), nil
	case TemplateOrderStatus:
		return OrderStatus(lang, p.OrderID, p.Status), nil
	case TemplatePrescriptionReceived:
		return PrescriptionReceived(lang), nil
	case TemplatePrescriptionStatus:
		return PrescriptionStatus(lang, p.Status), nil
	case TemplateHelp:
		return Help(lang), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
}
