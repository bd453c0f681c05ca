package domain

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentUnset PaymentMethod = ""
	PaymentCard  PaymentMethod = "card"
	PaymentCash  PaymentMethod = "cash"
)

// OrderField — имя поля формы заказа.
type OrderField string

const (
	FieldPayment OrderField = "payment"
	FieldAddress OrderField = "address"
	FieldEmail   OrderField = "email"
	FieldPhone   OrderField = "phone"
)

// Valid сообщает, известно ли имя поля формы заказа.
func (f OrderField) Valid() bool {
	switch f {
	case FieldPayment, FieldAddress, FieldEmail, FieldPhone:
		return true
	default:
		return false
	}
}

// OrderDraft — черновик заказа, заполняемый по мере прохождения форм.
// Пустая строка означает незаполненное поле.
type OrderDraft struct {
	Payment string
	Address string
	Email   string
	Phone   string
}

// FormErrors — отображение имени поля заказа на сообщение об ошибке.
// Поле отсутствует в отображении тогда и только тогда, когда оно заполнено.
type FormErrors map[OrderField]string

// OrderSnapshot — неизменяемый снимок заказа, отправляемый во внешний API.
type OrderSnapshot struct {
	Payment string   `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Items   []string `json:"items"` // Идентификаторы товаров в порядке корзины
	Total   int64    `json:"total"` // Сумма корзины в копейках
}
