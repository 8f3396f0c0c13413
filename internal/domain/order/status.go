package order

// Status is the fulfilment state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// AllStatuses lists statuses in lifecycle order
var AllStatuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled:
		return false
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// PaymentStatus tracks whether the order has been paid for
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// IsValid checks if the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// PaymentMethod is how the buyer chose to pay
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentCreditCard     PaymentMethod = "credit_card"
)

// IsValid checks if the payment method is offered at checkout
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCashOnDelivery || m == PaymentCreditCard
}

// InitialPaymentStatus is pending for cash on delivery and paid otherwise.
// No gateway is involved; card orders are recorded as paid at placement.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentCashOnDelivery {
		return PaymentPending
	}
	return PaymentPaid
}

// Label is the human-readable payment method
func (m PaymentMethod) Label() string {
	if m == PaymentCashOnDelivery {
		return "Cash on Delivery"
	}
	return "Credit Card"
}
