package shared

// PaymentStatus defines payment processing states
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// FailureReason defines payment failure categories
type FailureReason string

const (
	FailureReasonAccountNotFound        FailureReason = "ACCOUNT_NOT_FOUND"
	FailureReasonOrderNotFound          FailureReason = "ORDER_NOT_FOUND"
	FailureReasonCurrencyMismatchFormat FailureReason = "CURRENCY_MISMATCH:_REQUEST_%s_ACCOUNT_%s" // To be used with fmt.Sprintf
	FailureReasonInsufficientFunds      FailureReason = "INSUFFICIENT_FUNDS"
	FailureReasonInvalidAmount          FailureReason = "INVALID_AMOUNT"
	FailureReasonOrderOverpaid          FailureReason = "ORDER_OVERPAID"
	FailureReasonSettlementFailed       FailureReason = "SETTLEMENT_FAILED" // Generic reason if more specific one isn't identified
	FailureReasonUnknownError           FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
