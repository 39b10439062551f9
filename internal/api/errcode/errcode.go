package errcode

// 對外錯誤代碼，前端依代碼決定引導方式
const (
	BadRequest               = "BadRequest"
	NotFound                 = "NotFound"
	Forbidden                = "Forbidden"
	Unauthenticated          = "Unauthenticated"
	EmptyCart                = "EmptyCart"
	OutOfStock               = "OutOfStock"
	InsufficientStock        = "InsufficientStock"
	PaymentRejected          = "PaymentRejected"
	PaymentNotSucceeded      = "PaymentNotSucceeded"
	GatewayUnavailable       = "GatewayUnavailable"
	PostPaymentStockConflict = "PostPaymentStockConflict"
	InvalidStatus            = "InvalidStatus"
	InternalError            = "InternalError"
)
