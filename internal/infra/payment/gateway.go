package payment

import (
	"context"
	"errors"
)

type AuthorizationStatus string

const (
	StatusPending   AuthorizationStatus = "pending"
	StatusSucceeded AuthorizationStatus = "succeeded"
	StatusFailed    AuthorizationStatus = "failed"
)

var (
	// ErrGatewayUnavailable 金流服務連不上或逾時，屬暫時性錯誤，由使用者稍後重試
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrPaymentRejected 卡片被拒之類的終態錯誤，換付款方式才有機會成功
	ErrPaymentRejected = errors.New("payment rejected")
)

// Metadata 授權建立時夾帶的對帳資訊
// 至少要有 UserID，確認回呼時才能綁回正確的使用者與購物車，不信任 client 傳入值
type Metadata struct {
	UserID int `json:"user_id"`
}

type Authorization struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// StatusResult 回傳授權建立時夾帶的 Metadata
// 確認端靠它把付款綁回原本的使用者，不靠 client 自稱
type StatusResult struct {
	Status        AuthorizationStatus `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Metadata      Metadata            `json:"metadata"`
}

// Gateway 外部金流的能力抽象
// 金額一律由 server 端以重新驗證過的購物車計算，單位為最小貨幣單位
type Gateway interface {
	CreateAuthorization(ctx context.Context, amountMinorUnits int64, currency string, meta Metadata) (*Authorization, error)
	RetrieveStatus(ctx context.Context, authorizationID string) (*StatusResult, error)
}
