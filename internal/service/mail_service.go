package service

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/RoyceAzure/lab/bookstore/internal/infra/producer"
	"github.com/jordan-wright/email"
)

type IMailService interface {
	SendOrderStatusEmail(ctx context.Context, userEmail, orderID, status string, items []producer.OrderItemData) error
}

type MailService struct {
	senderName string
	fromEmail  string
	smtpHost   string
	smtpPort   string
	smtpAuth   smtp.Auth
}

// NewMailService 初始化 mail service
// 參數:
//
//	senderName: 寄件者屬名
//	fromEmail: 寄件者郵件地址
//	password: 寄件者郵件密碼
func NewMailService(senderName, fromEmail, password, smtpHost, smtpPort string) IMailService {
	return &MailService{
		senderName: senderName,
		fromEmail:  fromEmail,
		smtpHost:   smtpHost,
		smtpPort:   smtpPort,
		smtpAuth:   smtp.PlainAuth("", fromEmail, password, smtpHost),
	}
}

type orderStatusEmailData struct {
	OrderID string
	Status  string
	Items   []producer.OrderItemData
}

func (m *MailService) SendOrderStatusEmail(ctx context.Context, userEmail, orderID, status string, items []producer.OrderItemData) error {
	html, err := generateOrderStatusHTML(orderStatusEmailData{
		OrderID: orderID,
		Status:  status,
		Items:   items,
	})
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.senderName, m.fromEmail)
	e.To = []string{userEmail}
	e.Subject = fmt.Sprintf("Order #%s Status Update", orderID)
	e.HTML = []byte(html)

	return e.Send(m.smtpHost+":"+m.smtpPort, m.smtpAuth)
}

// generateOrderStatusHTML 生成 HTML 格式的訂單狀態通知信
func generateOrderStatusHTML(data orderStatusEmailData) (string, error) {
	tmpl, err := template.New("orderStatusHTML").Parse(orderStatusTemplate)
	if err != nil {
		return "", fmt.Errorf("parse order status template failed: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("execute order status template failed: %w", err)
	}

	return buf.String(), nil
}

// HTML 模板
const orderStatusTemplate = `
<!DOCTYPE html>
<html>
<body>
    <h2>Order Status Update</h2>
    <p>Your order #{{.OrderID}} status has been updated to: <strong>{{.Status}}</strong></p>

    <h3>Order Items:</h3>
    <ul>
    {{range .Items}}
        <li>{{.Title}} x {{.Quantity}}</li>
    {{end}}
    </ul>

    <p>Thank you for shopping with us!</p>
</body>
</html>
`
