package notification

// NotificationSystem represents a delivery channel (e.g. email, SMS).
type NotificationSystem string

// NoticeType identifies the kind of notice being sent (e.g. "account_confirm").
type NoticeType string

const (
	EmailSystem NotificationSystem = "email"
	SMSSystem   NotificationSystem = "sms"

	// AccountConfirmNotice carries the verification key minted for account confirmation.
	AccountConfirmNotice NoticeType = "account_confirm"
	// PasswordResetNotice carries the verification key minted for a password reset.
	PasswordResetNotice NoticeType = "password_reset"
)

// NoticeTemplate holds the subject and body templates for one notice on one system.
type NoticeTemplate struct {
	Subject string
	Text    string
	Html    string
}

type NotificationData struct {
	To      string            // Recipient identifier (e.g., email address, phone number)
	Subject string            // Optional: overrides the template subject when set
	Body    string            // Optional: pre-rendered content
	Data    map[string]string // Template data (e.g., verification link, email)
}

type Notifier interface {
	Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error
}
