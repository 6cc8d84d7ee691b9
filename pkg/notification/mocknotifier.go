package notification

// MockNotifier captures notifications instead of delivering them. Used in tests
// and in setups without a configured transport.
type MockNotifier struct {
	SentNotifications []NotificationData
	SendError         error
}

func (m *MockNotifier) Send(noticeType NoticeType, notification NotificationData, template NoticeTemplate) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.SentNotifications = append(m.SentNotifications, notification)
	return nil
}
