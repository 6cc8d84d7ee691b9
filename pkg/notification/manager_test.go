package notification

import (
	"testing"
)

func TestNewNotificationManager(t *testing.T) {
	nm := NewNotificationManager("")
	if nm == nil {
		t.Error("NewNotificationManager returned nil")
	}
	if nm.notifiers == nil {
		t.Error("notifiers map not initialized")
	}
	if nm.notificationRegistry == nil {
		t.Error("notificationRegistry map not initialized")
	}
}

func TestRegisterNotifier(t *testing.T) {
	nm := NewNotificationManager("")
	mockNotifier := &MockNotifier{}

	// Test registering a notifier
	nm.RegisterNotifier(EmailSystem, mockNotifier)
	if n, exists := nm.notifiers[EmailSystem]; !exists {
		t.Error("Notifier not registered")
	} else if n != mockNotifier {
		t.Error("Wrong notifier registered")
	}

	// Test overwriting existing notifier
	newMockNotifier := &MockNotifier{}
	nm.RegisterNotifier(EmailSystem, newMockNotifier)
	if n := nm.notifiers[EmailSystem]; n != newMockNotifier {
		t.Error("Notifier not overwritten")
	}
}

func TestRegisterNotification(t *testing.T) {
	nm := NewNotificationManager("")

	tests := []struct {
		name        string
		noticeType  NoticeType
		system      NotificationSystem
		template    NoticeTemplate
		shouldError bool
	}{
		{
			name:        "Valid registration with both Text and Html",
			noticeType:  PasswordResetNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Password Reset Request", Text: "Reset your password", Html: "<p>Reset your password</p>"},
			shouldError: false,
		},
		{
			name:        "Valid registration with Text only",
			noticeType:  PasswordResetNotice,
			system:      SMSSystem,
			template:    NoticeTemplate{Subject: "Password Reset Request", Text: "Reset your password"},
			shouldError: false,
		},
		{
			name:        "Valid registration with Html only",
			noticeType:  AccountConfirmNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Confirm Your Account", Html: "<p>Confirm your account</p>"},
			shouldError: false,
		},
		{
			name:        "Empty notice type",
			noticeType:  "",
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Subject", Text: "Body"},
			shouldError: true,
		},
		{
			name:        "Empty system",
			noticeType:  AccountConfirmNotice,
			system:      "",
			template:    NoticeTemplate{Subject: "Subject", Text: "Body"},
			shouldError: true,
		},
		{
			name:        "Empty subject",
			noticeType:  AccountConfirmNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "", Text: "Body"},
			shouldError: true,
		},
		{
			name:        "No content",
			noticeType:  AccountConfirmNotice,
			system:      EmailSystem,
			template:    NoticeTemplate{Subject: "Subject", Text: "", Html: ""},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nm.RegisterNotification(tt.noticeType, tt.system, tt.template)
			if tt.shouldError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.shouldError {
				if template, exists := nm.notificationRegistry[tt.noticeType][tt.system]; !exists {
					t.Error("Template not registered")
				} else if template.Subject != tt.template.Subject {
					t.Errorf("Wrong subject registered. Got %s, want %s", template.Subject, tt.template.Subject)
				}
			}
		})
	}
}

func TestSend(t *testing.T) {
	nm := NewNotificationManager("")
	mockEmailNotifier := &MockNotifier{}
	mockSMSNotifier := &MockNotifier{}

	nm.RegisterNotifier(EmailSystem, mockEmailNotifier)
	nm.RegisterNotifier(SMSSystem, mockSMSNotifier)

	err := nm.RegisterNotification(PasswordResetNotice, EmailSystem, NoticeTemplate{Subject: "Password Reset Request", Html: "<p>{{.ConfirmLink}}</p>"})
	if err != nil {
		t.Fatalf("Failed to register email notification: %v", err)
	}
	err = nm.RegisterNotification(PasswordResetNotice, SMSSystem, NoticeTemplate{Subject: "Password Reset Request", Text: "{{.ConfirmLink}}"})
	if err != nil {
		t.Fatalf("Failed to register SMS notification: %v", err)
	}

	testData := NotificationData{
		To:   "user@example.com",
		Data: map[string]string{"ConfirmLink": "https://example.com/recover/confirm/abc"},
	}

	err = nm.Send(PasswordResetNotice, testData)
	if err != nil {
		t.Errorf("Failed to send notification: %v", err)
	}

	if len(mockEmailNotifier.SentNotifications) != 1 {
		t.Error("Email notification not sent")
	} else if mockEmailNotifier.SentNotifications[0].To != testData.To {
		t.Error("Email notification data mismatch")
	}

	if len(mockSMSNotifier.SentNotifications) != 1 {
		t.Error("SMS notification not sent")
	} else if mockSMSNotifier.SentNotifications[0].To != testData.To {
		t.Error("SMS notification data mismatch")
	}
}

func TestSendErrors(t *testing.T) {
	nm := NewNotificationManager("")

	// Sending with unregistered notice type
	err := nm.Send("unregistered", NotificationData{})
	if err == nil {
		t.Error("Expected error for unregistered notice type")
	}

	// Register notification without registering notifier
	err = nm.RegisterNotification(AccountConfirmNotice, EmailSystem, NoticeTemplate{Subject: "Confirm Your Account", Html: "<p>confirm</p>"})
	if err != nil {
		t.Fatalf("Failed to register notification: %v", err)
	}

	err = nm.Send(AccountConfirmNotice, NotificationData{})
	if err == nil {
		t.Error("Expected error for missing notifier")
	} else if err.Error() != "no notifier registered for system: email" {
		t.Errorf("Unexpected error message: %v", err)
	}
}
