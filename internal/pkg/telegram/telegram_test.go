package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saewt/university-visitor-system/internal/app/models"
)

func strPtr(s string) *string { return &s }

func testStudent() *models.Student {
	deptID := int64(4)
	score := 485.5
	yksType := models.YKSSayisal
	return &models.Student{
		ID:           11,
		FirstName:    "Ahmet",
		LastName:     "Yılmaz",
		Email:        strPtr("ahmet@example.com"),
		Phone:        strPtr("+905551112233"),
		HighSchool:   strPtr("Ankara Fen Lisesi"),
		YKSScore:     &score,
		YKSType:      &yksType,
		DepartmentID: &deptID,
		WantsTour:    true,
		CreatedAt:    time.Date(2025, 6, 14, 10, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
	}
}

func testDepartment(chatID string) *models.Department {
	d := &models.Department{ID: 4, Name: "Bilgisayar Mühendisliği", Active: true}
	if chatID != "" {
		d.TelegramChatID = &chatID
	}
	return d
}

func TestNotifyTourRequestSendsFormattedMessage(t *testing.T) {
	var received sendMessageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "test-token"}, zerolog.Nop())
	client.apiBaseURL = server.URL

	ok := client.NotifyTourRequest(context.Background(), testStudent(), testDepartment("-100123"))

	require.True(t, ok)
	assert.Equal(t, "-100123", received.ChatID)
	assert.Equal(t, "HTML", received.ParseMode)
	assert.Contains(t, received.Text, "Yeni Tur Talebi")
	assert.Contains(t, received.Text, "Ahmet Yılmaz")
	assert.Contains(t, received.Text, "Bilgisayar Mühendisliği")
	assert.Contains(t, received.Text, "485.5")
	assert.Contains(t, received.Text, "SAYISAL")
	assert.Contains(t, received.Text, "14.06.2025 10:30")
}

func TestNotifyTourRequestFallbacksForMissingFields(t *testing.T) {
	student := testStudent()
	student.Phone = nil
	student.Email = strPtr("")
	student.HighSchool = nil
	student.YKSScore = nil
	student.YKSType = nil

	message := formatTourMessage(student, testDepartment("-100123"))

	assert.Contains(t, message, "📱 <b>Telefon:</b> Belirtilmemiş")
	assert.Contains(t, message, "📧 <b>E-posta:</b> Belirtilmemiş")
	assert.Contains(t, message, "🏫 <b>Lise:</b> Belirtilmemiş")
	assert.Contains(t, message, "📊 <b>YKS Puanı:</b> Belirtilmemiş")
	assert.Contains(t, message, "📝 <b>YKS Türü:</b> Belirtilmemiş")
}

func TestNotifyTourRequestSkipsWithoutChatTarget(t *testing.T) {
	client := NewClient(Config{BotToken: "test-token"}, zerolog.Nop())

	noDept := testStudent()
	noDept.DepartmentID = nil
	assert.False(t, client.NotifyTourRequest(context.Background(), noDept, nil))

	assert.False(t, client.NotifyTourRequest(context.Background(), testStudent(), testDepartment("")))
}

func TestSendMessageMockMode(t *testing.T) {
	client := NewClient(Config{Mock: true}, zerolog.Nop())
	assert.True(t, client.SendMessage(context.Background(), "-100123", "hello"))
}

func TestSendMessageFailsWithoutToken(t *testing.T) {
	client := NewClient(Config{}, zerolog.Nop())
	assert.False(t, client.SendMessage(context.Background(), "-100123", "hello"))
}

func TestSendMessageNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{BotToken: "test-token"}, zerolog.Nop())
	client.apiBaseURL = server.URL

	assert.False(t, client.SendMessage(context.Background(), "-100123", "hello"))
}
