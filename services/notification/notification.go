package notification

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/olahol/melody"
)

type Service interface {
	SendMessage(message string) error
}

type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) SendMessage(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// NopService bỏ qua mọi thông báo
type NopService struct{}

func (NopService) SendMessage(string) error { return nil }

// Notice là payload gửi qua websocket
type Notice struct {
	Type         string      `json:"type"`
	UserID       int64       `json:"userId,omitempty"`
	UserName     string      `json:"userName,omitempty"`
	At           *time.Time  `json:"at,omitempty"`
	TotalMinutes int         `json:"totalMinutes,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

type MessageBuilder struct {
	notice Notice
}

func NewMessageBuilder(noticeType string) *MessageBuilder {
	return &MessageBuilder{notice: Notice{Type: noticeType}}
}

func (b *MessageBuilder) WithUser(userID int64, userName string) *MessageBuilder {
	b.notice.UserID = userID
	b.notice.UserName = userName
	return b
}

func (b *MessageBuilder) At(t time.Time) *MessageBuilder {
	b.notice.At = &t
	return b
}

func (b *MessageBuilder) WithMinutes(total int) *MessageBuilder {
	b.notice.TotalMinutes = total
	return b
}

func (b *MessageBuilder) WithData(data interface{}) *MessageBuilder {
	b.notice.Data = data
	return b
}

func (b *MessageBuilder) Build() string {
	payload, err := json.Marshal(b.notice)
	if err != nil {
		return fmt.Sprintf(`{"type":%q}`, b.notice.Type)
	}
	return string(payload)
}
