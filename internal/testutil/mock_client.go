//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/haoyun/skill-trail/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetName(name string) {
	m.Called(name)
}

func (m *MockClient) GetAvatar() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetAvatar(avatar string) {
	m.Called(avatar)
}

func (m *MockClient) GetRoom() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetRoom(roomCode string) {
	m.Called(roomCode)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）。
// 消息记录加锁，定时器协程广播时也可安全断言。
type SimpleClient struct {
	ID       string
	Name     string
	Avatar   string
	RoomCode string

	mu       sync.Mutex
	Messages []*protocol.Message
}

// NewSimpleClient 创建简单 mock 客户端
func NewSimpleClient(id, name string) *SimpleClient {
	return &SimpleClient{ID: id, Name: name}
}

func (m *SimpleClient) GetID() string                     { return m.ID }
func (m *SimpleClient) GetName() string                   { return m.Name }
func (m *SimpleClient) SetName(name string)               { m.Name = name }
func (m *SimpleClient) GetAvatar() string                 { return m.Avatar }
func (m *SimpleClient) SetAvatar(avatar string)           { m.Avatar = avatar }
func (m *SimpleClient) GetRoom() string                   { return m.RoomCode }
func (m *SimpleClient) SetRoom(code string)               { m.RoomCode = code }
func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}
func (m *SimpleClient) Close() {}

// MessagesOfType 返回收到的指定类型消息（测试断言用）
func (m *SimpleClient) MessagesOfType(t protocol.MessageType) []*protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*protocol.Message
	for _, msg := range m.Messages {
		if msg.Type == t {
			out = append(out, msg)
		}
	}
	return out
}
