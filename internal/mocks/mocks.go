// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/folio/api/schemas"
)

// -- Session Mocks --

// MockSessionFactory mocks schemas.SessionFactory.
type MockSessionFactory struct {
	mock.Mock
}

func (m *MockSessionFactory) NewSession(ctx context.Context) (schemas.SessionContext, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(schemas.SessionContext)
	return session, args.Error(1)
}

// MockSession mocks schemas.SessionContext.
type MockSession struct {
	mock.Mock
}

// NewMockSession returns a session mock whose ID is already stubbed, since
// nearly every caller logs it.
func NewMockSession(id string) *MockSession {
	m := new(MockSession)
	m.On("ID").Return(id).Maybe()
	return m
}

func (m *MockSession) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockSession) Title(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSession) WaitClickable(ctx context.Context, loc schemas.Locator, policy schemas.WaitPolicy) (schemas.Element, error) {
	args := m.Called(ctx, loc, policy)
	el, _ := args.Get(0).(schemas.Element)
	return el, args.Error(1)
}

func (m *MockSession) Click(ctx context.Context, el schemas.Element) error {
	args := m.Called(ctx, el)
	return args.Error(0)
}

func (m *MockSession) Attribute(ctx context.Context, el schemas.Element, name string) (string, error) {
	args := m.Called(ctx, el, name)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Sleep(ctx context.Context, d time.Duration) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockScreenshotSession is a MockSession that also has the screenshot capability.
type MockScreenshotSession struct {
	MockSession
}

// NewMockScreenshotSession returns a capturing session mock with its ID stubbed.
func NewMockScreenshotSession(id string) *MockScreenshotSession {
	m := new(MockScreenshotSession)
	m.On("ID").Return(id).Maybe()
	return m
}

func (m *MockScreenshotSession) Screenshot(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	buf, _ := args.Get(0).([]byte)
	return buf, args.Error(1)
}

// MockElement is an element handle that only carries its locator.
type MockElement struct {
	Loc schemas.Locator
}

func (e *MockElement) Locator() schemas.Locator { return e.Loc }

var (
	_ schemas.SessionFactory = (*MockSessionFactory)(nil)
	_ schemas.SessionContext = (*MockSession)(nil)
	_ schemas.Screenshotter  = (*MockScreenshotSession)(nil)
)
