package mocks

import "github.com/stretchr/testify/mock"

type Manager struct {
	mock.Mock
}

func (m *Manager) CreateToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *Manager) ValidateToken(tokenString string) error {
	args := m.Called(tokenString)
	return args.Error(0)
}
