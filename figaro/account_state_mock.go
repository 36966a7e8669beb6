// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package figaro is a generated GoMock package.
package figaro

import (
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockAccountState is a mock of AccountState interface.
type MockAccountState struct {
	ctrl     *gomock.Controller
	recorder *MockAccountStateMockRecorder
}

// MockAccountStateMockRecorder is the mock recorder for MockAccountState.
type MockAccountStateMockRecorder struct {
	mock *MockAccountState
}

// NewMockAccountState creates a new mock instance.
func NewMockAccountState(ctrl *gomock.Controller) *MockAccountState {
	mock := &MockAccountState{ctrl: ctrl}
	mock.recorder = &MockAccountStateMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountState) EXPECT() *MockAccountStateMockRecorder {
	return m.recorder
}

// ArrayLength mocks base method.
func (m *MockAccountState) ArrayLength(base Key) uint64 {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ArrayLength", base)
	ret0, _ := ret[0].(uint64)
	return ret0
}

// ArrayLength indicates an expected call of ArrayLength.
func (mr *MockAccountStateMockRecorder) ArrayLength(base any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ArrayLength", reflect.TypeOf((*MockAccountState)(nil).ArrayLength), base)
}

// ArrayRead mocks base method.
func (m *MockAccountState) ArrayRead(base Key, index uint64) (Word, AccessStatus) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ArrayRead", base, index)
	ret0, _ := ret[0].(Word)
	ret1, _ := ret[1].(AccessStatus)
	return ret0, ret1
}

// ArrayRead indicates an expected call of ArrayRead.
func (mr *MockAccountStateMockRecorder) ArrayRead(base, index any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ArrayRead", reflect.TypeOf((*MockAccountState)(nil).ArrayRead), base, index)
}

// ArrayWrite mocks base method.
func (m *MockAccountState) ArrayWrite(base Key, index uint64, value Word) (WriteKind, bool) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ArrayWrite", base, index, value)
	ret0, _ := ret[0].(WriteKind)
	ret1, _ := ret[1].(bool)
	return ret0, ret1
}

// ArrayWrite indicates an expected call of ArrayWrite.
func (mr *MockAccountStateMockRecorder) ArrayWrite(base, index, value any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ArrayWrite", reflect.TypeOf((*MockAccountState)(nil).ArrayWrite), base, index, value)
}

// Read mocks base method.
func (m *MockAccountState) Read(arg0 Key) (Word, AccessStatus) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", arg0)
	ret0, _ := ret[0].(Word)
	ret1, _ := ret[1].(AccessStatus)
	return ret0, ret1
}

// Read indicates an expected call of Read.
func (mr *MockAccountStateMockRecorder) Read(arg0 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockAccountState)(nil).Read), arg0)
}

// Write mocks base method.
func (m *MockAccountState) Write(arg0 Key, arg1 Word) WriteKind {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Write", arg0, arg1)
	ret0, _ := ret[0].(WriteKind)
	return ret0
}

// Write indicates an expected call of Write.
func (mr *MockAccountStateMockRecorder) Write(arg0, arg1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Write", reflect.TypeOf((*MockAccountState)(nil).Write), arg0, arg1)
}
