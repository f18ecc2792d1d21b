// hwif/hwiftest/i2c.go
package hwiftest

import (
	"context"
	"time"

	"paylink-go/hwif"
)

// MockI2C is a scriptable transactional transport.
type MockI2C struct {
	lifecycleMock
}

var _ hwif.Port = (*MockI2C)(nil)

func NewMockI2C() *MockI2C { return &MockI2C{} }

// ------------------------
// Scripting surface
// ------------------------

func (m *MockI2C) ExpectInitialize(err error) *Step {
	return m.push(&Step{method: methodInitialize, err: err})
}

func (m *MockI2C) ExpectDeinitialize(err error) *Step {
	return m.push(&Step{method: methodDeinitialize, err: err})
}

// ExpectRead scripts the bytes the next Read hands back.
func (m *MockI2C) ExpectRead(data []byte, err error) *Step {
	return m.push(&Step{method: methodRead, data: data, err: err})
}

// ExpectWrite scripts the next Write: want is matched against the caller's
// payload (nil matches any), n is the count to report (<= 0 means all).
func (m *MockI2C) ExpectWrite(want []byte, n int, err error) *Step {
	return m.push(&Step{method: methodWrite, wantTx: want, n: n, err: err})
}

// ExpectTransfer scripts the next Transfer: wantTx is matched against the
// outbound frame (nil matches any), rx is the reply to hand back.
func (m *MockI2C) ExpectTransfer(wantTx, rx []byte, err error) *Step {
	return m.push(&Step{method: methodTransfer, wantTx: wantTx, data: rx, err: err})
}

// ------------------------
// hwif.Port implementation
// ------------------------

func (m *MockI2C) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.read(p)
}

func (m *MockI2C) Write(ctx context.Context, p []byte) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.write(p)
}

func (m *MockI2C) Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.transfer(tx, rx)
}
