// hwif/hwiftest/uart.go
package hwiftest

import (
	"context"
	"time"

	"paylink-go/hwif"
)

// MockUART is a scriptable byte-stream transport. Like the real UART it
// has no Transfer capability.
type MockUART struct {
	lifecycleMock
}

var _ hwif.Stream = (*MockUART)(nil)

func NewMockUART() *MockUART { return &MockUART{} }

func (m *MockUART) ExpectInitialize(err error) *Step {
	return m.push(&Step{method: methodInitialize, err: err})
}

func (m *MockUART) ExpectDeinitialize(err error) *Step {
	return m.push(&Step{method: methodDeinitialize, err: err})
}

func (m *MockUART) ExpectRead(data []byte, err error) *Step {
	return m.push(&Step{method: methodRead, data: data, err: err})
}

func (m *MockUART) ExpectWrite(want []byte, n int, err error) *Step {
	return m.push(&Step{method: methodWrite, wantTx: want, n: n, err: err})
}

func (m *MockUART) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.read(p)
}

func (m *MockUART) Write(ctx context.Context, p []byte) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.write(p)
}
