// hwif/hwiftest/spi.go
package hwiftest

import (
	"context"
	"fmt"
	"time"

	"paylink-go/hwif"
)

// MockSPI is a scriptable full-duplex transport. It enforces the same
// equal-length transfer rule as the real SPI so protocol code cannot pass
// against the mock and fail on hardware.
type MockSPI struct {
	lifecycleMock
}

var _ hwif.Port = (*MockSPI)(nil)

func NewMockSPI() *MockSPI { return &MockSPI{} }

func (m *MockSPI) ExpectInitialize(err error) *Step {
	return m.push(&Step{method: methodInitialize, err: err})
}

func (m *MockSPI) ExpectDeinitialize(err error) *Step {
	return m.push(&Step{method: methodDeinitialize, err: err})
}

func (m *MockSPI) ExpectRead(data []byte, err error) *Step {
	return m.push(&Step{method: methodRead, data: data, err: err})
}

func (m *MockSPI) ExpectWrite(want []byte, n int, err error) *Step {
	return m.push(&Step{method: methodWrite, wantTx: want, n: n, err: err})
}

func (m *MockSPI) ExpectTransfer(wantTx, rx []byte, err error) *Step {
	return m.push(&Step{method: methodTransfer, wantTx: wantTx, data: rx, err: err})
}

func (m *MockSPI) Read(ctx context.Context, p []byte, timeout time.Duration) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.read(p)
}

func (m *MockSPI) Write(ctx context.Context, p []byte) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	return m.write(p)
}

func (m *MockSPI) Transfer(ctx context.Context, tx, rx []byte, timeout time.Duration) (int, error) {
	if err := m.gate(); err != nil {
		return 0, err
	}
	if len(tx) != len(rx) {
		return 0, m.st.RecordError(hwif.InvalidParam(fmt.Sprintf("transfer length mismatch: tx=%d rx=%d", len(tx), len(rx))))
	}
	return m.transfer(tx, rx)
}
