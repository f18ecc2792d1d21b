// internal/devio/ioctl.go
package devio

import (
	"os"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ------------------------
// i2c-dev / spidev ioctls
// ------------------------

// Request values from <linux/i2c-dev.h> and <linux/spi/spidev.h>.
const (
	reqI2CSlave = 0x0703 // I2C_SLAVE

	reqSPIWrMode     = 0x40016b01 // SPI_IOC_WR_MODE
	reqSPIWrBits     = 0x40016b03 // SPI_IOC_WR_BITS_PER_WORD
	reqSPIWrMaxSpeed = 0x40046b04 // SPI_IOC_WR_MAX_SPEED_HZ
	reqSPIMessage1   = 0x40206b00 // SPI_IOC_MESSAGE(1)
)

// spiTransfer mirrors struct spi_ioc_transfer (32 bytes).
type spiTransfer struct {
	txBuf       uint64
	rxBuf       uint64
	length      uint32
	speedHz     uint32
	delayUsecs  uint16
	bitsPerWord uint8
	csChange    uint8
	txNbits     uint8
	rxNbits     uint8
	wordDelay   uint8
	pad         uint8
}

// ioctl issues a request whose argument is a plain value.
func (n *node) ioctl(req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(n.fd), req, arg)
	if errno != 0 {
		return &os.PathError{Op: "ioctl", Path: n.path, Err: errno}
	}
	return nil
}

// ioctlPtr issues a request whose argument is a pointer. The conversion to
// uintptr must appear in the Syscall expression itself; see the
// unsafe.Pointer docs.
func (n *node) ioctlPtr(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(n.fd), req, uintptr(arg))
	if errno != 0 {
		return &os.PathError{Op: "ioctl", Path: n.path, Err: errno}
	}
	return nil
}

type i2cNode struct {
	*node
}

func (n *i2cNode) BindSlave(addr uint16) error {
	// I2C_SLAVE takes the address by value, not by pointer.
	return n.ioctl(reqI2CSlave, uintptr(addr))
}

type spiNode struct {
	*node
}

func (n *spiNode) Setup(mode uint8, speedHz uint32, bitsPerWord uint8) error {
	if err := n.ioctlPtr(reqSPIWrMode, unsafe.Pointer(&mode)); err != nil {
		return err
	}
	if err := n.ioctlPtr(reqSPIWrBits, unsafe.Pointer(&bitsPerWord)); err != nil {
		return err
	}
	return n.ioctlPtr(reqSPIWrMaxSpeed, unsafe.Pointer(&speedHz))
}

func (n *spiNode) Transfer(tx, rx []byte) error {
	if len(tx) == 0 {
		return nil
	}
	tr := spiTransfer{
		txBuf:  uint64(uintptr(unsafe.Pointer(&tx[0]))),
		rxBuf:  uint64(uintptr(unsafe.Pointer(&rx[0]))),
		length: uint32(len(tx)),
	}
	err := n.ioctlPtr(reqSPIMessage1, unsafe.Pointer(&tr))
	// The buffer addresses ride through tr as plain integers; keep the
	// slices live until the kernel is done with them.
	runtime.KeepAlive(tx)
	runtime.KeepAlive(rx)
	return err
}
