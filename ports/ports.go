// Package ports drives a lamp panel attached to a serial port.
//
// The panel speaks a line protocol. After opening, the host announces the
// board size with "INIT <columns> <rows>"; every lamp change is then sent as
// "L <index> <rrggbb>".
package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/dasdy/timetable/board"
	"github.com/dasdy/timetable/logging"
	"github.com/dasdy/timetable/model"
	"github.com/lucasb-eyer/go-colorful"
	"go.bug.st/serial"
)

const BaudRate = 115200

var logCtx = logging.PackageCtx("ports")

func Open(devicePath string) (io.ReadWriteCloser, error) {
	port, err := serial.Open(devicePath, &serial.Mode{
		BaudRate: BaudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", devicePath, err)
	}

	return port, nil
}

// LooksLikeBoardDevice matches USB serial adapters that LED panels usually sit behind.
func LooksLikeBoardDevice(devicePath string) bool {
	if path.Dir(devicePath) != "/dev" {
		return false
	}

	name := path.Base(devicePath)
	for _, prefix := range []string{"ttyUSB", "ttyACM", "tty.usbmodem", "tty.usbserial", "cu.usbmodem", "cu.usbserial"} {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return true
		}
	}

	return false
}

// GetAvailableDevices lists serial ports that look like a board. When none
// match, every port is returned so the user can pick one.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not get list of serial ports: %w", err)
	}

	slog.DebugContext(logCtx, "serial devices", "names", names)

	return filterDevices(names), nil
}

func filterDevices(names []string) []string {
	result := make([]string, 0)

	for _, n := range names {
		if LooksLikeBoardDevice(n) {
			result = append(result, n)
		}
	}

	if len(result) != 0 {
		return result
	}

	return names
}

// Board is a board builder for a serial panel.
type Board struct {
	DevicePath string

	// Dial opens the device, Open when nil.
	Dial func(devicePath string) (io.ReadWriteCloser, error)

	conn io.ReadWriteCloser
}

func NewBoard(devicePath string) *Board {
	return &Board{DevicePath: devicePath}
}

func (b *Board) Build(spec model.BoardSpec) (board.Lamps, error) {
	if b == nil {
		return nil, board.ErrInvalidTarget
	}

	dial := b.Dial
	if dial == nil {
		dial = Open
	}

	conn, err := dial(b.DevicePath)
	if err != nil {
		return nil, err
	}

	b.conn = conn

	lamps := NewLamps(conn, spec.Lamps())
	if err := lamps.init(spec); err != nil {
		_ = conn.Close()

		return nil, err
	}

	slog.InfoContext(logCtx, "Panel initialised", "device", b.DevicePath, "columns", spec.Columns, "rows", spec.Rows)

	return lamps, nil
}

func (b *Board) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}

	return b.conn.Close()
}

// Lamps writes lamp changes to a panel.
type Lamps struct {
	lock  sync.Mutex
	w     *bufio.Writer
	count int
}

func NewLamps(w io.Writer, count int) *Lamps {
	return &Lamps{w: bufio.NewWriter(w), count: count}
}

func (l *Lamps) Len() int {
	return l.count
}

func (l *Lamps) SetLamp(index int, c colorful.Color) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	// hex without the leading '#'
	if _, err := fmt.Fprintf(l.w, "L %d %s\n", index, c.Hex()[1:]); err != nil {
		return fmt.Errorf("could not write lamp %d: %w", index, err)
	}

	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("could not write lamp %d: %w", index, err)
	}

	return nil
}

// init announces the board size and paints every lamp off.
func (l *Lamps) init(spec model.BoardSpec) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if _, err := fmt.Fprintf(l.w, "INIT %d %d\n", spec.Columns, spec.Rows); err != nil {
		return fmt.Errorf("could not initialise panel: %w", err)
	}

	off := spec.LampOff.Hex()[1:]
	for i := range l.count {
		if _, err := fmt.Fprintf(l.w, "L %d %s\n", i, off); err != nil {
			return fmt.Errorf("could not initialise panel: %w", err)
		}
	}

	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("could not initialise panel: %w", err)
	}

	return nil
}
