// Package interrupt drives the cascaded pair of 8259 interrupt controllers:
// remapping their vector offsets, acknowledging serviced interrupts and
// dispatching hardware interrupt numbers to their handlers. Port I/O is
// abstracted behind the Bus interface so the package can run against real
// hardware glue or a recorded fake in tests.
package interrupt

// Bus is the raw port I/O the controllers are programmed through.
type Bus interface {
	Out(port uint16, value uint8)
	In(port uint16) uint8
}

// Controller ports and command words.
const (
	pic1Command = 0x20
	pic1Data    = 0x21
	pic2Command = 0xA0
	pic2Data    = 0xA1

	cmdAck = 0x20

	icw1Init = 0x10
	icw1ICW4 = 0x01
	icw48086 = 0x01

	// cascadeWire tells the master a slave hangs off IRQ2, and the slave
	// its own cascade identity.
	cascadeMaster = 0b0100
	cascadeSlave  = 0b0010

	maskAll = 0xFF

	// unusedPort is written to for I/O synchronization between
	// initialization words (1-4 microseconds on real hardware).
	unusedPort = 0x80
)

// Default vector offsets: master IRQs at 0x20..0x27, slave at 0x28..0x2F.
const (
	DefaultMasterOffset = 0x20
	DefaultSlaveOffset  = 0x28
)

// IRQ lines on the master controller.
const (
	IRQTimer    = 0
	IRQKeyboard = 1
)

// PIC programs a master/slave controller pair on a Bus.
type PIC struct {
	bus          Bus
	masterOffset uint8
	slaveOffset  uint8
}

// New returns a PIC that will place the master's vectors at masterOffset and
// the slave's at slaveOffset once Remap has run.
func New(bus Bus, masterOffset, slaveOffset uint8) *PIC {
	return &PIC{bus: bus, masterOffset: masterOffset, slaveOffset: slaveOffset}
}

func (p *PIC) ioWait() {
	p.bus.Out(unusedPort, 0)
}

// Remap runs the full initialization sequence, shifting both controllers to
// the configured vector offsets. All interrupt lines end up masked.
func (p *PIC) Remap() {
	p.bus.Out(pic1Command, icw1Init|icw1ICW4)
	p.ioWait()
	p.bus.Out(pic2Command, icw1Init|icw1ICW4)
	p.ioWait()
	p.bus.Out(pic1Data, p.masterOffset)
	p.ioWait()
	p.bus.Out(pic2Data, p.slaveOffset)
	p.ioWait()
	p.bus.Out(pic1Data, cascadeMaster)
	p.ioWait()
	p.bus.Out(pic2Data, cascadeSlave)
	p.ioWait()

	p.bus.Out(pic1Data, icw48086)
	p.ioWait()
	p.bus.Out(pic2Data, icw48086)
	p.ioWait()

	p.bus.Out(pic1Data, maskAll)
	p.bus.Out(pic2Data, maskAll)
}

// Ack acknowledges a serviced interrupt. IRQs 8 and above also need the
// slave controller acknowledged.
func (p *PIC) Ack(irq uint8) {
	if irq >= 8 {
		p.bus.Out(pic2Command, cmdAck)
	}
	p.bus.Out(pic1Command, cmdAck)
}

// EnableKeyboard clears the keyboard line's bit in the master's mask
// register so keyboard interrupts get delivered.
func (p *PIC) EnableKeyboard() {
	p.bus.Out(pic1Data, p.bus.In(pic1Data)&^(1<<IRQKeyboard))
}

// KeyboardHandler services a keyboard interrupt. The implementation is
// expected to read the scancode and acknowledge the interrupt itself.
type KeyboardHandler interface {
	ServiceInterrupt()
}

// Dispatcher routes hardware interrupt vectors to their handlers.
type Dispatcher struct {
	pic      *PIC
	keyboard KeyboardHandler
}

// NewDispatcher returns a dispatcher feeding keyboard interrupts to the
// given handler.
func NewDispatcher(pic *PIC, keyboard KeyboardHandler) *Dispatcher {
	return &Dispatcher{pic: pic, keyboard: keyboard}
}

// Dispatch handles one hardware interrupt vector. The timer has no handler
// yet and is only acknowledged; unknown vectors are ignored.
func (d *Dispatcher) Dispatch(vector uint8) {
	switch vector {
	case d.pic.masterOffset + IRQKeyboard:
		d.keyboard.ServiceInterrupt()
	case d.pic.masterOffset + IRQTimer:
		d.pic.Ack(IRQTimer)
	}
}
