package interrupt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// portWrite records a single Out on the fake bus.
type portWrite struct {
	Port  uint16
	Value uint8
}

// fakeBus records all port writes and serves a fixed mask register.
type fakeBus struct {
	writes []portWrite
	mask   uint8
}

func (b *fakeBus) Out(port uint16, value uint8) {
	b.writes = append(b.writes, portWrite{Port: port, Value: value})
}

func (b *fakeBus) In(port uint16) uint8 {
	return b.mask
}

func TestRemapSequence(t *testing.T) {
	bus := &fakeBus{}
	pic := New(bus, DefaultMasterOffset, DefaultSlaveOffset)

	pic.Remap()

	wait := portWrite{Port: unusedPort, Value: 0}
	want := []portWrite{
		{Port: pic1Command, Value: icw1Init | icw1ICW4}, wait,
		{Port: pic2Command, Value: icw1Init | icw1ICW4}, wait,
		{Port: pic1Data, Value: DefaultMasterOffset}, wait,
		{Port: pic2Data, Value: DefaultSlaveOffset}, wait,
		{Port: pic1Data, Value: cascadeMaster}, wait,
		{Port: pic2Data, Value: cascadeSlave}, wait,
		{Port: pic1Data, Value: icw48086}, wait,
		{Port: pic2Data, Value: icw48086}, wait,
		{Port: pic1Data, Value: maskAll},
		{Port: pic2Data, Value: maskAll},
	}
	if diff := cmp.Diff(want, bus.writes); diff != "" {
		t.Errorf("Remap() write sequence (-want +got):\n%s", diff)
	}
}

func TestAck(t *testing.T) {
	tests := []struct {
		name string
		irq  uint8
		want []portWrite
	}{
		{
			name: "master line only acknowledges the master",
			irq:  IRQKeyboard,
			want: []portWrite{{Port: pic1Command, Value: cmdAck}},
		},
		{
			name: "slave line acknowledges both controllers",
			irq:  8,
			want: []portWrite{
				{Port: pic2Command, Value: cmdAck},
				{Port: pic1Command, Value: cmdAck},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{}
			pic := New(bus, DefaultMasterOffset, DefaultSlaveOffset)

			pic.Ack(tt.irq)

			if diff := cmp.Diff(tt.want, bus.writes); diff != "" {
				t.Errorf("Ack() write sequence (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnableKeyboard(t *testing.T) {
	bus := &fakeBus{mask: 0xFF}
	pic := New(bus, DefaultMasterOffset, DefaultSlaveOffset)

	pic.EnableKeyboard()

	want := []portWrite{{Port: pic1Data, Value: 0xFD}}
	if diff := cmp.Diff(want, bus.writes); diff != "" {
		t.Errorf("EnableKeyboard() write sequence (-want +got):\n%s", diff)
	}
}

type countingKeyboard struct {
	serviced int
}

func (k *countingKeyboard) ServiceInterrupt() {
	k.serviced++
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name          string
		vector        uint8
		wantKeyboard  int
		wantAckWrites int
	}{
		{
			name:         "keyboard vector goes to the handler",
			vector:       DefaultMasterOffset + IRQKeyboard,
			wantKeyboard: 1,
		},
		{
			name:          "timer vector is only acknowledged",
			vector:        DefaultMasterOffset + IRQTimer,
			wantAckWrites: 1,
		},
		{
			name:   "unknown vector is ignored",
			vector: 0x99,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := &fakeBus{}
			keyboard := &countingKeyboard{}
			dispatcher := NewDispatcher(New(bus, DefaultMasterOffset, DefaultSlaveOffset), keyboard)

			dispatcher.Dispatch(tt.vector)

			if keyboard.serviced != tt.wantKeyboard {
				t.Errorf("keyboard serviced %d times, want %d", keyboard.serviced, tt.wantKeyboard)
			}
			if len(bus.writes) != tt.wantAckWrites {
				t.Errorf("bus saw %d writes, want %d", len(bus.writes), tt.wantAckWrites)
			}
		})
	}
}
