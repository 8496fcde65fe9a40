package input

import (
	"encoding/binary"
	"log"
	"os"
	"syscall"
	"time"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const evKey = 0x01

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// ReadDevice reads raw key events from an evdev device and pushes press
// and release edges for mapped lanes onto the queue. Unlike terminal
// input this gives us release edges and kernel capture timestamps.
func ReadDevice(kbd string, codes []uint16, source Source, queue *Queue) error {
	file, err := os.Open(kbd)
	if err != nil {
		return err
	}
	lanes := make(map[uint16]int, len(codes))
	for lane, code := range codes {
		lanes[code] = lane
	}
	go func() {
		defer file.Close()

		var ev keyEvent
		for {
			if err := binary.Read(file, binary.LittleEndian, &ev); nil != err {
				log.Println("unable to read input device:", err)
				return
			}
			if ev.Type != evKey || ev.Value > 1 {
				// Value 2 is auto-repeat
				continue
			}
			lane, ok := lanes[ev.Code]
			if !ok {
				continue
			}
			queue.Push(Edge{
				Lane:      lane,
				Pressed:   ev.Value == 1,
				Source:    source,
				Timestamp: time.Unix(int64(ev.Time.Sec), int64(ev.Time.Usec)*1000),
			})
		}
	}()
	return nil
}
