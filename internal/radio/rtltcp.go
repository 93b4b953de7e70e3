package radio

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"
)

const (
	rtlMinFrequency = 24_000_000
	rtlMaxFrequency = 1_766_000_000
	rtlMinBandwidth = 225_001
	rtlMaxBandwidth = 3_200_000

	// 8-bit unsigned ADC centred on 127.5
	rtlFullScale = 128
	rtlZero      = 127.5

	// DefaultSettleSamples are discarded after every configuration change,
	// they were queued by the server under the previous tuning.
	DefaultSettleSamples = 16_384
)

// rtl_tcp command opcodes
const (
	cmdSetFrequency  byte = 0x01
	cmdSetSampleRate byte = 0x02
	cmdSetGainMode   byte = 0x03
	cmdSetGain       byte = 0x04
	cmdSetAGCMode    byte = 0x08
)

var (
	// ErrBadHandshake is returned when the server does not greet with the RTL0 magic
	ErrBadHandshake = errors.New("bad rtl_tcp handshake")
)

// DongleInfo is the greeting sent by rtl_tcp on connect
type DongleInfo struct {
	Magic      [4]byte
	TunerType  uint32
	GainLevels uint32
}

type command struct {
	Op    byte
	Param uint32
}

// WithLogger sets the logger for the rtl_tcp client
func WithLogger(logger *slog.Logger) func(*RTLTCP) {
	return func(r *RTLTCP) {
		r.logger = logger.With(slog.String("radio", "rtl_tcp"), slog.String("addr", r.addr))
	}
}

// WithSettleSamples sets how many samples are dropped after a retune
func WithSettleSamples(n int) func(*RTLTCP) {
	return func(r *RTLTCP) {
		r.settleSamples = n
	}
}

// RTLTCP is a Radio backed by an rtl_tcp server
type RTLTCP struct {
	addr   string
	conn   net.Conn
	reader *bufio.Reader
	info   DongleInfo

	frequency  int64
	bandwidth  int64
	bufferSize int
	buf        []byte

	settleSamples int
	stale         bool

	logger *slog.Logger
}

// DialRTLTCP connects to an rtl_tcp server and reads its greeting.
// The radio starts at 100 MHz with 1 MHz bandwidth once Retune and
// UpdateBandwidth are called; the server keeps its own defaults until then.
func DialRTLTCP(ctx context.Context, addr string, options ...func(*RTLTCP)) (*RTLTCP, error) {
	r := RTLTCP{
		addr:          addr,
		frequency:     100_000_000,
		bandwidth:     1_000_000,
		bufferSize:    defaultBufferSize,
		settleSamples: DefaultSettleSamples,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&r)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to rtl_tcp: %w", err)
	}

	r.conn = conn
	r.reader = bufio.NewReaderSize(conn, 1<<16)

	if err = binary.Read(r.reader, binary.BigEndian, &r.info); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("reading dongle info: %w", err)
	}
	if string(r.info.Magic[:]) != "RTL0" {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: magic %q", ErrBadHandshake, r.info.Magic[:])
	}

	r.logger.Info("connected",
		slog.Uint64("tuner", uint64(r.info.TunerType)),
		slog.Uint64("gainLevels", uint64(r.info.GainLevels)))

	return &r, nil
}

// Info returns the dongle greeting
func (r *RTLTCP) Info() DongleInfo { return r.info }

func (r *RTLTCP) Frequency() int64    { return r.frequency }
func (r *RTLTCP) Bandwidth() int64    { return r.bandwidth }
func (r *RTLTCP) MinFrequency() int64 { return rtlMinFrequency }
func (r *RTLTCP) MaxFrequency() int64 { return rtlMaxFrequency }
func (r *RTLTCP) MinBandwidth() int64 { return rtlMinBandwidth }
func (r *RTLTCP) MaxBandwidth() int64 { return rtlMaxBandwidth }
func (r *RTLTCP) FullScale() float64  { return rtlFullScale }

func (r *RTLTCP) send(op byte, param uint32) error {
	if r.conn == nil {
		return ErrClosed
	}
	if err := binary.Write(r.conn, binary.BigEndian, command{Op: op, Param: param}); err != nil {
		return fmt.Errorf("sending command 0x%02x: %w", op, err)
	}
	return nil
}

func (r *RTLTCP) Retune(hz int64) error {
	hz = Clamp(hz, rtlMinFrequency, rtlMaxFrequency)
	if err := r.send(cmdSetFrequency, uint32(hz)); err != nil {
		return err
	}
	r.frequency = hz
	r.stale = true
	return nil
}

func (r *RTLTCP) UpdateBandwidth(hz int64) error {
	hz = Clamp(hz, rtlMinBandwidth, rtlMaxBandwidth)
	if err := r.send(cmdSetSampleRate, uint32(hz)); err != nil {
		return err
	}
	r.bandwidth = hz
	r.stale = true
	return nil
}

func (r *RTLTCP) SetBufferSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("buffer size must be positive: %d", n)
	}
	r.bufferSize = n
	return nil
}

func (r *RTLTCP) SetGain(g Gain) error {
	if g.Auto() {
		if err := r.send(cmdSetGainMode, 0); err != nil {
			return err
		}
		return r.send(cmdSetAGCMode, 1)
	}

	if err := r.send(cmdSetAGCMode, 0); err != nil {
		return err
	}
	if err := r.send(cmdSetGainMode, 1); err != nil {
		return err
	}
	// rtl_tcp expects tenths of a dB
	return r.send(cmdSetGain, uint32(g.DB*10))
}

// Capture reads one buffer of 8-bit IQ pairs. The first capture after a
// configuration change drops everything queued under the old tuning first.
func (r *RTLTCP) Capture(ctx context.Context) (Sample, error) {
	if r.conn == nil {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetReadDeadline(deadline)
	} else {
		_ = r.conn.SetReadDeadline(time.Time{})
	}

	if r.stale {
		if err := r.settle(); err != nil {
			return nil, err
		}
		r.stale = false
	}

	size := 2 * r.bufferSize
	if cap(r.buf) < size {
		r.buf = make([]byte, size)
	}
	r.buf = r.buf[:size]

	if _, err := io.ReadFull(r.reader, r.buf); err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}

	return decodeIQ(r.buf), nil
}

func (r *RTLTCP) settle() error {
	discard := r.reader.Buffered() + 2*r.settleSamples
	if _, err := r.reader.Discard(discard); err != nil {
		return fmt.Errorf("discarding stale samples: %w", err)
	}
	r.logger.Debug("discarded stale samples", slog.Int("bytes", discard))
	return nil
}

// decodeIQ converts interleaved unsigned 8-bit I/Q bytes to complex samples
func decodeIQ(p []byte) Sample {
	out := make(Sample, len(p)/2)
	for i := range out {
		out[i] = complex(float64(p[2*i])-rtlZero, float64(p[2*i+1])-rtlZero)
	}
	return out
}

func (r *RTLTCP) Close() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}
