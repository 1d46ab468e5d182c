// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package message sits one layer above frame: it serializes application
// messages to frames and deserializes frames back to messages. A
// Messenger handles only a frame's payload (via SendT/RecvT type
// parameters); the Encoder/Framer pair that fixes a frame's byte layout is
// supplied separately. MessageRecver and MessageSender compose a Messenger
// with a frame.FrameReader/frame.FrameWriter to move whole messages.
package message

import (
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/status"
)

// Deserializer turns one received frame's bytes into a RecvT value.
type Deserializer[RecvT any] interface {
	Deserialize(f frame.Frame) (RecvT, error)
}

// Serializer turns a SendT value into wire bytes.
type Serializer[SendT any] interface {
	// EncodedLen returns the maximum number of bytes Serialize will need
	// for msg, used to size a reusable scratch buffer.
	EncodedLen(msg SendT) int
	// Serialize writes msg's wire payload (not including any frame header)
	// into dst and returns the number of bytes written.
	Serialize(dst []byte, msg SendT) (int, error)
}

// Messenger is the per-direction (de)serialization policy for one
// connection: SendT is the type this side transmits, RecvT the type it
// receives. A client's SendT equals the mirroring server's RecvT, and
// vice versa.
type Messenger[SendT, RecvT any] interface {
	Serializer[SendT]
	Deserializer[RecvT]
}

// MessageRecver wraps a frame.FrameReader, deserializing each complete
// frame into a RecvT value.
type MessageRecver[RecvT any] struct {
	fr *frame.FrameReader
	d  Deserializer[RecvT]
}

// NewMessageRecver builds a MessageRecver over fr using d to deserialize.
func NewMessageRecver[RecvT any](fr *frame.FrameReader, d Deserializer[RecvT]) *MessageRecver[RecvT] {
	return &MessageRecver[RecvT]{fr: fr, d: d}
}

// Recv reads at most one frame (one read syscall's worth of progress) and
// deserializes it if complete.
func (r *MessageRecver[RecvT]) Recv() (status.Recv[RecvT], error) {
	fs, err := r.fr.ReadFrame()
	if err != nil {
		return status.Recv[RecvT]{}, err
	}
	if fs.IsWouldBlock() {
		return status.RecvWouldBlock[RecvT](), nil
	}
	if fs.IsEOF() {
		return status.CompletedEOF[RecvT](), nil
	}
	f, _ := fs.Value()
	msg, derr := r.d.Deserialize(f)
	if derr != nil {
		return status.Recv[RecvT]{}, derr
	}
	return status.Completed(msg), nil
}

// Close shuts down the underlying FrameReader.
func (r *MessageRecver[RecvT]) Close() error { return r.fr.Close() }

// MessageSender wraps a frame.FrameWriter, serializing a SendT value into
// a reusable scratch buffer sized by MaxMsgSize and writing it as one
// frame.
type MessageSender[SendT any] struct {
	fw  *frame.FrameWriter
	s   Serializer[SendT]
	enc frame.Encoder

	payloadBuf []byte // reused scratch for the unframed payload
	frameBuf   []byte // reused scratch for the framed (header+payload) bytes
}

// NewMessageSender builds a MessageSender over fw, using s to serialize
// and enc to apply the matching wire framing. maxMsgSize bounds the
// reusable scratch buffers.
func NewMessageSender[SendT any](fw *frame.FrameWriter, s Serializer[SendT], enc frame.Encoder, maxMsgSize int) *MessageSender[SendT] {
	if maxMsgSize <= 0 {
		maxMsgSize = 4096
	}
	return &MessageSender[SendT]{
		fw:         fw,
		s:          s,
		enc:        enc,
		payloadBuf: make([]byte, maxMsgSize),
		frameBuf:   make([]byte, maxMsgSize),
	}
}

// Send serializes msg once into a reusable buffer and writes it as one
// frame. Serialization happens exactly once per call; frame.FrameWriter's
// own WriteFrame already resumes a partial write atomically, so Send never
// needs to re-serialize across retries.
func (s *MessageSender[SendT]) Send(msg SendT) (status.Send, error) {
	payloadCap := s.s.EncodedLen(msg)
	if payloadCap > len(s.payloadBuf) {
		s.payloadBuf = make([]byte, payloadCap)
	}
	n, err := s.s.Serialize(s.payloadBuf, msg)
	if err != nil {
		return status.SendWouldBlock, err
	}

	need := s.enc.EncodedLen(n)
	if need > len(s.frameBuf) {
		s.frameBuf = make([]byte, need)
	}
	if _, err := s.enc.Encode(s.frameBuf[:need], s.payloadBuf[:n]); err != nil {
		return status.SendWouldBlock, err
	}
	return s.fw.WriteFrame(s.frameBuf[:need])
}

// Close shuts down the underlying FrameWriter.
func (s *MessageSender[SendT]) Close() error { return s.fw.Close() }
