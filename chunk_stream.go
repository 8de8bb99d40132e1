package rtmp

// ChunkStreamState holds everything the decoder (or encoder) remembers about one chunk stream: the previous
// header, used to fill in the fields that abbreviated headers leave out, and the body of the message
// currently being reassembled.
//
// A chunk stream carries one message at a time, so the buffer never holds bytes from two messages.
type ChunkStreamState struct {
	id             uint32
	previousHeader *Header

	assembling bool
	// header of the message in progress, as decoded from its first chunk
	header     Header
	bodyLength uint32
	buffer     []byte
}

func newChunkStreamState(id uint32) *ChunkStreamState {
	return &ChunkStreamState{id: id}
}

// ID returns the chunk stream ID this state belongs to.
func (cs *ChunkStreamState) ID() uint32 {
	return cs.id
}

// PreviousHeader returns a copy of the last header recorded on this chunk stream, or false if there is none.
func (cs *ChunkStreamState) PreviousHeader() (Header, bool) {
	if cs.previousHeader == nil {
		return Header{}, false
	}
	return *cs.previousHeader, true
}

func (cs *ChunkStreamState) setPreviousHeader(h Header) {
	cs.previousHeader = &h
}

// inProgress is true while a message has been started but not all of its body has arrived.
func (cs *ChunkStreamState) inProgress() bool {
	return cs.assembling
}

// accumulated returns the number of body bytes received so far for the message in progress.
func (cs *ChunkStreamState) accumulated() uint32 {
	return uint32(len(cs.buffer))
}

func (cs *ChunkStreamState) remaining() uint32 {
	return cs.bodyLength - cs.accumulated()
}

// begin starts reassembly of the message described by h. The caller must have checked h.BodyLength against the
// session's safety maximum already.
//
// At most one chunk worth of buffer is reserved up front, the rest grows as body bytes actually arrive.
func (cs *ChunkStreamState) begin(h Header, chunkSize uint32) {
	cs.assembling = true
	cs.header = h
	cs.bodyLength = h.BodyLength
	cs.buffer = make([]byte, 0, min(h.BodyLength, chunkSize))
}

// appendChunk adds the body bytes of one physical chunk. It returns true once the declared body length has been
// reached, at which point the body can be collected with take.
func (cs *ChunkStreamState) appendChunk(p []byte, chunkSize uint32) (bool, error) {
	if !cs.assembling {
		return false, protocolErrorf("append chunk", ErrNoPreviousHeader, "csid %d has no message in progress", cs.id)
	}
	if uint32(len(p)) > chunkSize {
		return false, protocolErrorf("append chunk", ErrBodyOverflow,
			"csid %d: chunk carries %d bytes, chunk size is %d", cs.id, len(p), chunkSize)
	}
	if uint64(len(cs.buffer))+uint64(len(p)) > uint64(cs.bodyLength) {
		return false, protocolErrorf("append chunk", ErrBodyOverflow,
			"csid %d: %d bytes accumulated + %d, message length is %d", cs.id, len(cs.buffer), len(p), cs.bodyLength)
	}
	cs.buffer = append(cs.buffer, p...)
	return cs.accumulated() == cs.bodyLength, nil
}

// take hands off the header and the assembled body of the message, and resets the reassembly buffer.
func (cs *ChunkStreamState) take() (Header, []byte) {
	h, body := cs.header, cs.buffer
	cs.reset()
	return h, body
}

// reset discards any partially assembled message. The previous header is kept.
func (cs *ChunkStreamState) reset() {
	cs.assembling = false
	cs.header = Header{}
	cs.bodyLength = 0
	cs.buffer = nil
}
